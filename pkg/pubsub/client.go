package pubsub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/config"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
)

// Role decides which resources a binary refuses to start without.
type Role int

const (
	// RolePublisher is the outbox relay: both topics must exist.
	RolePublisher Role = iota
	// RoleSubscriber is the notification worker: its subscription must exist.
	RoleSubscriber
)

var (
	errProjectIDRequired = errors.New("pubsub: gcp project id is required")
	errNotInitialized    = errors.New("pubsub: client not initialized")
)

// resource is a topic or subscription the client checks at startup.
type resource struct {
	kind string // "topics" or "subscriptions"
	name string
}

func (r resource) path(project string) string {
	name := strings.TrimSpace(r.name)
	switch {
	case name == "":
		return ""
	case strings.HasPrefix(name, "projects/") && strings.Contains(name, "/"+r.kind+"/"):
		return name
	case project == "":
		return ""
	}
	return "projects/" + project + "/" + r.kind + "/" + name
}

// required lists what role needs. Blank names are kept so Ping can report them.
func required(role Role, cfg config.PubSubConfig) []resource {
	if role == RoleSubscriber {
		return []resource{{kind: "subscriptions", name: cfg.NotificationSubscription}}
	}
	return []resource{
		{kind: "topics", name: cfg.DomainTopic},
		{kind: "topics", name: cfg.SMSTopic},
	}
}

// Client is a Pub/Sub v2 client bound to one project and role.
type Client struct {
	client  *pubsub.Client
	project string
	cfg     config.PubSubConfig
	role    Role
}

// NewClient dials Pub/Sub and fails unless every resource role needs exists.
func NewClient(ctx context.Context, gcp config.GCPConfig, cfg config.PubSubConfig, role Role, logg *logger.Logger) (*Client, error) {
	project := strings.TrimSpace(gcp.ProjectID)
	if project == "" {
		return nil, errProjectIDRequired
	}
	ps, err := pubsub.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("pubsub: dial: %w", err)
	}
	c := &Client{client: ps, project: project, cfg: cfg, role: role}
	if err := c.Ping(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}
	logg.Info(logg.WithField(ctx, "project_id", project), "pubsub.ready")
	return c, nil
}

// Ping confirms the resources the role needs still exist.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errNotInitialized
	}
	for _, res := range required(c.role, c.cfg) {
		if err := c.exists(ctx, res); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) exists(ctx context.Context, res resource) error {
	path := res.path(c.project)
	if path == "" {
		return fmt.Errorf("pubsub: %s name not configured", strings.TrimSuffix(res.kind, "s"))
	}
	var err error
	if res.kind == "topics" {
		_, err = c.client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: path})
	} else {
		_, err = c.client.SubscriptionAdminClient.GetSubscription(ctx, &pubsubpb.GetSubscriptionRequest{Subscription: path})
	}
	switch {
	case err == nil:
		return nil
	case status.Code(err) == codes.NotFound:
		return fmt.Errorf("pubsub: %s does not exist", path)
	default:
		return fmt.Errorf("pubsub: look up %s: %w", path, err)
	}
}

// Publisher returns a handle for a topic id or full resource name, or nil
// when the name is blank.
func (c *Client) Publisher(topic string) *pubsub.Publisher {
	if c == nil || c.client == nil {
		return nil
	}
	path := resource{kind: "topics", name: topic}.path(c.project)
	if path == "" {
		return nil
	}
	return c.client.Publisher(path)
}

// Subscription returns a subscriber for an id or full resource name.
func (c *Client) Subscription(name string) *pubsub.Subscriber {
	if c == nil || c.client == nil {
		return nil
	}
	path := resource{kind: "subscriptions", name: name}.path(c.project)
	if path == "" {
		return nil
	}
	return c.client.Subscriber(path)
}

// NotificationSubscription is the subscriber the notification worker drains.
func (c *Client) NotificationSubscription() *pubsub.Subscriber {
	return c.Subscription(c.cfg.NotificationSubscription)
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
