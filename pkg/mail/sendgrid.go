package mail

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/config"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
)

// Message is a single plain-text email.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Body    string
}

// Sender delivers transactional email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SendGridSender delivers mail through the SendGrid v3 API.
type SendGridSender struct {
	apiKey   string
	from     string
	fromName string
	logg     *logger.Logger
}

// NewSender returns a SendGrid sender, or a logging sender when no API key is
// configured.
func NewSender(cfg config.SendgridConfig, logg *logger.Logger) Sender {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return &LogSender{logg: logg}
	}
	return &SendGridSender{
		apiKey:   cfg.APIKey,
		from:     cfg.DefaultFrom,
		fromName: cfg.FromName,
		logg:     logg,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	if s.from == "" {
		return fmt.Errorf("from address is empty")
	}

	message := sgmail.NewSingleEmail(
		sgmail.NewEmail(s.fromName, s.from),
		msg.Subject,
		sgmail.NewEmail(msg.ToName, msg.ToEmail),
		msg.Body,
		"<pre>"+html.EscapeString(msg.Body)+"</pre>",
	)

	response, err := sendgrid.NewSendClient(s.apiKey).SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	if s.logg != nil {
		fields := map[string]any{"status": response.StatusCode, "subject": msg.Subject}
		s.logg.Info(s.logg.WithFields(ctx, fields), "mail sent")
	}
	return nil
}

// LogSender records messages instead of sending them.
type LogSender struct {
	logg *logger.Logger
	Sent []Message
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	s.Sent = append(s.Sent, msg)
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "subject", msg.Subject), "mail suppressed, no sendgrid api key")
	}
	return nil
}

func (m Message) validate() error {
	if strings.TrimSpace(m.ToEmail) == "" {
		return fmt.Errorf("to address is empty")
	}
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("subject is empty")
	}
	return nil
}
