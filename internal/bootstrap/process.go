// Package bootstrap is the startup and shutdown sequence shared by the
// binaries under cmd/.
package bootstrap

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/config"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/metrics"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/migrate"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/redis"
)

type closer struct {
	what  string
	close func() error
}

// Process carries the config, logger and metrics registry of one binary and
// closes what it opened in reverse order.
type Process struct {
	Name     string
	Config   *config.Config
	Logger   *logger.Logger
	Registry *prometheus.Registry

	exit    func(code int)
	closers []closer
}

// Start loads .env when present, then config, and builds the logger at the
// configured level. It exits the process when config does not load.
func Start(name string) *Process {
	p := &Process{Name: name, Logger: logger.New(logger.Options{ServiceName: name}), exit: os.Exit}
	if err := godotenv.Load(); err != nil {
		p.Logger.Debug(context.Background(), "no .env file")
	}
	cfg, err := config.Load()
	p.Must(context.Background(), "config", err)
	cfg.Service.Kind = name
	p.Config = cfg
	p.Logger = logger.New(logger.Options{
		ServiceName: name,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	p.Registry = prometheus.NewRegistry()
	p.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// Must logs err against the named dependency and exits non-zero.
func (p *Process) Must(ctx context.Context, what string, err error) {
	if err == nil {
		return
	}
	p.Logger.Error(p.Logger.WithField(ctx, "dependency", what), "startup failed", err)
	p.Close()
	p.exit(1)
}

// Defer registers fn to run on Close.
func (p *Process) Defer(what string, fn func() error) {
	p.closers = append(p.closers, closer{what: what, close: fn})
}

// Close runs the registered closers newest first.
func (p *Process) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		c := p.closers[i]
		if err := c.close(); err != nil {
			p.Logger.Error(p.Logger.WithField(context.Background(), "dependency", c.what), "close failed", err)
		}
	}
	p.closers = nil
}

// Database opens the primary store and, in dev with auto-migrate on, brings
// the schema up to date.
func (p *Process) Database(ctx context.Context) *db.Client {
	client, err := db.New(ctx, p.Config.DB, p.Logger)
	p.Must(ctx, "database", err)
	p.Defer("database", client.Close)
	p.Must(ctx, "migrations", migrate.MaybeRunDev(ctx, p.Config, p.Logger, client))
	return client
}

func (p *Process) Redis(ctx context.Context) *redis.Client {
	client, err := redis.New(ctx, p.Config.Redis, p.Logger)
	p.Must(ctx, "redis", err)
	p.Defer("redis", client.Close)
	return client
}

// Loop is a long-running unit of work that returns when ctx ends.
type Loop func(ctx context.Context) error

// Run runs loops until SIGINT/SIGTERM or until one of them returns. Workers
// pass withMetrics so /metrics gets its own listener; the API serves it on
// its router instead. Run closes the process before returning.
func (p *Process) Run(fields map[string]any, withMetrics bool, loops ...Loop) {
	defer p.Close()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	fields["env"] = p.Config.App.Env
	fields["service"] = p.Name
	ctx = p.Logger.WithFields(ctx, fields)
	p.Logger.Info(ctx, "process.start")

	group, groupCtx := errgroup.WithContext(ctx)
	if withMetrics {
		group.Go(func() error { return metrics.Serve(groupCtx, p.Config.Metrics.Addr, p.Registry) })
	}
	for _, loop := range loops {
		group.Go(func() error {
			defer stop()
			return loop(groupCtx)
		})
	}
	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		p.Logger.Error(ctx, "process.failed", err)
		p.Close()
		p.exit(1)
		return
	}
	p.Logger.Info(ctx, "process.stop")
}
