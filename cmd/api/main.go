package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/caffeinepub/sajavathub-com-sub000/api/routes"
	"github.com/caffeinepub/sajavathub-com-sub000/internal/bootstrap"
	"github.com/caffeinepub/sajavathub-com-sub000/internal/catalog"
	"github.com/caffeinepub/sajavathub-com-sub000/internal/designers"
	"github.com/caffeinepub/sajavathub-com-sub000/internal/orders"
	"github.com/caffeinepub/sajavathub-com-sub000/internal/projects"
	"github.com/caffeinepub/sajavathub-com-sub000/internal/roompackages"
	"github.com/caffeinepub/sajavathub-com-sub000/internal/users"
	"github.com/caffeinepub/sajavathub-com-sub000/internal/vendors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/clock"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/config"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/metrics"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/outbox"
)

const shutdownTimeout = 15 * time.Second

func main() {
	proc := bootstrap.Start("api")
	ctx := context.Background()
	cfg := proc.Config

	dbClient := proc.Database(ctx)
	redisClient := proc.Redis(ctx)

	deps, err := buildServices(cfg, proc.Logger, dbClient, proc.Registry)
	proc.Must(ctx, "services", err)
	deps.DB = dbClient
	deps.Cache = redisClient
	deps.Registry = proc.Registry

	// PORT wins so the platform router can assign one.
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           routes.NewRouter(cfg, proc.Logger, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	proc.Run(map[string]any{"addr": server.Addr}, false, serve(server))
}

// serve runs server until ctx ends, then drains in-flight requests.
func serve(server *http.Server) bootstrap.Loop {
	return func(ctx context.Context) error {
		failed := make(chan error, 1)
		go func() {
			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				failed <- err
			}
			close(failed)
		}()
		select {
		case err := <-failed:
			return err
		case <-ctx.Done():
		}
		drain, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(drain)
	}
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, reg prometheus.Registerer) (routes.Deps, error) {
	gormDB := dbClient.DB()
	clk := clock.NewMonotonic()
	emitter := outbox.NewService(outbox.NewRepository(gormDB), logg)
	domainMetrics := metrics.NewDomainMetrics(reg)

	usersSvc, err := users.NewService(users.NewRepository(gormDB), clk, logg)
	if err != nil {
		return routes.Deps{}, err
	}

	catalogRepo := catalog.NewRepository(gormDB)
	catalogSvc, err := catalog.NewService(catalogRepo, usersSvc, clk, logg)
	if err != nil {
		return routes.Deps{}, err
	}

	packagesSvc, err := roompackages.NewService(roompackages.NewRepository(gormDB), catalogSvc, usersSvc, clk, logg)
	if err != nil {
		return routes.Deps{}, err
	}

	projectsSvc, err := projects.NewService(projects.Deps{
		Repo:     projects.NewRepository(gormDB),
		Tx:       dbClient,
		Outbox:   emitter,
		Packages: packagesSvc,
		Profiles: usersSvc,
		Authz:    usersSvc,
		Clock:    clk,
		Logger:   logg,
	})
	if err != nil {
		return routes.Deps{}, err
	}

	designersSvc, err := designers.NewService(designers.NewRepository(gormDB), projectsSvc, usersSvc, clk, logg)
	if err != nil {
		return routes.Deps{}, err
	}

	ordersSvc, err := orders.NewService(orders.Deps{
		Repo:      orders.NewRepository(gormDB),
		Tx:        dbClient,
		Inventory: catalogRepo,
		Outbox:    emitter,
		Authz:     usersSvc,
		Clock:     clk,
		Metrics:   domainMetrics,
		Logger:    logg,
	})
	if err != nil {
		return routes.Deps{}, err
	}

	vendorsSvc, err := vendors.NewService(vendors.Deps{
		Repo:     vendors.NewRepository(gormDB),
		Tx:       dbClient,
		Outbox:   emitter,
		Authz:    usersSvc,
		Clock:    clk,
		OTP:      cfg.OTP,
		EchoCode: cfg.App.IsDev() && cfg.OTP.DevEcho,
		Metrics:  domainMetrics,
		Logger:   logg,
	})
	if err != nil {
		return routes.Deps{}, err
	}

	return routes.Deps{
		Catalog:      catalogSvc,
		RoomPackages: packagesSvc,
		Designers:    designersSvc,
		Projects:     projectsSvc,
		Orders:       ordersSvc,
		Vendors:      vendorsSvc,
		Users:        usersSvc,
	}, nil
}
