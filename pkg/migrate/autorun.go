package migrate

import (
	"context"
	"fmt"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/config"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
)

// MaybeRunDev brings a dev database up to date on boot when
// SAJAVATHUB_AUTO_MIGRATE is set. Other environments migrate through
// cmd/migrate.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("sql handle: %w", err)
	}

	dialect := DialectFor(cfg.DB.Driver)
	ctx = logg.WithFields(ctx, map[string]any{"dir": DefaultDir, "dialect": string(dialect)})
	m, err := New(sqlDB, dialect, DefaultDir, logg)
	if err != nil {
		return err
	}
	logg.Info(ctx, "dev auto-migrate starting")
	if err := m.Up(ctx); err != nil {
		return err
	}
	logg.Info(ctx, "dev auto-migrate finished")
	return nil
}
