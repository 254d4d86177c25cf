package migrate_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/models"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))
}

func TestOrdersMigrationGuardsInventoryAndMoney(t *testing.T) {
	catalog := readMigration(t, "*_create_catalog_tables.sql")
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS products",
		"inventory        BIGINT NOT NULL CHECK (inventory >= 0)",
		"price_inr        BIGINT NOT NULL CHECK (price_inr >= 0)",
	} {
		assert.Contains(t, catalog, sub)
	}

	vendors := readMigration(t, "*_create_vendor_onboarding_tables.sql")
	assert.Contains(t, vendors, "CREATE UNIQUE INDEX IF NOT EXISTS uq_vendors_gst_number")
	assert.Contains(t, vendors, "CREATE UNIQUE INDEX IF NOT EXISTS uq_vendors_mobile_number")
}

func TestMigrationsApplyOnSQLiteAndCoverModels(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	m, err := migrate.New(sqlDB, migrate.DialectFor("sqlite"), "migrations", logger.Nop())
	require.NoError(t, err)
	require.NoError(t, m.Up(context.Background()))

	version, err := m.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(20261001090600), version)

	for _, model := range models.All() {
		stmt := &gorm.Statement{DB: conn}
		require.NoError(t, stmt.Parse(model))
		assert.True(t, conn.Migrator().HasTable(stmt.Schema.Table), "missing table %s", stmt.Schema.Table)
		for _, field := range stmt.Schema.Fields {
			if field.DBName == "" {
				continue
			}
			assert.True(t, conn.Migrator().HasColumn(model, field.DBName), "missing column %s.%s", stmt.Schema.Table, field.DBName)
		}
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Vendor City!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_vendor_city.sql"))
	require.NoError(t, migrate.ValidateDir(dir))

	_, err = migrate.CreateSQLMigration(dir, "  !!  ")
	assert.Error(t, err)
}

func TestValidateDirReportsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("20260101000000_ok.sql", "-- +goose Up\n-- +goose Down\n")
	write("20260101000000_dup.sql", "-- +goose Up\n-- +goose Down\n")
	write("bad-name.sql", "-- +goose Up\n")
	write("20260102000000_no_down.sql", "-- +goose Up\n")

	err := migrate.ValidateDir(dir)
	require.Error(t, err)
	for _, want := range []string{"already used", "bad-name.sql", "missing \"-- +goose Down\""} {
		assert.Contains(t, err.Error(), want)
	}
	assert.Error(t, migrate.ValidateDir(t.TempDir()))
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, goose.DialectSQLite3, migrate.DialectFor("sqlite"))
	assert.Equal(t, goose.DialectSQLite3, migrate.DialectFor("SQLite"))
	assert.Equal(t, goose.DialectPostgres, migrate.DialectFor("postgres"))
	assert.Equal(t, goose.DialectPostgres, migrate.DialectFor(""))
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no migration matching %s", pattern)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return string(data)
}
