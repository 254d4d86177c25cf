package config

import (
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	OTP          OTPConfig
	RateLimit    RateLimitConfig
	Idempotency  IdempotencyConfig
	FeatureFlags FeatureFlagsConfig
	Eventing     EventingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Sendgrid     SendgridConfig
	CORS         CORSConfig
	Metrics      MetricsConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.App.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SAJAVATHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"SAJAVATHUB_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SAJAVATHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SAJAVATHUB_LOG_WARN_STACK" default:"false"`
}

// normalize lower-cases Env and rejects names outside appEnvs.
func (a *AppConfig) normalize() error {
	env := strings.ToLower(strings.TrimSpace(a.Env))
	if !slices.Contains(appEnvs, env) {
		return fmt.Errorf("%s must be one of %s, got %q", EnvAppEnv, strings.Join(appEnvs, ", "), a.Env)
	}
	a.Env = env
	return nil
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

type ServiceConfig struct {
	Kind string `envconfig:"SAJAVATHUB_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SAJAVATHUB_DB_DSN"`
	Driver string `envconfig:"SAJAVATHUB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SAJAVATHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"SAJAVATHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SAJAVATHUB_DB_USER"`
	LegacyPassword string `envconfig:"SAJAVATHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"SAJAVATHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"SAJAVATHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SAJAVATHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SAJAVATHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SAJAVATHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SAJAVATHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"SAJAVATHUB_DB_SLOW_QUERY" default:"500ms"`
}

// IsSQLite reports whether the configured driver is the embedded sqlite store.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"SAJAVATHUB_REDIS_URL"`
	Address      string        `envconfig:"SAJAVATHUB_REDIS_ADDR"`
	Password     string        `envconfig:"SAJAVATHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"SAJAVATHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SAJAVATHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SAJAVATHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SAJAVATHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SAJAVATHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SAJAVATHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SAJAVATHUB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SAJAVATHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SAJAVATHUB_JWT_EXPIRATION_MINUTES" default:"60"`
}

// OTPConfig controls one-time code issuance for vendor onboarding.
type OTPConfig struct {
	CodeLength int           `envconfig:"SAJAVATHUB_OTP_CODE_LENGTH" default:"6"`
	TTL        time.Duration `envconfig:"SAJAVATHUB_OTP_TTL" default:"5m"`
	DevEcho    bool          `envconfig:"SAJAVATHUB_OTP_DEV_ECHO" default:"false"`

	ArgonMemoryKB    int `envconfig:"SAJAVATHUB_OTP_ARGON_MEMORY_KB" default:"19456"`
	ArgonTime        int `envconfig:"SAJAVATHUB_OTP_ARGON_TIME" default:"2"`
	ArgonParallelism int `envconfig:"SAJAVATHUB_OTP_ARGON_PARALLELISM" default:"1"`
	ArgonSaltLen     int `envconfig:"SAJAVATHUB_OTP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SAJAVATHUB_OTP_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	OTPWindow       time.Duration `envconfig:"SAJAVATHUB_RATE_LIMIT_OTP_WINDOW" default:"10m"`
	OTPMobileLimit  int           `envconfig:"SAJAVATHUB_RATE_LIMIT_OTP_MOBILE_LIMIT" default:"3"`
	OTPIPLimit      int           `envconfig:"SAJAVATHUB_RATE_LIMIT_OTP_IP_LIMIT" default:"20"`
	VerifyWindow    time.Duration `envconfig:"SAJAVATHUB_RATE_LIMIT_VERIFY_WINDOW" default:"10m"`
	VerifyMobileLim int           `envconfig:"SAJAVATHUB_RATE_LIMIT_VERIFY_MOBILE_LIMIT" default:"5"`
	VerifyIPLimit   int           `envconfig:"SAJAVATHUB_RATE_LIMIT_VERIFY_IP_LIMIT" default:"30"`
}

type IdempotencyConfig struct {
	TTL         time.Duration `envconfig:"SAJAVATHUB_IDEMPOTENCY_TTL" default:"24h"`
	CheckoutTTL time.Duration `envconfig:"SAJAVATHUB_IDEMPOTENCY_CHECKOUT_TTL" default:"168h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SAJAVATHUB_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	ConsumerIdempotencyTTL time.Duration `envconfig:"SAJAVATHUB_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"SAJAVATHUB_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	DomainTopic              string `envconfig:"SAJAVATHUB_PUBSUB_DOMAIN_TOPIC" default:"sajavathub-domain-events"`
	SMSTopic                 string `envconfig:"SAJAVATHUB_PUBSUB_SMS_TOPIC" default:"sajavathub-sms-requests"`
	NotificationSubscription string `envconfig:"SAJAVATHUB_PUBSUB_NOTIFICATION_SUBSCRIPTION" default:"sajavathub-notifications"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"SAJAVATHUB_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"SAJAVATHUB_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"SAJAVATHUB_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"SAJAVATHUB_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"SAJAVATHUB_SENDGRID_FROM_EMAIL" default:"no-reply@sajavathub.com"`
	FromName    string `envconfig:"SAJAVATHUB_SENDGRID_FROM_NAME" default:"SajavatHub"`
}

// MetricsConfig is the listener the background workers expose /metrics on.
// The api serves /metrics on its own router.
type MetricsConfig struct {
	Addr string `envconfig:"SAJAVATHUB_METRICS_ADDR" default:":9090"`
}

// CronConfig drives the maintenance worker.
type CronConfig struct {
	Interval            time.Duration `envconfig:"SAJAVATHUB_CRON_INTERVAL" default:"1h"`
	OutboxRetentionDays int           `envconfig:"SAJAVATHUB_CRON_OUTBOX_RETENTION_DAYS" default:"30"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SAJAVATHUB_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,https://sajavathub.com"`
}

// ensureDSN fills DSN from the discrete SAJAVATHUB_DB_* parts when it was not
// given directly. SQLite falls back to a local file.
func (db *DBConfig) ensureDSN() error {
	switch {
	case db.DSN != "":
		return nil
	case db.IsSQLite():
		db.DSN = "file:sajavathub.db?cache=shared"
		return nil
	}

	parts := map[string]string{EnvDBHost: db.LegacyHost, EnvDBUser: db.LegacyUser, EnvDBName: db.LegacyName}
	var missing []string
	for _, env := range legacyDBEnvVars {
		if parts[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("set %s, or all of %s", EnvDBDSN, strings.Join(missing, ", "))
	}

	user := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		user = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}
	dsn := url.URL{
		Scheme: "postgres",
		User:   user,
		Host:   net.JoinHostPort(db.LegacyHost, strconv.Itoa(db.LegacyPort)),
		Path:   "/" + db.LegacyName,
	}
	if db.LegacySSLMode != "" {
		dsn.RawQuery = url.Values{"sslmode": {db.LegacySSLMode}}.Encode()
	}
	db.DSN = dsn.String()
	return nil
}
