package config

const (
	EnvPrefix = "SAJAVATHUB"

	AppEnvDev     = "dev"
	AppEnvTest    = "test"
	AppEnvStaging = "staging"
	AppEnvProd    = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	EnvAppEnv    = "SAJAVATHUB_APP_ENV"
	EnvPort      = "SAJAVATHUB_APP_PORT"
	EnvDBDSN     = "SAJAVATHUB_DB_DSN"
	EnvDBDriver  = "SAJAVATHUB_DB_DRIVER"
	EnvDBHost    = "SAJAVATHUB_DB_HOST"
	EnvDBUser    = "SAJAVATHUB_DB_USER"
	EnvDBName    = "SAJAVATHUB_DB_NAME"
	EnvRedisURL  = "SAJAVATHUB_REDIS_URL"
	EnvJWTSecret = "SAJAVATHUB_JWT_SECRET"
	EnvJWTIssuer = "SAJAVATHUB_JWT_ISSUER"
	EnvOTPTTL    = "SAJAVATHUB_OTP_TTL"
	EnvCORS      = "SAJAVATHUB_CORS_ALLOWED_ORIGINS"
)

var appEnvs = []string{AppEnvDev, AppEnvTest, AppEnvStaging, AppEnvProd}

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
