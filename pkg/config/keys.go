package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// MIRSAL_-prefixed names so the prefix stays informational.
const EnvPrefix = "mirsal"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv       = "MIRSAL_APP_ENV"
	EnvPort         = "MIRSAL_APP_PORT"
	EnvDBDSN        = "MIRSAL_DB_DSN"
	EnvDBHost       = "MIRSAL_DB_HOST"
	EnvDBUser       = "MIRSAL_DB_USER"
	EnvDBName       = "MIRSAL_DB_NAME"
	EnvRedisURL     = "MIRSAL_REDIS_URL"
	EnvGCPProjectID = "MIRSAL_GCP_PROJECT_ID"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
