package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Tracking     TrackingConfig
	Scoring      ScoringConfig
	Webhook      WebhookConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MIRSAL_APP_ENV" required:"true"`
	Port         string `envconfig:"MIRSAL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MIRSAL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MIRSAL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"MIRSAL_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MIRSAL_DB_DSN"`
	Driver string `envconfig:"MIRSAL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MIRSAL_DB_HOST"`
	LegacyPort     int    `envconfig:"MIRSAL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MIRSAL_DB_USER"`
	LegacyPassword string `envconfig:"MIRSAL_DB_PASSWORD"`
	LegacyName     string `envconfig:"MIRSAL_DB_NAME"`
	LegacySSLMode  string `envconfig:"MIRSAL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MIRSAL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MIRSAL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MIRSAL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MIRSAL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MIRSAL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MIRSAL_REDIS_ADDR"`
	Password     string        `envconfig:"MIRSAL_REDIS_PASSWORD"`
	DB           int           `envconfig:"MIRSAL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MIRSAL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MIRSAL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MIRSAL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MIRSAL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MIRSAL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// TrackingConfig carries the staleness thresholds of the risk detector. The
// 48h/72h defaults are exact cutoffs, no hysteresis.
type TrackingConfig struct {
	DelayWarningAfter  time.Duration `envconfig:"MIRSAL_TRACKING_DELAY_WARNING_AFTER" default:"48h"`
	CriticalDelayAfter time.Duration `envconfig:"MIRSAL_TRACKING_CRITICAL_DELAY_AFTER" default:"72h"`
	AppendRetries      int           `envconfig:"MIRSAL_TRACKING_APPEND_RETRIES" default:"3"`
	BulkMaxItems       int           `envconfig:"MIRSAL_TRACKING_BULK_MAX_ITEMS" default:"1000"`
	StatusCacheTTL     time.Duration `envconfig:"MIRSAL_TRACKING_STATUS_CACHE_TTL" default:"5m"`
}

// ScoringConfig parameterizes the carrier scorer. Defaults reproduce the
// published scoring model: 48h baseline, 96h window, 0.3/0.5/0.2 weights.
type ScoringConfig struct {
	SpeedBaselineHours float64 `envconfig:"MIRSAL_SCORING_SPEED_BASELINE_HOURS" default:"48"`
	SpeedWindowHours   float64 `envconfig:"MIRSAL_SCORING_SPEED_WINDOW_HOURS" default:"96"`
	SpeedWeight        float64 `envconfig:"MIRSAL_SCORING_SPEED_WEIGHT" default:"0.3"`
	ReliabilityWeight  float64 `envconfig:"MIRSAL_SCORING_RELIABILITY_WEIGHT" default:"0.5"`
	ReturnRateWeight   float64 `envconfig:"MIRSAL_SCORING_RETURN_RATE_WEIGHT" default:"0.2"`
}

// WebhookConfig controls inbound carrier webhook verification. The signature
// tolerance is a replay-protection window and must stay at ±5 minutes.
type WebhookConfig struct {
	SignatureTolerance time.Duration `envconfig:"MIRSAL_WEBHOOK_SIGNATURE_TOLERANCE" default:"5m"`
	IdempotencyTTL     time.Duration `envconfig:"MIRSAL_WEBHOOK_IDEMPOTENCY_TTL" default:"24h"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"MIRSAL_CRON_INTERVAL" default:"1h"`
	LockKey  string        `envconfig:"MIRSAL_CRON_LOCK_KEY" default:"mirsal:cron:leader"`
	LockTTL  time.Duration `envconfig:"MIRSAL_CRON_LOCK_TTL" default:"55m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MIRSAL_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"MIRSAL_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"MIRSAL_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"MIRSAL_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	AutomationTopic string `envconfig:"MIRSAL_PUBSUB_AUTOMATION_TOPIC" default:"mirsal-automation-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"MIRSAL_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"MIRSAL_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"MIRSAL_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
