package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Orders        OrdersConfig
	Reports       ReportsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Cron          CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Orders.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SELLERDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"SELLERDESK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SELLERDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SELLERDESK_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"SELLERDESK_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits the comma separated CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	origins := []string{}
	for _, origin := range strings.Split(a.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

type DBConfig struct {
	DSN    string `envconfig:"SELLERDESK_DB_DSN"`
	Driver string `envconfig:"SELLERDESK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SELLERDESK_DB_HOST"`
	LegacyPort     int    `envconfig:"SELLERDESK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SELLERDESK_DB_USER"`
	LegacyPassword string `envconfig:"SELLERDESK_DB_PASSWORD"`
	LegacyName     string `envconfig:"SELLERDESK_DB_NAME"`
	LegacySSLMode  string `envconfig:"SELLERDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SELLERDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SELLERDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SELLERDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SELLERDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver targets SQLite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), "sqlite")
}

// RedisConfig is optional: an empty URL and address disables idempotency,
// auth rate limiting and the report cache.
type RedisConfig struct {
	URL          string        `envconfig:"SELLERDESK_REDIS_URL"`
	Address      string        `envconfig:"SELLERDESK_REDIS_ADDR"`
	Password     string        `envconfig:"SELLERDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"SELLERDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SELLERDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SELLERDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SELLERDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SELLERDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SELLERDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"SELLERDESK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SELLERDESK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SELLERDESK_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SELLERDESK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SELLERDESK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SELLERDESK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SELLERDESK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SELLERDESK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SELLERDESK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SELLERDESK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SELLERDESK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SELLERDESK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SELLERDESK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SELLERDESK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SELLERDESK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SELLERDESK_AUTO_MIGRATE" default:"false"`
}

type OrdersConfig struct {
	StockPolicy string `envconfig:"SELLERDESK_ORDERS_STOCK_POLICY" default:"no_restore"`
}

func (o OrdersConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(o.StockPolicy)) {
	case "no_restore", "restore":
		return nil
	}
	return fmt.Errorf("invalid %s %q (expected no_restore or restore)", EnvStockPolicy, o.StockPolicy)
}

type ReportsConfig struct {
	BestClientsLimit int           `envconfig:"SELLERDESK_REPORTS_BEST_CLIENTS_LIMIT" default:"10"`
	BestSellersLimit int           `envconfig:"SELLERDESK_REPORTS_BEST_SELLERS_LIMIT" default:"5"`
	CacheTTL         time.Duration `envconfig:"SELLERDESK_REPORTS_CACHE_TTL" default:"30s"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"SELLERDESK_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"SELLERDESK_PUBSUB_ORDERS_TOPIC" default:"sellerdesk-order-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"SELLERDESK_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"SELLERDESK_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"SELLERDESK_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

// CronConfig drives the maintenance worker.
type CronConfig struct {
	Interval            time.Duration `envconfig:"SELLERDESK_CRON_INTERVAL" default:"1h"`
	LockTTL             time.Duration `envconfig:"SELLERDESK_CRON_LOCK_TTL" default:"2h"`
	OutboxRetentionDays int           `envconfig:"SELLERDESK_CRON_OUTBOX_RETENTION_DAYS" default:"30"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = "sqlite"
		if db.DSN == "" {
			db.DSN = "file:sellerdesk.db?cache=shared"
		}
		return nil
	}
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
