package config

// EnvPrefix namespaces every variable read by envconfig.
const EnvPrefix = "SELLERDESK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "SELLERDESK_APP_ENV"
	EnvPort     = "SELLERDESK_APP_PORT"
	EnvLogLevel = "SELLERDESK_LOG_LEVEL"

	EnvDBDSN  = "SELLERDESK_DB_DSN"
	EnvDBHost = "SELLERDESK_DB_HOST"
	EnvDBUser = "SELLERDESK_DB_USER"
	EnvDBName = "SELLERDESK_DB_NAME"

	EnvRedisURL = "SELLERDESK_REDIS_URL"

	EnvJWTSecret  = "SELLERDESK_JWT_SECRET"
	EnvJWTIssuer  = "SELLERDESK_JWT_ISSUER"
	EnvJWTExpMins = "SELLERDESK_JWT_EXPIRATION_MINUTES"

	EnvUseSQLite   = "SELLERDESK_USE_SQLITE"
	EnvStockPolicy = "SELLERDESK_ORDERS_STOCK_POLICY"

	EnvBestClientsLimit = "SELLERDESK_REPORTS_BEST_CLIENTS_LIMIT"
	EnvBestSellersLimit = "SELLERDESK_REPORTS_BEST_SELLERS_LIMIT"
	EnvReportsCacheTTL  = "SELLERDESK_REPORTS_CACHE_TTL"

	EnvGCPProjectID       = "SELLERDESK_GCP_PROJECT_ID"
	EnvPubSubOrdersTopic  = "SELLERDESK_PUBSUB_ORDERS_TOPIC"
	EnvOutboxMaxAttempts  = "SELLERDESK_OUTBOX_MAX_ATTEMPTS"
	EnvOutboxPublishBatch = "SELLERDESK_OUTBOX_PUBLISH_BATCH_SIZE"

	EnvCronInterval      = "SELLERDESK_CRON_INTERVAL"
	EnvCronRetentionDays = "SELLERDESK_CRON_OUTBOX_RETENTION_DAYS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
