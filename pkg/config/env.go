package config

// EnvPrefix is handed to envconfig; every field carries an explicit key.
const EnvPrefix = "ORDERINSIGHTS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "ORDERINSIGHTS_APP_ENV"
	EnvPort     = "ORDERINSIGHTS_APP_PORT"
	EnvLogLevel = "ORDERINSIGHTS_LOG_LEVEL"

	EnvDatasetSource         = "ORDERINSIGHTS_DATASET_SOURCE"
	EnvDatasetCSVPath        = "ORDERINSIGHTS_DATASET_CSV_PATH"
	EnvDatasetTable          = "ORDERINSIGHTS_DATASET_TABLE"
	EnvCustomerKeyLength     = "ORDERINSIGHTS_CUSTOMER_KEY_LENGTH"
	EnvDatasetReloadInterval = "ORDERINSIGHTS_DATASET_RELOAD_INTERVAL"

	EnvDBDSN    = "ORDERINSIGHTS_DB_DSN"
	EnvDBDriver = "ORDERINSIGHTS_DB_DRIVER"
	EnvDBHost   = "ORDERINSIGHTS_DB_HOST"
	EnvDBUser   = "ORDERINSIGHTS_DB_USER"
	EnvDBName   = "ORDERINSIGHTS_DB_NAME"

	EnvRedisURL    = "ORDERINSIGHTS_REDIS_URL"
	EnvAutoMigrate = "ORDERINSIGHTS_AUTO_MIGRATE"

	EnvGCPProjectID           = "ORDERINSIGHTS_GCP_PROJECT_ID"
	EnvBigQueryDataset        = "ORDERINSIGHTS_BIGQUERY_DATASET"
	EnvBigQueryOrdersTable    = "ORDERINSIGHTS_BIGQUERY_ORDERS_TABLE"
	EnvGCSBucket              = "ORDERINSIGHTS_GCS_BUCKET"
	EnvPubSubRefreshSubscribe = "ORDERINSIGHTS_PUBSUB_REFRESH_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
