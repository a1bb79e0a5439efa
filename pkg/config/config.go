package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/angelmondragon/orderinsights/pkg/enums"
)

type Config struct {
	App       AppConfig
	Dataset   DatasetConfig
	DB        DBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	GCP       GCPConfig
	BigQuery  BigQueryConfig
	GCS       GCSConfig
	PubSub    PubSubConfig
	Refresh   RefreshConfig

	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Dataset.validate(); err != nil {
		return nil, err
	}
	if cfg.Dataset.Source == enums.DatasetSourceGCS && strings.TrimSpace(cfg.GCS.Bucket) == "" {
		return nil, fmt.Errorf("%s is required for the gcs source", EnvGCSBucket)
	}
	if cfg.Dataset.Source.UsesDB() {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// RequireDB resolves the database DSN for commands that always need a
// database, whatever the dataset source.
func (c *Config) RequireDB() error {
	return c.DB.ensureDSN()
}

type AppConfig struct {
	Env          string `envconfig:"ORDERINSIGHTS_APP_ENV" required:"true"`
	Port         string `envconfig:"ORDERINSIGHTS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ORDERINSIGHTS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ORDERINSIGHTS_LOG_WARN_STACK" default:"false"`

	CORSOrigins     []string      `envconfig:"ORDERINSIGHTS_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:8501"`
	ShutdownTimeout time.Duration `envconfig:"ORDERINSIGHTS_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DatasetConfig selects where the order table is loaded from and how it is keyed.
type DatasetConfig struct {
	Source            enums.DatasetSource `envconfig:"ORDERINSIGHTS_DATASET_SOURCE" default:"csv"`
	CSVPath           string              `envconfig:"ORDERINSIGHTS_DATASET_CSV_PATH" default:"main_data.csv"`
	Table             string              `envconfig:"ORDERINSIGHTS_DATASET_TABLE" default:"order_lines"`
	CustomerKeyLength int                 `envconfig:"ORDERINSIGHTS_CUSTOMER_KEY_LENGTH" default:"5"`
	ReloadInterval    time.Duration       `envconfig:"ORDERINSIGHTS_DATASET_RELOAD_INTERVAL" default:"0"`
	LoadTimeout       time.Duration       `envconfig:"ORDERINSIGHTS_DATASET_LOAD_TIMEOUT" default:"2m"`
}

func (d DatasetConfig) validate() error {
	if !d.Source.IsValid() {
		return fmt.Errorf("%s: unsupported dataset source %q", EnvDatasetSource, d.Source)
	}
	if d.CustomerKeyLength <= 0 {
		return fmt.Errorf("%s must be positive", EnvCustomerKeyLength)
	}
	readsCSV := d.Source == enums.DatasetSourceCSV || d.Source == enums.DatasetSourceGCS
	if readsCSV && strings.TrimSpace(d.CSVPath) == "" {
		return fmt.Errorf("%s is required for the %s source", EnvDatasetCSVPath, d.Source)
	}
	if d.ReloadInterval < 0 {
		return fmt.Errorf("%s must not be negative", EnvDatasetReloadInterval)
	}
	return nil
}

type DBConfig struct {
	DSN    string `envconfig:"ORDERINSIGHTS_DB_DSN"`
	Driver string `envconfig:"ORDERINSIGHTS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ORDERINSIGHTS_DB_HOST"`
	LegacyPort     int    `envconfig:"ORDERINSIGHTS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ORDERINSIGHTS_DB_USER"`
	LegacyPassword string `envconfig:"ORDERINSIGHTS_DB_PASSWORD"`
	LegacyName     string `envconfig:"ORDERINSIGHTS_DB_NAME"`
	LegacySSLMode  string `envconfig:"ORDERINSIGHTS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ORDERINSIGHTS_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"ORDERINSIGHTS_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"ORDERINSIGHTS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ORDERINSIGHTS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is sqlite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"ORDERINSIGHTS_REDIS_URL"`
	Address      string        `envconfig:"ORDERINSIGHTS_REDIS_ADDR"`
	Password     string        `envconfig:"ORDERINSIGHTS_REDIS_PASSWORD"`
	DB           int           `envconfig:"ORDERINSIGHTS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ORDERINSIGHTS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ORDERINSIGHTS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ORDERINSIGHTS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ORDERINSIGHTS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ORDERINSIGHTS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type RateLimitConfig struct {
	Window time.Duration `envconfig:"ORDERINSIGHTS_RATE_LIMIT_WINDOW" default:"1m"`
	Limit  int           `envconfig:"ORDERINSIGHTS_RATE_LIMIT_LIMIT" default:"120"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"ORDERINSIGHTS_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"ORDERINSIGHTS_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"ORDERINSIGHTS_GOOGLE_APPLICATION_CREDENTIALS"`
}

type BigQueryConfig struct {
	Dataset     string `envconfig:"ORDERINSIGHTS_BIGQUERY_DATASET" default:"ecommerce"`
	OrdersTable string `envconfig:"ORDERINSIGHTS_BIGQUERY_ORDERS_TABLE" default:"order_lines"`
}

// GCSConfig names the bucket holding the CSV export. The object name is
// the dataset CSV path.
type GCSConfig struct {
	Bucket string `envconfig:"ORDERINSIGHTS_GCS_BUCKET"`
}

type PubSubConfig struct {
	RefreshSubscription string `envconfig:"ORDERINSIGHTS_PUBSUB_REFRESH_SUBSCRIPTION"`
}

// Enabled reports whether dataset refresh notifications should be consumed.
func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.RefreshSubscription) != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ORDERINSIGHTS_AUTO_MIGRATE" default:"false"`
}

type RefreshConfig struct {
	IdempotencyTTL time.Duration `envconfig:"ORDERINSIGHTS_REFRESH_IDEMPOTENCY_TTL" default:"72h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
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
