package config

import (
	"os"
	"testing"
	"time"

	"github.com/angelmondragon/orderinsights/pkg/enums"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if cfg.Dataset.Source != enums.DatasetSourceCSV {
		t.Fatalf("expected csv source, got %q", cfg.Dataset.Source)
	}
	if cfg.Dataset.CSVPath != "testdata/orders.csv" {
		t.Fatalf("unexpected csv path %q", cfg.Dataset.CSVPath)
	}
	if cfg.Dataset.CustomerKeyLength != 5 {
		t.Fatalf("expected default customer key length 5, got %d", cfg.Dataset.CustomerKeyLength)
	}
	if cfg.RateLimit.Window != time.Minute {
		t.Fatalf("expected default rate limit window 1m, got %v", cfg.RateLimit.Window)
	}
	if cfg.Redis.Enabled() {
		t.Fatal("redis should be disabled without url or address")
	}
	if cfg.PubSub.Enabled() {
		t.Fatal("pubsub refresh should be disabled without a subscription")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RejectsUnknownSource(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvDatasetSource, "parquet")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown dataset source to fail")
	}
}

func TestLoad_RejectsNonPositiveKeyLength(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCustomerKeyLength, "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected zero customer key length to fail")
	}
}

func TestLoad_DBSourceBuildsLegacyDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvDatasetSource, "db")
	t.Setenv(EnvDBHost, "localhost")
	t.Setenv(EnvDBUser, "insights")
	t.Setenv(EnvDBName, "orders")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	want := "postgres://insights@localhost:5432/orders?sslmode=disable"
	if cfg.DB.DSN != want {
		t.Fatalf("expected dsn %q, got %q", want, cfg.DB.DSN)
	}
}

func TestLoad_DBSourceRequiresConnectionInfo(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvDatasetSource, "db")

	if _, err := Load(); err == nil {
		t.Fatal("expected db source without dsn to fail")
	}
}

func TestLoad_GCSSourceRequiresBucket(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvDatasetSource, "gcs")
	t.Setenv(EnvGCSBucket, "")

	if _, err := Load(); err == nil {
		t.Fatal("expected gcs source without bucket to fail")
	}

	t.Setenv(EnvGCSBucket, "olist-exports")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.GCS.Bucket != "olist-exports" {
		t.Fatalf("unexpected bucket %q", cfg.GCS.Bucket)
	}
}

func TestRequireDB(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if err := cfg.RequireDB(); err == nil {
		t.Fatal("expected RequireDB to fail without connection info")
	}

	cfg.DB.DSN = "postgres://insights@localhost:5432/orders"
	if err := cfg.RequireDB(); err != nil {
		t.Fatalf("RequireDB() returned unexpected error: %v", err)
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvDatasetSource, "csv")
	t.Setenv(EnvDatasetCSVPath, "testdata/orders.csv")
	t.Setenv(EnvCustomerKeyLength, "5")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
