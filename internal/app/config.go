package app

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:"127.0.0.1:8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// DataDir is where the ledger database lives. Everything persists locally;
	// there is no external database server.
	DataDir string `envconfig:"DATA_DIR" default:"./data"`

	// TrashWindow bounds how long a deleted job can be undone.
	TrashWindow time.Duration `envconfig:"TRASH_WINDOW" default:"30s"`

	// RedisAddr points the cache and task broker at an external Redis. Empty
	// starts an embedded in-process instance so the app stays self-contained.
	RedisAddr string        `envconfig:"REDIS_ADDR" default:""`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	ReminderScanSpec string `envconfig:"REMINDER_SCAN_SPEC" default:"@every 1h"`
	LowStockScanSpec string `envconfig:"LOW_STOCK_SCAN_SPEC" default:"@every 6h"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
