package config

import (
	"errors"
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"

	"github.com/josh-kwaku/ledger-sync/internal/logging"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
	StorageDriverMemory   = "memory"
)

type Config struct {
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"ledger.db"`
	Port          int    `env:"PORT" envDefault:"5000"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv        string `env:"APP_ENV" envDefault:"production"`

	UpstreamBaseURL            string        `env:"UPSTREAM_BASE_URL" envDefault:"https://efatura.etrsoft.com/fmi/data/v1/databases/testdb"`
	UpstreamLayout             string        `env:"UPSTREAM_LAYOUT" envDefault:"testdb"`
	UpstreamRecordID           string        `env:"UPSTREAM_RECORD_ID" envDefault:"1"`
	UpstreamScript             string        `env:"UPSTREAM_SCRIPT" envDefault:"getData"`
	UpstreamUsername           string        `env:"UPSTREAM_USERNAME,required"`
	UpstreamPassword           string        `env:"UPSTREAM_PASSWORD,required"`
	UpstreamTimeout            time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"30s"`
	UpstreamInsecureSkipVerify bool          `env:"UPSTREAM_INSECURE_SKIP_VERIFY" envDefault:"false"`

	SyncInterval  time.Duration `env:"SYNC_INTERVAL" envDefault:"5m"`
	SyncOnStartup bool          `env:"SYNC_ON_STARTUP" envDefault:"true"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"ledger.sync.completed"`

	DBMaxOpenConns     int  `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int  `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int  `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int  `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
	DBConnectAttempts  int  `env:"DB_CONNECT_ATTEMPTS" envDefault:"30"`
	DBAutoMigrate      bool `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORAGE_DRIVER=postgres"))
		}
	case StorageDriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required when STORAGE_DRIVER=sqlite"))
		}
	case StorageDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if c.UpstreamBaseURL == "" {
		errs = append(errs, errors.New("UPSTREAM_BASE_URL is required"))
	}
	if c.SyncInterval <= 0 {
		errs = append(errs, fmt.Errorf("SYNC_INTERVAL must be positive, got %s", c.SyncInterval))
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		errs = append(errs, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set"))
	}

	return errors.Join(errs...)
}
