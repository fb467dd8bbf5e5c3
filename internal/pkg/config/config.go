package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Credential store backends.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API         APIConfig
	Credentials CredentialsConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	Orders      OrdersConfig
}

type APIConfig struct {
	BaseURL   string        `env:"API_BASE_URL,   default=http://localhost:8000"`
	Timeout   time.Duration `env:"API_TIMEOUT,    default=30s"`
	RateLimit float64       `env:"API_RATE_LIMIT, default=0"`
	RateBurst int           `env:"API_RATE_BURST, default=1"`
}

type CredentialsConfig struct {
	Store string `env:"CREDENTIAL_STORE, default=file"`
	File  string `env:"CREDENTIAL_FILE,  default=.orderdesk/credentials.json"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=orderdesk"`
}

// RedisConfig leaves Redis disabled while Addr is empty.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type OrdersConfig struct {
	TransitionWorkers  int `env:"TRANSITION_WORKERS,   default=4"`
	DashboardBatchSize int `env:"DASHBOARD_BATCH_SIZE, default=1000"`
	RecentOrders       int `env:"RECENT_ORDERS,        default=10"`
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration through lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Credentials.Store {
	case StoreFile, StoreMemory, StoreMongo:
	case StoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("CREDENTIAL_STORE=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown CREDENTIAL_STORE %q", c.Credentials.Store)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL must not be empty")
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("API_RATE_LIMIT must not be negative")
	}
	return nil
}
