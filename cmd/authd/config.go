package main

import "time"

const (
	storeMemory   = "memory"
	storeMongo    = "mongo"
	storePostgres = "postgres"
	storeRedis    = "redis"

	emailPostmark = "postmark"
	emailDev      = "dev"
)

// appConfig selects backends and identifies the deployment.
type appConfig struct {
	Env                string        `env:"APP_ENV" envDefault:"development"`
	Name               string        `env:"APP_NAME" envDefault:"authkit"`
	BaseURL            string        `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	StoreDriver        string        `env:"STORE_DRIVER" envDefault:"memory"`
	RefreshStoreDriver string        `env:"REFRESH_STORE_DRIVER"`
	EmailDriver        string        `env:"EMAIL_DRIVER" envDefault:"dev"`
	PurgeInterval      time.Duration `env:"REFRESH_PURGE_INTERVAL" envDefault:"1h"`
	RateLimitEnabled   bool          `env:"RATE_LIMIT_ENABLED" envDefault:"false"`
	TrustedIPHeaders   []string      `env:"TRUSTED_IP_HEADERS" envSeparator:","`
}
