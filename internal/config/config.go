package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

const (
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type config struct {
	Production       bool          `env:"PRODUCTION" envDefault:"false"`
	Port             string        `env:"PORT" envDefault:"80"`
	Storage          string        `env:"STORAGE" envDefault:"redis"`
	PostgresUrl      string        `env:"POSTGRES_URL" envDefault:""`
	RedisUrl         string        `env:"REDIS_URL" envDefault:"redis:6379"`
	Timezone         string        `env:"TIMEZONE" envDefault:"Local"`
	ClientSecretPath string        `env:"CLIENT_SECRET_PATH" envDefault:"secrets/client_secret.json"`
	RedirectURL      string        `env:"REDIRECT_URL" envDefault:""`
	ClientType       string        `env:"CLIENT_TYPE" envDefault:"web"`
	ReminderSchedule string        `env:"REMINDER_SCHEDULE" envDefault:"@every 1m"`
	ReminderLead     time.Duration `env:"REMINDER_LEAD" envDefault:"15m"`
	MetricsEnabled   bool          `env:"METRICS_ENABLED" envDefault:"true"`
}

var (
	conf     config
	location *time.Location
)

func init() {
	// a missing .env is fine, the environment may be set by other means
	_ = godotenv.Load()

	if err := env.Parse(&conf); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	if err := validate(&conf); err != nil {
		panic(fmt.Sprintf("invalid config: %v", err))
	}

	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		panic(fmt.Sprintf("failed to load timezone %q: %v", conf.Timezone, err))
	}
	location = loc
}

func validate(c *config) error {
	switch c.Storage {
	case StorageRedis, StorageMemory:
	case StoragePostgres:
		if c.PostgresUrl == "" {
			return fmt.Errorf("POSTGRES_URL is required for %s storage", StoragePostgres)
		}
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}

	if c.ReminderLead < 0 {
		return fmt.Errorf("REMINDER_LEAD must not be negative")
	}

	return nil
}

func Production() bool {
	return conf.Production
}

func Port() string {
	return conf.Port
}

func Storage() string {
	return conf.Storage
}

func PostgresURL() string {
	return conf.PostgresUrl
}

func RedisURL() string {
	return conf.RedisUrl
}

// Location is the time zone events are displayed and evaluated in.
func Location() *time.Location {
	return location
}

func ClientSecretPath() string {
	return conf.ClientSecretPath
}

func RedirectURL() string {
	return conf.RedirectURL
}

func ClientType() string {
	return conf.ClientType
}

func ReminderSchedule() string {
	return conf.ReminderSchedule
}

func ReminderLead() time.Duration {
	return conf.ReminderLead
}

func MetricsEnabled() bool {
	return conf.MetricsEnabled
}
