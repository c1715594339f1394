package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	envcfg "github.com/Skotchmaster/beads_storefront/pkg/config"
)

type Config struct {
	ServiceName string
	ListenAddr  string
	LogLevel    string

	APIBaseURL string
	APITimeout time.Duration

	CookieSecure bool
	LoginPath    string

	ItemStoreBackend string
	DatabaseURL      string
	RedisURL         string
	ItemTTL          time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	LoginRPS   float64
	LoginBurst int
}

// Load reads the process environment, optionally seeded from envFile.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("Notice: %s not loaded: %v. Using system environment variables", envFile, err)
		}
	}

	cfg := Config{
		ServiceName: envcfg.EnvDefault("SERVICE_NAME", "storefront"),
		ListenAddr:  envcfg.EnvDefault("LISTEN_ADDR", ":8080"),
		LogLevel:    envcfg.EnvDefault("LOG_LEVEL", "info"),

		APIBaseURL: envcfg.EnvDefault("API_BASE_URL", ""),
		APITimeout: envcfg.EnvDurationDefault("API_TIMEOUT", 5*time.Second),

		CookieSecure: envcfg.EnvBoolDefault("COOKIE_SECURE", false),
		LoginPath:    envcfg.EnvDefault("LOGIN_PATH", "/login"),

		ItemStoreBackend: envcfg.EnvDefault("ITEMSTORE_BACKEND", "memory"),
		DatabaseURL:      envcfg.EnvDefault("DATABASE_URL", ""),
		RedisURL:         envcfg.EnvDefault("REDIS_URL", ""),
		ItemTTL:          envcfg.EnvDurationDefault("ITEMSTORE_TTL", 30*24*time.Hour),

		KafkaBrokers: envcfg.CSV(envcfg.EnvDefault("KAFKA_BROKERS", "")),
		KafkaTopic:   envcfg.EnvDefault("KAFKA_TOPIC", "storefront_events"),

		ESURL:      envcfg.EnvDefault("ES_URL", ""),
		ESUser:     envcfg.EnvDefault("ES_USER", ""),
		ESPassword: envcfg.EnvDefault("ES_PASSWORD", ""),
		ESIndex:    envcfg.EnvDefault("ES_INDEX", "products"),

		LoginRPS:   envcfg.EnvFloatDefault("LOGIN_RPS", 1),
		LoginBurst: envcfg.EnvIntDefault("LOGIN_BURST", 5),
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if err := envcfg.RequireNonEmpty(c.APIBaseURL, "API_BASE_URL"); err != nil {
		errs = append(errs, err)
	}
	switch c.ItemStoreBackend {
	case "memory":
	case "postgres", "sqlite":
		if err := envcfg.RequireNonEmpty(c.DatabaseURL, "DATABASE_URL"); err != nil {
			errs = append(errs, err)
		}
	case "redis":
		if err := envcfg.RequireNonEmpty(c.RedisURL, "REDIS_URL"); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ITEMSTORE_BACKEND %q", c.ItemStoreBackend))
	}
	return errors.Join(errs...)
}
