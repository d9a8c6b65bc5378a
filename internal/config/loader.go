package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers accepted by DESKS_STORAGE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config captures environment driven configuration values for the reservation service.
type Config struct {
	HTTPPort        int
	StorageDriver   string
	SQLitePath      string
	PostgresURL     string
	JWTSecret       string
	JWTIssuer       string
	JWTTTL          time.Duration
	KafkaBrokers    []string
	KafkaTopic      string
	Receptionists   []string
	RequestTimeout  time.Duration
	CatalogCacheTTL time.Duration
	LogLevel        string
}

// LoadWithDotenv reads the given .env files (".env" when none are named)
// into the process environment and then calls Load. Variables already set
// in the environment win, and missing files are skipped.
func LoadWithDotenv(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}
	return Load()
}

// Load parses configuration values from the current process environment.
//
// Optional fields get defaults. Every missing or malformed variable is
// collected and reported in one error.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:        8080,
		StorageDriver:   DriverSQLite,
		SQLitePath:      "desk-reservation.db",
		JWTIssuer:       "desk-reservation",
		JWTTTL:          72 * time.Hour,
		KafkaTopic:      "desk-reservation.events",
		RequestTimeout:  15 * time.Second,
		CatalogCacheTTL: 5 * time.Minute,
		LogLevel:        "info",
	}

	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 4)

	if portValue := env("DESKS_HTTP_PORT"); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "DESKS_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if driver := strings.ToLower(env("DESKS_STORAGE_DRIVER")); driver != "" {
		switch driver {
		case DriverSQLite, DriverPostgres:
			cfg.StorageDriver = driver
		default:
			invalid = append(invalid, "DESKS_STORAGE_DRIVER")
		}
	}

	if path := env("DESKS_SQLITE_PATH"); path != "" {
		cfg.SQLitePath = path
	}

	cfg.PostgresURL = env("DESKS_POSTGRES_URL")
	if cfg.StorageDriver == DriverPostgres && cfg.PostgresURL == "" {
		missing = append(missing, "DESKS_POSTGRES_URL")
	}

	if secret := env("DESKS_JWT_SECRET"); secret == "" {
		missing = append(missing, "DESKS_JWT_SECRET")
	} else {
		cfg.JWTSecret = secret
	}

	if issuer := env("DESKS_JWT_ISSUER"); issuer != "" {
		cfg.JWTIssuer = issuer
	}

	parseDuration("DESKS_JWT_TTL", &cfg.JWTTTL, &invalid)
	parseDuration("DESKS_REQUEST_TIMEOUT", &cfg.RequestTimeout, &invalid)
	parseDuration("DESKS_CATALOG_CACHE_TTL", &cfg.CatalogCacheTTL, &invalid)

	cfg.KafkaBrokers = splitList(env("DESKS_KAFKA_BROKERS"))
	if topic := env("DESKS_KAFKA_TOPIC"); topic != "" {
		cfg.KafkaTopic = topic
	}

	cfg.Receptionists = splitList(env("DESKS_RECEPTIONISTS"))
	for _, email := range cfg.Receptionists {
		if !strings.Contains(email, "@") {
			invalid = append(invalid, "DESKS_RECEPTIONISTS")
			break
		}
	}

	if level := strings.ToLower(env("DESKS_LOG_LEVEL")); level != "" {
		switch level {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = level
		default:
			invalid = append(invalid, "DESKS_LOG_LEVEL")
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// KafkaEnabled reports whether events should go to Kafka.
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func parseDuration(key string, target *time.Duration, invalid *[]string) {
	value := env(key)
	if value == "" {
		return
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		*invalid = append(*invalid, key)
		return
	}
	*target = d
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
