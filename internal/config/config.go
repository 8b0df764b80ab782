package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from flags, environment and an optional .env file.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	RedisAddress    string
	CatalogAddress  string
	TimezoneName    string
	Location        *time.Location
	ProfitMargin    float64
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	LogLevel        slog.Level
}

const (
	defaultRunAddress      = ":8080"
	defaultEnvFile         = ".env"
	defaultTimezone        = "UTC"
	defaultProfitMargin    = 0.4
	defaultRequestTimeout  = 15 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultLogLevel        = "info"
)

// Load parses configuration from flags, environment variables and the env file.
func Load() (*Config, error) {
	path := defaultEnvFile
	if v, ok := os.LookupEnv("ENV_FILE"); ok && v != "" {
		path = v
	}
	fileValues, err := readEnvFile(path)
	if err != nil {
		return nil, err
	}
	return load(os.Args[1:], withFallback(os.LookupEnv, fileValues))
}

type envLookup func(string) (string, bool)

// withFallback prefers the process environment over values read from file.
func withFallback(primary envLookup, fallback map[string]string) envLookup {
	return func(key string) (string, bool) {
		if v, ok := primary(key); ok {
			return v, true
		}
		v, ok := fallback[key]
		return v, ok
	}
}

func readEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return values, nil
}

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		RedisAddress:    getString(lookup, "REDIS_ADDRESS", ""),
		CatalogAddress:  getString(lookup, "CATALOG_ADDRESS", ""),
		TimezoneName:    getString(lookup, "TIMEZONE", defaultTimezone),
		ProfitMargin:    getFloat(lookup, "PROFIT_MARGIN", defaultProfitMargin),
		RequestTimeout:  getDuration(lookup, "REQUEST_TIMEOUT", defaultRequestTimeout),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("posledger", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		requestTimeoutStr  = cfg.RequestTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		logLevelStr        = getString(lookup, "LOG_LEVEL", defaultLogLevel)
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for the replay cache (optional)")
	fs.StringVar(&cfg.CatalogAddress, "catalog", cfg.CatalogAddress, "Product catalog base URL (optional)")
	fs.StringVar(&cfg.TimezoneName, "tz", cfg.TimezoneName, "IANA timezone used for reporting periods")
	fs.Float64Var(&cfg.ProfitMargin, "profit-margin", cfg.ProfitMargin, "Net profit margin applied to revenue")
	fs.StringVar(&requestTimeoutStr, "request-timeout", requestTimeoutStr, "Per-request processing timeout")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&logLevelStr, "log-level", logLevelStr, "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.RequestTimeout, err = time.ParseDuration(requestTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid request timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	// The zone name is handed to PostgreSQL, which has no "Local".
	if strings.EqualFold(strings.TrimSpace(cfg.TimezoneName), "local") {
		return nil, fmt.Errorf("invalid timezone: %q is not an IANA zone name", cfg.TimezoneName)
	}

	if cfg.Location, err = time.LoadLocation(cfg.TimezoneName); err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.ProfitMargin < 0 || cfg.ProfitMargin > 1 {
		return nil, fmt.Errorf("profit margin must be within [0, 1], got %v", cfg.ProfitMargin)
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
