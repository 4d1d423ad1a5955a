// Package config reads the scenario services' settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/repo"
)

// Config holds all environment-based configuration.
type Config struct {
	Port       string
	LogLevel   string
	CORSOrigin string

	RateLimitRPS   float64
	RateLimitBurst int

	LoaderRoot   string // MOCK_ITR_LOADER_PATH
	TemplatesDir string // explicit override of <root>/mock_lambda/templates

	Store repo.BackendConfig

	EventsSubject string // empty disables assignment events

	BreakerFailThreshold int
	BreakerTimeout       time.Duration
}

// Defaults for numeric settings.
const (
	DefaultRateLimitRPS   = 50
	DefaultRateLimitBurst = 100
	DefaultFailThreshold  = 5
	DefaultBreakerTimeout = 30 * time.Second
)

// Load reads the environment. Unparseable numbers and durations fall back
// to their defaults; each fallback is described in the returned warnings.
func Load() (Config, []string) {
	var warnings []string
	warn := func(key, val string, fallback any) {
		warnings = append(warnings, fmt.Sprintf("%s=%q is invalid, using %v", key, val, fallback))
	}

	cfg := Config{
		Port:          envOr("PORT", "8080"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		CORSOrigin:    envOr("CORS_ORIGIN", "*"),
		LoaderRoot:    os.Getenv("MOCK_ITR_LOADER_PATH"),
		TemplatesDir:  os.Getenv("TEMPLATES_DIR"),
		EventsSubject: envOr("NATS_EVENTS_SUBJECT", "scenario.assignments"),
		Store: repo.BackendConfig{
			Kind:      envOr("SCENARIO_STORE", repo.BackendDynamo),
			Table:     envOr("SCENARIO_TABLE_NAME", "mock-itr-scenarios"),
			Region:    envOr("AWS_REGION", "ap-northeast-2"),
			Endpoint:  os.Getenv("DYNAMODB_ENDPOINT_URL"),
			DSN:       envOr("DB_CONN_STRING", "postgres://localhost:5432/scenarios?sslmode=disable"),
			Neo4jURL:  envOr("NEO4J_URL", "neo4j://localhost:7687"),
			Neo4jUser: envOr("NEO4J_USER", "neo4j"),
			Neo4jPass: envOr("NEO4J_PASS", "password"),
			NATSURL:   envOr("NATS_URL", "nats://localhost:4222"),
			KVBucket:  envOr("NATS_KV_BUCKET", "mock-itr-scenarios"),
		},
	}
	if v, ok := os.LookupEnv("NATS_EVENTS_SUBJECT"); ok && v == "" {
		cfg.EventsSubject = ""
	}

	cfg.RateLimitRPS = DefaultRateLimitRPS
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.RateLimitRPS = f
		} else {
			warn("RATE_LIMIT_RPS", v, DefaultRateLimitRPS)
		}
	}
	cfg.RateLimitBurst = intOr("RATE_LIMIT_BURST", DefaultRateLimitBurst, warn)
	cfg.BreakerFailThreshold = intOr("BREAKER_FAIL_THRESHOLD", DefaultFailThreshold, warn)

	cfg.BreakerTimeout = DefaultBreakerTimeout
	if v := os.Getenv("BREAKER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.BreakerTimeout = d
		} else {
			warn("BREAKER_TIMEOUT", v, DefaultBreakerTimeout)
		}
	}
	return cfg, warnings
}

// Level maps LogLevel to a slog level. Unknown names mean info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intOr(key string, fallback int, warn func(string, string, any)) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		warn(key, v, fallback)
		return fallback
	}
	return n
}
