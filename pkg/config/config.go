package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	App     AppConfig
	Server  ServerConfig
	Redis   RedisConfig
	Session SessionConfig
	Latency LatencyConfig
	Seed    SeedConfig
	CORS    CORSConfig
	OTEL    OTELConfig
}

// AppConfig holds process-wide settings
type AppConfig struct {
	Name        string
	Environment string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Session backends
const (
	SessionBackendMemory = "memory"
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
)

// SessionConfig holds session store configuration
type SessionConfig struct {
	Backend   string
	FilePath  string
	LoadDelay time.Duration
}

// LatencyConfig holds the simulated delay applied before each operation
// resolves. Zero disables the delay for that operation.
type LatencyConfig struct {
	List     time.Duration // full listings and review lookups
	Filter   time.Duration // filtered listings and single lookups
	Write    time.Duration // creates and updates
	Login    time.Duration
	Register time.Duration
	Payment  time.Duration
}

// SeedConfig holds the fixture location
type SeedConfig struct {
	// File overrides the embedded default fixture when set
	File string
}

// CORSConfig controls which browser origins may call the API
type CORSConfig struct {
	// AllowedOrigins lists exact origins; "*" admits any origin
	AllowedOrigins []string
	// MaxAge is how long a browser may cache a preflight answer
	MaxAge time.Duration
}

// DefaultCORS admits the frontend dev server.
func DefaultCORS() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"http://localhost:5173"},
		MaxAge:         10 * time.Minute,
	}
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// DefaultLatency mirrors the response times of the hosted demo.
func DefaultLatency() LatencyConfig {
	return LatencyConfig{
		List:     500 * time.Millisecond,
		Filter:   300 * time.Millisecond,
		Write:    500 * time.Millisecond,
		Login:    700 * time.Millisecond,
		Register: 1000 * time.Millisecond,
		Payment:  2000 * time.Millisecond,
	}
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cors := DefaultCORS()
	latency := LatencyConfig{}
	if getEnvAsBool("LATENCY_ENABLED", true) {
		def := DefaultLatency()
		latency = LatencyConfig{
			List:     getEnvAsDuration("LATENCY_LIST", def.List),
			Filter:   getEnvAsDuration("LATENCY_FILTER", def.Filter),
			Write:    getEnvAsDuration("LATENCY_WRITE", def.Write),
			Login:    getEnvAsDuration("LATENCY_LOGIN", def.Login),
			Register: getEnvAsDuration("LATENCY_REGISTER", def.Register),
			Payment:  getEnvAsDuration("LATENCY_PAYMENT", def.Payment),
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "campusmove"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			Backend:   getEnv("SESSION_BACKEND", SessionBackendFile),
			FilePath:  getEnv("SESSION_FILE", ".campusmove/session.json"),
			LoadDelay: getEnvAsDuration("SESSION_LOAD_DELAY", 500*time.Millisecond),
		},
		Latency: latency,
		Seed: SeedConfig{
			File: getEnv("SEED_FILE", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", cors.AllowedOrigins),
			MaxAge:         getEnvAsDuration("CORS_MAX_AGE", cors.MaxAge),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "campusmove"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	switch cfg.Session.Backend {
	case SessionBackendMemory, SessionBackendFile:
	case SessionBackendRedis:
		if !cfg.Redis.Enabled {
			return nil, fmt.Errorf("SESSION_BACKEND=redis requires REDIS_ENABLED=true")
		}
	default:
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.Session.Backend)
	}

	return cfg, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated value, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
