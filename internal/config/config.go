// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Persistence backends.
const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server      ServerConfig
	Persistence PersistenceConfig
	Supabase    SupabaseConfig
	Database    DatabaseConfig
	Lookup      LookupConfig
	Rate        RateLimitConfig
	Security    SecurityConfig
	Logging     LoggingConfig
	Metrics     MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// PersistenceConfig selects where employee rows live.
type PersistenceConfig struct {
	// Backend is "rest" (Supabase PostgREST) or "postgres" (direct pgx pool)
	Backend string `env:"PERSISTENCE_BACKEND" default:"rest"`

	// Table is the employee table name (default: funcionarios)
	Table string `env:"EMPLOYEES_TABLE" default:"funcionarios"`
}

// SupabaseConfig holds the PostgREST endpoint settings.
//
// URL and Key are not validated here; a missing value surfaces when the
// client is constructed.
type SupabaseConfig struct {
	// URL is the project URL, e.g. https://xyz.supabase.co
	URL string `env:"SUPABASE_URL" envAlt:"VITE_SUPABASE_URL"`

	// Key is the anon or service-role API key
	Key string `env:"SUPABASE_KEY" envAlt:"VITE_SUPABASE_KEY"`

	// Schema selects a non-public schema through the profile headers
	Schema string `env:"SUPABASE_SCHEMA"`

	// Timeout bounds a single PostgREST request (default: 15s)
	Timeout time.Duration `env:"SUPABASE_TIMEOUT" default:"15s"`
}

// DatabaseConfig holds database connection settings for the postgres backend.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required for the postgres backend)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// LookupConfig holds postal-code lookup settings.
type LookupConfig struct {
	// BaseURL is the ViaCEP endpoint (default: https://viacep.com.br/ws/)
	BaseURL string `env:"CEP_BASE_URL" default:"https://viacep.com.br/ws/"`

	// Timeout bounds one lookup (default: 10s)
	Timeout time.Duration `env:"CEP_TIMEOUT" default:"10s"`

	// RateLimitRPS caps outbound lookups per second; 0 disables (default: 5)
	RateLimitRPS float64 `env:"CEP_RATE_LIMIT_RPS" default:"5"`

	// RateLimitBurst is the outbound burst size (default: 5)
	RateLimitBurst int `env:"CEP_RATE_LIMIT_BURST" default:"5"`

	// CacheRedisAddr enables the Redis lookup cache when set (host:port)
	CacheRedisAddr string `env:"CEP_CACHE_REDIS_ADDR"`

	// CacheRedisPassword authenticates to Redis
	CacheRedisPassword string `env:"CEP_CACHE_REDIS_PASSWORD"`

	// CacheRedisDB selects the Redis database (default: 0)
	CacheRedisDB int `env:"CEP_CACHE_REDIS_DB" default:"0"`

	// CacheTTL is how long a resolved address is kept (default: 24h)
	CacheTTL time.Duration `env:"CEP_CACHE_TTL" default:"24h"`

	// CachePrefix namespaces the cache keys (default: cep)
	CachePrefix string `env:"CEP_CACHE_PREFIX" default:"cep"`
}

// RateLimitConfig holds inbound rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the sustained rate per client IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// Burst is how many requests a client may make at once (default: 20)
	Burst int `env:"RATE_LIMIT_BURST" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes the metrics endpoint (default: true)
	Enabled bool `env:"METRICS_ENABLED" default:"true"`

	// Path is where metrics are served (default: /metrics)
	Path string `env:"METRICS_PATH" default:"/metrics"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
