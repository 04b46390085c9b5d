package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	LogLevel    string

	OTLPEndpoint    string
	MetricsExporter string
	MetricsAddr     string

	SnowflakeNode int64

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
	MigrateOnStart    bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Tax TaxEngineConfig
}

// TaxEngineConfig selects the provider and the document cache in front of it.
type TaxEngineConfig struct {
	Provider     string
	CacheBackend string
	CacheTTL     time.Duration
	// JurisdictionTTL bounds how long a store's jurisdictions stay cached.
	JurisdictionTTL time.Duration
}

const (
	CacheBackendNone   = "none"
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"

	ProviderJurisdictionRates = "jurisdiction-rates"
	ProviderNoTax             = "no-tax"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:           getenv("APP_SERVICE", "taxengine"),
		AppVersion:        getenv("APP_VERSION", "0.1.0"),
		Environment:       getenv("ENVIRONMENT", "development"),
		LogLevel:          strings.ToLower(getenv("LOG_LEVEL", "info")),
		OTLPEndpoint:      getenv("OTLP_ENDPOINT", "localhost:4317"),
		MetricsExporter:   strings.ToLower(getenv("METRICS_EXPORTER", "")),
		MetricsAddr:       getenv("METRICS_ADDR", ":2112"),
		SnowflakeNode:     getenvInt64("SNOWFLAKE_NODE", 1),
		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "postgres"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 300),
		MigrateOnStart:    getenvBool("MIGRATE_ON_START", false),
		RedisAddr:         getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getenv("REDIS_PASSWORD", ""),
		RedisDB:           getenvInt("REDIS_DB", 0),
		Tax: TaxEngineConfig{
			Provider:        normalizeProvider(getenv("TAX_PROVIDER", ProviderJurisdictionRates)),
			CacheBackend:    normalizeCacheBackend(getenv("TAX_CACHE_BACKEND", CacheBackendMemory)),
			CacheTTL:        time.Duration(getenvInt("TAX_CACHE_TTL_SECONDS", 900)) * time.Second,
			JurisdictionTTL: time.Duration(getenvInt("TAX_JURISDICTION_TTL_SECONDS", 300)) * time.Second,
		},
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ProviderNoTax:
		return ProviderNoTax
	default:
		return ProviderJurisdictionRates
	}
}

func normalizeCacheBackend(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case CacheBackendNone, "off", "disabled":
		return CacheBackendNone
	case CacheBackendRedis:
		return CacheBackendRedis
	default:
		return CacheBackendMemory
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt(key string, def int) int {
	return int(getenvInt64(key, int64(def)))
}
