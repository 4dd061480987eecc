package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Get returns the trimmed value of key, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Lookup is Get that keeps an explicitly empty value.
// DEFAULT_CRS= disables the default reference system, for example.
func Lookup(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return strings.TrimSpace(v)
}

// GetInt parses key as a positive integer, falling back on absence or error.
func GetInt(key string, fallback int) int {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		logrus.WithFields(logrus.Fields{"key": key, "value": raw}).
			Warnf("invalid positive integer, using default %d", fallback)
		return fallback
	}
	return n
}

// GetDuration parses key with time.ParseDuration, falling back on absence or error.
func GetDuration(key string, fallback time.Duration) time.Duration {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logrus.WithFields(logrus.Fields{"key": key, "value": raw}).
			Warnf("invalid duration, using default %s", fallback)
		return fallback
	}
	return d
}

// Settings shared by the server and the CLI.
type Settings struct {
	Port             string
	DatabaseURL      string
	RedisAddr        string
	CacheTTL         time.Duration
	DefaultCRS       string
	BatchConcurrency int
	BatchSize        int
	LogLevel         string
	SeedPath         string
}

// Load reads Settings from the environment.
func Load() Settings {
	return Settings{
		Port:             Get("PORT", "8080"),
		DatabaseURL:      Get("DATABASE_URL", ""),
		RedisAddr:        Get("REDIS_ADDR", ""),
		CacheTTL:         GetDuration("CACHE_TTL", 24*time.Hour),
		DefaultCRS:       Lookup("DEFAULT_CRS", "EPSG:4326"),
		BatchConcurrency: GetInt("BATCH_CONCURRENCY", 8),
		BatchSize:        GetInt("BATCH_SIZE", 500),
		LogLevel:         Get("LOG_LEVEL", "info"),
		SeedPath:         Get("SEED_PATH", ""),
	}
}
