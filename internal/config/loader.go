package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config captures the settings of the petpal server.
type Config struct {
	HTTPPort       int
	StorageBackend string
	SQLiteDSN      string
	SearchCacheTTL time.Duration
	LogLevel       string
	SitterCatalog  string
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		HTTPPort:       8080,
		StorageBackend: BackendSQLite,
		SQLiteDSN:      "file:petpal.db",
		SearchCacheTTL: 30 * time.Second,
		LogLevel:       "info",
	}
}

// Load reads configuration from PETPAL_* environment variables and, when
// configFile is not empty, from that YAML file.
func Load(configFile string) (Config, error) {
	return LoadWith(viper.New(), configFile)
}

// LoadWith is Load on a caller supplied viper instance, so command flags bound
// to it take precedence over environment and file values.
//
// Invalid values are collected and reported together rather than failing on
// the first one.
func LoadWith(v *viper.Viper, configFile string) (Config, error) {
	defaults := Defaults()
	v.SetEnvPrefix("PETPAL")
	v.AutomaticEnv()
	v.SetDefault("http_port", strconv.Itoa(defaults.HTTPPort))
	v.SetDefault("storage_backend", defaults.StorageBackend)
	v.SetDefault("sqlite_dsn", defaults.SQLiteDSN)
	v.SetDefault("search_cache_ttl", defaults.SearchCacheTTL.String())
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("sitter_catalog", "")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	cfg := defaults
	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 3)

	if portValue := strings.TrimSpace(v.GetString("http_port")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "PETPAL_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	switch backend := strings.ToLower(strings.TrimSpace(v.GetString("storage_backend"))); backend {
	case BackendSQLite, BackendMemory:
		cfg.StorageBackend = backend
	default:
		invalid = append(invalid, "PETPAL_STORAGE_BACKEND")
	}

	cfg.SQLiteDSN = strings.TrimSpace(v.GetString("sqlite_dsn"))
	if cfg.StorageBackend == BackendSQLite && cfg.SQLiteDSN == "" {
		missing = append(missing, "PETPAL_SQLITE_DSN")
	}

	if ttlValue := strings.TrimSpace(v.GetString("search_cache_ttl")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl < 0 {
			invalid = append(invalid, "PETPAL_SEARCH_CACHE_TTL")
		} else {
			cfg.SearchCacheTTL = ttl
		}
	}

	switch level := strings.ToLower(strings.TrimSpace(v.GetString("log_level"))); level {
	case "debug", "info", "warn", "warning", "error":
		cfg.LogLevel = level
	default:
		invalid = append(invalid, "PETPAL_LOG_LEVEL")
	}

	cfg.SitterCatalog = strings.TrimSpace(v.GetString("sitter_catalog"))

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required settings are missing: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("settings have invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
