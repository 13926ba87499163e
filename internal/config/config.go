package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds the process configuration. Economy tunables live in the
// versioned economy config, not here.
type Config struct {
	Port           int
	APIKey         string
	AdminIDs       []string
	TrustedProxies []string
	LogLevel       string
	LogFormat      string
	Environment    string

	StoreDriver       string
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxIdleTime     time.Duration
	DBMaxConnLifetime time.Duration
	DBConnectTimeout  time.Duration

	ConfigCacheTTL      time.Duration
	EconomySeedFile     string
	ProfilesFile        string
	PlayLockTimeout     time.Duration
	ConflictMaxRetries  int
	AutoReverseInterval time.Duration
	ResetLocation       *time.Location
	DeadLetterPath      string
}

// Load reads the configuration from the environment, loading .env first if present
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:              getEnv(EnvAPIKey, ""),
		AdminIDs:            getEnvAsList(EnvAdminIDs),
		TrustedProxies:      getEnvAsList(EnvTrustedProxies),
		LogLevel:            strings.ToLower(getEnv(EnvLogLevel, DefaultLogLevel)),
		LogFormat:           strings.ToLower(getEnv(EnvLogFormat, DefaultLogFormat)),
		Environment:         getEnv(EnvEnvironment, DefaultEnvironment),
		StoreDriver:         strings.ToLower(getEnv(EnvStoreDriver, StoreDriverPostgres)),
		DBUser:              getEnv(EnvDBUser, DefaultDBUser),
		DBPassword:          getEnv(EnvDBPassword, DefaultDBPassword),
		DBHost:              getEnv(EnvDBHost, DefaultDBHost),
		DBPort:              getEnv(EnvDBPort, DefaultDBPort),
		DBName:              getEnv(EnvDBName, DefaultDBName),
		DBMaxConns:          getEnvAsInt(EnvDBMaxConns, DefaultDBMaxConns),
		DBMaxIdleTime:       getEnvAsDuration(EnvDBMaxIdleTime, DefaultDBMaxIdleTime),
		DBMaxConnLifetime:   getEnvAsDuration(EnvDBMaxConnLifetime, DefaultDBMaxConnLifetime),
		DBConnectTimeout:    getEnvAsDuration(EnvDBConnectTimeout, DefaultDBConnectTimeout),
		ConfigCacheTTL:      getEnvAsDuration(EnvConfigCacheTTL, DefaultConfigCacheTTL),
		EconomySeedFile:     getEnv(EnvEconomySeedFile, ""),
		ProfilesFile:        getEnv(EnvEmployeeProfilesFile, ""),
		PlayLockTimeout:     getEnvAsDuration(EnvPlayLockTimeout, DefaultPlayLockTimeout),
		ConflictMaxRetries:  getEnvAsInt(EnvConflictMaxRetries, DefaultConflictMaxRetries),
		AutoReverseInterval: getEnvAsDuration(EnvAutoReverseInterval, DefaultAutoReverseInterval),
		DeadLetterPath:      getEnv(EnvDeadLetterPath, DefaultDeadLetterPath),
	}

	port, err := strconv.Atoi(getEnv(EnvPort, strconv.Itoa(DefaultPort)))
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %w", EnvPort, err)
	}
	cfg.Port = port

	loc, err := time.LoadLocation(getEnv(EnvResetTimezone, DefaultResetTimezone))
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %w", EnvResetTimezone, err)
	}
	cfg.ResetLocation = loc

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s environment variable must be set for security", EnvAPIKey)
	}
	if cfg.StoreDriver != StoreDriverPostgres && cfg.StoreDriver != StoreDriverMemory {
		return nil, fmt.Errorf("invalid %s %q: want %s or %s", EnvStoreDriver, cfg.StoreDriver, StoreDriverPostgres, StoreDriverMemory)
	}

	return cfg, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to the default when unset or malformed
func getEnvAsInt(key string, defaultValue int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvAsDuration parses a Go duration ("90s", "5m"), falling back to the default
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		return defaultValue
	}
	return v
}

// getEnvAsList splits a comma separated variable, dropping blanks
func getEnvAsList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
