package config

import "time"

// Environment variable names
const (
	EnvPort                 = "PORT"
	EnvAPIKey               = "API_KEY"
	EnvAdminIDs             = "ADMIN_IDS"
	EnvTrustedProxies       = "TRUSTED_PROXIES"
	EnvLogLevel             = "LOG_LEVEL"
	EnvLogFormat            = "LOG_FORMAT"
	EnvEnvironment          = "ENVIRONMENT"
	EnvStoreDriver          = "STORE_DRIVER"
	EnvDBUser               = "DB_USER"
	EnvDBPassword           = "DB_PASSWORD"
	EnvDBHost               = "DB_HOST"
	EnvDBPort               = "DB_PORT"
	EnvDBName               = "DB_NAME"
	EnvDBMaxConns           = "DB_MAX_CONNS"
	EnvDBMaxIdleTime        = "DB_MAX_IDLE_TIME"
	EnvDBMaxConnLifetime    = "DB_MAX_CONN_LIFETIME"
	EnvDBConnectTimeout     = "DB_CONNECT_TIMEOUT"
	EnvConfigCacheTTL       = "CONFIG_CACHE_TTL"
	EnvEconomySeedFile      = "ECONOMY_SEED_FILE"
	EnvEmployeeProfilesFile = "EMPLOYEE_PROFILES_FILE"
	EnvPlayLockTimeout      = "PLAY_LOCK_TIMEOUT"
	EnvConflictMaxRetries   = "CONFLICT_MAX_RETRIES"
	EnvAutoReverseInterval  = "AUTO_REVERSE_INTERVAL"
	EnvResetTimezone        = "RESET_TIMEZONE"
	EnvDeadLetterPath       = "DEAD_LETTER_PATH"
	EnvSchemaVersion        = "ENV_SCHEMA_VERSION"
)

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Defaults
const (
	DefaultPort                = 8080
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "text"
	DefaultEnvironment         = "dev"
	DefaultDBUser              = "postgres"
	DefaultDBPassword          = "postgres"
	DefaultDBHost              = "localhost"
	DefaultDBPort              = "5432"
	DefaultDBName              = "reward_arcade"
	DefaultDBMaxConns          = 20
	DefaultDBMaxIdleTime       = 5 * time.Minute
	DefaultDBMaxConnLifetime   = 30 * time.Minute
	DefaultDBConnectTimeout    = 30 * time.Second
	DefaultConfigCacheTTL      = 30 * time.Second
	DefaultPlayLockTimeout     = 5 * time.Second
	DefaultConflictMaxRetries  = 3
	DefaultAutoReverseInterval = time.Hour
	DefaultResetTimezone       = "UTC"
	DefaultDeadLetterPath      = "logs/event_deadletter.jsonl"
)

// Example values shipped in .env.example that must not reach production
const (
	exampleDBPassword = "change_this_secure_password"
	exampleAPIKey     = "generate_with_openssl_rand_hex_32"
)
