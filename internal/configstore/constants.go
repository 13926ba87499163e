package configstore

import "time"

const (
	// ExportSchemaVersion is written into every exported blob and required on import
	ExportSchemaVersion = "1"

	DefaultCacheTTL = 5 * time.Minute

	cacheKey       = "economy"
	cacheSize      = 1
	sectionImport  = "import"
	sectionSeed    = "seed"
	maxBaseOddsSum = 1.0
)

// Log messages
const (
	LogMsgConfigCacheHit     = "Economy config cache hit"
	LogMsgConfigLoaded       = "Economy config loaded"
	LogMsgConfigDefaults     = "No stored economy config, using defaults"
	LogMsgConfigStale        = "Failed to load economy config, serving last known version"
	LogMsgConfigUpdated      = "Economy config updated"
	LogMsgConfigRejected     = "Economy config update rejected"
	LogMsgConfigImported     = "Economy config imported"
	LogMsgConfigSeeded       = "Economy config seeded"
	LogMsgEventPublishFailed = "Failed to publish config event"
)

// Error messages
const (
	ErrMsgDecodeSection   = "failed to decode section %s"
	ErrMsgDecodeBlob      = "failed to decode config blob"
	ErrMsgReadSeedFile    = "failed to read seed file"
	ErrMsgDecodeSeedFile  = "failed to decode seed file"
	ErrMsgLoadConfig      = "failed to load economy config"
	ErrMsgSaveConfig      = "failed to save economy config"
	ErrMsgSchemaViolation = "config blob does not match the export schema"
)
