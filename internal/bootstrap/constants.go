package bootstrap

import "time"

// DirPermission is the permission used when creating the dead-letter directory
const DirPermission = 0755

// Event system defaults
const (
	EventDefaultMaxRetries = 5
	EventDefaultRetryDelay = 2 * time.Second
	EventDefaultMaxDelay   = 30 * time.Second
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized     = "Event system initialized"
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	ErrMsgFailedCreateDeadLetterDir  = "failed to create dead-letter directory"
	ErrMsgFailedOpenDeadLetter       = "failed to open dead-letter file"
)

// Storage messages
const (
	LogMsgStorageInitialized   = "Storage initialized"
	LogMsgMemoryStoreWarning   = "Using in-memory store; state is lost on restart"
	ErrMsgFailedConnectDB      = "failed to connect to database"
	ErrMsgFailedMigrate        = "failed to apply migrations"
	ErrMsgUnknownStoreDriver   = "unknown store driver"
	ErrMsgFailedLoadSeed       = "failed to load economy seed file"
	ErrMsgFailedLoadProfiles   = "failed to load employee profiles"
	ErrMsgFailedSeedConfig     = "failed to seed economy config"
	ErrMsgFailedLoadConfig     = "failed to load economy config"
	ErrMsgFailedSyncPoolLimits = "failed to sync prize pool limits"
	LogMsgEconomyConfigReady   = "Economy config ready"
)

// Shutdown messages
const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResetWorkerShutdownFailed  = "Monthly reset worker shutdown failed"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgDeadLetterCloseFailed      = "Dead-letter file close failed"
)
