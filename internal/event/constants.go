package event

import "time"

// Event schema versioning
const (
	// EventSchemaVersion is the current event schema version
	EventSchemaVersion = "1.0"

	// DeadLetterSchemaVersion is the current version of the dead-letter log format
	DeadLetterSchemaVersion = "1.0"
)

// Retry configuration defaults
const (
	DefaultMaxRetries = 5
	DefaultRetryDelay = 2 * time.Second
	DefaultMaxDelay   = 30 * time.Second
)

// Dead letter file configuration
const (
	// DeadLetterFilePermissions is the file permission mode for dead-letter files
	DeadLetterFilePermissions = 0644
)

// Log message constants
const (
	LogMsgEventPublishFailed    = "Event publish failed, retrying in background"
	LogMsgEventRetrySucceeded   = "Event published after retry"
	LogMsgEventRetryExhausted   = "Event retry exhausted, writing to dead-letter"
	LogMsgDeadLetterWriteFailed = "Failed to write to dead letter"
	LogMsgEventDeadLettered     = "Event dead-lettered"
	LogMsgShutdownTimeout       = "Resilient publisher shutdown timed out"

	// Log message for handler errors
	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %w"
)

// Error messages
const (
	ErrMsgPayloadDecode    = "failed to decode event payload"
	ErrMsgDeadLetterOpen   = "failed to open dead letter file"
	ErrMsgDeadLetterEncode = "failed to marshal dead letter"
	ErrMsgDeadLetterDecode = "malformed dead letter"
)
