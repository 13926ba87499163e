package worker

import "time"

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// Log messages for worker pool operations
const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerJobPanicked = "Worker job panicked"
	LogMsgPoolStopped       = "Worker pool stopped"
)

// ============================================================================
// Log Messages - Monthly Reset Worker
// ============================================================================

// Log messages for monthly reset worker operations
const (
	LogMsgMonthlyResetStarting  = "Monthly reset starting"
	LogMsgMonthlyResetCompleted = "Monthly reset completed"
	LogMsgMonthlyResetFailed    = "Monthly reset failed"
	LogMsgMonthlyResetStandby   = "Monthly reset standby"
	LogMsgMonthlyResetApproach  = "Monthly reset scheduled"
	LogMsgMonthlyResetCatchUp   = "Monthly reset catch-up on startup"
	LogMsgMonthlyResetShutdown  = "Shutting down monthly reset worker"
	LogMsgMonthlyResetTimeout   = "Monthly reset worker shutdown timeout, a reset may still be running"
	LogMsgMonthlyResetStopped   = "Monthly reset worker shutdown complete"
)

// ============================================================================
// Log Messages - Auto Reverse Job
// ============================================================================

// Log messages for the auto-reverse sweep job
const (
	LogMsgAutoReverseStarting  = "Auto-reverse sweep starting"
	LogMsgAutoReverseCompleted = "Auto-reverse sweep completed"
)

// ============================================================================
// Scheduling
// ============================================================================

const (
	// standbyThreshold is the distance beyond which the worker sleeps in stages
	standbyThreshold = 2 * time.Hour
	// approachLead is how far ahead of the reset the standby timer wakes up
	approachLead = 45 * time.Minute
	// earlyTriggerTolerance absorbs timer jitter around the month boundary
	earlyTriggerTolerance = 10 * time.Second
)
