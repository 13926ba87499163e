package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Input errors
	ErrMsgValidation        = "invalid input"
	ErrMsgInvalidDifficulty = "difficulty must be between 1 and 5"
	ErrMsgInvalidAmount     = "amount must be positive"
	ErrMsgInvalidDirection  = "unknown exchange direction"
	ErrMsgInvalidSource     = "achievement source is required"

	// Balance and rule errors
	ErrMsgInsufficientBalance = "insufficient balance"
	ErrMsgQuotaExceeded       = "daily exchange quota exceeded"
	ErrMsgCooldownActive      = "exchange cooldown active"
	ErrMsgExchangeDisabled    = "token exchange is disabled"

	// Concurrency errors
	ErrMsgConcurrencyConflict = "system is busy, try again"
	ErrMsgDeadlockDetected    = "deadlock detected"
	ErrMsgTxClosed            = "tx is closed"

	// Game errors
	ErrMsgAlreadyResolved = "game already resolved"
	ErrMsgGameNotFound    = "game not found"
	ErrMsgNotGameOwner    = "game belongs to another employee"
	ErrMsgGameTypeUnknown = "unknown game type"

	// Employee errors
	ErrMsgEmployeeNotFound = "employee not found"
	ErrMsgEmployeeInactive = "employee is inactive"
	ErrMsgUnauthorized     = "caller is not authorized"

	// Prize errors
	ErrMsgPoolNotFound = "prize pool not found"
	ErrMsgPrizeSoldOut = "this prize is sold out for the current period"

	// Config errors
	ErrMsgConfigInvalid        = "config invalid"
	ErrMsgConfigSectionUnknown = "unknown config section"
)

var (
	ErrValidation = errors.New(ErrMsgValidation)

	ErrInsufficientBalance = errors.New(ErrMsgInsufficientBalance)
	ErrQuotaExceeded       = errors.New(ErrMsgQuotaExceeded)
	ErrCooldownActive      = errors.New(ErrMsgCooldownActive)
	ErrExchangeDisabled    = errors.New(ErrMsgExchangeDisabled)

	ErrConcurrencyConflict = errors.New(ErrMsgConcurrencyConflict)
	ErrTxClosed            = errors.New(ErrMsgTxClosed)

	ErrAlreadyResolved = errors.New(ErrMsgAlreadyResolved)
	ErrGameNotFound    = errors.New(ErrMsgGameNotFound)
	ErrNotGameOwner    = errors.New(ErrMsgNotGameOwner)

	ErrEmployeeNotFound = errors.New(ErrMsgEmployeeNotFound)
	ErrEmployeeInactive = errors.New(ErrMsgEmployeeInactive)
	ErrUnauthorized     = errors.New(ErrMsgUnauthorized)

	ErrPoolNotFound = errors.New(ErrMsgPoolNotFound)

	ErrConfigInvalid = errors.New(ErrMsgConfigInvalid)
)

// Currency names used in InsufficientBalanceError
const (
	CurrencyPoints = "points"
	CurrencyTokens = "tokens"
)

// InsufficientBalanceError reports which balance fell short and by how much.
type InsufficientBalanceError struct {
	Currency string
	Have     int64
	Need     int64
}

func (e InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s: need %d %s, have %d", ErrMsgInsufficientBalance, e.Need, e.Currency, e.Have)
}

func (e InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// QuotaExceededError reports the daily exchange quota state.
type QuotaExceededError struct {
	Used      int64
	Requested int64
	Limit     int64
}

func (e QuotaExceededError) Error() string {
	return fmt.Sprintf("%s: %d of %d tokens used today, requested %d", ErrMsgQuotaExceeded, e.Used, e.Limit, e.Requested)
}

func (e QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// CooldownActiveError is returned when the tier exchange cooldown has not elapsed.
type CooldownActiveError struct {
	Remaining time.Duration
}

func (e CooldownActiveError) Error() string {
	return fmt.Sprintf("%s: try again in %s", ErrMsgCooldownActive, e.Remaining.Round(time.Second))
}

func (e CooldownActiveError) Is(target error) bool {
	return target == ErrCooldownActive
}

// ConfigInvalidError carries every problem found while validating a config.
type ConfigInvalidError struct {
	Problems []error
}

func (e ConfigInvalidError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Error())
	}
	return fmt.Sprintf("%s: %s", ErrMsgConfigInvalid, strings.Join(msgs, "; "))
}

func (e ConfigInvalidError) Is(target error) bool {
	return target == ErrConfigInvalid
}

func (e ConfigInvalidError) Unwrap() []error {
	return e.Problems
}
