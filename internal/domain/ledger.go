package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger row
type TransactionType string

const (
	TxTypePurchase   TransactionType = "purchase"
	TxTypeSpend      TransactionType = "spend"
	TxTypeWin        TransactionType = "win"
	TxTypeReverse    TransactionType = "reverse"
	TxTypeAdminAward TransactionType = "admin_award"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TxTypePurchase, TxTypeSpend, TxTypeWin, TxTypeReverse, TxTypeAdminAward:
		return true
	}
	return false
}

// TokenTransaction is an immutable ledger row. Rows are never updated or deleted.
type TokenTransaction struct {
	ID               uuid.UUID       `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	Type             TransactionType `json:"type"`
	PointDelta       int64           `json:"point_delta"`
	TokenDelta       int64           `json:"token_delta"`
	ExchangeRateUsed decimal.Decimal `json:"exchange_rate_used"`
	GameID           *uuid.UUID      `json:"game_id,omitempty"`
	Note             string          `json:"note,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ReconciliationReport compares stored balances with the ledger sums
type ReconciliationReport struct {
	EmployeeID      string `json:"employee_id"`
	TokenBalance    int64  `json:"token_balance"`
	LedgerTokenSum  int64  `json:"ledger_token_sum"`
	PointBalance    int64  `json:"point_balance"`
	LedgerPointSum  int64  `json:"ledger_point_sum"`
	TransactionRows int64  `json:"transaction_rows"`
}

// Balanced reports whether both balances match the ledger
func (r ReconciliationReport) Balanced() bool {
	return r.TokenBalance == r.LedgerTokenSum && r.PointBalance == r.LedgerPointSum
}
