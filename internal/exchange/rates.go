package exchange

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// PurchaseRate is the points charged per token for a tier
func PurchaseRate(cfg *domain.EconomyConfig, tier domain.Tier) (decimal.Decimal, error) {
	tc, ok := cfg.Tiers[tier]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s %s", domain.ErrValidation, ErrMsgUnknownTier, tier)
	}
	return decimal.NewFromFloat(tc.PointsPerToken), nil
}

// ReverseRate is the points credited per token when converting back, after the reverse fee
func ReverseRate(cfg *domain.EconomyConfig, tier domain.Tier) (decimal.Decimal, error) {
	rate, err := PurchaseRate(cfg, tier)
	if err != nil {
		return decimal.Zero, err
	}
	keep := hundred.Sub(decimal.NewFromFloat(cfg.Exchange.ReverseFeePercent)).Div(hundred)
	return rate.Mul(keep), nil
}

// PointsForTokens returns the point cost of buying tokens, rounded up
func PointsForTokens(rate decimal.Decimal, tokens int64) int64 {
	return rate.Mul(decimal.NewFromInt(tokens)).Ceil().IntPart()
}

// PointsFromTokens returns the points credited for selling tokens, rounded down
func PointsFromTokens(rate decimal.Decimal, tokens int64) int64 {
	return rate.Mul(decimal.NewFromInt(tokens)).Floor().IntPart()
}
