package exchange

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

func TestRates_UnknownTier(t *testing.T) {
	_, err := PurchaseRate(domain.DefaultEconomyConfig(), "diamond")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestRates_RoundTripNeverGainsPoints(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := domain.DefaultEconomyConfig()
		cfg.Exchange.ReverseFeePercent = rapid.Float64Range(0, 99).Draw(t, "fee")
		tier := rapid.SampledFrom(domain.AllTiers).Draw(t, "tier")
		tokens := rapid.Int64Range(1, 10_000).Draw(t, "tokens")

		buy, err := PurchaseRate(cfg, tier)
		require.NoError(t, err)
		sell, err := ReverseRate(cfg, tier)
		require.NoError(t, err)

		cost := PointsForTokens(buy, tokens)
		back := PointsFromTokens(sell, tokens)
		exact := buy.Mul(decimal.NewFromInt(tokens))

		assert.True(t, decimal.NewFromInt(cost).GreaterThanOrEqual(exact))
		assert.LessOrEqual(t, back, cost)
		assert.GreaterOrEqual(t, back, int64(0))
	})
}
