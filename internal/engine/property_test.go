package engine

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

// Whatever mix of operations runs, and whichever of them fail, both balances
// always equal the sum of the ledger deltas and never go negative.
func TestEngine_LedgerAlwaysMatchesBalances(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		h := newHarness(t, profile("emp", domain.TierPlatinum, rapid.Int64Range(0, 500).Draw(t, "opening")))
		_, err := h.svc.GetEmployeeSummary(ctx, "emp")
		require.NoError(t, err)
		var games []uuid.UUID

		steps := rapid.IntRange(1, 25).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 4).Draw(t, "op") {
			case 0:
				_, _ = h.svc.Exchange(ctx, "emp", rapid.Int64Range(1, 30).Draw(t, "buy"), domain.DirectionPointsToTokens)
			case 1:
				_, _ = h.svc.Exchange(ctx, "emp", rapid.Int64Range(1, 30).Draw(t, "sell"), domain.DirectionTokensToPoints)
			case 2:
				g, err := h.svc.AwardGame(ctx, "emp", domain.SourceTask, rapid.IntRange(1, 5).Draw(t, "difficulty"))
				require.NoError(t, err)
				games = append(games, g.ID)
			case 3:
				if len(games) == 0 {
					continue
				}
				*h.draw = rapid.Float64Range(0, 0.999).Draw(t, "draw")
				id := rapid.SampledFrom(games).Draw(t, "game")
				_, _ = h.svc.PlayGame(ctx, "emp", id)
			case 4:
				_, _ = h.svc.AdjustPoints(ctx, adminID, "emp", rapid.Int64Range(-100, 100).Draw(t, "adjust"), "property")
			}

			emp, err := h.store.GetEmployee(ctx, "emp")
			require.NoError(t, err)
			require.GreaterOrEqual(t, emp.PointBalance, int64(0))
			require.GreaterOrEqual(t, emp.TokenBalance, int64(0))
			requireBalanced(t, h, "emp")
		}
	})
}
