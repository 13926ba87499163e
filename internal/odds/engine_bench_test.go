package odds

import (
	"testing"
	"time"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

func BenchmarkComputeCategoryAOdds(b *testing.B) {
	cfg := domain.DefaultEconomyConfig()
	e := NewEngine(func() float64 { return 0.5 }, func() time.Time { return time.Unix(0, 0) })
	stats := EmployeeStats{Tier: domain.TierSilver, PerformancePercentile: 20, BestPeriodEarnings: 1000}

	b.ReportAllocs()
	for b.Loop() {
		_ = e.ComputeCategoryAOdds(cfg, 3, stats)
	}
}

func BenchmarkComputeCategoryBOdds(b *testing.B) {
	cfg := domain.DefaultEconomyConfig()
	types := cfg.EnabledGameTypes()
	if len(types) == 0 {
		b.Skip("no enabled game types")
	}
	e := NewEngine(func() float64 { return 0.5 }, func() time.Time { return time.Unix(0, 0) })
	stats := EmployeeStats{Tier: domain.TierGold, PerformancePercentile: 60, GamblingPlays: 40, TrailingWinnings: 300}

	b.ReportAllocs()
	for b.Loop() {
		_ = e.ComputeCategoryBOdds(cfg, types[0], 2, stats)
	}
}
