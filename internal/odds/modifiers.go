package odds

import (
	"time"

	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/utils"
)

// boost returns the jittered boost multiplier and whether the employee qualifies.
// Qualifying requires a percentile strictly below the threshold and no boost inside
// the cooldown window.
func (e *Engine) boost(cfg domain.BoostConfig, stats EmployeeStats) (float64, bool) {
	depth, ok := BoostDepth(cfg, stats.PerformancePercentile)
	if !ok {
		return 1, false
	}
	at := stats.At
	if at.IsZero() {
		at = e.now()
	}
	if stats.LastBoostAt != nil && at.Sub(*stats.LastBoostAt) < time.Duration(cfg.CooldownHours)*time.Hour {
		return 1, false
	}

	m := utils.Lerp(1, cfg.MaxMultiplier, depth)
	jitter := 1 + (e.rng()*2-1)*cfg.JitterPercent/100
	return utils.Clamp(m*jitter, 1, cfg.MaxMultiplier), true
}

// BoostDepth reports how far below the threshold a percentile sits, as a fraction
// of the threshold. ok is false when the employee does not qualify.
func BoostDepth(cfg domain.BoostConfig, percentile float64) (depth float64, ok bool) {
	if !cfg.Enabled || cfg.ThresholdPercentile <= 0 || percentile >= cfg.ThresholdPercentile {
		return 0, false
	}
	percentile = max(percentile, 0)
	return (cfg.ThresholdPercentile - percentile) / cfg.ThresholdPercentile, true
}

// WinCapDampener scales gambling odds down as trailing winnings approach the cap.
// The cap is multiplier x best earnings, bounded by the hard cap; when neither term
// is positive there is no cap.
func WinCapDampener(cfg domain.WinCapConfig, winnings, bestEarnings int64) float64 {
	if !cfg.Enabled {
		return 1
	}

	var limit float64
	if bestEarnings > 0 {
		limit = cfg.Multiplier * float64(bestEarnings)
	}
	if hard := float64(cfg.HardCap); hard > 0 && (limit == 0 || hard < limit) {
		limit = hard
	}
	if limit <= 0 {
		return 1
	}

	ratio := float64(winnings) / limit
	switch {
	case ratio >= 1:
		return cfg.DampenFactor
	case ratio >= cfg.SoftZoneStart:
		progress := (ratio - cfg.SoftZoneStart) / (1 - cfg.SoftZoneStart)
		return utils.Lerp(1, cfg.DampenFactor, progress)
	}
	return 1
}
