package configstore

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/RewardArcade_Go/internal/domain"
)

var fieldValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate returns every problem found in cfg; an empty result means cfg may be persisted.
func (s *service) Validate(cfg *domain.EconomyConfig) []error {
	return Validate(cfg)
}

// Validate checks field bounds through the validate tags and then the rules that
// span several fields.
func Validate(cfg *domain.EconomyConfig) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	problems := fieldProblems(cfg)
	problems = append(problems, difficultyProblems(cfg)...)
	problems = append(problems, tierProblems(cfg)...)
	problems = append(problems, gameProblems(cfg)...)
	problems = append(problems, prizeProblems(cfg)...)
	problems = append(problems, poolProblems(cfg)...)
	return problems
}

func fieldProblems(cfg *domain.EconomyConfig) []error {
	err := fieldValidator.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []error{err}
	}

	problems := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			problems = append(problems, fmt.Errorf("%s must satisfy %s=%s, got %v", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			problems = append(problems, fmt.Errorf("%s must satisfy %s, got %v", fe.Namespace(), fe.Tag(), fe.Value()))
		}
	}
	return problems
}

func difficultyProblems(cfg *domain.EconomyConfig) []error {
	var problems []error
	m := cfg.Difficulty.Multipliers
	for i := 1; i < len(m); i++ {
		if m[i] < m[i-1] {
			problems = append(problems, fmt.Errorf("difficulty multiplier %d (%.2f) is below difficulty %d (%.2f)", i+1, m[i], i, m[i-1]))
		}
	}
	return problems
}

// tierProblems requires every tier and benefits that never get worse with rank
func tierProblems(cfg *domain.EconomyConfig) []error {
	var problems []error
	for tier := range cfg.Tiers {
		if !tier.Valid() {
			problems = append(problems, fmt.Errorf("unknown tier %q", tier))
		}
	}

	var prev *domain.TierConfig
	var prevTier domain.Tier
	for _, tier := range domain.AllTiers {
		tc, ok := cfg.Tiers[tier]
		if !ok {
			problems = append(problems, fmt.Errorf("tier %s is not configured", tier))
			prev = nil
			continue
		}
		if prev != nil {
			if tc.PointsPerToken > prev.PointsPerToken {
				problems = append(problems, fmt.Errorf("tier %s points_per_token %.2f exceeds %s", tier, tc.PointsPerToken, prevTier))
			}
			if tc.OddsMultiplier < prev.OddsMultiplier {
				problems = append(problems, fmt.Errorf("tier %s odds_multiplier %.2f is below %s", tier, tc.OddsMultiplier, prevTier))
			}
		}
		prev, prevTier = &tc, tier
	}
	return problems
}

func gameProblems(cfg *domain.EconomyConfig) []error {
	var problems []error
	for gt, g := range cfg.Games {
		if !gt.Valid() {
			problems = append(problems, fmt.Errorf("%s %q", domain.ErrMsgGameTypeUnknown, gt))
		}
		var sum float64
		for pt, p := range g.BaseOdds {
			if !pt.Valid() {
				problems = append(problems, fmt.Errorf("game %s has odds for unknown prize tier %q", gt, pt))
			}
			sum += p
		}
		if sum > maxBaseOddsSum {
			problems = append(problems, fmt.Errorf("game %s base odds sum to %.4f, above 100%%", gt, sum))
		}
	}
	return problems
}

func prizeProblems(cfg *domain.EconomyConfig) []error {
	var problems []error
	if _, ok := cfg.Prizes[domain.PrizeTierBasic]; !ok {
		problems = append(problems, errors.New("the basic prize tier is required as the consolation prize"))
	}
	if _, ok := cfg.Prizes[cfg.Odds.PremiumTier]; !ok && cfg.Odds.PremiumTier != "" {
		problems = append(problems, fmt.Errorf("premium tier %s has no prize", cfg.Odds.PremiumTier))
	}

	types := make(map[string]domain.PrizeTier, len(cfg.Prizes))
	for pt, p := range cfg.Prizes {
		if !pt.Valid() {
			problems = append(problems, fmt.Errorf("unknown prize tier %q", pt))
		}
		if other, dup := types[p.PrizeType]; dup {
			problems = append(problems, fmt.Errorf("prize type %s is used by both %s and %s", p.PrizeType, other, pt))
		}
		types[p.PrizeType] = pt
		for tier := range p.MonthlyLimits {
			if !tier.Valid() {
				problems = append(problems, fmt.Errorf("prize %s has a limit for unknown tier %q", pt, tier))
			}
		}
	}
	return problems
}

func poolProblems(cfg *domain.EconomyConfig) []error {
	var problems []error
	prizeTypes := make([]string, 0, len(cfg.Prizes))
	for _, p := range cfg.Prizes {
		prizeTypes = append(prizeTypes, p.PrizeType)
	}

	for prizeType, pl := range cfg.Pools {
		if !slices.Contains(prizeTypes, prizeType) {
			problems = append(problems, fmt.Errorf("pool %s does not match any prize type", prizeType))
		}
		if prizeType == domain.ConsolationPrizeType {
			problems = append(problems, fmt.Errorf("pool %s: the consolation prize cannot be rationed", prizeType))
		}
		if pl.Daily > pl.Weekly || pl.Weekly > pl.Monthly {
			problems = append(problems, fmt.Errorf("pool %s limits must satisfy daily <= weekly <= monthly", prizeType))
		}
	}
	return problems
}
