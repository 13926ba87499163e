package worker

import (
	"context"

	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/logger"
)

// AutoReverser converts long-idle token balances back to points
type AutoReverser interface {
	RunAutoReverseSweep(ctx context.Context, cutoffDays int) ([]domain.ReversalRecord, error)
}

// AutoReverseJob runs one auto-reverse sweep per Process call. A zero
// CutoffDays uses the configured hold period.
type AutoReverseJob struct {
	Sweeper    AutoReverser
	CutoffDays int
}

func (j *AutoReverseJob) Name() string { return "auto-reverse-sweep" }

func (j *AutoReverseJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgAutoReverseStarting, "cutoff_days", j.CutoffDays)

	records, err := j.Sweeper.RunAutoReverseSweep(ctx, j.CutoffDays)
	var tokens, points int64
	for _, r := range records {
		tokens += r.Tokens
		points += r.Points
	}
	log.Info(LogMsgAutoReverseCompleted, "reversed", len(records), "tokens", tokens, "points", points)
	return err
}
