package metrics

import (
	"context"

	"github.com/osse101/RewardArcade_Go/internal/domain"
	"github.com/osse101/RewardArcade_Go/internal/event"
	"github.com/osse101/RewardArcade_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all economy events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	eventTypes := []event.Type{
		event.GameAwarded,
		event.GamePlayed,
		event.PoolExhausted,
		event.TokensExchanged,
		event.TokensAutoReversed,
		event.ConfigUpdated,
		event.MonthlyResetCompleted,
	}
	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
}

// HandleEvent updates metrics for one event. Undecodable payloads are counted
// and skipped, never failed.
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	if err := record(evt); err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		logger.FromContext(ctx).Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
		return nil
	}

	logger.FromContext(ctx).Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

func record(evt event.Event) error {
	switch evt.Type {
	case event.GameAwarded:
		p, err := event.DecodePayload[domain.GameAwardedPayload](evt.Payload)
		if err != nil {
			return err
		}
		GamesAwarded.WithLabelValues(string(p.Category)).Inc()

	case event.GamePlayed:
		p, err := event.DecodePayload[domain.GamePlayedPayload](evt.Payload)
		if err != nil {
			return err
		}
		GamesPlayed.WithLabelValues(string(p.Category), string(p.Outcome)).Inc()
		if p.Outcome == domain.OutcomeWin {
			PrizesAwarded.WithLabelValues(p.PrizeType).Inc()
			PrizePoints.Add(float64(p.PrizeValue))
		}
		if p.BoostApplied {
			BoostsApplied.Inc()
		}

	case event.PoolExhausted:
		p, err := event.DecodePayload[domain.PoolExhaustedPayload](evt.Payload)
		if err != nil {
			return err
		}
		PoolExhaustions.WithLabelValues(p.PrizeType, string(p.Scope)).Inc()

	case event.TokensExchanged:
		p, err := event.DecodePayload[domain.TokensExchangedPayload](evt.Payload)
		if err != nil {
			return err
		}
		TokensExchanged.WithLabelValues(string(p.Direction)).Add(float64(p.Tokens))

	case event.TokensAutoReversed:
		p, err := event.DecodePayload[domain.TokensAutoReversedPayload](evt.Payload)
		if err != nil {
			return err
		}
		TokensAutoReversed.Add(float64(p.Tokens))

	case event.ConfigUpdated:
		p, err := event.DecodePayload[domain.ConfigUpdatedPayload](evt.Payload)
		if err != nil {
			return err
		}
		ConfigUpdates.WithLabelValues(p.Section).Inc()

	case event.MonthlyResetCompleted:
		p, err := event.DecodePayload[domain.MonthlyResetPayload](evt.Payload)
		if err != nil {
			return err
		}
		MonthlyResets.Inc()
		GamesExpired.Add(float64(p.ExpiredGames))
	}
	return nil
}
