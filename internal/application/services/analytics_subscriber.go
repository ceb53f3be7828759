package services

import (
	"context"

	"github.com/summitcrest/realty/internal/domain"
	"github.com/summitcrest/realty/internal/infrastructure/analytics"
	"go.uber.org/zap"
)

// AnalyticsSink receives captured events
type AnalyticsSink interface {
	Capture(e analytics.Event)
}

var trackedEvents = []domain.EventType{
	domain.EventLeadCreated,
	domain.EventInvestorCreated,
	domain.EventLOISubmitted,
	domain.EventLOIStatusChanged,
	domain.EventLOICountersigned,
	domain.EventDocumentUploaded,
}

// SubscribeAnalytics forwards every domain event to the sink and the debug log.
// Returns a function that removes the subscriptions.
func SubscribeAnalytics(bus *EventBus, sink AnalyticsSink) func() {
	var unsubscribers []func()
	for _, eventType := range trackedEvents {
		unsubscribers = append(unsubscribers, bus.Subscribe(eventType, func(ctx context.Context, e domain.Event) error {
			zap.L().Debug("domain event", zap.String("event", string(e.Type)), zap.String("distinct_id", e.DistinctID))
			sink.Capture(analytics.Event{
				Name:       string(e.Type),
				DistinctID: e.DistinctID,
				Properties: e.Properties,
			})
			return nil
		}))
	}
	return func() {
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
	}
}
