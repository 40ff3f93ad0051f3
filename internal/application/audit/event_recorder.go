package audit

import (
	"context"
	"encoding/json"

	"github.com/doaddy/backend/internal/domain/audit"
	"github.com/doaddy/backend/internal/domain/shared"
)

// EventRecorder subscribes to the event bus and writes every domain
// event to the audit trail. It subscribes to all event types, so any
// new event published by a service is captured without further wiring.
type EventRecorder struct {
	logRepo audit.ActivityLogRepository
}

// NewEventRecorder creates a new EventRecorder
func NewEventRecorder(logRepo audit.ActivityLogRepository) *EventRecorder {
	return &EventRecorder{
		logRepo: logRepo,
	}
}

// Handle writes the event to the audit trail
func (r *EventRecorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	aggregateID := event.AggregateID()

	log, err := audit.NewActivityLog(event.OrgID(), event.EventType(), event.AggregateType(),
		&aggregateID, nil, eventDetails(event))
	if err != nil {
		return err
	}

	return r.logRepo.Save(ctx, log)
}

// EventTypes returns an empty slice so the recorder receives all events
func (r *EventRecorder) EventTypes() []string {
	return nil
}

// eventDetails flattens the event's payload into a details map. Events
// are plain structs, so a JSON round trip captures whatever fields the
// event carries beyond the base metadata.
func eventDetails(event shared.DomainEvent) audit.Details {
	raw, err := json.Marshal(event)
	if err != nil {
		return audit.Details{}
	}

	details := audit.Details{}
	if err := json.Unmarshal(raw, &details); err != nil {
		return audit.Details{}
	}

	// base metadata is stored in dedicated columns
	delete(details, "id")
	delete(details, "type")
	delete(details, "timestamp")
	delete(details, "aggregate_id")
	delete(details, "aggregate_type")
	delete(details, "org_id")

	return details
}

var _ shared.EventHandler = (*EventRecorder)(nil)
