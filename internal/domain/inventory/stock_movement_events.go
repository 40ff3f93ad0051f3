package inventory

import (
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate types
const (
	AggregateTypeStockMovement = "StockMovement"
)

// Event types
const (
	EventTypeStockMovementRecorded = "stock_movement.recorded"
)

// StockMovementRecordedEvent is published when a stock movement is posted
type StockMovementRecordedEvent struct {
	shared.BaseDomainEvent
	ItemID       uuid.UUID       `json:"item_id"`
	MovementType MovementType    `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	StockAfter   decimal.Decimal `json:"stock_after"`
	RefType      ReferenceType   `json:"ref_type"`
}

// NewStockMovementRecordedEvent creates a new StockMovementRecordedEvent
func NewStockMovementRecordedEvent(m *StockMovement) *StockMovementRecordedEvent {
	return &StockMovementRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockMovementRecorded, AggregateTypeStockMovement, m.ID, m.OrgID),
		ItemID:          m.ItemID,
		MovementType:    m.Type,
		Quantity:        m.Quantity,
		StockAfter:      m.StockAfter,
		RefType:         m.RefType,
	}
}

// EventType returns the event type
func (e *StockMovementRecordedEvent) EventType() string {
	return EventTypeStockMovementRecorded
}
