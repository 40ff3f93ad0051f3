package inventory

import (
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies a stock movement
type MovementType string

const (
	MovementTypeIn         MovementType = "IN"
	MovementTypeOut        MovementType = "OUT"
	MovementTypeAdjustment MovementType = "ADJUSTMENT"
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjustment:
		return true
	}
	return false
}

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// ReferenceType identifies the kind of record that caused a movement
type ReferenceType string

const (
	ReferenceTypeSale     ReferenceType = "SALE"
	ReferenceTypePurchase ReferenceType = "PURCHASE"
	ReferenceTypeManual   ReferenceType = "MANUAL"
)

// StockMovement is an append-only record of a stock level change.
// Movements are never updated or deleted; corrections are made by
// posting a compensating movement.
type StockMovement struct {
	shared.OrgAggregateRoot
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type        MovementType    `gorm:"size:20;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	StockBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	StockAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RefType     ReferenceType   `gorm:"size:30"`
	RefID       *uuid.UUID      `gorm:"type:uuid;index"`
	Notes       string          `gorm:"size:500"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement records a stock change for an item. Quantity is
// always positive; the direction comes from the movement type, except
// ADJUSTMENT where a signed quantity carries the correction.
func NewStockMovement(orgID, itemID uuid.UUID, movementType MovementType, quantity, stockBefore decimal.Decimal, refType ReferenceType, refID *uuid.UUID, notes string) (*StockMovement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Movement type must be IN, OUT or ADJUSTMENT")
	}
	if movementType != MovementTypeAdjustment && quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if movementType == MovementTypeAdjustment && quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity cannot be zero")
	}

	movement := &StockMovement{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		ItemID:           itemID,
		Type:             movementType,
		Quantity:         quantity,
		StockBefore:      stockBefore,
		StockAfter:       stockBefore.Add(movementType.SignedQuantity(quantity)),
		RefType:          refType,
		RefID:            refID,
		Notes:            notes,
	}

	movement.AddDomainEvent(NewStockMovementRecordedEvent(movement))

	return movement, nil
}

// SignedQuantity converts a movement quantity into a signed stock delta
func (t MovementType) SignedQuantity(quantity decimal.Decimal) decimal.Decimal {
	if t == MovementTypeOut {
		return quantity.Neg()
	}
	return quantity
}

// ReplayStock folds a sequence of movements over an opening balance.
// The result must equal the item's current stock; a mismatch indicates
// the movement log and the item row have diverged.
func ReplayStock(opening decimal.Decimal, movements []*StockMovement) decimal.Decimal {
	balance := opening
	for _, m := range movements {
		balance = balance.Add(m.Type.SignedQuantity(m.Quantity))
	}
	return balance
}
