package audit

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Details carries free-form structured context for a log entry,
// stored as JSONB
type Details map[string]any

// Value implements driver.Valuer interface for GORM to store as JSONB
func (d Details) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (d *Details) Scan(value interface{}) error {
	if value == nil {
		*d = Details{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Details: unsupported type")
	}

	return json.Unmarshal(bytes, d)
}

// ActivityLog is an append-only record of something that happened in
// the system: a domain event, a user action, or a state change worth
// keeping for audit.
type ActivityLog struct {
	shared.OrgAggregateRoot
	Action        string     `gorm:"size:100;not null;index"`
	AggregateType string     `gorm:"size:50;index"`
	AggregateID   *uuid.UUID `gorm:"type:uuid;index"`
	ActorID       *uuid.UUID `gorm:"type:uuid"`
	Details       Details    `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (ActivityLog) TableName() string {
	return "activity_logs"
}

// NewActivityLog creates an audit log entry
func NewActivityLog(orgID uuid.UUID, action, aggregateType string, aggregateID, actorID *uuid.UUID, details Details) (*ActivityLog, error) {
	if action == "" {
		return nil, shared.NewDomainError("INVALID_ACTION", "Log action cannot be empty")
	}

	return &ActivityLog{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Action:           action,
		AggregateType:    aggregateType,
		AggregateID:      aggregateID,
		ActorID:          actorID,
		Details:          details,
	}, nil
}
