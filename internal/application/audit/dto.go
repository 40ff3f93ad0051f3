package audit

import (
	"time"

	"github.com/doaddy/backend/internal/domain/audit"
	"github.com/google/uuid"
)

// ActivityListFilter represents filtering options for activity log lists
type ActivityListFilter struct {
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size"`
	Action        string     `form:"action"`
	AggregateType string     `form:"aggregate_type"`
	ActorID       *uuid.UUID `form:"actor_id"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir"`
}

// ActivityResponse represents an activity log entry in API responses
type ActivityResponse struct {
	ID            uuid.UUID      `json:"id"`
	Action        string         `json:"action"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   *uuid.UUID     `json:"aggregate_id,omitempty"`
	ActorID       *uuid.UUID     `json:"actor_id,omitempty"`
	Details       map[string]any `json:"details"`
	CreatedAt     time.Time      `json:"created_at"`
}

// ToActivityResponse converts an ActivityLog to an ActivityResponse
func ToActivityResponse(log *audit.ActivityLog) ActivityResponse {
	return ActivityResponse{
		ID:            log.ID,
		Action:        log.Action,
		AggregateType: log.AggregateType,
		AggregateID:   log.AggregateID,
		ActorID:       log.ActorID,
		Details:       log.Details,
		CreatedAt:     log.CreatedAt,
	}
}
