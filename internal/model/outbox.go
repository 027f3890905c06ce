package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusProcessed OutboxStatus = "processed"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// Outbox event types emitted by the assignment core.
const (
	EventDutyTypeCreate   = "DUTY_TYPE_CREATE"
	EventDutyTypeUpdate   = "DUTY_TYPE_UPDATE"
	EventDutyTypeDelete   = "DUTY_TYPE_DELETE"
	EventRosterCreate     = "DUTY_ROSTER_CREATE"
	EventRosterDelete     = "DUTY_ROSTER_DELETE"
	EventDutyAssign       = "DUTY_ASSIGN"
	EventDutyClear        = "DUTY_CLEAR"
	EventCoordinatorSet   = "COORDINATOR_ASSIGN"
	EventCoordinatorUnset = "COORDINATOR_UNASSIGN"
)

// OutboxEvent records an assignment mutation for asynchronous delivery
// to the reporting/export collaborator.
type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       string          `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}
