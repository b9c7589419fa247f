package model

import (
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
	OutboxStatusRetry     OutboxStatus = "RETRY"
)

// OutboxEvent is a persisted domain event awaiting publication
type OutboxEvent struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	EventType    string       `json:"event_type" db:"event_type"`
	Payload      []byte       `json:"payload" db:"payload"`
	Status       OutboxStatus `json:"status" db:"status"`
	ErrorMessage *string      `json:"error_message,omitempty" db:"error_message"`
	RetryAt      *time.Time   `json:"retry_at,omitempty" db:"retry_at"`
	ProcessedAt  *time.Time   `json:"processed_at,omitempty" db:"processed_at"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}
