package event

import (
	"context"

	"github.com/hemovault/bloodbank-api/internal/model"
)

type EventType string

// EventContext carries mutation data from a handler to the tracker middleware
type EventContext struct {
	Resource   string
	Operation  string
	OldData    interface{}
	NewData    interface{}
	Additional map[string]interface{}
}

// Service persists outbox events for later publication
type Service interface {
	CreateEvent(ctx context.Context, event *model.OutboxEvent) error
}
