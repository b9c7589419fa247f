package event

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hemovault/bloodbank-api/internal/model"
)

const contextKey = "eventCtx"

type EventTrackerMiddleware struct {
	eventService Service
}

func NewEventTrackerMiddleware(eventSvc Service) *EventTrackerMiddleware {
	return &EventTrackerMiddleware{eventService: eventSvc}
}

// FromContext returns the event context set by TrackEvent, if any
func FromContext(c *gin.Context) *EventContext {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	ctx, _ := v.(*EventContext)
	return ctx
}

// TrackEvent records an outbox event after the handler has populated the
// event context with the mutated entity.
func (m *EventTrackerMiddleware) TrackEvent(resource, operation string) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventCtx := &EventContext{
			Resource:  resource,
			Operation: operation,
		}
		c.Set(contextKey, eventCtx)

		c.Next()

		if eventCtx.NewData == nil && eventCtx.OldData == nil {
			return
		}

		payload := map[string]interface{}{
			"resource":  eventCtx.Resource,
			"operation": eventCtx.Operation,
		}
		if eventCtx.NewData != nil {
			payload["data"] = eventCtx.NewData
		}
		if eventCtx.OldData != nil {
			payload["previous"] = eventCtx.OldData
		}
		for k, v := range eventCtx.Additional {
			payload[k] = v
		}

		payloadJSON, err := json.Marshal(payload)
		if err != nil {
			log.Error().Err(err).Str("resource", resource).Msg("failed to marshal event payload")
			return
		}

		evt := &model.OutboxEvent{
			ID:        uuid.New(),
			EventType: fmt.Sprintf("%s_%s", strings.ToUpper(resource), strings.ToUpper(operation)),
			Payload:   payloadJSON,
			Status:    model.OutboxStatusPending,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := m.eventService.CreateEvent(c.Request.Context(), evt); err != nil {
			log.Error().Err(err).Str("event_type", evt.EventType).Msg("failed to create outbox event")
		}
	}
}
