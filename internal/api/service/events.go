package service

import (
	"api"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// WorkflowEvent is published on NATS after a successful operation batch so
// the realtime bridge can fan it out to connected editors.
type WorkflowEvent struct {
	WorkflowID string    `json:"workflowId"`
	Name       string    `json:"name"`
	Version    int       `json:"version"`
	Operations int       `json:"operations"`
	AppliedAt  time.Time `json:"appliedAt"`
}

// EventPublisher pushes workflow events to workflow.<id>.updated. A nil
// connection turns every publish into a no-op, so deployments without NATS
// keep working.
type EventPublisher struct {
	conn   *nats.Conn
	logger zerolog.Logger
}

func NewEventPublisher() *EventPublisher {
	return &EventPublisher{conn: api.Nats, logger: api.Logger}
}

func (slf *EventPublisher) WorkflowUpdated(event WorkflowEvent) {
	if slf.conn == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slf.logger.Error().Err(err).Str("workflowId", event.WorkflowID).Msg("Error marshaling workflow event")
		return
	}
	subject := fmt.Sprintf("workflow.%s.updated", event.WorkflowID)
	if err := slf.conn.Publish(subject, payload); err != nil {
		slf.logger.Error().Err(err).Str("subject", subject).Msg("Error publishing workflow event")
	}
}
