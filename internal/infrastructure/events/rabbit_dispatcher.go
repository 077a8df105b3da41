// Package events publishes domain events to RabbitMQ after a successful
// commit. The core only collects events; this dispatcher is the external
// collaborator that drains them.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tasklane/tasklane/internal/domain/event"
	"github.com/tasklane/tasklane/pkg/helpers"
)

// Envelope is the wire format put on the event queue.
type Envelope struct {
	Name       string          `json:"name"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type RabbitDispatcher struct {
	pub    *helpers.RabbitPublisher
	logger *logrus.Logger
}

func NewRabbitDispatcher(pub *helpers.RabbitPublisher, logger *logrus.Logger) *RabbitDispatcher {
	return &RabbitDispatcher{pub: pub, logger: logger}
}

// Publish sends each event as its own message, in the order raised.
func (d *RabbitDispatcher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		env := Envelope{
			Name:       ev.EventName(),
			OccurredAt: ev.OccurredAt(),
			Payload:    payload,
		}
		if err := d.pub.PublishJSON(ctx, env); err != nil {
			return err
		}
		if d.logger != nil {
			d.logger.WithField("event", ev.EventName()).Debug("domain event published")
		}
	}
	return nil
}
