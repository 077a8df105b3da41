package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/tasklane/tasklane/internal/domain/event"
)

// EventPublisher delivers committed domain events to the outside world.
// Dispatch happens strictly after SaveChanges succeeds and is best-effort:
// a publish failure never fails the committed operation.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

type eventSource interface {
	DomainEvents() []event.DomainEvent
	ClearDomainEvents()
}

// dispatchEvents drains the aggregate's pending events, publishes them, and
// clears them exactly once.
func dispatchEvents(ctx context.Context, pub EventPublisher, logger *logrus.Logger, src eventSource) {
	evs := src.DomainEvents()
	if len(evs) == 0 {
		return
	}
	defer src.ClearDomainEvents()
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, evs...); err != nil && logger != nil {
		logger.WithError(err).WithField("events", len(evs)).Warn("domain event dispatch failed")
	}
}
