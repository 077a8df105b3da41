// Package entity contains the aggregate roots (User, TodoList) and the
// TodoItem child entity. All state lives behind methods; invariants that span
// fields or children are enforced here, not in callers.
package entity

import (
	"slices"

	"github.com/tasklane/tasklane/internal/domain/event"
)

// aggregate is embedded by aggregate roots to collect pending domain events.
type aggregate struct {
	events []event.DomainEvent
}

func (a *aggregate) record(e event.DomainEvent) {
	a.events = append(a.events, e)
}

// DomainEvents returns a snapshot of the pending events; mutating the
// returned slice does not affect the aggregate.
func (a *aggregate) DomainEvents() []event.DomainEvent {
	return slices.Clone(a.events)
}

// ClearDomainEvents is called exactly once per successful commit by the
// dispatching collaborator.
func (a *aggregate) ClearDomainEvents() {
	a.events = nil
}
