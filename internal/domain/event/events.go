// Package event holds the domain events raised by aggregates on state
// transitions. Events are immutable facts; they are collected on the
// aggregate and dispatched by an external collaborator after a successful
// commit, never inside the transaction.
package event

import (
	"time"

	"github.com/tasklane/tasklane/internal/domain/valueobject"
)

// Event names as they appear on the wire (routing keys / envelope names).
const (
	NameTodoListCreated   = "todo_list.created"
	NameTodoItemCompleted = "todo_item.completed"
	NameUserDeleted       = "user.deleted"
)

type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}

type TodoListCreated struct {
	ListID     valueobject.EntityID `json:"list_id"`
	OwnerID    valueobject.EntityID `json:"owner_id"`
	Title      string               `json:"title"`
	OccurredOn time.Time            `json:"occurred_at"`
}

func NewTodoListCreated(listID, ownerID valueobject.EntityID, title valueobject.ListTitle) TodoListCreated {
	return TodoListCreated{
		ListID:     listID,
		OwnerID:    ownerID,
		Title:      title.String(),
		OccurredOn: time.Now().UTC(),
	}
}

func (e TodoListCreated) EventName() string     { return NameTodoListCreated }
func (e TodoListCreated) OccurredAt() time.Time { return e.OccurredOn }

type TodoItemCompleted struct {
	ListID     valueobject.EntityID `json:"list_id"`
	ItemID     valueobject.EntityID `json:"item_id"`
	OccurredOn time.Time            `json:"occurred_at"`
}

func NewTodoItemCompleted(listID, itemID valueobject.EntityID) TodoItemCompleted {
	return TodoItemCompleted{ListID: listID, ItemID: itemID, OccurredOn: time.Now().UTC()}
}

func (e TodoItemCompleted) EventName() string     { return NameTodoItemCompleted }
func (e TodoItemCompleted) OccurredAt() time.Time { return e.OccurredOn }

type UserDeleted struct {
	UserID     valueobject.EntityID `json:"user_id"`
	OccurredOn time.Time            `json:"occurred_at"`
}

func NewUserDeleted(userID valueobject.EntityID) UserDeleted {
	return UserDeleted{UserID: userID, OccurredOn: time.Now().UTC()}
}

func (e UserDeleted) EventName() string     { return NameUserDeleted }
func (e UserDeleted) OccurredAt() time.Time { return e.OccurredOn }
