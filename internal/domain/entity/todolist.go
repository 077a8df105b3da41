package entity

import (
	"time"

	"github.com/tasklane/tasklane/internal/domain/apperror"
	"github.com/tasklane/tasklane/internal/domain/event"
	"github.com/tasklane/tasklane/internal/domain/valueobject"
)

// TodoList is an aggregate root owning an ordered collection of TodoItems by
// composition. OwnerID references a User aggregate; it is a foreign-key-style
// link, not an ownership edge. Every mutation refreshes UpdatedAt, and
// operating on an item id absent from the collection fails NotFound without
// touching any state.
type TodoList struct {
	aggregate

	id          valueobject.EntityID
	title       valueobject.ListTitle
	description valueobject.Description
	ownerID     valueobject.EntityID
	createdAt   time.Time
	updatedAt   *time.Time
	items       []*TodoItem
}

// NewTodoList is the factory for fresh lists; it raises TodoListCreated.
func NewTodoList(title valueobject.ListTitle, description valueobject.Description, ownerID valueobject.EntityID) *TodoList {
	l := &TodoList{
		id:          valueobject.NewEntityID(),
		title:       title,
		description: description,
		ownerID:     ownerID,
		createdAt:   time.Now().UTC(),
	}
	l.record(event.NewTodoListCreated(l.id, ownerID, title))
	return l
}

// RehydrateTodoList reconstructs a list with its items from persisted state
// without raising events. Only the persistence layer should call it.
func RehydrateTodoList(
	id valueobject.EntityID,
	title valueobject.ListTitle,
	description valueobject.Description,
	ownerID valueobject.EntityID,
	createdAt time.Time,
	updatedAt *time.Time,
	items []*TodoItem,
) *TodoList {
	return &TodoList{
		id:          id,
		title:       title,
		description: description,
		ownerID:     ownerID,
		createdAt:   createdAt,
		updatedAt:   copyTime(updatedAt),
		items:       items,
	}
}

func (l *TodoList) ID() valueobject.EntityID             { return l.id }
func (l *TodoList) Title() valueobject.ListTitle         { return l.title }
func (l *TodoList) Description() valueobject.Description { return l.description }
func (l *TodoList) OwnerID() valueobject.EntityID        { return l.ownerID }
func (l *TodoList) CreatedAt() time.Time                 { return l.createdAt }
func (l *TodoList) UpdatedAt() *time.Time                { return copyTime(l.updatedAt) }

// Items returns the items in insertion order. The slice is a copy; the items
// themselves are shared, so callers must not mutate them directly.
func (l *TodoList) Items() []*TodoItem {
	out := make([]*TodoItem, len(l.items))
	copy(out, l.items)
	return out
}

func (l *TodoList) UpdateTitle(title valueobject.ListTitle) {
	l.title = title
	l.touch()
}

func (l *TodoList) UpdateDescription(description valueobject.Description) {
	l.description = description
	l.touch()
}

// AddItem creates a new item inside this list and returns its id.
func (l *TodoList) AddItem(title valueobject.ItemTitle, description valueobject.Description, priority valueobject.Priority, dueDate *time.Time) valueobject.EntityID {
	item := newTodoItem(title, description, priority, dueDate)
	l.items = append(l.items, item)
	l.touch()
	return item.id
}

// CompleteItem marks the referenced item done and raises TodoItemCompleted.
func (l *TodoList) CompleteItem(itemID valueobject.EntityID) error {
	item := l.findItem(itemID)
	if item == nil {
		return l.itemNotFound(itemID)
	}
	item.Complete()
	l.touch()
	l.record(event.NewTodoItemCompleted(l.id, itemID))
	return nil
}

// ReopenItem clears the referenced item's completion state.
func (l *TodoList) ReopenItem(itemID valueobject.EntityID) error {
	item := l.findItem(itemID)
	if item == nil {
		return l.itemNotFound(itemID)
	}
	item.Reopen()
	l.touch()
	return nil
}

// RemoveItem deletes the referenced item from the list.
func (l *TodoList) RemoveItem(itemID valueobject.EntityID) error {
	for idx, item := range l.items {
		if item.id.Equals(itemID) {
			l.items = append(l.items[:idx], l.items[idx+1:]...)
			l.touch()
			return nil
		}
	}
	return l.itemNotFound(itemID)
}

// ItemUpdate describes a partial update; nil fields are left unchanged except
// DueDate, which is applied as given (nil clears it).
type ItemUpdate struct {
	Title       *valueobject.ItemTitle
	Description *valueobject.Description
	Priority    *valueobject.Priority
	DueDate     *time.Time
}

// UpdateItem applies a partial update to the referenced item.
func (l *TodoList) UpdateItem(itemID valueobject.EntityID, update ItemUpdate) error {
	item := l.findItem(itemID)
	if item == nil {
		return l.itemNotFound(itemID)
	}
	if update.Title != nil {
		item.updateTitle(*update.Title)
	}
	if update.Description != nil {
		item.updateDescription(*update.Description)
	}
	if update.Priority != nil {
		item.updatePriority(*update.Priority)
	}
	item.updateDueDate(update.DueDate)
	l.touch()
	return nil
}

func (l *TodoList) TotalItems() int { return len(l.items) }

func (l *TodoList) CompletedItems() int {
	n := 0
	for _, item := range l.items {
		if item.completed {
			n++
		}
	}
	return n
}

func (l *TodoList) PendingItems() int {
	return len(l.items) - l.CompletedItems()
}

func (l *TodoList) OverdueItems() int {
	n := 0
	for _, item := range l.items {
		if item.IsOverdue() {
			n++
		}
	}
	return n
}

// CompletionPercentage is 0 for an empty list, else 100*completed/total.
func (l *TodoList) CompletionPercentage() float64 {
	if len(l.items) == 0 {
		return 0
	}
	return float64(l.CompletedItems()) / float64(len(l.items)) * 100
}

// IsCompleted is true iff the list is non-empty and every item is done.
func (l *TodoList) IsCompleted() bool {
	return len(l.items) > 0 && l.CompletedItems() == len(l.items)
}

func (l *TodoList) findItem(itemID valueobject.EntityID) *TodoItem {
	for _, item := range l.items {
		if item.id.Equals(itemID) {
			return item
		}
	}
	return nil
}

func (l *TodoList) itemNotFound(itemID valueobject.EntityID) error {
	return apperror.Newf(apperror.NotFound, "todo item %s not found in list %s", itemID, l.id)
}

func (l *TodoList) touch() {
	now := time.Now().UTC()
	l.updatedAt = &now
}
