package entity

import (
	"time"

	"github.com/tasklane/tasklane/internal/domain/valueobject"
)

// TodoItem is a child entity owned by a TodoList. It has no repository and no
// lifecycle outside its parent; every mutation goes through the list.
type TodoItem struct {
	id          valueobject.EntityID
	title       valueobject.ItemTitle
	description valueobject.Description
	completed   bool
	priority    valueobject.Priority
	createdAt   time.Time
	completedAt *time.Time
	dueDate     *time.Time
}

func newTodoItem(title valueobject.ItemTitle, description valueobject.Description, priority valueobject.Priority, dueDate *time.Time) *TodoItem {
	return &TodoItem{
		id:          valueobject.NewEntityID(),
		title:       title,
		description: description,
		priority:    priority,
		createdAt:   time.Now().UTC(),
		dueDate:     copyTime(dueDate),
	}
}

// RehydrateTodoItem reconstructs an item from persisted state. Only the
// persistence layer should call it.
func RehydrateTodoItem(
	id valueobject.EntityID,
	title valueobject.ItemTitle,
	description valueobject.Description,
	completed bool,
	priority valueobject.Priority,
	createdAt time.Time,
	completedAt *time.Time,
	dueDate *time.Time,
) *TodoItem {
	return &TodoItem{
		id:          id,
		title:       title,
		description: description,
		completed:   completed,
		priority:    priority,
		createdAt:   createdAt,
		completedAt: copyTime(completedAt),
		dueDate:     copyTime(dueDate),
	}
}

func (i *TodoItem) ID() valueobject.EntityID             { return i.id }
func (i *TodoItem) Title() valueobject.ItemTitle         { return i.title }
func (i *TodoItem) Description() valueobject.Description { return i.description }
func (i *TodoItem) IsCompleted() bool                    { return i.completed }
func (i *TodoItem) Priority() valueobject.Priority       { return i.priority }
func (i *TodoItem) CreatedAt() time.Time                 { return i.createdAt }
func (i *TodoItem) CompletedAt() *time.Time              { return copyTime(i.completedAt) }
func (i *TodoItem) DueDate() *time.Time                  { return copyTime(i.dueDate) }

// IsOverdue reports whether the item has a due date in the past and is still
// open. Completing an item clears the overdue state regardless of due date.
func (i *TodoItem) IsOverdue() bool {
	return i.dueDate != nil && i.dueDate.Before(time.Now().UTC()) && !i.completed
}

// Complete marks the item done. No-op when already completed, so CompletedAt
// keeps its original value.
func (i *TodoItem) Complete() {
	if i.completed {
		return
	}
	i.completed = true
	now := time.Now().UTC()
	i.completedAt = &now
}

// Reopen clears the completion state. No-op when the item is still open.
func (i *TodoItem) Reopen() {
	if !i.completed {
		return
	}
	i.completed = false
	i.completedAt = nil
}

func (i *TodoItem) updateTitle(title valueobject.ItemTitle) {
	i.title = title
}

func (i *TodoItem) updateDescription(description valueobject.Description) {
	i.description = description
}

func (i *TodoItem) updatePriority(priority valueobject.Priority) {
	i.priority = priority
}

func (i *TodoItem) updateDueDate(dueDate *time.Time) {
	i.dueDate = copyTime(dueDate)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
