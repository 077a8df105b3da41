// Package repository defines the persistence contracts for the aggregate
// roots and the unit of work binding them to one transactional session.
//
// Add, Update and Delete stage a change inside the owning unit of work; they
// never commit. SaveChanges flushes everything staged atomically, so several
// repository operations can share one commit.
package repository

import (
	"context"

	"github.com/tasklane/tasklane/internal/domain/entity"
	"github.com/tasklane/tasklane/internal/domain/valueobject"
)

// CRUD is the generic per-aggregate-root contract. Aggregate-specific
// repositories embed it and add only their non-generic queries.
type CRUD[T any] interface {
	// GetByID returns the aggregate or a NotFound error.
	GetByID(ctx context.Context, id valueobject.EntityID) (*T, error)
	// Add stages an insert of the aggregate.
	Add(ctx context.Context, aggregate *T) error
	// Update stages an update; flushing fails NotFound if the row is gone.
	Update(ctx context.Context, aggregate *T) error
	// Delete stages removal of the aggregate.
	Delete(ctx context.Context, aggregate *T) error
	// Exists reports whether the id refers to a live aggregate.
	Exists(ctx context.Context, id valueobject.EntityID) (bool, error)
}

// UserRepository persists User aggregates. Soft-deleted users are excluded
// from every query; Delete stages the soft-delete flag, never a row removal.
type UserRepository interface {
	CRUD[entity.User]
	// GetByEmail matches on the normalized address.
	GetByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error)
	// GetAll returns users ordered by name ascending.
	GetAll(ctx context.Context) ([]*entity.User, error)
}

// TodoListRepository persists TodoList aggregates together with their items.
// Loaded lists always carry the full item collection (eager load).
type TodoListRepository interface {
	CRUD[entity.TodoList]
	// GetByUserID returns the owner's lists ordered by creation time descending.
	GetByUserID(ctx context.Context, userID valueobject.EntityID) ([]*entity.TodoList, error)
	// GetByIDWithItems returns the list with its items populated, or NotFound.
	GetByIDWithItems(ctx context.Context, id valueobject.EntityID) (*entity.TodoList, error)
	// GetAll returns every list ordered by creation time descending.
	GetAll(ctx context.Context) ([]*entity.TodoList, error)
}
