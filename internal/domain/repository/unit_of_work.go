package repository

import "context"

// UnitOfWork binds repository operations to a single transactional session.
// Repositories obtained from it are session-scoped: one instance per type for
// the unit of work's whole lifetime.
//
// Transaction state machine: NoTransaction -> Begin -> Open -> Commit or
// Rollback -> NoTransaction. Begin while a transaction is already open fails
// fast with an Invariant error. Commit and Rollback with no open transaction
// are no-ops.
type UnitOfWork interface {
	Users() UserRepository
	TodoLists() TodoListRepository

	// SaveChanges flushes all staged operations atomically, in staging order,
	// and returns the number of affected rows. Constraint violations surface
	// as Conflict or NotFound errors; after a failed flush the unit of work
	// is poisoned and the caller must discard it.
	SaveChanges(ctx context.Context) (int64, error)

	// Begin opens an explicit transaction envelope for callers needing
	// several SaveChanges calls in one atomic unit.
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// Close releases the session, rolling back any transaction still open.
	// Safe to defer on every exit path.
	Close(ctx context.Context) error
}

// UnitOfWorkFactory creates a fresh unit of work per logical request. The
// underlying session is never shared across concurrent requests.
type UnitOfWorkFactory func() UnitOfWork
