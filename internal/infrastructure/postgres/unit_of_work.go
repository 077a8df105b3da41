package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tasklane/tasklane/internal/domain/apperror"
	"github.com/tasklane/tasklane/internal/domain/repository"
)

// db is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so reads and
// staged writes run against the pool or the open transaction transparently.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pendingOp is one staged write; it reports the rows it affected.
type pendingOp func(ctx context.Context, d db) (int64, error)

// UnitOfWork binds repositories to one session. Writes are staged and flushed
// by SaveChanges inside a single transaction, in staging order. Without an
// explicit Begin, SaveChanges opens and commits its own transaction; inside
// an explicit envelope it only flushes, and Commit seals the envelope.
type UnitOfWork struct {
	pool    *pgxpool.Pool
	tx      pgx.Tx
	pending []pendingOp
	failed  bool

	users     *UserRepository
	todoLists *TodoListRepository
}

// NewUnitOfWork creates a request-scoped unit of work. Repositories are
// constructed eagerly; they live exactly as long as the unit of work.
func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	u := &UnitOfWork{pool: pool}
	u.users = &UserRepository{uow: u}
	u.todoLists = &TodoListRepository{uow: u}
	return u
}

func (u *UnitOfWork) Users() repository.UserRepository { return u.users }

func (u *UnitOfWork) TodoLists() repository.TodoListRepository { return u.todoLists }

func (u *UnitOfWork) db() db {
	if u.tx != nil {
		return u.tx
	}
	return u.pool
}

func (u *UnitOfWork) stage(op pendingOp) {
	u.pending = append(u.pending, op)
}

func (u *UnitOfWork) SaveChanges(ctx context.Context) (int64, error) {
	if u.failed {
		return 0, apperror.New(apperror.Invariant, "unit of work failed a previous flush; discard it")
	}
	if len(u.pending) == 0 {
		return 0, nil
	}

	if u.tx != nil {
		affected, err := u.flush(ctx, u.tx)
		if err != nil {
			u.failed = true
			return 0, translateError(err)
		}
		u.pending = nil
		return affected, nil
	}

	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return 0, translateError(err)
	}
	affected, err := u.flush(ctx, tx)
	if err != nil {
		_ = tx.Rollback(ctx)
		u.failed = true
		return 0, translateError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		u.failed = true
		return 0, translateError(err)
	}
	u.pending = nil
	return affected, nil
}

func (u *UnitOfWork) flush(ctx context.Context, d db) (int64, error) {
	var affected int64
	for _, op := range u.pending {
		n, err := op(ctx, d)
		if err != nil {
			return 0, err
		}
		affected += n
	}
	return affected, nil
}

// Begin opens an explicit transaction. Calling it while one is already open
// is a programming error and fails fast.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return apperror.New(apperror.Invariant, "transaction already open")
	}
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return translateError(err)
	}
	u.tx = tx
	return nil
}

// Commit seals the explicit transaction. No-op when none is open.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Commit(ctx); err != nil {
		u.failed = true
		return translateError(err)
	}
	return nil
}

// Rollback discards the explicit transaction. No-op when none is open.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return translateError(err)
	}
	return nil
}

// Close releases the session, rolling back any transaction still open. Safe
// to defer on every exit path of the owning request scope.
func (u *UnitOfWork) Close(ctx context.Context) error {
	u.pending = nil
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return translateError(err)
	}
	return nil
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)

// NewUnitOfWorkFactory adapts the pool into the factory the application
// layer consumes: one fresh unit of work per logical request.
func NewUnitOfWorkFactory(pool *pgxpool.Pool) repository.UnitOfWorkFactory {
	return func() repository.UnitOfWork {
		return NewUnitOfWork(pool)
	}
}
