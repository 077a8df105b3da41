package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tasklane/tasklane/internal/domain/apperror"
	"github.com/tasklane/tasklane/internal/domain/entity"
	"github.com/tasklane/tasklane/internal/domain/repository"
	"github.com/tasklane/tasklane/internal/domain/valueobject"
)

const userColumns = "id, name, email, created_at, last_login_at, is_deleted"

// UserRepository is session-scoped: reads go through the owning unit of
// work's session, writes are staged on it. Soft-deleted users are invisible
// to every query here.
type UserRepository struct {
	uow *UnitOfWork
}

func (r *UserRepository) GetByID(ctx context.Context, id valueobject.EntityID) (*entity.User, error) {
	row := r.uow.db().QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1 AND NOT is_deleted
	`, id.UUID())

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.Newf(apperror.NotFound, "user %s not found", id)
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error) {
	row := r.uow.db().QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1 AND NOT is_deleted
	`, email.String())

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.Newf(apperror.NotFound, "user with email %s not found", email)
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.uow.db().Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE NOT is_deleted
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Exists(ctx context.Context, id valueobject.EntityID) (bool, error) {
	var exists bool
	err := r.uow.db().QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND NOT is_deleted)
	`, id.UUID()).Scan(&exists)
	return exists, err
}

// Add stages an insert. The duplicate-email case is deliberately not checked
// here; the unique index reports it as a Conflict at flush time, free of
// read-then-write races.
func (r *UserRepository) Add(_ context.Context, u *entity.User) error {
	r.uow.stage(func(ctx context.Context, d db) (int64, error) {
		tag, err := d.Exec(ctx, `
			INSERT INTO users (id, name, email, created_at, last_login_at, is_deleted)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, u.ID().UUID(), u.Name().String(), u.Email().String(), u.CreatedAt(), u.LastLoginAt(), u.IsDeleted())
		if err != nil {
			return 0, err
		}
		return tag.RowsAffected(), nil
	})
	return nil
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.uow.stage(func(ctx context.Context, d db) (int64, error) {
		tag, err := d.Exec(ctx, `
			UPDATE users
			SET name = $2, email = $3, last_login_at = $4, is_deleted = $5
			WHERE id = $1
		`, u.ID().UUID(), u.Name().String(), u.Email().String(), u.LastLoginAt(), u.IsDeleted())
		if err != nil {
			return 0, err
		}
		if tag.RowsAffected() == 0 {
			return 0, apperror.Newf(apperror.NotFound, "user %s not found", u.ID())
		}
		return tag.RowsAffected(), nil
	})
	return nil
}

// Delete stages the soft-delete flag; rows are never physically removed by
// this layer.
func (r *UserRepository) Delete(_ context.Context, u *entity.User) error {
	r.uow.stage(func(ctx context.Context, d db) (int64, error) {
		tag, err := d.Exec(ctx, `
			UPDATE users SET is_deleted = TRUE WHERE id = $1
		`, u.ID().UUID())
		if err != nil {
			return 0, err
		}
		if tag.RowsAffected() == 0 {
			return 0, apperror.Newf(apperror.NotFound, "user %s not found", u.ID())
		}
		return tag.RowsAffected(), nil
	})
	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		id          uuid.UUID
		name        string
		email       string
		createdAt   time.Time
		lastLoginAt *time.Time
		deleted     bool
	)
	if err := row.Scan(&id, &name, &email, &createdAt, &lastLoginAt, &deleted); err != nil {
		return nil, err
	}

	nameVO, err := valueobject.NewUserName(name)
	if err != nil {
		return nil, fmt.Errorf("corrupt user row %s: %w", id, err)
	}
	emailVO, err := valueobject.NewEmail(email)
	if err != nil {
		return nil, fmt.Errorf("corrupt user row %s: %w", id, err)
	}
	return entity.RehydrateUser(
		valueobject.EntityIDFromUUID(id),
		nameVO,
		emailVO,
		createdAt,
		lastLoginAt,
		deleted,
	), nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
