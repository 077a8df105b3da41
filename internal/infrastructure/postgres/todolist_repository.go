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

const (
	listColumns = "id, title, description, owner_id, created_at, updated_at"
	itemColumns = "id, todo_list_id, title, description, is_completed, priority, created_at, completed_at, due_date"
)

// TodoListRepository loads and stores TodoList aggregates whole: a list
// always travels with its full item collection, so callers never see a
// partially-populated aggregate.
type TodoListRepository struct {
	uow *UnitOfWork
}

// GetByID behaves like GetByIDWithItems: lists are only ever loaded whole.
func (r *TodoListRepository) GetByID(ctx context.Context, id valueobject.EntityID) (*entity.TodoList, error) {
	return r.GetByIDWithItems(ctx, id)
}

func (r *TodoListRepository) GetByIDWithItems(ctx context.Context, id valueobject.EntityID) (*entity.TodoList, error) {
	row := r.uow.db().QueryRow(ctx, `
		SELECT `+listColumns+`
		FROM todo_lists
		WHERE id = $1
	`, id.UUID())

	raw, err := scanListRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.Newf(apperror.NotFound, "todo list %s not found", id)
		}
		return nil, err
	}

	items, err := r.loadItems(ctx, []uuid.UUID{raw.id})
	if err != nil {
		return nil, err
	}
	return raw.rehydrate(items[raw.id])
}

func (r *TodoListRepository) GetByUserID(ctx context.Context, userID valueobject.EntityID) ([]*entity.TodoList, error) {
	return r.queryLists(ctx, `
		SELECT `+listColumns+`
		FROM todo_lists
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, userID.UUID())
}

func (r *TodoListRepository) GetAll(ctx context.Context) ([]*entity.TodoList, error) {
	return r.queryLists(ctx, `
		SELECT `+listColumns+`
		FROM todo_lists
		ORDER BY created_at DESC
	`)
}

func (r *TodoListRepository) Exists(ctx context.Context, id valueobject.EntityID) (bool, error) {
	var exists bool
	err := r.uow.db().QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM todo_lists WHERE id = $1)
	`, id.UUID()).Scan(&exists)
	return exists, err
}

func (r *TodoListRepository) Add(_ context.Context, l *entity.TodoList) error {
	r.uow.stage(func(ctx context.Context, d db) (int64, error) {
		tag, err := d.Exec(ctx, `
			INSERT INTO todo_lists (id, title, description, owner_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, l.ID().UUID(), l.Title().String(), nullableText(l.Description()), l.OwnerID().UUID(), l.CreatedAt(), l.UpdatedAt())
		if err != nil {
			return 0, err
		}
		affected := tag.RowsAffected()

		for _, item := range l.Items() {
			n, err := upsertItem(ctx, d, l.ID().UUID(), item)
			if err != nil {
				return 0, err
			}
			affected += n
		}
		return affected, nil
	})
	return nil
}

// Update stages the whole aggregate: the list row, removal of items no longer
// in the collection, and an upsert per surviving item.
func (r *TodoListRepository) Update(_ context.Context, l *entity.TodoList) error {
	r.uow.stage(func(ctx context.Context, d db) (int64, error) {
		tag, err := d.Exec(ctx, `
			UPDATE todo_lists
			SET title = $2, description = $3, updated_at = $4
			WHERE id = $1
		`, l.ID().UUID(), l.Title().String(), nullableText(l.Description()), l.UpdatedAt())
		if err != nil {
			return 0, err
		}
		if tag.RowsAffected() == 0 {
			return 0, apperror.Newf(apperror.NotFound, "todo list %s not found", l.ID())
		}
		affected := tag.RowsAffected()

		items := l.Items()
		keep := make([]uuid.UUID, 0, len(items))
		for _, item := range items {
			keep = append(keep, item.ID().UUID())
		}
		delTag, err := d.Exec(ctx, `
			DELETE FROM todo_items
			WHERE todo_list_id = $1 AND NOT (id = ANY($2))
		`, l.ID().UUID(), keep)
		if err != nil {
			return 0, err
		}
		affected += delTag.RowsAffected()

		for _, item := range items {
			n, err := upsertItem(ctx, d, l.ID().UUID(), item)
			if err != nil {
				return 0, err
			}
			affected += n
		}
		return affected, nil
	})
	return nil
}

// Delete stages a hard delete; items go with the list via ON DELETE CASCADE.
func (r *TodoListRepository) Delete(_ context.Context, l *entity.TodoList) error {
	r.uow.stage(func(ctx context.Context, d db) (int64, error) {
		tag, err := d.Exec(ctx, `
			DELETE FROM todo_lists WHERE id = $1
		`, l.ID().UUID())
		if err != nil {
			return 0, err
		}
		if tag.RowsAffected() == 0 {
			return 0, apperror.Newf(apperror.NotFound, "todo list %s not found", l.ID())
		}
		return tag.RowsAffected(), nil
	})
	return nil
}

func (r *TodoListRepository) queryLists(ctx context.Context, sql string, args ...any) ([]*entity.TodoList, error) {
	rows, err := r.uow.db().Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	raws := make([]listRow, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		raw, err := scanListRow(rows)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
		ids = append(ids, raw.id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	lists := make([]*entity.TodoList, 0, len(raws))
	for _, raw := range raws {
		l, err := raw.rehydrate(items[raw.id])
		if err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, nil
}

// loadItems fetches the item collections for a batch of lists in one query,
// keyed by list id. Items come back in creation order (id as tiebreak, v7
// ids preserve it within the same timestamp).
func (r *TodoListRepository) loadItems(ctx context.Context, listIDs []uuid.UUID) (map[uuid.UUID][]*entity.TodoItem, error) {
	byList := make(map[uuid.UUID][]*entity.TodoItem, len(listIDs))
	if len(listIDs) == 0 {
		return byList, nil
	}

	rows, err := r.uow.db().Query(ctx, `
		SELECT `+itemColumns+`
		FROM todo_items
		WHERE todo_list_id = ANY($1)
		ORDER BY created_at ASC, id ASC
	`, listIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id          uuid.UUID
			listID      uuid.UUID
			title       string
			description *string
			completed   bool
			priority    int
			createdAt   time.Time
			completedAt *time.Time
			dueDate     *time.Time
		)
		if err := rows.Scan(&id, &listID, &title, &description, &completed, &priority, &createdAt, &completedAt, &dueDate); err != nil {
			return nil, err
		}

		titleVO, err := valueobject.NewItemTitle(title)
		if err != nil {
			return nil, fmt.Errorf("corrupt todo item row %s: %w", id, err)
		}
		descVO, err := valueobject.NewDescription(deref(description))
		if err != nil {
			return nil, fmt.Errorf("corrupt todo item row %s: %w", id, err)
		}
		prioVO, err := valueobject.PriorityFromInt(priority)
		if err != nil {
			return nil, fmt.Errorf("corrupt todo item row %s: %w", id, err)
		}

		byList[listID] = append(byList[listID], entity.RehydrateTodoItem(
			valueobject.EntityIDFromUUID(id),
			titleVO,
			descVO,
			completed,
			prioVO,
			createdAt,
			completedAt,
			dueDate,
		))
	}
	return byList, rows.Err()
}

type listRow struct {
	id          uuid.UUID
	title       string
	description *string
	ownerID     uuid.UUID
	createdAt   time.Time
	updatedAt   *time.Time
}

func scanListRow(row pgx.Row) (listRow, error) {
	var raw listRow
	err := row.Scan(&raw.id, &raw.title, &raw.description, &raw.ownerID, &raw.createdAt, &raw.updatedAt)
	return raw, err
}

func (raw listRow) rehydrate(items []*entity.TodoItem) (*entity.TodoList, error) {
	titleVO, err := valueobject.NewListTitle(raw.title)
	if err != nil {
		return nil, fmt.Errorf("corrupt todo list row %s: %w", raw.id, err)
	}
	descVO, err := valueobject.NewDescription(deref(raw.description))
	if err != nil {
		return nil, fmt.Errorf("corrupt todo list row %s: %w", raw.id, err)
	}
	return entity.RehydrateTodoList(
		valueobject.EntityIDFromUUID(raw.id),
		titleVO,
		descVO,
		valueobject.EntityIDFromUUID(raw.ownerID),
		raw.createdAt,
		raw.updatedAt,
		items,
	), nil
}

func upsertItem(ctx context.Context, d db, listID uuid.UUID, item *entity.TodoItem) (int64, error) {
	tag, err := d.Exec(ctx, `
		INSERT INTO todo_items (id, todo_list_id, title, description, is_completed, priority, created_at, completed_at, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			is_completed = EXCLUDED.is_completed,
			priority = EXCLUDED.priority,
			completed_at = EXCLUDED.completed_at,
			due_date = EXCLUDED.due_date
	`, item.ID().UUID(), listID, item.Title().String(), nullableText(item.Description()),
		item.IsCompleted(), int(item.Priority()), item.CreatedAt(), item.CompletedAt(), item.DueDate())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func nullableText(d valueobject.Description) *string {
	if d.IsEmpty() {
		return nil
	}
	s := d.String()
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ repository.TodoListRepository = (*TodoListRepository)(nil)
