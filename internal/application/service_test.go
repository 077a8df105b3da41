package application

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklane/tasklane/internal/domain/apperror"
	"github.com/tasklane/tasklane/internal/domain/entity"
	"github.com/tasklane/tasklane/internal/domain/event"
	"github.com/tasklane/tasklane/internal/domain/repository"
	"github.com/tasklane/tasklane/internal/domain/valueobject"
)

// memStore is shared committed state behind the fake units of work.
type memStore struct {
	users map[string]*entity.User
	lists map[string]*entity.TodoList
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[string]*entity.User),
		lists: make(map[string]*entity.TodoList),
	}
}

// memUoW stages closures exactly like the real unit of work and applies them
// on SaveChanges.
type memUoW struct {
	store   *memStore
	pending []func() (int64, error)
	failed  bool
}

func (m *memUoW) Users() repository.UserRepository         { return memUserRepo{m} }
func (m *memUoW) TodoLists() repository.TodoListRepository { return memListRepo{m} }

func (m *memUoW) SaveChanges(context.Context) (int64, error) {
	if m.failed {
		return 0, apperror.New(apperror.Invariant, "unit of work failed a previous flush; discard it")
	}
	var affected int64
	for _, op := range m.pending {
		n, err := op()
		if err != nil {
			m.failed = true
			return 0, err
		}
		affected += n
	}
	m.pending = nil
	return affected, nil
}

func (m *memUoW) Begin(context.Context) error    { return nil }
func (m *memUoW) Commit(context.Context) error   { return nil }
func (m *memUoW) Rollback(context.Context) error { return nil }
func (m *memUoW) Close(context.Context) error {
	m.pending = nil
	return nil
}

func factoryFor(store *memStore) repository.UnitOfWorkFactory {
	return func() repository.UnitOfWork { return &memUoW{store: store} }
}

type memUserRepo struct{ uow *memUoW }

func (r memUserRepo) GetByID(_ context.Context, id valueobject.EntityID) (*entity.User, error) {
	u, ok := r.uow.store.users[id.String()]
	if !ok || u.IsDeleted() {
		return nil, apperror.Newf(apperror.NotFound, "user %s not found", id)
	}
	return u, nil
}

func (r memUserRepo) GetByEmail(_ context.Context, email valueobject.Email) (*entity.User, error) {
	for _, u := range r.uow.store.users {
		if !u.IsDeleted() && u.Email().Equals(email) {
			return u, nil
		}
	}
	return nil, apperror.Newf(apperror.NotFound, "user with email %s not found", email)
}

func (r memUserRepo) GetAll(context.Context) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.uow.store.users))
	for _, u := range r.uow.store.users {
		if !u.IsDeleted() {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name().String() < out[j].Name().String() })
	return out, nil
}

func (r memUserRepo) Exists(_ context.Context, id valueobject.EntityID) (bool, error) {
	u, ok := r.uow.store.users[id.String()]
	return ok && !u.IsDeleted(), nil
}

func (r memUserRepo) Add(_ context.Context, u *entity.User) error {
	r.uow.pending = append(r.uow.pending, func() (int64, error) {
		for _, existing := range r.uow.store.users {
			if !existing.IsDeleted() && existing.Email().Equals(u.Email()) {
				return 0, apperror.New(apperror.Conflict, "unique constraint users_email_key violated")
			}
		}
		r.uow.store.users[u.ID().String()] = u
		return 1, nil
	})
	return nil
}

func (r memUserRepo) Update(_ context.Context, u *entity.User) error {
	r.uow.pending = append(r.uow.pending, func() (int64, error) {
		if _, ok := r.uow.store.users[u.ID().String()]; !ok {
			return 0, apperror.Newf(apperror.NotFound, "user %s not found", u.ID())
		}
		r.uow.store.users[u.ID().String()] = u
		return 1, nil
	})
	return nil
}

func (r memUserRepo) Delete(_ context.Context, u *entity.User) error {
	r.uow.pending = append(r.uow.pending, func() (int64, error) {
		if _, ok := r.uow.store.users[u.ID().String()]; !ok {
			return 0, apperror.Newf(apperror.NotFound, "user %s not found", u.ID())
		}
		// soft delete: the aggregate already carries the flag
		r.uow.store.users[u.ID().String()] = u
		return 1, nil
	})
	return nil
}

type memListRepo struct{ uow *memUoW }

func (r memListRepo) GetByID(ctx context.Context, id valueobject.EntityID) (*entity.TodoList, error) {
	return r.GetByIDWithItems(ctx, id)
}

func (r memListRepo) GetByIDWithItems(_ context.Context, id valueobject.EntityID) (*entity.TodoList, error) {
	l, ok := r.uow.store.lists[id.String()]
	if !ok {
		return nil, apperror.Newf(apperror.NotFound, "todo list %s not found", id)
	}
	return l, nil
}

func (r memListRepo) GetByUserID(_ context.Context, userID valueobject.EntityID) ([]*entity.TodoList, error) {
	out := make([]*entity.TodoList, 0)
	for _, l := range r.uow.store.lists {
		if l.OwnerID().Equals(userID) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out, nil
}

func (r memListRepo) GetAll(context.Context) ([]*entity.TodoList, error) {
	out := make([]*entity.TodoList, 0, len(r.uow.store.lists))
	for _, l := range r.uow.store.lists {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out, nil
}

func (r memListRepo) Exists(_ context.Context, id valueobject.EntityID) (bool, error) {
	_, ok := r.uow.store.lists[id.String()]
	return ok, nil
}

func (r memListRepo) Add(_ context.Context, l *entity.TodoList) error {
	r.uow.pending = append(r.uow.pending, func() (int64, error) {
		r.uow.store.lists[l.ID().String()] = l
		return 1, nil
	})
	return nil
}

func (r memListRepo) Update(_ context.Context, l *entity.TodoList) error {
	r.uow.pending = append(r.uow.pending, func() (int64, error) {
		if _, ok := r.uow.store.lists[l.ID().String()]; !ok {
			return 0, apperror.Newf(apperror.NotFound, "todo list %s not found", l.ID())
		}
		r.uow.store.lists[l.ID().String()] = l
		return 1, nil
	})
	return nil
}

func (r memListRepo) Delete(_ context.Context, l *entity.TodoList) error {
	r.uow.pending = append(r.uow.pending, func() (int64, error) {
		if _, ok := r.uow.store.lists[l.ID().String()]; !ok {
			return 0, apperror.Newf(apperror.NotFound, "todo list %s not found", l.ID())
		}
		delete(r.uow.store.lists, l.ID().String())
		return 1, nil
	})
	return nil
}

// capturePublisher records every published event.
type capturePublisher struct {
	events []event.DomainEvent
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, evs ...event.DomainEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evs...)
	return nil
}

func (p *capturePublisher) names() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventName())
	}
	return out
}

func newServices(t *testing.T) (*UserService, *TodoListService, *capturePublisher) {
	t.Helper()
	store := newMemStore()
	pub := &capturePublisher{}
	factory := factoryFor(store)
	return NewUserService(factory, pub, nil), NewTodoListService(factory, pub, nil), pub
}

func TestCreateUserNormalizesEmail(t *testing.T) {
	users, _, _ := newServices(t)
	ctx := context.Background()

	u, err := users.CreateUser(ctx, "Alice", "  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEmpty(t, u.ID)
	assert.Nil(t, u.LastLoginAt)
}

func TestCreateUserValidation(t *testing.T) {
	users, _, _ := newServices(t)
	ctx := context.Background()

	_, err := users.CreateUser(ctx, "A", "alice@example.com")
	assert.True(t, apperror.IsValidation(err))

	_, err = users.CreateUser(ctx, "Alice", "not-an-email")
	assert.True(t, apperror.IsValidation(err))

	all, err := users.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateUserDuplicateEmailConflict(t *testing.T) {
	users, _, _ := newServices(t)
	ctx := context.Background()

	_, err := users.CreateUser(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)

	// normalization makes these the same address
	_, err = users.CreateUser(ctx, "Alice Clone", "ALICE@example.com")
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestDeletedUserFreesEmail(t *testing.T) {
	users, _, _ := newServices(t)
	ctx := context.Background()

	created, err := users.CreateUser(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)
	require.NoError(t, users.DeleteUser(ctx, created.ID))

	// soft-deleted users do not hold their address
	_, err = users.CreateUser(ctx, "Alice Again", "alice@example.com")
	require.NoError(t, err)
}

func TestGetUserByID(t *testing.T) {
	users, _, _ := newServices(t)
	ctx := context.Background()

	created, err := users.CreateUser(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)

	got, err := users.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = users.GetUserByID(ctx, "not-a-uuid")
	assert.True(t, apperror.IsValidation(err))

	_, err = users.GetUserByID(ctx, valueobject.NewEntityID().String())
	assert.True(t, apperror.IsNotFound(err))
}

func TestGetAllUsersSortedByName(t *testing.T) {
	users, _, _ := newServices(t)
	ctx := context.Background()

	for _, n := range []string{"Carol", "Alice", "Bob"} {
		_, err := users.CreateUser(ctx, n, n+"@example.com")
		require.NoError(t, err)
	}

	all, err := users.GetAllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, []string{all[0].Name, all[1].Name, all[2].Name})
}

func TestDeleteUserSoftDeletesAndPublishes(t *testing.T) {
	users, _, pub := newServices(t)
	ctx := context.Background()

	created, err := users.CreateUser(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)

	require.NoError(t, users.DeleteUser(ctx, created.ID))
	assert.Contains(t, pub.names(), event.NameUserDeleted)

	_, err = users.GetUserByID(ctx, created.ID)
	assert.True(t, apperror.IsNotFound(err))

	all, err := users.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	// deleting again: the aggregate is invisible now
	err = users.DeleteUser(ctx, created.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateTodoListRequiresOwner(t *testing.T) {
	_, lists, _ := newServices(t)
	ctx := context.Background()

	_, err := lists.CreateTodoList(ctx, valueobject.NewEntityID().String(), "Groceries", "")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateTodoListPublishesCreated(t *testing.T) {
	users, lists, pub := newServices(t)
	ctx := context.Background()

	owner, err := users.CreateUser(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)

	l, err := lists.CreateTodoList(ctx, owner.ID, "Groceries", "weekly shopping")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", l.Title)
	assert.Equal(t, owner.ID, l.OwnerID)
	assert.Equal(t, 0, l.TotalItems)
	assert.Contains(t, pub.names(), event.NameTodoListCreated)
}

func TestTodoItemLifecycle(t *testing.T) {
	users, lists, pub := newServices(t)
	ctx := context.Background()

	owner, err := users.CreateUser(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)
	l, err := lists.CreateTodoList(ctx, owner.ID, "Groceries", "")
	require.NoError(t, err)

	itemID, err := lists.AddTodoItem(ctx, l.ID, AddItemInput{Title: "Buy milk", Priority: "high"})
	require.NoError(t, err)
	require.NotEmpty(t, itemID)

	withItems, err := lists.GetTodoListWithItems(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, withItems.Items, 1)
	assert.Equal(t, "Buy milk", withItems.Items[0].Title)
	assert.Equal(t, "high", withItems.Items[0].Priority)
	assert.False(t, withItems.IsCompleted)

	require.NoError(t, lists.CompleteTodoItem(ctx, l.ID, itemID))
	assert.Contains(t, pub.names(), event.NameTodoItemCompleted)

	withItems, err = lists.GetTodoListWithItems(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, withItems.Items[0].IsCompleted)
	assert.Equal(t, 100.0, withItems.CompletionPercentage)
	assert.True(t, withItems.IsCompleted)

	require.NoError(t, lists.ReopenTodoItem(ctx, l.ID, itemID))
	withItems, err = lists.GetTodoListWithItems(ctx, l.ID)
	require.NoError(t, err)
	assert.False(t, withItems.Items[0].IsCompleted)
	assert.Equal(t, 0.0, withItems.CompletionPercentage)
}

func TestAddTodoItemDefaultsToMediumPriority(t *testing.T) {
	users, lists, _ := newServices(t)
	ctx := context.Background()

	owner, err := users.CreateUser(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)
	l, err := lists.CreateTodoList(ctx, owner.ID, "Groceries", "")
	require.NoError(t, err)

	_, err = lists.AddTodoItem(ctx, l.ID, AddItemInput{Title: "Buy milk"})
	require.NoError(t, err)

	withItems, err := lists.GetTodoListWithItems(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "medium", withItems.Items[0].Priority)
}

func TestOverdueItemClearsOnCompletion(t *testing.T) {
	users, lists, _ := newServices(t)
	ctx := context.Background()

	owner, err := users.CreateUser(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)
	l, err := lists.CreateTodoList(ctx, owner.ID, "Groceries", "")
	require.NoError(t, err)

	past := time.Now().UTC().Add(-time.Hour)
	itemID, err := lists.AddTodoItem(ctx, l.ID, AddItemInput{Title: "Buy milk", DueDate: &past})
	require.NoError(t, err)

	withItems, err := lists.GetTodoListWithItems(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, withItems.OverdueItems)
	assert.True(t, withItems.Items[0].IsOverdue)

	require.NoError(t, lists.CompleteTodoItem(ctx, l.ID, itemID))
	withItems, err = lists.GetTodoListWithItems(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, withItems.OverdueItems)
	assert.False(t, withItems.Items[0].IsOverdue)
}

func TestUpdateTodoListPartial(t *testing.T) {
	users, lists, _ := newServices(t)
	ctx := context.Background()

	owner, err := users.CreateUser(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)
	l, err := lists.CreateTodoList(ctx, owner.ID, "Groceries", "old text")
	require.NoError(t, err)

	newTitle := "Weekend shopping"
	updated, err := lists.UpdateTodoList(ctx, l.ID, ListUpdateInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Weekend shopping", updated.Title)
	assert.Equal(t, "old text", updated.Description)
}

func TestUpdateTodoItemPartial(t *testing.T) {
	users, lists, _ := newServices(t)
	ctx := context.Background()

	owner, err := users.CreateUser(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)
	l, err := lists.CreateTodoList(ctx, owner.ID, "Groceries", "")
	require.NoError(t, err)
	itemID, err := lists.AddTodoItem(ctx, l.ID, AddItemInput{Title: "Buy milk", Priority: "low"})
	require.NoError(t, err)

	newPriority := "high"
	require.NoError(t, lists.UpdateTodoItem(ctx, l.ID, itemID, ItemUpdateInput{Priority: &newPriority}))

	withItems, err := lists.GetTodoListWithItems(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "high", withItems.Items[0].Priority)
	assert.Equal(t, "Buy milk", withItems.Items[0].Title)
}

func TestItemOperationsOnMissingIDs(t *testing.T) {
	users, lists, _ := newServices(t)
	ctx := context.Background()

	owner, err := users.CreateUser(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)
	l, err := lists.CreateTodoList(ctx, owner.ID, "Groceries", "")
	require.NoError(t, err)

	missing := valueobject.NewEntityID().String()
	assert.True(t, apperror.IsNotFound(lists.CompleteTodoItem(ctx, l.ID, missing)))
	assert.True(t, apperror.IsNotFound(lists.RemoveTodoItem(ctx, l.ID, missing)))
	assert.True(t, apperror.IsNotFound(lists.CompleteTodoItem(ctx, missing, missing)))
}

func TestDeleteTodoList(t *testing.T) {
	users, lists, _ := newServices(t)
	ctx := context.Background()

	owner, err := users.CreateUser(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)
	l, err := lists.CreateTodoList(ctx, owner.ID, "Groceries", "")
	require.NoError(t, err)

	require.NoError(t, lists.DeleteTodoList(ctx, l.ID))
	_, err = lists.GetTodoListWithItems(ctx, l.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestGetUserTodoListsNewestFirst(t *testing.T) {
	users, lists, _ := newServices(t)
	ctx := context.Background()

	owner, err := users.CreateUser(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)

	first, err := lists.CreateTodoList(ctx, owner.ID, "First", "")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := lists.CreateTodoList(ctx, owner.ID, "Second", "")
	require.NoError(t, err)

	all, err := lists.GetUserTodoLists(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	store := newMemStore()
	pub := &capturePublisher{err: errors.New("broker down")}
	users := NewUserService(factoryFor(store), pub, nil)

	created, err := users.CreateUser(context.Background(), "Alice", "alice@example.com")
	require.NoError(t, err)
	require.NoError(t, users.DeleteUser(context.Background(), created.ID))
}
