package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tasklane/tasklane/internal/domain/apperror"
	"github.com/tasklane/tasklane/internal/domain/entity"
	"github.com/tasklane/tasklane/internal/domain/repository"
	"github.com/tasklane/tasklane/internal/domain/valueobject"
)

// TodoListService holds the command and query handlers for the TodoList
// aggregate. Lists are always loaded with their items and written back whole.
type TodoListService struct {
	UoW    repository.UnitOfWorkFactory
	Events EventPublisher
	Logger *logrus.Logger
}

func NewTodoListService(uow repository.UnitOfWorkFactory, events EventPublisher, logger *logrus.Logger) *TodoListService {
	return &TodoListService{UoW: uow, Events: events, Logger: logger}
}

func (s *TodoListService) CreateTodoList(ctx context.Context, userID, title, description string) (TodoListDTO, error) {
	ownerID, err := valueobject.ParseEntityID(userID)
	if err != nil {
		return TodoListDTO{}, err
	}
	titleVO, err := valueobject.NewListTitle(title)
	if err != nil {
		return TodoListDTO{}, err
	}
	descVO, err := valueobject.NewDescription(description)
	if err != nil {
		return TodoListDTO{}, err
	}

	uow := s.UoW()
	defer func() { _ = uow.Close(ctx) }()

	exists, err := uow.Users().Exists(ctx, ownerID)
	if err != nil {
		return TodoListDTO{}, err
	}
	if !exists {
		return TodoListDTO{}, apperror.Newf(apperror.NotFound, "user %s not found", ownerID)
	}

	l := entity.NewTodoList(titleVO, descVO, ownerID)
	if err := uow.TodoLists().Add(ctx, l); err != nil {
		return TodoListDTO{}, err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return TodoListDTO{}, err
	}
	dispatchEvents(ctx, s.Events, s.Logger, l)

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"list_id": l.ID().String(), "owner_id": ownerID.String()}).Info("todo list created")
	}
	return toTodoListDTO(l), nil
}

func (s *TodoListService) GetUserTodoLists(ctx context.Context, userID string) ([]TodoListDTO, error) {
	ownerID, err := valueobject.ParseEntityID(userID)
	if err != nil {
		return nil, err
	}

	uow := s.UoW()
	defer func() { _ = uow.Close(ctx) }()

	lists, err := uow.TodoLists().GetByUserID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return toTodoListDTOs(lists), nil
}

func (s *TodoListService) GetTodoListWithItems(ctx context.Context, listID string) (TodoListWithItemsDTO, error) {
	id, err := valueobject.ParseEntityID(listID)
	if err != nil {
		return TodoListWithItemsDTO{}, err
	}

	uow := s.UoW()
	defer func() { _ = uow.Close(ctx) }()

	l, err := uow.TodoLists().GetByIDWithItems(ctx, id)
	if err != nil {
		return TodoListWithItemsDTO{}, err
	}
	return toTodoListWithItemsDTO(l), nil
}

// ListUpdateInput is a partial update; nil fields keep their current value.
type ListUpdateInput struct {
	Title       *string
	Description *string
}

func (s *TodoListService) UpdateTodoList(ctx context.Context, listID string, in ListUpdateInput) (TodoListDTO, error) {
	id, err := valueobject.ParseEntityID(listID)
	if err != nil {
		return TodoListDTO{}, err
	}

	uow := s.UoW()
	defer func() { _ = uow.Close(ctx) }()

	l, err := uow.TodoLists().GetByIDWithItems(ctx, id)
	if err != nil {
		return TodoListDTO{}, err
	}
	if in.Title != nil {
		titleVO, err := valueobject.NewListTitle(*in.Title)
		if err != nil {
			return TodoListDTO{}, err
		}
		l.UpdateTitle(titleVO)
	}
	if in.Description != nil {
		descVO, err := valueobject.NewDescription(*in.Description)
		if err != nil {
			return TodoListDTO{}, err
		}
		l.UpdateDescription(descVO)
	}
	if err := uow.TodoLists().Update(ctx, l); err != nil {
		return TodoListDTO{}, err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return TodoListDTO{}, err
	}
	return toTodoListDTO(l), nil
}

func (s *TodoListService) DeleteTodoList(ctx context.Context, listID string) error {
	id, err := valueobject.ParseEntityID(listID)
	if err != nil {
		return err
	}

	uow := s.UoW()
	defer func() { _ = uow.Close(ctx) }()

	l, err := uow.TodoLists().GetByIDWithItems(ctx, id)
	if err != nil {
		return err
	}
	if err := uow.TodoLists().Delete(ctx, l); err != nil {
		return err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.WithField("list_id", l.ID().String()).Info("todo list deleted")
	}
	return nil
}

// AddItemInput carries the fields for a new item. Priority defaults to
// medium when empty.
type AddItemInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
}

// AddTodoItem appends an item to the list and returns the new item id.
func (s *TodoListService) AddTodoItem(ctx context.Context, listID string, in AddItemInput) (string, error) {
	id, err := valueobject.ParseEntityID(listID)
	if err != nil {
		return "", err
	}
	titleVO, err := valueobject.NewItemTitle(in.Title)
	if err != nil {
		return "", err
	}
	descVO, err := valueobject.NewDescription(in.Description)
	if err != nil {
		return "", err
	}
	priority := valueobject.PriorityMedium
	if in.Priority != "" {
		priority, err = valueobject.ParsePriority(in.Priority)
		if err != nil {
			return "", err
		}
	}

	uow := s.UoW()
	defer func() { _ = uow.Close(ctx) }()

	l, err := uow.TodoLists().GetByIDWithItems(ctx, id)
	if err != nil {
		return "", err
	}
	itemID := l.AddItem(titleVO, descVO, priority, in.DueDate)
	if err := uow.TodoLists().Update(ctx, l); err != nil {
		return "", err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return "", err
	}
	dispatchEvents(ctx, s.Events, s.Logger, l)
	return itemID.String(), nil
}

func (s *TodoListService) CompleteTodoItem(ctx context.Context, listID, itemID string) error {
	return s.mutateItem(ctx, listID, itemID, func(l *entity.TodoList, id valueobject.EntityID) error {
		return l.CompleteItem(id)
	})
}

func (s *TodoListService) ReopenTodoItem(ctx context.Context, listID, itemID string) error {
	return s.mutateItem(ctx, listID, itemID, func(l *entity.TodoList, id valueobject.EntityID) error {
		return l.ReopenItem(id)
	})
}

func (s *TodoListService) RemoveTodoItem(ctx context.Context, listID, itemID string) error {
	return s.mutateItem(ctx, listID, itemID, func(l *entity.TodoList, id valueobject.EntityID) error {
		return l.RemoveItem(id)
	})
}

// ItemUpdateInput is a partial update for an item. DueDate is applied as
// given: nil clears any existing due date.
type ItemUpdateInput struct {
	Title       *string
	Description *string
	Priority    *string
	DueDate     *time.Time
}

func (s *TodoListService) UpdateTodoItem(ctx context.Context, listID, itemID string, in ItemUpdateInput) error {
	update := entity.ItemUpdate{DueDate: in.DueDate}
	if in.Title != nil {
		titleVO, err := valueobject.NewItemTitle(*in.Title)
		if err != nil {
			return err
		}
		update.Title = &titleVO
	}
	if in.Description != nil {
		descVO, err := valueobject.NewDescription(*in.Description)
		if err != nil {
			return err
		}
		update.Description = &descVO
	}
	if in.Priority != nil {
		prioVO, err := valueobject.ParsePriority(*in.Priority)
		if err != nil {
			return err
		}
		update.Priority = &prioVO
	}
	return s.mutateItem(ctx, listID, itemID, func(l *entity.TodoList, id valueobject.EntityID) error {
		return l.UpdateItem(id, update)
	})
}

// mutateItem is the shared load-mutate-save path for item operations: fetch
// the list with items, apply the mutation, stage the whole aggregate, commit
// once, dispatch events.
func (s *TodoListService) mutateItem(ctx context.Context, listID, itemID string, mutate func(*entity.TodoList, valueobject.EntityID) error) error {
	lid, err := valueobject.ParseEntityID(listID)
	if err != nil {
		return err
	}
	iid, err := valueobject.ParseEntityID(itemID)
	if err != nil {
		return err
	}

	uow := s.UoW()
	defer func() { _ = uow.Close(ctx) }()

	l, err := uow.TodoLists().GetByIDWithItems(ctx, lid)
	if err != nil {
		return err
	}
	if err := mutate(l, iid); err != nil {
		return err
	}
	if err := uow.TodoLists().Update(ctx, l); err != nil {
		return err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return err
	}
	dispatchEvents(ctx, s.Events, s.Logger, l)
	return nil
}
