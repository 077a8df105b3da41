package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/tasklane/tasklane/internal/domain/entity"
	"github.com/tasklane/tasklane/internal/domain/repository"
	"github.com/tasklane/tasklane/internal/domain/valueobject"
)

// UserService holds the command and query handlers for the User aggregate.
// Each operation runs on its own unit of work with exactly one SaveChanges.
type UserService struct {
	UoW    repository.UnitOfWorkFactory
	Events EventPublisher
	Logger *logrus.Logger
}

func NewUserService(uow repository.UnitOfWorkFactory, events EventPublisher, logger *logrus.Logger) *UserService {
	return &UserService{UoW: uow, Events: events, Logger: logger}
}

// CreateUser validates input, stages the insert and commits. There is no
// duplicate-email pre-check: the unique index reports a Conflict at commit,
// which avoids the read-then-write race.
func (s *UserService) CreateUser(ctx context.Context, name, email string) (UserDTO, error) {
	nameVO, err := valueobject.NewUserName(name)
	if err != nil {
		return UserDTO{}, err
	}
	emailVO, err := valueobject.NewEmail(email)
	if err != nil {
		return UserDTO{}, err
	}

	u := entity.NewUser(nameVO, emailVO)

	uow := s.UoW()
	defer func() { _ = uow.Close(ctx) }()

	if err := uow.Users().Add(ctx, u); err != nil {
		return UserDTO{}, err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return UserDTO{}, err
	}
	dispatchEvents(ctx, s.Events, s.Logger, u)

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID().String()}).Info("user created")
	}
	return toUserDTO(u), nil
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]UserDTO, error) {
	uow := s.UoW()
	defer func() { _ = uow.Close(ctx) }()

	users, err := uow.Users().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return toUserDTOs(users), nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (UserDTO, error) {
	userID, err := valueobject.ParseEntityID(id)
	if err != nil {
		return UserDTO{}, err
	}

	uow := s.UoW()
	defer func() { _ = uow.Close(ctx) }()

	u, err := uow.Users().GetByID(ctx, userID)
	if err != nil {
		return UserDTO{}, err
	}
	return toUserDTO(u), nil
}

// DeleteUser soft-deletes the user and publishes UserDeleted after commit.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	userID, err := valueobject.ParseEntityID(id)
	if err != nil {
		return err
	}

	uow := s.UoW()
	defer func() { _ = uow.Close(ctx) }()

	u, err := uow.Users().GetByID(ctx, userID)
	if err != nil {
		return err
	}
	u.Delete()
	if err := uow.Users().Delete(ctx, u); err != nil {
		return err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return err
	}
	dispatchEvents(ctx, s.Events, s.Logger, u)

	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID().String()).Info("user deleted")
	}
	return nil
}
