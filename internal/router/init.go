package router

import (
	"github.com/tasklane/tasklane/internal/application"
	"github.com/tasklane/tasklane/internal/container"
	"github.com/tasklane/tasklane/internal/infrastructure/events"
	pginfra "github.com/tasklane/tasklane/internal/infrastructure/postgres"
	handlers "github.com/tasklane/tasklane/internal/interface/http"
	"github.com/tasklane/tasklane/internal/router/modules"
)

// InitModules wires the application services from the container singletons
// and registers every feature module. Called once during startup.
func InitModules(r *Registry) {
	uowFactory := pginfra.NewUnitOfWorkFactory(container.GetPGPool())

	var dispatcher application.EventPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		dispatcher = events.NewRabbitDispatcher(pub, container.GetLogger())
	}

	userSvc := application.NewUserService(uowFactory, dispatcher, container.GetLogger())
	listSvc := application.NewTodoListService(uowFactory, dispatcher, container.GetLogger())

	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, container.GetLogger())))
	r.Add(modules.NewTodoListModule(handlers.NewTodoListHandler(listSvc, container.GetLogger())))
}
