package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tasklane/tasklane/internal/container"
	handlers "github.com/tasklane/tasklane/internal/interface/http"
	"github.com/tasklane/tasklane/internal/interface/middleware"
)

// TodoListModule wires todo list and item routes:
//
//	POST   /api/users/:userID/lists
//	GET    /api/users/:userID/lists
//	GET    /api/lists/:listID
//	PUT    /api/lists/:listID
//	DELETE /api/lists/:listID
//	POST   /api/lists/:listID/items
//	PUT    /api/lists/:listID/items/:itemID
//	DELETE /api/lists/:listID/items/:itemID
//	POST   /api/lists/:listID/items/:itemID/complete
//	POST   /api/lists/:listID/items/:itemID/reopen
type TodoListModule struct {
	Handler *handlers.TodoListHandler
}

func NewTodoListModule(h *handlers.TodoListHandler) *TodoListModule {
	return &TodoListModule{Handler: h}
}

func (m *TodoListModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	userLists := rg.Group("/users/:userID/lists")
	userLists.Use(limiter)
	{
		userLists.POST("", m.Handler.Create)
		userLists.GET("", m.Handler.GetUserLists)
	}

	lists := rg.Group("/lists")
	lists.Use(limiter)
	{
		lists.GET("/:listID", m.Handler.GetWithItems)
		lists.PUT("/:listID", m.Handler.Update)
		lists.DELETE("/:listID", m.Handler.Delete)

		lists.POST("/:listID/items", m.Handler.AddItem)
		lists.PUT("/:listID/items/:itemID", m.Handler.UpdateItem)
		lists.DELETE("/:listID/items/:itemID", m.Handler.RemoveItem)
		lists.POST("/:listID/items/:itemID/complete", m.Handler.CompleteItem)
		lists.POST("/:listID/items/:itemID/reopen", m.Handler.ReopenItem)
	}
}
