package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tasklane/tasklane/internal/container"
	handlers "github.com/tasklane/tasklane/internal/interface/http"
	"github.com/tasklane/tasklane/internal/interface/middleware"
)

// UserModule wires the user HTTP handlers into routes:
//
//	POST   /api/users
//	GET    /api/users
//	GET    /api/users/:userID
//	DELETE /api/users/:userID
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Registration is the abuse-prone endpoint, so it gets a tighter bucket.
	createLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	users := rg.Group("/users")
	users.Use(readLimiter)
	{
		users.POST("", createLimiter, m.Handler.Create)
		users.GET("", m.Handler.GetAll)
		users.GET("/:userID", m.Handler.GetByID)
		users.DELETE("/:userID", m.Handler.Delete)
	}
}
