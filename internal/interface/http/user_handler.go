package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tasklane/tasklane/internal/application"
	"github.com/tasklane/tasklane/pkg/response"
	"github.com/tasklane/tasklane/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=100"`
	Email string `json:"email" binding:"required,email"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.CreateUser(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, u, "user created")
}

func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.Svc.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, users, "users")
}

func (h *UserHandler) GetByID(c *gin.Context) {
	u, err := h.Svc.GetUserByID(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user")
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteUser(c.Request.Context(), c.Param("userID")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
