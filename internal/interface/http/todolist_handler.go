package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tasklane/tasklane/internal/application"
	"github.com/tasklane/tasklane/pkg/response"
	"github.com/tasklane/tasklane/pkg/validation"
)

type TodoListHandler struct {
	Svc    *application.TodoListService
	Logger *logrus.Logger
}

func NewTodoListHandler(svc *application.TodoListService, logger *logrus.Logger) *TodoListHandler {
	return &TodoListHandler{Svc: svc, Logger: logger}
}

type createListRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}

type updateListRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

type addItemRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=300"`
	Description string     `json:"description" binding:"omitempty,max=1000"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
}

type updateItemRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=300"`
	Description *string    `json:"description" binding:"omitempty,max=1000"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
}

func (h *TodoListHandler) Create(c *gin.Context) {
	var req createListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	list, err := h.Svc.CreateTodoList(c.Request.Context(), c.Param("userID"), req.Title, req.Description)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, list, "todo list created")
}

func (h *TodoListHandler) GetUserLists(c *gin.Context) {
	lists, err := h.Svc.GetUserTodoLists(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, lists, "todo lists")
}

func (h *TodoListHandler) GetWithItems(c *gin.Context) {
	list, err := h.Svc.GetTodoListWithItems(c.Request.Context(), c.Param("listID"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "todo list")
}

func (h *TodoListHandler) Update(c *gin.Context) {
	var req updateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	list, err := h.Svc.UpdateTodoList(c.Request.Context(), c.Param("listID"), application.ListUpdateInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "todo list updated")
}

func (h *TodoListHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteTodoList(c.Request.Context(), c.Param("listID")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TodoListHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	itemID, err := h.Svc.AddTodoItem(c.Request.Context(), c.Param("listID"), application.AddItemInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": itemID}, "todo item added")
}

func (h *TodoListHandler) CompleteItem(c *gin.Context) {
	if err := h.Svc.CompleteTodoItem(c.Request.Context(), c.Param("listID"), c.Param("itemID")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TodoListHandler) ReopenItem(c *gin.Context) {
	if err := h.Svc.ReopenTodoItem(c.Request.Context(), c.Param("listID"), c.Param("itemID")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TodoListHandler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.UpdateTodoItem(c.Request.Context(), c.Param("listID"), c.Param("itemID"), application.ItemUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TodoListHandler) RemoveItem(c *gin.Context) {
	if err := h.Svc.RemoveTodoItem(c.Request.Context(), c.Param("listID"), c.Param("itemID")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
