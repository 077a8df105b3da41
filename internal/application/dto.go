package application

import (
	"time"

	"github.com/tasklane/tasklane/internal/domain/entity"
)

// Read-only projections handed to the transport layer. Aggregates never
// leave the application boundary.

type UserDTO struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

type TodoItemDTO struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	IsCompleted bool       `json:"is_completed"`
	Priority    string     `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	IsOverdue   bool       `json:"is_overdue"`
}

type TodoListDTO struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description,omitempty"`
	OwnerID              string     `json:"owner_id"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty"`
	TotalItems           int        `json:"total_items"`
	CompletedItems       int        `json:"completed_items"`
	PendingItems         int        `json:"pending_items"`
	OverdueItems         int        `json:"overdue_items"`
	CompletionPercentage float64    `json:"completion_percentage"`
	IsCompleted          bool       `json:"is_completed"`
}

type TodoListWithItemsDTO struct {
	TodoListDTO
	Items []TodoItemDTO `json:"items"`
}

func toUserDTO(u *entity.User) UserDTO {
	return UserDTO{
		ID:          u.ID().String(),
		Name:        u.Name().String(),
		Email:       u.Email().String(),
		CreatedAt:   u.CreatedAt(),
		LastLoginAt: u.LastLoginAt(),
	}
}

func toUserDTOs(users []*entity.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	return out
}

func toTodoItemDTO(i *entity.TodoItem) TodoItemDTO {
	return TodoItemDTO{
		ID:          i.ID().String(),
		Title:       i.Title().String(),
		Description: i.Description().String(),
		IsCompleted: i.IsCompleted(),
		Priority:    i.Priority().String(),
		CreatedAt:   i.CreatedAt(),
		CompletedAt: i.CompletedAt(),
		DueDate:     i.DueDate(),
		IsOverdue:   i.IsOverdue(),
	}
}

func toTodoListDTO(l *entity.TodoList) TodoListDTO {
	return TodoListDTO{
		ID:                   l.ID().String(),
		Title:                l.Title().String(),
		Description:          l.Description().String(),
		OwnerID:              l.OwnerID().String(),
		CreatedAt:            l.CreatedAt(),
		UpdatedAt:            l.UpdatedAt(),
		TotalItems:           l.TotalItems(),
		CompletedItems:       l.CompletedItems(),
		PendingItems:         l.PendingItems(),
		OverdueItems:         l.OverdueItems(),
		CompletionPercentage: l.CompletionPercentage(),
		IsCompleted:          l.IsCompleted(),
	}
}

func toTodoListDTOs(lists []*entity.TodoList) []TodoListDTO {
	out := make([]TodoListDTO, 0, len(lists))
	for _, l := range lists {
		out = append(out, toTodoListDTO(l))
	}
	return out
}

func toTodoListWithItemsDTO(l *entity.TodoList) TodoListWithItemsDTO {
	items := l.Items()
	dto := TodoListWithItemsDTO{
		TodoListDTO: toTodoListDTO(l),
		Items:       make([]TodoItemDTO, 0, len(items)),
	}
	for _, item := range items {
		dto.Items = append(dto.Items, toTodoItemDTO(item))
	}
	return dto
}
