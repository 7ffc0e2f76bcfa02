// Package common holds the service contracts shared by the HTTP and
// MCP server transports.
package common

import (
	"context"

	"github.com/hylla/syssla/internal/domain"
)

// TodoService is the application surface both transports expose.
type TodoService interface {
	ListTodos(context.Context) ([]domain.Todo, error)
	CreateTodo(context.Context, string, string) (domain.Todo, error)
	Stats(context.Context) (domain.TodoStats, error)
	SearchTodos(context.Context, *bool, string) ([]domain.Todo, error)
	ToggleTodo(context.Context, int64) (domain.Todo, error)
	Ready(context.Context) error
}
