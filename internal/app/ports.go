package app

import (
	"context"

	"github.com/hylla/syssla/internal/domain"
)

// Gateway is the remote todo API consumed by the client session.
type Gateway interface {
	Health(context.Context) (domain.Health, error)
	ListTodos(context.Context) ([]domain.Todo, error)
	CreateTodo(context.Context, string, string) (domain.Todo, error)
	Stats(context.Context) (domain.TodoStats, error)
	SearchTodos(context.Context, domain.SearchQuery) ([]domain.Todo, error)
	ToggleTodo(context.Context, int64) (domain.Todo, error)
}

// Repository is the server-side todo store.
type Repository interface {
	ListTodos(context.Context) ([]domain.Todo, error)
	GetTodo(context.Context, int64) (domain.Todo, error)
	CreateTodo(context.Context, string, string) (domain.Todo, error)
	UpdateTodo(context.Context, domain.Todo) error
	CountTodos(context.Context) (int, error)
	Ping(context.Context) error
}
