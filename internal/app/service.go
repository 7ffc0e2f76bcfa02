package app

import (
	"context"
	"fmt"

	"github.com/hylla/syssla/internal/domain"
)

// Service implements the server-side todo rules over a Repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListTodos lists todos in insertion (id) order.
func (s *Service) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	return s.repo.ListTodos(ctx)
}

// CreateTodo validates and stores one new todo. The title is
// normalized before the empty/duplicate checks; validation failures
// surface the domain sentinels for the HTTP layer to map.
func (s *Service) CreateTodo(ctx context.Context, title, description string) (domain.Todo, error) {
	normalized := domain.NormalizeTitle(title)
	existing, err := s.repo.ListTodos(ctx)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("list todos: %w", err)
	}
	if err := domain.ValidateNewTodo(normalized, existing); err != nil {
		return domain.Todo{}, err
	}
	return s.repo.CreateTodo(ctx, normalized, description)
}

// Stats computes the basic aggregate counts over the stored list.
func (s *Service) Stats(ctx context.Context) (domain.TodoStats, error) {
	todos, err := s.repo.ListTodos(ctx)
	if err != nil {
		return domain.TodoStats{}, fmt.Errorf("list todos: %w", err)
	}
	return domain.ComputeStats(todos), nil
}

// SearchTodos filters the stored list in memory by done state and
// free text.
func (s *Service) SearchTodos(ctx context.Context, done *bool, text string) ([]domain.Todo, error) {
	todos, err := s.repo.ListTodos(ctx)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return domain.FilterTodos(todos, done, text), nil
}

// ToggleTodo flips the done flag of one stored todo and returns the
// updated record.
func (s *Service) ToggleTodo(ctx context.Context, id int64) (domain.Todo, error) {
	todo, err := s.repo.GetTodo(ctx, id)
	if err != nil {
		return domain.Todo{}, err
	}
	todo.Done = !todo.Done
	if err := s.repo.UpdateTodo(ctx, todo); err != nil {
		return domain.Todo{}, fmt.Errorf("update todo: %w", err)
	}
	return todo, nil
}

// Ready reports whether the backing store answers a ping.
func (s *Service) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// seedTodos is the fixture set inserted on first start.
var seedTodos = []struct {
	Title       string
	Description string
}{
	{Title: "Comprar pan", Description: ""},
	{Title: "Estudiar para el parcial", Description: "Repasar unidades 3 y 4"},
	{Title: "Sacar turno con el dentista", Description: ""},
}

// SeedIfEmpty inserts the fixture todos when the store holds nothing.
// It returns the number of inserted records.
func (s *Service) SeedIfEmpty(ctx context.Context) (int, error) {
	count, err := s.repo.CountTodos(ctx)
	if err != nil {
		return 0, fmt.Errorf("count todos: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	inserted := 0
	for _, seed := range seedTodos {
		if _, err := s.repo.CreateTodo(ctx, seed.Title, seed.Description); err != nil {
			return inserted, fmt.Errorf("seed todo %q: %w", seed.Title, err)
		}
		inserted++
	}
	return inserted, nil
}
