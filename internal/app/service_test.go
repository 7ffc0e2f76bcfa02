package app

import (
	"context"
	"errors"
	"testing"

	"github.com/hylla/syssla/internal/domain"
)

// memRepo is an in-memory Repository for service tests.
type memRepo struct {
	todos   []domain.Todo
	nextID  int64
	listErr error
	pingErr error
}

func newMemRepo() *memRepo {
	return &memRepo{nextID: 1}
}

func (r *memRepo) ListTodos(context.Context) ([]domain.Todo, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]domain.Todo(nil), r.todos...), nil
}

func (r *memRepo) GetTodo(_ context.Context, id int64) (domain.Todo, error) {
	for _, t := range r.todos {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Todo{}, ErrNotFound
}

func (r *memRepo) CreateTodo(_ context.Context, title, description string) (domain.Todo, error) {
	todo := domain.Todo{ID: r.nextID, Title: title, Description: description}
	r.nextID++
	r.todos = append(r.todos, todo)
	return todo, nil
}

func (r *memRepo) UpdateTodo(_ context.Context, todo domain.Todo) error {
	for i := range r.todos {
		if r.todos[i].ID == todo.ID {
			r.todos[i] = todo
			return nil
		}
	}
	return ErrNotFound
}

func (r *memRepo) CountTodos(context.Context) (int, error) {
	if r.listErr != nil {
		return 0, r.listErr
	}
	return len(r.todos), nil
}

func (r *memRepo) Ping(context.Context) error {
	return r.pingErr
}

// TestServiceCreateTodoNormalizesTitle verifies whitespace collapsing before storage.
func TestServiceCreateTodoNormalizesTitle(t *testing.T) {
	svc := NewService(newMemRepo())

	created, err := svc.CreateTodo(context.Background(), "  Comprar   pan ", "del horno")
	if err != nil {
		t.Fatalf("CreateTodo() error = %v", err)
	}
	if created.Title != "Comprar pan" {
		t.Fatalf("Title = %q, want %q", created.Title, "Comprar pan")
	}
	if created.Description != "del horno" {
		t.Fatalf("Description = %q, want %q", created.Description, "del horno")
	}
}

// TestServiceCreateTodoValidation verifies the empty and duplicate sentinels surface.
func TestServiceCreateTodoValidation(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	if _, err := svc.CreateTodo(context.Background(), "Comprar pan", ""); err != nil {
		t.Fatalf("CreateTodo() error = %v", err)
	}

	if _, err := svc.CreateTodo(context.Background(), "   ", ""); !errors.Is(err, domain.ErrEmptyTitle) {
		t.Fatalf("CreateTodo(blank) error = %v, want ErrEmptyTitle", err)
	}
	if _, err := svc.CreateTodo(context.Background(), " comprar  PAN ", ""); !errors.Is(err, domain.ErrDuplicateTitle) {
		t.Fatalf("CreateTodo(duplicate) error = %v, want ErrDuplicateTitle", err)
	}
	if len(repo.todos) != 1 {
		t.Fatalf("stored todos = %d, want 1", len(repo.todos))
	}
}

// TestServiceToggleTodo verifies the done flag flips and persists.
func TestServiceToggleTodo(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	created, err := svc.CreateTodo(context.Background(), "Comprar pan", "")
	if err != nil {
		t.Fatalf("CreateTodo() error = %v", err)
	}

	toggled, err := svc.ToggleTodo(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("ToggleTodo() error = %v", err)
	}
	if !toggled.Done {
		t.Fatal("Done = false, want true")
	}
	back, err := svc.ToggleTodo(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("ToggleTodo() second error = %v", err)
	}
	if back.Done {
		t.Fatal("Done = true after second toggle, want false")
	}
}

// TestServiceToggleTodoNotFound verifies the not-found sentinel for unknown ids.
func TestServiceToggleTodoNotFound(t *testing.T) {
	svc := NewService(newMemRepo())
	if _, err := svc.ToggleTodo(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ToggleTodo(42) error = %v, want ErrNotFound", err)
	}
}

// TestServiceStats verifies aggregate counts over the stored list.
func TestServiceStats(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	for _, title := range []string{"a", "b", "c"} {
		if _, err := svc.CreateTodo(context.Background(), title, ""); err != nil {
			t.Fatalf("CreateTodo(%q) error = %v", title, err)
		}
	}
	if _, err := svc.ToggleTodo(context.Background(), 1); err != nil {
		t.Fatalf("ToggleTodo() error = %v", err)
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	want := domain.TodoStats{Total: 3, Done: 1, Pending: 2}
	if stats != want {
		t.Fatalf("Stats() = %+v, want %+v", stats, want)
	}
}

// TestServiceSearchTodos verifies done/text filtering over the store.
func TestServiceSearchTodos(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	if _, err := svc.CreateTodo(context.Background(), "Comprar pan", ""); err != nil {
		t.Fatalf("CreateTodo() error = %v", err)
	}
	if _, err := svc.CreateTodo(context.Background(), "Estudiar", "Repasar unidades 3 y 4"); err != nil {
		t.Fatalf("CreateTodo() error = %v", err)
	}
	if _, err := svc.ToggleTodo(context.Background(), 1); err != nil {
		t.Fatalf("ToggleTodo() error = %v", err)
	}

	done := true
	got, err := svc.SearchTodos(context.Background(), &done, "")
	if err != nil {
		t.Fatalf("SearchTodos() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("SearchTodos(done) = %+v, want only id 1", got)
	}

	got, err = svc.SearchTodos(context.Background(), nil, "unidades")
	if err != nil {
		t.Fatalf("SearchTodos() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("SearchTodos(text) = %+v, want only id 2", got)
	}
}

// TestServiceSeedIfEmpty verifies fixtures land only in an empty store.
func TestServiceSeedIfEmpty(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	seeded, err := svc.SeedIfEmpty(context.Background())
	if err != nil {
		t.Fatalf("SeedIfEmpty() error = %v", err)
	}
	if seeded != 3 {
		t.Fatalf("seeded = %d, want 3", seeded)
	}

	again, err := svc.SeedIfEmpty(context.Background())
	if err != nil {
		t.Fatalf("SeedIfEmpty() second error = %v", err)
	}
	if again != 0 {
		t.Fatalf("second seed = %d, want 0", again)
	}
	if len(repo.todos) != 3 {
		t.Fatalf("stored todos = %d, want 3", len(repo.todos))
	}
}

// TestServiceReady verifies the ping result passes through.
func TestServiceReady(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	if err := svc.Ready(context.Background()); err != nil {
		t.Fatalf("Ready() error = %v", err)
	}

	repo.pingErr = errors.New("db down")
	if err := svc.Ready(context.Background()); err == nil {
		t.Fatal("Ready() error = nil, want db failure")
	}
}
