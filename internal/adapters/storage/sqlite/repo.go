package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hylla/syssla/internal/app"
	"github.com/hylla/syssla/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository stores todos in one sqlite database.
type Repository struct {
	db *sql.DB
}

// Open opens the database at path, creating parent directories and the
// schema as needed.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenInMemory opens a throwaway in-memory database.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the underlying database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate ensures the schema exists.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS todos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT,
			done INTEGER NOT NULL DEFAULT 0
		);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite schema: %w", err)
		}
	}
	return nil
}

// ListTodos returns every stored todo in id order.
func (r *Repository) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, description, done FROM todos ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return out, nil
}

// GetTodo fetches one todo by id.
func (r *Repository) GetTodo(ctx context.Context, id int64) (domain.Todo, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, title, description, done FROM todos WHERE id = ?`, id)
	todo, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Todo{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Todo{}, err
	}
	return todo, nil
}

// CreateTodo inserts one todo and returns it with the assigned id.
func (r *Repository) CreateTodo(ctx context.Context, title, description string) (domain.Todo, error) {
	var desc any
	if description != "" {
		desc = description
	}
	result, err := r.db.ExecContext(ctx, `INSERT INTO todos (title, description, done) VALUES (?, ?, 0)`, title, desc)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return domain.Todo{}, fmt.Errorf("resolve todo id: %w", err)
	}
	return domain.Todo{
		ID:          id,
		Title:       title,
		Description: description,
	}, nil
}

// UpdateTodo rewrites one stored todo.
func (r *Repository) UpdateTodo(ctx context.Context, todo domain.Todo) error {
	var desc any
	if todo.Description != "" {
		desc = todo.Description
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE todos SET title = ?, description = ?, done = ? WHERE id = ?`,
		todo.Title, desc, boolToInt(todo.Done), todo.ID,
	)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve update count: %w", err)
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}

// CountTodos returns the number of stored todos.
func (r *Repository) CountTodos(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count todos: %w", err)
	}
	return count, nil
}

// Ping probes the database connection.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanTodo.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTodo maps one row onto a domain todo.
func scanTodo(row rowScanner) (domain.Todo, error) {
	var (
		todo        domain.Todo
		description sql.NullString
		done        int
	)
	if err := row.Scan(&todo.ID, &todo.Title, &description, &done); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Todo{}, err
		}
		return domain.Todo{}, fmt.Errorf("scan todo: %w", err)
	}
	todo.Description = description.String
	todo.Done = done != 0
	return todo, nil
}

// boolToInt maps a bool onto sqlite's integer affinity.
func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
