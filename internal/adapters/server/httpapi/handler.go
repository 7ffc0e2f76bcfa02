// Package httpapi provides the REST HTTP adapter for the todo API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/hylla/syssla/internal/adapters/server/common"
	"github.com/hylla/syssla/internal/app"
	"github.com/hylla/syssla/internal/domain"
)

// maxRequestBodyBytes limits decoded JSON payload size for fail-closed request handling.
const maxRequestBodyBytes int64 = 1 << 20

// Handler serves the todo API subrouter mounted under `/api`.
type Handler struct {
	svc common.TodoService
}

// ErrorEnvelope is the wire error shape. The flat detail field keeps
// the body compatible with clients that key duplicate-title detection
// on it.
type ErrorEnvelope struct {
	Detail string `json:"detail"`
}

// NewHandler constructs the HTTP API adapter.
func NewHandler(svc common.TodoService) *Handler {
	return &Handler{svc: svc}
}

// ServeHTTP routes one API request to the matching handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := normalizePath(r.URL.Path)
	switch {
	case path == "todos":
		switch r.Method {
		case http.MethodGet:
			h.handleListTodos(w, r)
		case http.MethodPost:
			h.handleCreateTodo(w, r)
		default:
			writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	case path == "todos/stats":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleStats(w, r)
	case path == "todos/search":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleSearchTodos(w, r)
	default:
		todoID, ok := resolveToggleTodoID(path)
		if !ok {
			writeJSONError(w, http.StatusNotFound, "endpoint not found")
			return
		}
		if r.Method != http.MethodPatch {
			writeMethodNotAllowed(w, http.MethodPatch)
			return
		}
		h.handleToggleTodo(w, r, todoID)
	}
}

// handleListTodos serves GET `/todos`.
func (h *Handler) handleListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.ListTodos(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	if todos == nil {
		todos = []domain.Todo{}
	}
	writeJSON(w, http.StatusOK, todos)
}

// createTodoRequest is the POST `/todos` payload.
type createTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// handleCreateTodo serves POST `/todos`.
func (h *Handler) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var req createTodoRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	todo, err := h.svc.CreateTodo(r.Context(), req.Title, req.Description)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

// handleStats serves GET `/todos/stats`.
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleSearchTodos serves GET `/todos/search`.
func (h *Handler) handleSearchTodos(w http.ResponseWriter, r *http.Request) {
	var done *bool
	if raw := strings.TrimSpace(r.URL.Query().Get("done")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "done must be a boolean")
			return
		}
		done = &value
	}
	todos, err := h.svc.SearchTodos(r.Context(), done, r.URL.Query().Get("q"))
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	if todos == nil {
		todos = []domain.Todo{}
	}
	writeJSON(w, http.StatusOK, todos)
}

// handleToggleTodo serves PATCH `/todos/{id}/toggle`.
func (h *Handler) handleToggleTodo(w http.ResponseWriter, r *http.Request, todoID int64) {
	todo, err := h.svc.ToggleTodo(r.Context(), todoID)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// resolveToggleTodoID parses `/todos/{id}/toggle` and returns `{id}`.
func resolveToggleTodoID(path string) (int64, bool) {
	const (
		prefix = "todos/"
		suffix = "/toggle"
	)
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return 0, false
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(path, prefix), suffix)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// normalizePath canonicalizes one request path for route matching.
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.Trim(path, "/")
	return path
}

// writeErrorFrom maps service errors into detail responses.
func writeErrorFrom(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSONError(w, http.StatusInternalServerError, "unknown error")
	case errors.Is(err, domain.ErrEmptyTitle):
		writeJSONError(w, http.StatusBadRequest, "title must not be empty")
	case errors.Is(err, domain.ErrDuplicateTitle):
		writeJSONError(w, http.StatusBadRequest, "title must be unique")
	case errors.Is(err, app.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "todo not found")
	default:
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeMethodNotAllowed writes a detail 405 response with `Allow` headers.
func writeMethodNotAllowed(w http.ResponseWriter, methods ...string) {
	if len(methods) > 0 {
		w.Header().Set("Allow", strings.Join(methods, ", "))
	}
	writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// writeJSONError writes one detail error envelope.
func writeJSONError(w http.ResponseWriter, statusCode int, detail string) {
	writeJSON(w, statusCode, ErrorEnvelope{Detail: detail})
}

// writeJSON writes one JSON response envelope.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, fmt.Sprintf(`{"detail":"encode response: %s"}`, err.Error()), http.StatusInternalServerError)
	}
}

// decodeJSONBody decodes one required JSON request body with strict shape checks.
func decodeJSONBody(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) error {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer reader.Close()

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	// Reject trailing payloads so malformed JSON bodies fail closed.
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("decode request body: trailing content")
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("request canceled: %w", ctx.Err())
	default:
		return nil
	}
}
