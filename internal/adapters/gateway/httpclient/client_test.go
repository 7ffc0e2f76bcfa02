package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hylla/syssla/internal/app"
	"github.com/hylla/syssla/internal/domain"
)

// TestNewClientNormalizesBaseURL verifies trailing slashes collapse.
func TestNewClientNormalizesBaseURL(t *testing.T) {
	c := NewClient("  http://localhost:8080/// ")
	if got := c.BaseURL(); got != "http://localhost:8080" {
		t.Fatalf("BaseURL() = %q, want %q", got, "http://localhost:8080")
	}
}

// TestClientHealth verifies the /healthz decode.
func TestClientHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			t.Fatalf("path = %q, want /healthz", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(domain.Health{Status: "ok", Env: "dev"})
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if got.Status != "ok" || got.Env != "dev" {
		t.Fatalf("Health() = %+v, want ok/dev", got)
	}
}

// TestClientCreateTodoPayload verifies the POST body shape and description omission.
func TestClientCreateTodoPayload(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/todos" {
			t.Fatalf("request = %s %s, want POST /api/todos", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &received); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(domain.Todo{ID: 1, Title: "Comprar pan"})
	}))
	defer srv.Close()

	created, err := NewClient(srv.URL).CreateTodo(context.Background(), " Comprar pan ", "   ")
	if err != nil {
		t.Fatalf("CreateTodo() error = %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("ID = %d, want 1", created.ID)
	}
	if received["title"] != "Comprar pan" {
		t.Fatalf("title = %v, want %q", received["title"], "Comprar pan")
	}
	if _, present := received["description"]; present {
		t.Fatal("blank description was sent, want omitted")
	}
}

// TestClientSearchTodosQueryOmission verifies omitted filters never reach the URL.
func TestClientSearchTodosQueryOmission(t *testing.T) {
	done := true
	cases := []struct {
		name     string
		query    domain.SearchQuery
		wantQ    string
		wantDone string
	}{
		{name: "both filters", query: domain.SearchQuery{Q: "pan", Done: &done}, wantQ: "pan", wantDone: "true"},
		{name: "text only", query: domain.SearchQuery{Q: "pan"}, wantQ: "pan", wantDone: ""},
		{name: "neither", query: domain.SearchQuery{}, wantQ: "", wantDone: ""},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				values := r.URL.Query()
				if got := values.Get("q"); got != tt.wantQ {
					t.Fatalf("q = %q, want %q", got, tt.wantQ)
				}
				if _, present := values["q"]; present && tt.wantQ == "" {
					t.Fatal("q param present, want omitted")
				}
				if got := values.Get("done"); got != tt.wantDone {
					t.Fatalf("done = %q, want %q", got, tt.wantDone)
				}
				if _, present := values["done"]; present && tt.wantDone == "" {
					t.Fatal("done param present, want omitted")
				}
				_ = json.NewEncoder(w).Encode([]domain.Todo{})
			}))
			defer srv.Close()

			if _, err := NewClient(srv.URL).SearchTodos(context.Background(), tt.query); err != nil {
				t.Fatalf("SearchTodos() error = %v", err)
			}
		})
	}
}

// TestClientToggleTodoPath verifies the PATCH toggle route.
func TestClientToggleTodoPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/todos/7/toggle" {
			t.Fatalf("request = %s %s, want PATCH /api/todos/7/toggle", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(domain.Todo{ID: 7, Title: "Comprar pan", Done: true})
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL).ToggleTodo(context.Background(), 7)
	if err != nil {
		t.Fatalf("ToggleTodo() error = %v", err)
	}
	if !got.Done {
		t.Fatal("Done = false, want true")
	}
}

// TestClientFailureClassification verifies the duplicate-title kind fires only
// for a 400 whose detail names the uniqueness rule.
func TestClientFailureClassification(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		detail   string
		wantKind app.GatewayErrorKind
	}{
		{name: "duplicate title", status: http.StatusBadRequest, detail: "title must be unique", wantKind: app.GatewayErrorDuplicateTitle},
		{name: "other 400", status: http.StatusBadRequest, detail: "title must not be empty", wantKind: app.GatewayErrorOther},
		{name: "same detail wrong status", status: http.StatusConflict, detail: "title must be unique", wantKind: app.GatewayErrorOther},
		{name: "server error", status: http.StatusInternalServerError, detail: "boom", wantKind: app.GatewayErrorOther},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": tt.detail})
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).CreateTodo(context.Background(), "Comprar pan", "")
			var gwErr *app.GatewayError
			if !errors.As(err, &gwErr) {
				t.Fatalf("error = %v, want *app.GatewayError", err)
			}
			if gwErr.Kind != tt.wantKind {
				t.Fatalf("Kind = %q, want %q", gwErr.Kind, tt.wantKind)
			}
			if gwErr.StatusCode != tt.status {
				t.Fatalf("StatusCode = %d, want %d", gwErr.StatusCode, tt.status)
			}
			if gwErr.Detail != tt.detail {
				t.Fatalf("Detail = %q, want %q", gwErr.Detail, tt.detail)
			}
		})
	}
}

// TestClientNonJSONFailureBody verifies classification tolerates unparseable bodies.
func TestClientNonJSONFailureBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).ListTodos(context.Background())
	var gwErr *app.GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("error = %v, want *app.GatewayError", err)
	}
	if gwErr.Kind != app.GatewayErrorOther {
		t.Fatalf("Kind = %q, want %q", gwErr.Kind, app.GatewayErrorOther)
	}
	if gwErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("StatusCode = %d, want %d", gwErr.StatusCode, http.StatusBadGateway)
	}
}
