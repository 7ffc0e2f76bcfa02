// Package httpclient implements the remote todo gateway over the
// JSON HTTP API.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hylla/syssla/internal/app"
	"github.com/hylla/syssla/internal/domain"
)

// maxErrorBodyBytes bounds how much of a failure body is read for
// classification.
const maxErrorBodyBytes int64 = 1 << 16

// Client talks to one todo API base URL. The zero value is not usable;
// construct with NewClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient builds a gateway for baseURL. Trailing slashes are
// collapsed so path concatenation stays predictable.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health calls GET /healthz.
func (c *Client) Health(ctx context.Context) (domain.Health, error) {
	var health domain.Health
	if err := c.getJSON(ctx, "/healthz", nil, &health); err != nil {
		return domain.Health{}, err
	}
	return health, nil
}

// ListTodos calls GET /api/todos.
func (c *Client) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	var todos []domain.Todo
	if err := c.getJSON(ctx, "/api/todos", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// createTodoRequest is the POST /api/todos payload. The description
// field is omitted entirely when blank.
type createTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// CreateTodo calls POST /api/todos with the trimmed title and the
// trimmed description (omitted when blank).
func (c *Client) CreateTodo(ctx context.Context, title, description string) (domain.Todo, error) {
	payload := createTodoRequest{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("encode create payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/todos", bytes.NewReader(body))
	if err != nil {
		return domain.Todo{}, fmt.Errorf("build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var todo domain.Todo
	if err := c.do(req, &todo); err != nil {
		return domain.Todo{}, err
	}
	return todo, nil
}

// Stats calls GET /api/todos/stats.
func (c *Client) Stats(ctx context.Context) (domain.TodoStats, error) {
	var stats domain.TodoStats
	if err := c.getJSON(ctx, "/api/todos/stats", nil, &stats); err != nil {
		return domain.TodoStats{}, err
	}
	return stats, nil
}

// SearchTodos calls GET /api/todos/search. Omitted query fields are
// left out of the URL entirely.
func (c *Client) SearchTodos(ctx context.Context, query domain.SearchQuery) ([]domain.Todo, error) {
	params := url.Values{}
	if query.Q != "" {
		params.Set("q", query.Q)
	}
	if query.Done != nil {
		params.Set("done", strconv.FormatBool(*query.Done))
	}
	var todos []domain.Todo
	if err := c.getJSON(ctx, "/api/todos/search", params, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// ToggleTodo calls PATCH /api/todos/{id}/toggle.
func (c *Client) ToggleTodo(ctx context.Context, id int64) (domain.Todo, error) {
	path := fmt.Sprintf("%s/api/todos/%d/toggle", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, path, strings.NewReader("{}"))
	if err != nil {
		return domain.Todo{}, fmt.Errorf("build toggle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var todo domain.Todo
	if err := c.do(req, &todo); err != nil {
		return domain.Todo{}, err
	}
	return todo, nil
}

// getJSON issues one GET and decodes a JSON response body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	return c.do(req, out)
}

// do executes one request and decodes the success body into out.
// Failures become *app.GatewayError with the kind decided here, at the
// boundary, from the status and the FastAPI-style detail field.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyFailure(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// errorBody is the API's error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

// classifyFailure maps one non-2xx response into a structured gateway
// error. A 400-class response whose detail says the title must be
// unique becomes the duplicate-title kind; everything else is generic.
func classifyFailure(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	var body errorBody
	_ = json.Unmarshal(raw, &body)

	kind := app.GatewayErrorOther
	if resp.StatusCode == http.StatusBadRequest && body.Detail == "title must be unique" {
		kind = app.GatewayErrorDuplicateTitle
	}
	return &app.GatewayError{
		Kind:       kind,
		StatusCode: resp.StatusCode,
		Detail:     body.Detail,
	}
}
