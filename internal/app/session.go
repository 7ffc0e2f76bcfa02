package app

import (
	"context"
	"strings"
	"sync"

	"github.com/hylla/syssla/internal/domain"
)

// User-facing messages for the single error slot. At most one is
// visible at a time; every operation clears the slot before starting.
const (
	MsgHealthFetchFailed  = "could not fetch API status"
	MsgListFetchFailed    = "could not fetch todos"
	MsgStatsFetchFailed   = "could not fetch stats"
	MsgCreateFailed       = "could not create todo"
	MsgDuplicateTitle     = "a todo with that title already exists"
	MsgToggleFailed       = "could not toggle todo"
	MsgFilterFailed       = "could not filter todos"
	MsgStatsRefreshFailed = "could not refresh stats"
)

// Session owns the client's cached todo collection and the state
// derived from it. Every mutation flows through the gateway first; the
// local collection is only updated from authoritative responses, and
// the advanced stats are recomputed whole after each change.
type Session struct {
	mu sync.Mutex
	gw Gateway

	todos    []domain.Todo
	health   *domain.Health
	stats    *domain.TodoStats
	advanced *domain.AdvancedStats

	newTitle       string
	newDescription string

	loading bool
	errMsg  string
}

// Snapshot is a point-in-time copy of the session state, safe to hand
// to the presentation layer.
type Snapshot struct {
	Todos          []domain.Todo
	Health         *domain.Health
	Stats          *domain.TodoStats
	Advanced       *domain.AdvancedStats
	NewTitle       string
	NewDescription string
	Loading        bool
	Err            string
}

func NewSession(gw Gateway) *Session {
	return &Session{gw: gw}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Todos:          append([]domain.Todo(nil), s.todos...),
		NewTitle:       s.newTitle,
		NewDescription: s.newDescription,
		Loading:        s.loading,
		Err:            s.errMsg,
	}
	if s.health != nil {
		health := *s.health
		snap.Health = &health
	}
	if s.stats != nil {
		stats := *s.stats
		snap.Stats = &stats
	}
	if s.advanced != nil {
		advanced := *s.advanced
		snap.Advanced = &advanced
	}
	return snap
}

func (s *Session) SetNewTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newTitle = title
}

func (s *Session) SetNewDescription(description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newDescription = description
}

// Refresh fetches the three independent read aggregates: health, the
// full todo list, and the server's basic stats. Each sub-fetch applies
// its own result or error; one failing does not stop the others, and a
// later failure overwrites an earlier message in the slot.
func (s *Session) Refresh(ctx context.Context) {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()

	health, err := s.gw.Health(ctx)
	s.mu.Lock()
	if err != nil {
		s.errMsg = MsgHealthFetchFailed
	} else {
		s.health = &health
	}
	s.mu.Unlock()

	todos, err := s.gw.ListTodos(ctx)
	s.mu.Lock()
	if err != nil {
		s.errMsg = MsgListFetchFailed
	} else {
		s.todos = todos
		s.recomputeAdvanced()
	}
	s.mu.Unlock()

	stats, err := s.gw.Stats(ctx)
	s.mu.Lock()
	if err != nil {
		s.errMsg = MsgStatsFetchFailed
	} else {
		s.stats = &stats
	}
	s.mu.Unlock()
}

// Add creates a todo from the pending input fields. A blank title is
// rejected silently with no remote call. On success the returned
// record is appended, the inputs are cleared, and a best-effort stats
// refresh runs; on failure the collection stays untouched and the
// error slot carries either the duplicate-title or the generic
// creation message.
func (s *Session) Add(ctx context.Context) {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return
	}
	title := strings.TrimSpace(s.newTitle)
	description := strings.TrimSpace(s.newDescription)
	if title == "" {
		s.mu.Unlock()
		return
	}
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	created, err := s.gw.CreateTodo(ctx, title, description)
	if err != nil {
		s.mu.Lock()
		if IsDuplicateTitle(err) {
			s.errMsg = MsgDuplicateTitle
		} else {
			s.errMsg = MsgCreateFailed
		}
		s.loading = false
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.todos = append(s.todos, created)
	s.newTitle = ""
	s.newDescription = ""
	s.mu.Unlock()

	s.refreshStatsBestEffort(ctx)

	s.mu.Lock()
	s.recomputeAdvanced()
	s.loading = false
	s.mu.Unlock()
}

// Toggle flips the done state of one todo through the gateway. The
// matching record is replaced with the server's authoritative copy;
// nothing is flipped optimistically.
func (s *Session) Toggle(ctx context.Context, todo domain.Todo) {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return
	}
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	updated, err := s.gw.ToggleTodo(ctx, todo.ID)
	if err != nil {
		s.mu.Lock()
		s.errMsg = MsgToggleFailed
		s.loading = false
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	for i := range s.todos {
		if s.todos[i].ID == updated.ID {
			s.todos[i] = updated
			break
		}
	}
	s.mu.Unlock()

	s.refreshStatsBestEffort(ctx)

	s.mu.Lock()
	s.recomputeAdvanced()
	s.loading = false
	s.mu.Unlock()
}

// ApplyFilters runs a search with the normalized query and replaces
// the whole visible collection with the result set. On failure the
// previous list stays visible. Loading is cleared exactly once when
// the call settles.
func (s *Session) ApplyFilters(ctx context.Context, criteria domain.FilterCriteria) {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return
	}
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	todos, err := s.gw.SearchTodos(ctx, criteria.Query())
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.errMsg = MsgFilterFailed
		return
	}
	s.todos = todos
	s.recomputeAdvanced()
}

// refreshStatsBestEffort re-fetches the server stats after a mutation.
// Its failure only lands in the error slot when no primary error is
// already set.
func (s *Session) refreshStatsBestEffort(ctx context.Context) {
	stats, err := s.gw.Stats(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if s.errMsg == "" {
			s.errMsg = MsgStatsRefreshFailed
		}
		return
	}
	s.stats = &stats
}

// recomputeAdvanced rebuilds the derived stats from the current
// collection. The struct is absent, not zeroed, when the collection is
// empty. Callers hold s.mu.
func (s *Session) recomputeAdvanced() {
	if len(s.todos) == 0 {
		s.advanced = nil
		return
	}
	advanced := domain.ComputeAdvancedStats(s.todos)
	s.advanced = &advanced
}
