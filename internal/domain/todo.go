package domain

import "strings"

type Todo struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Done        bool   `json:"done"`
	Description string `json:"description,omitempty"`
}

type Health struct {
	Status string `json:"status"`
	Env    string `json:"env"`
}

type TodoStats struct {
	Total   int `json:"total"`
	Done    int `json:"done"`
	Pending int `json:"pending"`
}

// NormalizeTitle trims the title and collapses runs of internal
// whitespace into single spaces.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(title), " ")
}

func IsEmptyTitle(title string) bool {
	return NormalizeTitle(title) == ""
}

// IsDuplicateTitle reports whether title already exists in the
// collection. The comparison is case-insensitive over normalized
// titles; an empty title is never a duplicate.
func IsDuplicateTitle(title string, existing []Todo) bool {
	norm := strings.ToLower(NormalizeTitle(title))
	if norm == "" {
		return false
	}
	for _, t := range existing {
		if strings.ToLower(NormalizeTitle(t.Title)) == norm {
			return true
		}
	}
	return false
}

func ValidateNewTodo(title string, existing []Todo) error {
	if IsEmptyTitle(title) {
		return ErrEmptyTitle
	}
	if IsDuplicateTitle(title, existing) {
		return ErrDuplicateTitle
	}
	return nil
}

func ComputeStats(todos []Todo) TodoStats {
	stats := TodoStats{Total: len(todos)}
	for _, t := range todos {
		if t.Done {
			stats.Done++
		}
	}
	stats.Pending = stats.Total - stats.Done
	return stats
}

// FilterTodos filters in memory by done state and/or text. A nil done
// leaves both states in; text matches case-insensitively against title
// and description.
func FilterTodos(todos []Todo, done *bool, text string) []Todo {
	out := make([]Todo, 0, len(todos))
	needle := strings.ToLower(text)
	for _, t := range todos {
		if done != nil && t.Done != *done {
			continue
		}
		if needle != "" {
			title := strings.ToLower(t.Title)
			desc := strings.ToLower(t.Description)
			if !strings.Contains(title, needle) && !strings.Contains(desc, needle) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
