package domain

import "strings"

type DoneFilter string

const (
	DoneFilterAll     DoneFilter = "all"
	DoneFilterDone    DoneFilter = "done"
	DoneFilterPending DoneFilter = "pending"
)

// FilterCriteria is raw, user-entered filter input before
// normalization.
type FilterCriteria struct {
	Q    string
	Done DoneFilter
}

// SearchQuery is the normalized, omission-aware form sent to the
// search endpoint. A zero Q means the text filter is omitted entirely;
// a nil Done means no state filter (distinct from filtering on false).
type SearchQuery struct {
	Q    string
	Done *bool
}

// Query normalizes the criteria: the text is trimmed and dropped when
// blank, and the done selector maps all->omitted, done->true,
// pending->false.
func (c FilterCriteria) Query() SearchQuery {
	q := SearchQuery{Q: strings.TrimSpace(c.Q)}
	switch c.Done {
	case DoneFilterDone:
		done := true
		q.Done = &done
	case DoneFilterPending:
		done := false
		q.Done = &done
	}
	return q
}
