package domain

import "strings"

type TitleLength string

const (
	TitleShort  TitleLength = "short"
	TitleMedium TitleLength = "medium"
	TitleLong   TitleLength = "long"
)

// AdvancedStats aggregates one pass over a todo collection. All
// counters are derived from the collection alone; an empty collection
// yields all zeroes.
type AdvancedStats struct {
	Total              int `json:"total"`
	Done               int `json:"done"`
	Pending            int `json:"pending"`
	WithDescription    int `json:"with_description"`
	WithoutDescription int `json:"without_description"`
	TitleShort         int `json:"title_short"`
	TitleMedium        int `json:"title_medium"`
	TitleLong          int `json:"title_long"`
}

// ClassifyTitleLength buckets a title by its trimmed length:
// <=10 short, 11-25 medium, >=26 long.
func ClassifyTitleLength(title string) TitleLength {
	length := len([]rune(strings.TrimSpace(title)))
	switch {
	case length <= 10:
		return TitleShort
	case length <= 25:
		return TitleMedium
	default:
		return TitleLong
	}
}

func ComputeAdvancedStats(todos []Todo) AdvancedStats {
	var stats AdvancedStats
	for _, t := range todos {
		stats.Total++

		if t.Done {
			stats.Done++
		} else {
			stats.Pending++
		}

		if strings.TrimSpace(t.Description) != "" {
			stats.WithDescription++
		} else {
			stats.WithoutDescription++
		}

		switch ClassifyTitleLength(t.Title) {
		case TitleShort:
			stats.TitleShort++
		case TitleMedium:
			stats.TitleMedium++
		default:
			stats.TitleLong++
		}
	}
	return stats
}
