package habits

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/scbrown/habits/internal/model"
)

// Suggestion pairs a candidate string with its similarity score (0-1, higher
// is better).
type Suggestion struct {
	Value string  `json:"value"`
	Score float64 `json:"score"`
}

// DefaultThreshold is the minimum similarity score for a suggestion.
const DefaultThreshold = 0.75

// Suggest returns up to topN candidates scoring at least threshold against
// name, best first. Ties keep candidate order.
func Suggest(name string, candidates []string, topN int, threshold float64) []Suggestion {
	norm := normalizeTitle(name)
	if norm == "" || len(candidates) == 0 {
		return nil
	}
	var out []Suggestion
	for _, c := range candidates {
		score := similarity(norm, normalizeTitle(c))
		if score >= threshold {
			out = append(out, Suggestion{Value: c, Score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// SimilarHabits returns stored habits whose titles are close to title, best
// match first. Archived habits are included.
func (s *Store) SimilarHabits(title string) []model.Habit {
	list := s.Habits()
	titles := make([]string, len(list))
	for i, h := range list {
		titles[i] = h.Title
	}
	var out []model.Habit
	seen := map[string]bool{}
	for _, sg := range Suggest(title, titles, 0, DefaultThreshold) {
		for _, h := range list {
			if h.Title == sg.Value && !seen[h.ID] {
				seen[h.ID] = true
				out = append(out, h)
			}
		}
	}
	return out
}

// similarity is 1 - distance/maxLen over runes.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}

// normalizeTitle lowercases s and collapses runs of whitespace.
func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
