package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// KeywordSearch matches entries by case-folded keyword over their name and
// related names. All query tokens must match (AND semantics).
//
// An exact name match scores 3, all tokens inside the name score 2, and a
// match that needs related names scores 1.
func KeywordSearch(entries []Entry, query string, limit int) []SearchResult {
	fold := cases.Fold()
	tokens := tokenize(fold, query)
	if len(tokens) == 0 {
		return []SearchResult{}
	}
	phrase := strings.Join(tokens, " ")

	var out []SearchResult
	for _, e := range entries {
		name := fold.String(e.Name)
		related := fold.String(strings.Join(e.Related, "\n"))

		inName, inAny := true, true
		for _, tok := range tokens {
			n := strings.Contains(name, tok)
			if !n {
				inName = false
			}
			if !n && !strings.Contains(related, tok) {
				inAny = false
				break
			}
		}
		switch {
		case !inAny:
			continue
		case name == phrase:
			out = append(out, SearchResult{Entry: e, Score: 3, Why: "exact"})
		case inName:
			out = append(out, SearchResult{Entry: e, Score: 2, Why: "name"})
		default:
			out = append(out, SearchResult{Entry: e, Score: 1, Why: "related"})
		}
	}

	SortResults(out)

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func tokenize(fold cases.Caser, q string) []string {
	parts := strings.Fields(fold.String(q))
	if len(parts) == 0 {
		return nil
	}
	return parts
}
