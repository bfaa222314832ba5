package search

import "sort"

// SortResults sorts results by score (descending), then by kind and name (ascending).
func SortResults(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Entry.Kind != b.Entry.Kind {
			return a.Entry.Kind < b.Entry.Kind
		}
		return a.Entry.Name < b.Entry.Name
	})
}
