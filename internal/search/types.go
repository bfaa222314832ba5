package search

// Kind tells which catalog an Entry comes from.
type Kind string

const (
	KindSkill   Kind = "skill"
	KindVacancy Kind = "vacancy"
)

// Entry is one searchable name of a scheme.
type Entry struct {
	Kind Kind
	Name string
	// Related lists the names on the other side of the coefficient table:
	// weighted vacancies for a skill, weighting skills for a vacancy.
	Related []string
}

// SearchResult represents one matched entry.
type SearchResult struct {
	Entry Entry
	Score float64
	Why   string
}
