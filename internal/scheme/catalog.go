package scheme

import "fmt"

// catalog is the arena that owns every Vacancy of a scheme. A VacancyID is a
// position in entries; entries is never reordered or shrunk once built.
type catalog struct {
	entries []Vacancy
	byName  map[string]VacancyID
}

func newCatalog(capacity int) *catalog {
	return &catalog{
		entries: make([]Vacancy, 0, capacity),
		byName:  make(map[string]VacancyID, capacity),
	}
}

// add inserts a vacancy. It reports false and leaves the catalog unchanged
// when the name is already present.
func (c *catalog) add(name string) (VacancyID, bool) {
	if id, ok := c.byName[name]; ok {
		return id, false
	}
	id := VacancyID(len(c.entries))
	c.entries = append(c.entries, NewVacancy(name))
	c.byName[name] = id
	return id, true
}

func (c *catalog) lookup(name string) (VacancyID, bool) {
	id, ok := c.byName[name]
	return id, ok
}

func (c *catalog) get(id VacancyID) (Vacancy, bool) {
	if id < 0 || int(id) >= len(c.entries) {
		return Vacancy{}, false
	}
	return c.entries[id], true
}

// buildCatalog turns the vacancies array into the catalog.
func buildCatalog(n *node) (*catalog, error) {
	if n.kind != arrayNode {
		return nil, structural(n, fieldVacancies, "must be an array of strings, got %s", describe(n))
	}

	c := newCatalog(len(n.items))
	for i, item := range n.items {
		path := fmt.Sprintf("%s[%d]", fieldVacancies, i)
		name, err := stringValue(item, path, "vacancy")
		if err != nil {
			return nil, err
		}
		if _, ok := c.add(name); !ok {
			return nil, duplicate(item.pos, path, name)
		}
	}
	return c, nil
}
