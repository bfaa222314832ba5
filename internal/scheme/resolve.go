package scheme

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// skillSet holds the skills of a scheme in document order, indexed by name.
type skillSet struct {
	entries []Skill
	byName  map[string]int
}

func newSkillSet(capacity int) *skillSet {
	return &skillSet{
		entries: make([]Skill, 0, capacity),
		byName:  make(map[string]int, capacity),
	}
}

func (s *skillSet) contains(name string) bool {
	_, ok := s.byName[name]
	return ok
}

func (s *skillSet) add(sk Skill) {
	s.byName[sk.name] = len(s.entries)
	s.entries = append(s.entries, sk)
}

func (s *skillSet) get(name string) (Skill, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Skill{}, false
	}
	return s.entries[i], true
}

// resolveSkills walks the skills object and resolves every weighted vacancy
// name against cat. cat must be complete before this is called.
func resolveSkills(n *node, cat *catalog, logger *log.Logger) (*skillSet, error) {
	if n.kind != objectNode {
		return nil, structural(n, fieldSkills, "must be an object, got %s", describe(n))
	}

	set := newSkillSet(len(n.fields))
	for _, f := range n.fields {
		name := f.key
		path := joinPath(fieldSkills, name)
		if set.contains(name) {
			return nil, duplicate(f.pos, path, name)
		}

		sk, err := resolveSkill(name, path, f.value, cat, logger)
		if err != nil {
			return nil, err
		}
		set.add(sk)
	}
	return set, nil
}

// resolveSkill builds one skill. Nothing is registered on failure.
func resolveSkill(name, path string, n *node, cat *catalog, logger *log.Logger) (Skill, error) {
	if n.kind != objectNode {
		return Skill{}, structural(n, path, "must be an object of vacancy weights, got %s", describe(n))
	}

	coefs := make([]VacancyCoefficient, 0, len(n.fields))
	seen := make(map[VacancyID]struct{}, len(n.fields))
	for _, f := range n.fields {
		vacancy := f.key
		wpath := joinPath(path, vacancy)

		id, ok := cat.lookup(vacancy)
		if !ok {
			return Skill{}, &SchemaError{
				Kind:        KindReference,
				Path:        path,
				Name:        vacancy,
				Description: fmt.Sprintf("skill %q references vacancy %q which is not in %q", name, vacancy, fieldVacancies),
				Line:        f.pos.line,
				Column:      f.pos.column,
				Err:         ErrUnknownVacancy,
			}
		}
		if _, dup := seen[id]; dup {
			return Skill{}, duplicate(f.pos, wpath, vacancy)
		}
		seen[id] = struct{}{}

		w, err := intValue(f.value, wpath)
		if err != nil {
			return Skill{}, err
		}
		logger.Debug("resolved coefficient", "skill", name, "vacancy", vacancy, "weight", w)
		coefs = append(coefs, VacancyCoefficient{Vacancy: id, Weight: w})
	}
	return Skill{name: name, coefficients: coefs}, nil
}
