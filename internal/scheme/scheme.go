// Package scheme builds a validated CoefficientScheme from a schema document
// listing vacancies and the weight each skill carries for them.
//
// A scheme is built once by New and never changes afterwards. Skills refer to
// vacancies through VacancyID handles into the scheme's own catalog, so the
// catalog always outlives the references into it.
package scheme

import (
	"io"

	"github.com/charmbracelet/log"
)

// CoefficientScheme is the validated aggregate of the vacancy catalog and
// the skill set built from one document.
type CoefficientScheme struct {
	vacancies *catalog
	skills    *skillSet
}

type options struct {
	logger *log.Logger
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger used while resolving. Each resolved coefficient
// is logged at debug level. A nil logger is ignored.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New reads a schema document from r and builds the scheme.
//
// It returns either a complete scheme or a single *SchemaError describing the
// first problem found.
func New(r io.Reader, opts ...Option) (*CoefficientScheme, error) {
	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}

	doc, err := readDocument(r)
	if err != nil {
		return nil, err
	}
	vacancies, err := buildCatalog(doc.vacancies)
	if err != nil {
		return nil, err
	}
	skills, err := resolveSkills(doc.skills, vacancies, o.logger)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("schema built", "vacancies", len(vacancies.entries), "skills", len(skills.entries))
	return &CoefficientScheme{vacancies: vacancies, skills: skills}, nil
}

// Vacancies returns the catalog in document order. The index of a vacancy in
// the returned slice is its VacancyID.
func (s *CoefficientScheme) Vacancies() []Vacancy {
	out := make([]Vacancy, len(s.vacancies.entries))
	copy(out, s.vacancies.entries)
	return out
}

// Vacancy returns the vacancy behind id.
func (s *CoefficientScheme) Vacancy(id VacancyID) (Vacancy, bool) {
	return s.vacancies.get(id)
}

// LookupVacancy returns the id of the vacancy with the given name.
func (s *CoefficientScheme) LookupVacancy(name string) (VacancyID, bool) {
	return s.vacancies.lookup(name)
}

// NumVacancies returns the catalog size.
func (s *CoefficientScheme) NumVacancies() int { return len(s.vacancies.entries) }

// Skills returns the skill set in document order.
func (s *CoefficientScheme) Skills() []Skill {
	out := make([]Skill, len(s.skills.entries))
	copy(out, s.skills.entries)
	return out
}

// Skill returns the skill with the given name.
func (s *CoefficientScheme) Skill(name string) (Skill, bool) {
	return s.skills.get(name)
}

// NumSkills returns the skill set size.
func (s *CoefficientScheme) NumSkills() int { return len(s.skills.entries) }

// SkillsFor lists every skill carrying a weight for id, in skill order.
func (s *CoefficientScheme) SkillsFor(id VacancyID) []SkillWeight {
	var out []SkillWeight
	for _, sk := range s.skills.entries {
		for _, c := range sk.coefficients {
			if c.Vacancy == id {
				out = append(out, SkillWeight{Skill: sk.name, Weight: c.Weight})
				break
			}
		}
	}
	return out
}

// VacancyName returns the name behind a coefficient. It panics if c was not
// produced by s.
func (s *CoefficientScheme) VacancyName(c VacancyCoefficient) string {
	v, ok := s.vacancies.get(c.Vacancy)
	if !ok {
		panic("scheme: coefficient does not belong to this scheme")
	}
	return v.name
}
