package scheme

// Vacancy is a named role in the catalog. Two vacancies are equal when their
// names are equal.
type Vacancy struct {
	name string
}

// NewVacancy returns a Vacancy with the given name.
func NewVacancy(name string) Vacancy { return Vacancy{name: name} }

// Name returns the vacancy name.
func (v Vacancy) Name() string { return v.name }

func (v Vacancy) String() string { return v.name }

// VacancyID is a handle to a Vacancy inside the catalog of the scheme that
// produced it. It does not keep the vacancy alive and is meaningless against
// any other scheme.
type VacancyID int

// VacancyCoefficient is a skill's weight for one vacancy.
type VacancyCoefficient struct {
	Vacancy VacancyID
	Weight  int64
}

// Skill is a named competency with weighted relevance to some vacancies.
type Skill struct {
	name         string
	coefficients []VacancyCoefficient
}

// Name returns the skill name.
func (s Skill) Name() string { return s.name }

// Coefficients returns the skill's weights in document order.
func (s Skill) Coefficients() []VacancyCoefficient {
	out := make([]VacancyCoefficient, len(s.coefficients))
	copy(out, s.coefficients)
	return out
}

// Equal compares skills by name only; weights are not part of identity.
func (s Skill) Equal(o Skill) bool { return s.name == o.name }

func (s Skill) String() string { return s.name }

// SkillWeight is one entry of the reverse view returned by SkillsFor.
type SkillWeight struct {
	Skill  string
	Weight int64
}
