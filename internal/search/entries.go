package search

import "github.com/kamusis/coef-cli/internal/scheme"

// Entries lists every skill and vacancy of s as search entries, skills first.
func Entries(s *scheme.CoefficientScheme) []Entry {
	out := make([]Entry, 0, s.NumSkills()+s.NumVacancies())
	for _, sk := range s.Skills() {
		e := Entry{Kind: KindSkill, Name: sk.Name()}
		for _, c := range sk.Coefficients() {
			e.Related = append(e.Related, s.VacancyName(c))
		}
		out = append(out, e)
	}
	for i, v := range s.Vacancies() {
		e := Entry{Kind: KindVacancy, Name: v.Name()}
		for _, sw := range s.SkillsFor(scheme.VacancyID(i)) {
			e.Related = append(e.Related, sw.Skill)
		}
		out = append(out, e)
	}
	return out
}
