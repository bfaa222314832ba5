package scheme

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNew(t *testing.T, doc string) *CoefficientScheme {
	t.Helper()
	s, err := New(strings.NewReader(doc))
	require.NoError(t, err)
	return s
}

func vacancyNames(s *CoefficientScheme) []string {
	var out []string
	for _, v := range s.Vacancies() {
		out = append(out, v.Name())
	}
	return out
}

func TestNew_RoundTrip(t *testing.T) {
	s := mustNew(t, `{"vacancies":["A","B"],"skills":{"s1":{"A":3,"B":-2}}}`)

	assert.Equal(t, []string{"A", "B"}, vacancyNames(s))
	require.Equal(t, 1, s.NumSkills())

	sk, ok := s.Skill("s1")
	require.True(t, ok)
	got := map[string]int64{}
	for _, c := range sk.Coefficients() {
		got[s.VacancyName(c)] = c.Weight
	}
	assert.Equal(t, map[string]int64{"A": 3, "B": -2}, got)
}

func TestNew_EveryCoefficientResolves(t *testing.T) {
	s := mustNew(t, `{
		"vacancies": ["backend", "frontend", "devops"],
		"skills": {
			"go":     {"backend": 10, "devops": 4},
			"css":    {"frontend": 8},
			"docker": {"devops": 9, "backend": 2},
			"soft":   {}
		}
	}`)

	assert.Equal(t, 3, s.NumVacancies())
	assert.Equal(t, 4, s.NumSkills())
	for _, sk := range s.Skills() {
		for _, c := range sk.Coefficients() {
			v, ok := s.Vacancy(c.Vacancy)
			require.True(t, ok, "skill %s has dangling coefficient %d", sk.Name(), c.Vacancy)
			id, ok := s.LookupVacancy(v.Name())
			require.True(t, ok)
			assert.Equal(t, c.Vacancy, id)
		}
	}
}

func TestNew_PreservesDocumentOrder(t *testing.T) {
	s := mustNew(t, `{"vacancies":["z","a","m"],"skills":{"b":{"m":1,"z":2},"a":{"a":3}}}`)

	assert.Equal(t, []string{"z", "a", "m"}, vacancyNames(s))
	skills := s.Skills()
	require.Len(t, skills, 2)
	assert.Equal(t, "b", skills[0].Name())
	assert.Equal(t, "a", skills[1].Name())

	coefs := skills[0].Coefficients()
	require.Len(t, coefs, 2)
	assert.Equal(t, "m", s.VacancyName(coefs[0]))
	assert.Equal(t, "z", s.VacancyName(coefs[1]))
}

func TestNew_Deterministic(t *testing.T) {
	const doc = `{"vacancies":["A","B","C"],"skills":{"x":{"A":1,"C":7},"y":{"B":-4}}}`
	a := mustNew(t, doc)
	b := mustNew(t, doc)

	assert.Equal(t, vacancyNames(a), vacancyNames(b))
	require.Equal(t, a.NumSkills(), b.NumSkills())
	for _, sa := range a.Skills() {
		sb, ok := b.Skill(sa.Name())
		require.True(t, ok)
		assert.True(t, sa.Equal(sb))
		assert.ElementsMatch(t, weights(sa), weights(sb))
	}
}

func weights(s Skill) []int64 {
	var out []int64
	for _, c := range s.Coefficients() {
		out = append(out, c.Weight)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestNew_UnknownVacancy(t *testing.T) {
	_, err := New(strings.NewReader(`{"vacancies":["A"],"skills":{"s1":{"A":1,"Ghost":2}}}`))
	require.Error(t, err)

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindReference, se.Kind)
	assert.Equal(t, "Ghost", se.Name)
	assert.Equal(t, "skills.s1", se.Path)
	assert.ErrorIs(t, err, ErrUnknownVacancy)
	assert.NotErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "Ghost")
	assert.Contains(t, err.Error(), "s1")
}

func TestNew_StructuralErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		path string
	}{
		{"empty input", ``, ""},
		{"not json", `{"vacancies": [`, ""},
		{"top level array", `["A"]`, ""},
		{"missing vacancies", `{"skills":{}}`, "vacancies"},
		{"missing skills", `{"vacancies":[]}`, "skills"},
		{"vacancies object", `{"vacancies":{"A":1},"skills":{}}`, "vacancies"},
		{"vacancies string", `{"vacancies":"A","skills":{}}`, "vacancies"},
		{"vacancy number", `{"vacancies":["A",2],"skills":{}}`, "vacancies[1]"},
		{"vacancy null", `{"vacancies":[null],"skills":{}}`, "vacancies[0]"},
		{"skills array", `{"vacancies":["A"],"skills":[]}`, "skills"},
		{"skill not object", `{"vacancies":["A"],"skills":{"s":["A"]}}`, "skills.s"},
		{"weight float", `{"vacancies":["A"],"skills":{"s":{"A":1.5}}}`, "skills.s.A"},
		{"weight string", `{"vacancies":["A"],"skills":{"s":{"A":"3"}}}`, "skills.s.A"},
		{"weight null", `{"vacancies":["A"],"skills":{"s":{"A":null}}}`, "skills.s.A"},
		{"weight overflow", `{"vacancies":["A"],"skills":{"s":{"A":9223372036854775808}}}`, "skills.s.A"},
		{"unknown field", `{"vacancies":[],"skills":{},"workers":[]}`, "workers"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := New(strings.NewReader(c.doc))
			require.Error(t, err)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.True(t, IsKind(err, KindStructure))

			var se *SchemaError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, c.path, se.Path)
		})
	}
}

func TestNew_WeightBounds(t *testing.T) {
	s := mustNew(t, `{"vacancies":["A","B"],"skills":{"s":{"A":9223372036854775807,"B":-9223372036854775808}}}`)
	sk, _ := s.Skill("s")
	c := sk.Coefficients()
	require.Len(t, c, 2)
	assert.Equal(t, int64(9223372036854775807), c[0].Weight)
	assert.Equal(t, int64(-9223372036854775808), c[1].Weight)
}

func TestNew_Duplicates(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		dup  string
	}{
		{"vacancy", `{"vacancies":["A","B","A"],"skills":{}}`, "A"},
		{"skill", `{"vacancies":["A"],"skills":{"s":{"A":1},"s":{"A":2}}}`, "s"},
		{"weighted vacancy", `{"vacancies":["A"],"skills":{"s":{"A":1,"A":2}}}`, "A"},
		{"top-level field", `{"vacancies":["A"],"vacancies":["B"],"skills":{}}`, "vacancies"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := New(strings.NewReader(c.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDuplicateName)
			assert.ErrorIs(t, err, ErrMalformed)

			var se *SchemaError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, c.dup, se.Name)
		})
	}
}

func TestNew_VacanciesCheckedBeforeSkills(t *testing.T) {
	_, err := New(strings.NewReader(`{"skills":{"s":{"Ghost":1}},"vacancies":[1]}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestNew_IOErrorPropagated(t *testing.T) {
	cause := errors.New("disk on fire")
	_, err := New(failingReader{err: cause})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsKind(err, KindIO))
	assert.NotErrorIs(t, err, ErrMalformed)
}

func TestNew_AcceptsJSONEscapes(t *testing.T) {
	cases := []struct {
		name    string
		doc     string
		vacancy string
	}{
		{"escaped solidus", `{"vacancies":["a\/b"],"skills":{"s":{"a/b":1}}}`, "a/b"},
		{"surrogate pair", `{"vacancies":["\ud83d\ude00"],"skills":{"s":{"\ud83d\ude00":1}}}`, "\U0001F600"},
		{"unicode escape", `{"vacancies":["caf\u00e9"],"skills":{"s":{"café":2}}}`, "café"},
		{"quote and backslash", `{"vacancies":["a\"b\\c"],"skills":{}}`, "a\"b\\c"},
		{"surrounding whitespace", " \n\t{\"vacancies\":[\"x\"],\"skills\":{}}\r\n ", "x"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := mustNew(t, c.doc)
			assert.Equal(t, []string{c.vacancy}, vacancyNames(s))
			if sk, ok := s.Skill("s"); ok {
				require.Len(t, sk.Coefficients(), 1)
				assert.Equal(t, c.vacancy, s.VacancyName(sk.Coefficients()[0]))
			}
		})
	}
}

func TestNew_RejectsNonJSONAndNonIntegers(t *testing.T) {
	const body = `{"vacancies":["A"],"skills":{"s":{"A":1}}}`
	cases := []struct {
		name string
		doc  string
	}{
		{"leading zero", `{"vacancies":["A"],"skills":{"s":{"A":012}}}`},
		{"plus sign", `{"vacancies":["A"],"skills":{"s":{"A":+1}}}`},
		{"hex weight", `{"vacancies":["A"],"skills":{"s":{"A":0x1}}}`},
		{"exponent weight", `{"vacancies":["A"],"skills":{"s":{"A":1e2}}}`},
		{"integral float", `{"vacancies":["A"],"skills":{"s":{"A":1.0}}}`},
		{"trailing garbage", body + ` garbage`},
		{"second document", body + "\n---\n{}"},
		{"second object", body + ` {}`},
		{"trailing comma", `{"vacancies":["A",],"skills":{}}`},
		{"single quotes", `{'vacancies':['A'],'skills':{}}`},
		{"unquoted keys", `{vacancies:["A"],skills:{}}`},
		{"yaml block", "vacancies:\n  - A\nskills: {}\n"},
		{"comment", "{\"vacancies\":[], // none\n\"skills\":{}}"},
		{"bad escape", `{"vacancies":["\q"],"skills":{}}`},
		{"truncated", `{"vacancies":["A"],"skills":{"s":`},
		{"whitespace only", " \n\t "},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := New(strings.NewReader(c.doc))
			require.Error(t, err)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.True(t, IsKind(err, KindStructure))
		})
	}
}

func TestNew_SyntaxErrorPosition(t *testing.T) {
	_, err := New(strings.NewReader("{\n  \"vacancies\": [\"A\"],\n  \"skills\": {\"s\": {\"A\": 012}}\n}"))
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindStructure, se.Kind)
	assert.Equal(t, 3, se.Line)
}

func TestNew_ErrorPosition(t *testing.T) {
	_, err := New(strings.NewReader("{\n  \"vacancies\": [\"A\"],\n  \"skills\": {\"s\": {\"B\": 1}}\n}"))
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 3, se.Line)
	assert.Contains(t, err.Error(), "line 3")
}

func TestSkillsFor(t *testing.T) {
	s := mustNew(t, `{"vacancies":["A","B"],"skills":{"x":{"A":1},"y":{"B":2,"A":-1},"z":{"B":4}}}`)
	id, ok := s.LookupVacancy("A")
	require.True(t, ok)
	assert.Equal(t, []SkillWeight{{Skill: "x", Weight: 1}, {Skill: "y", Weight: -1}}, s.SkillsFor(id))
}

func TestAccessorsReturnCopies(t *testing.T) {
	s := mustNew(t, `{"vacancies":["A"],"skills":{"x":{"A":1}}}`)
	vs := s.Vacancies()
	vs[0] = NewVacancy("mutated")
	assert.Equal(t, "A", s.Vacancies()[0].Name())

	sk, _ := s.Skill("x")
	cs := sk.Coefficients()
	cs[0].Weight = 99
	sk2, _ := s.Skill("x")
	assert.Equal(t, int64(1), sk2.Coefficients()[0].Weight)
}

func TestVacancyEquality(t *testing.T) {
	assert.Equal(t, NewVacancy("a"), NewVacancy("a"))
	assert.NotEqual(t, NewVacancy("a"), NewVacancy("b"))
	assert.True(t, Skill{name: "s", coefficients: []VacancyCoefficient{{0, 1}}}.Equal(Skill{name: "s"}))
}
