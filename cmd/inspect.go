package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kamusis/coef-cli/internal/scheme"
	"github.com/kamusis/coef-cli/internal/schemafile"
	"github.com/kamusis/coef-cli/internal/search"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [name]",
	Short: "Show the vacancies and skill weights of the schema",
	Long: `Display the loaded coefficient schema.

Without an argument, lists every vacancy and skill. The argument can be:
  - A skill name: its weight for each vacancy
  - A vacancy name: every skill carrying a weight for it
Anything else falls back to a case-insensitive search over names.

Example:
  coef inspect
  coef inspect go
  coef inspect backend`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	env, err := envFrom(cmd)
	if err != nil {
		return err
	}
	s, err := schemafile.Load(cmd.Context(), env.schemaPath, env.fileOptions())
	if err != nil {
		return err
	}

	if len(args) == 0 {
		printSummary(s, env.schemaPath)
		return nil
	}

	name := args[0]
	var found bool
	if sk, ok := s.Skill(name); ok {
		printSkill(s, sk)
		found = true
	}
	if id, ok := s.LookupVacancy(name); ok {
		printVacancy(s, id)
		found = true
	}
	if found {
		return nil
	}

	matches := search.KeywordSearch(search.Entries(s), name, 0)
	if len(matches) == 0 {
		return fmt.Errorf("skill or vacancy %q not found in %s.\nTip: run 'coef inspect' to list every name.", name, env.schemaPath)
	}
	printInfo("", fmt.Sprintf("no exact match for %q, showing %d close match(es)", name, len(matches)))
	for i, m := range matches {
		if i > 0 {
			fmt.Fprintln(out, strings.Repeat("─", 50))
		}
		switch m.Entry.Kind {
		case search.KindSkill:
			sk, _ := s.Skill(m.Entry.Name)
			printSkill(s, sk)
		case search.KindVacancy:
			id, _ := s.LookupVacancy(m.Entry.Name)
			printVacancy(s, id)
		}
	}
	return nil
}

func printSummary(s *scheme.CoefficientScheme, path string) {
	printSection("Schema")
	fmt.Fprintf(out, "Path:      %s\n", path)
	fmt.Fprintf(out, "Vacancies: %d\n", s.NumVacancies())
	fmt.Fprintf(out, "Skills:    %d\n", s.NumSkills())

	printBullet("Vacancies:")
	for i, v := range s.Vacancies() {
		n := len(s.SkillsFor(scheme.VacancyID(i)))
		if n == 0 {
			printMiss(v.Name(), "no skill weights this vacancy")
			continue
		}
		printOK(v.Name(), fmt.Sprintf("%d skill(s)", n))
	}

	printBullet("Skills:")
	for _, sk := range s.Skills() {
		coefs := sk.Coefficients()
		if len(coefs) == 0 {
			printMiss(sk.Name(), "no vacancy weights")
			continue
		}
		parts := make([]string, 0, len(coefs))
		for _, c := range coefs {
			parts = append(parts, fmt.Sprintf("%s=%d", s.VacancyName(c), c.Weight))
		}
		printOK(sk.Name(), strings.Join(parts, ", "))
	}
}

func printSkill(s *scheme.CoefficientScheme, sk scheme.Skill) {
	printSection("Skill: " + sk.Name())
	coefs := sk.Coefficients()
	if len(coefs) == 0 {
		printMiss("", "no vacancy weights")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "VACANCY\tWEIGHT\t")
	for _, c := range coefs {
		fmt.Fprintf(w, "%s\t%d\t\n", s.VacancyName(c), c.Weight)
	}
	_ = w.Flush()
}

func printVacancy(s *scheme.CoefficientScheme, id scheme.VacancyID) {
	v, _ := s.Vacancy(id)
	printSection("Vacancy: " + v.Name())
	weights := s.SkillsFor(id)
	if len(weights) == 0 {
		printMiss("", "no skill weights this vacancy")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "SKILL\tWEIGHT\t")
	for _, sw := range weights {
		fmt.Fprintf(w, "%s\t%d\t\n", sw.Skill, sw.Weight)
	}
	_ = w.Flush()
}
