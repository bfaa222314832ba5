package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kamusis/coef-cli/internal/schemafile"
	"github.com/kamusis/coef-cli/internal/search"
)

var (
	flagSearchK    int
	flagSearchKind string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search skills and vacancies by keyword",
	Long: `Search the schema's skill and vacancy names. Matching is
case-insensitive and every query word must match, either in the name or in
the names it is weighted against.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&flagSearchK, "k", 10, "Number of results to show (0 = all)")
	searchCmd.Flags().StringVar(&flagSearchKind, "kind", "", "Restrict results to 'skill' or 'vacancy'")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	env, err := envFrom(cmd)
	if err != nil {
		return err
	}

	var kind search.Kind
	switch flagSearchKind {
	case "":
	case string(search.KindSkill), string(search.KindVacancy):
		kind = search.Kind(flagSearchKind)
	default:
		return fmt.Errorf("invalid --kind %q: expected skill or vacancy", flagSearchKind)
	}

	s, err := schemafile.Load(cmd.Context(), env.schemaPath, env.fileOptions())
	if err != nil {
		return err
	}

	entries := search.Entries(s)
	if kind != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.Kind == kind {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	query := strings.Join(args, " ")
	results := search.KeywordSearch(entries, query, flagSearchK)
	if len(results) == 0 {
		printMiss("", fmt.Sprintf("no match for %q", query))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tNAME\tMATCH\tWEIGHTED AGAINST")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Entry.Kind, r.Entry.Name, r.Why, strings.Join(r.Entry.Related, ", "))
	}
	return w.Flush()
}
