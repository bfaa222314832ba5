package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamusis/coef-cli/internal/lint"
	"github.com/kamusis/coef-cli/internal/scheme"
	"github.com/kamusis/coef-cli/internal/schemafile"
)

var flagValidatePrintSchema bool

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check a coefficient schema for shape and reference errors",
	Long: `Validate a coefficient schema in two passes:

  1. Shape: every structural problem is listed (JSON Schema check)
  2. References: the schema is built and every skill weight must name a
     vacancy from the catalog

The path defaults to the resolved schema path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&flagValidatePrintSchema, "print-schema", false, "Print the JSON Schema used for the shape check and exit")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if flagValidatePrintSchema {
		fmt.Fprint(out, lint.SchemaJSON())
		return nil
	}

	env, err := envFrom(cmd)
	if err != nil {
		return err
	}
	path, err := env.schemaArg(args)
	if err != nil {
		return err
	}

	b, err := schemafile.Read(cmd.Context(), path, env.fileOptions())
	if err != nil {
		return err
	}

	printSection("coef validate")
	fmt.Fprintf(out, "Path: %s\n\n", path)

	fmt.Fprintln(out, "[ Shape ]")
	if err := lint.Check(b); err != nil {
		var ve *lint.ValidationError
		if !errors.As(err, &ve) {
			printErr("", err.Error())
			return fmt.Errorf("%s is not a readable schema document", path)
		}
		for _, fe := range ve.Errors {
			printErr(fe.Field, fe.Message)
		}
		return fmt.Errorf("%d structural problem(s) in %s", len(ve.Errors), path)
	}
	printOK("", "document shape is valid")

	fmt.Fprintln(out, "\n[ References ]")
	s, err := scheme.New(bytes.NewReader(b), scheme.WithLogger(env.logger))
	if err != nil {
		var se *scheme.SchemaError
		if errors.As(err, &se) && se.Name != "" {
			printErr(se.Name, err.Error())
		} else {
			printErr("", err.Error())
		}
		return fmt.Errorf("schema %s is invalid", path)
	}
	printOK("", fmt.Sprintf("%d vacancies, %d skills, every weight resolves", s.NumVacancies(), s.NumSkills()))
	return nil
}
