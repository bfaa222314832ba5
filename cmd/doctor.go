package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kamusis/coef-cli/internal/config"
	"github.com/kamusis/coef-cli/internal/lint"
	"github.com/kamusis/coef-cli/internal/scheme"
	"github.com/kamusis/coef-cli/internal/schemafile"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run pre-flight environment checks",
	Long: `Check that coef's configuration and schema file are usable.
Run this command when something seems wrong, or before filing a bug report.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	env, err := envFrom(cmd)
	if err != nil {
		return err
	}

	allOK := true
	failD := func(format string, args ...any) {
		printErr("", fmt.Sprintf(format, args...))
		allOK = false
	}

	printSection("coef doctor")
	fmt.Fprintln(out)

	// ── Check 1: config ──────────────────────────────────────────────────────
	fmt.Fprintln(out, "[ coef.yaml ]")
	cfgPath, _ := config.ConfigPath()
	if _, err := config.Load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			printSkip("", fmt.Sprintf("%s not found, using defaults (run 'coef init' to create it)", cfgPath))
		} else {
			failD("%v", err)
		}
	} else {
		printOK("", fmt.Sprintf("valid YAML: %s", cfgPath))
	}
	if lvl, err := config.ResolveLogLevel(env.cfg); err == nil {
		if _, err := log.ParseLevel(strings.ToLower(lvl)); err != nil {
			printWarn("", fmt.Sprintf("unknown log level %q, expected debug, info, warn or error", lvl))
		}
	}
	fmt.Fprintln(out)

	// ── Check 2: schema file ─────────────────────────────────────────────────
	fmt.Fprintln(out, "[ Schema file ]")
	var doc []byte
	if info, err := os.Stat(env.schemaPath); err != nil {
		if os.IsNotExist(err) {
			failD("%s not found — run 'coef init' or pass --schema", env.schemaPath)
		} else {
			failD("cannot stat %s: %v", env.schemaPath, err)
		}
	} else if info.IsDir() {
		failD("%s is a directory", env.schemaPath)
	} else {
		doc, err = schemafile.Read(cmd.Context(), env.schemaPath, env.fileOptions())
		if err != nil {
			failD("%v", err)
		} else {
			printOK("", fmt.Sprintf("readable under shared lock: %s (%d bytes)", env.schemaPath, len(doc)))
		}
	}
	fmt.Fprintln(out)

	// ── Check 3: shape ───────────────────────────────────────────────────────
	fmt.Fprintln(out, "[ Shape ]")
	shapeOK := false
	if doc == nil {
		printSkip("", "skipped (schema not loaded)")
	} else if err := lint.Check(doc); err != nil {
		var ve *lint.ValidationError
		if errors.As(err, &ve) {
			for _, fe := range ve.Errors {
				failD("%s: %s", fe.Field, fe.Message)
			}
		} else {
			failD("%v", err)
		}
	} else {
		printOK("", "document shape is valid")
		shapeOK = true
	}
	fmt.Fprintln(out)

	// ── Check 4: references ──────────────────────────────────────────────────
	fmt.Fprintln(out, "[ References ]")
	if !shapeOK {
		printSkip("", "skipped (shape check failed)")
	} else if s, err := scheme.New(bytes.NewReader(doc), scheme.WithLogger(env.logger)); err != nil {
		failD("%v", err)
	} else {
		printOK("", fmt.Sprintf("%d vacancies, %d skills, every weight resolves", s.NumVacancies(), s.NumSkills()))
		for i, v := range s.Vacancies() {
			if len(s.SkillsFor(scheme.VacancyID(i))) == 0 {
				printWarn(v.Name(), "vacancy is not weighted by any skill")
			}
		}
		for _, sk := range s.Skills() {
			if len(sk.Coefficients()) == 0 {
				printWarn(sk.Name(), "skill has no vacancy weights")
			}
		}
	}
	fmt.Fprintln(out)

	// ── Summary ──────────────────────────────────────────────────────────────
	fmt.Fprintln(out, "===================")
	if allOK {
		fmt.Fprintln(out, "✓  All checks passed. coef is ready to use.")
		return nil
	}
	fmt.Fprintln(errOut, "✗  One or more checks failed. See details above.")
	return fmt.Errorf("doctor found issues")
}
