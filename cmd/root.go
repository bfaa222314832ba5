package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kamusis/coef-cli/internal/config"
	"github.com/kamusis/coef-cli/internal/schemafile"
)

var (
	flagSchema  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:          "coef",
	Short:        "coef — skill/vacancy coefficient schema tool",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `coef loads a coefficient schema: a catalog of vacancies and the
integer weight each skill carries for them. It checks that every weighted
vacancy exists and lets you inspect, search and validate the result.

The schema path comes from --schema, then COEF_SCHEMA, then schema_path in
~/.coef/coef.yaml, then ~/.coef/skill_coefficients.json.`,
	PersistentPreRunE: setupRun,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSchema, "schema", "", "Path to the coefficient schema (JSON)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// runEnv is the resolved configuration shared by every command.
type runEnv struct {
	cfg        *config.Config
	schemaPath string
	logger     *log.Logger
}

type runEnvKey struct{}

// setupRun resolves config, schema path and logger and stores them on the
// command context.
func setupRun(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return err
	}

	levelName, err := config.ResolveLogLevel(cfg)
	if err != nil {
		return err
	}
	level, err := log.ParseLevel(strings.ToLower(levelName))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	if flagVerbose {
		level = log.DebugLevel
	}
	logger := newLogger(cmd.ErrOrStderr(), level)

	schemaPath, err := config.ResolveSchemaPath(flagSchema, cfg)
	if err != nil {
		return err
	}
	logger.Debug("resolved schema path", "path", schemaPath)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, runEnvKey{}, &runEnv{cfg: cfg, schemaPath: schemaPath, logger: logger}))
	return nil
}

// envFrom returns the runEnv set up by setupRun.
func envFrom(cmd *cobra.Command) (*runEnv, error) {
	if ctx := cmd.Context(); ctx != nil {
		if env, ok := ctx.Value(runEnvKey{}).(*runEnv); ok {
			return env, nil
		}
	}
	return nil, fmt.Errorf("internal error: run environment missing")
}

func (e *runEnv) fileOptions() schemafile.Options {
	return schemafile.Options{LockTimeout: e.cfg.LockTimeout, Logger: e.logger}
}

// schemaArg returns args[0] when given, else the resolved schema path.
func (e *runEnv) schemaArg(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return config.ExpandPath(args[0])
	}
	return e.schemaPath, nil
}

// Execute is called by main.go.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
