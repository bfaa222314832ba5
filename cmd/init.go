package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamusis/coef-cli/internal/config"
	"github.com/kamusis/coef-cli/internal/schemafile"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create ~/.coef and a starter coefficient schema",
	Long: `Initialize coef's home directory at ~/.coef/.

Writes coef.yaml and a .env template when they are missing, then seeds a
starter schema at the resolved schema path unless a file is already there.
Existing files are never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var flagInitNoSchema bool

func init() {
	initCmd.Flags().BoolVar(&flagInitNoSchema, "no-schema", false, "Do not seed a starter schema")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	env, err := envFrom(cmd)
	if err != nil {
		return err
	}

	// ── 1. ~/.coef ───────────────────────────────────────────────────────────
	dir, err := config.CoefDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}
	printOK("", fmt.Sprintf("coef directory ready: %s", dir))

	// ── 2. coef.yaml ─────────────────────────────────────────────────────────
	cfgPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		cfg, err := config.DefaultConfig()
		if err != nil {
			return err
		}
		if flagSchema != "" {
			cfg.SchemaPath = env.schemaPath
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("Config written: %s", cfgPath))
	} else {
		printSkip("", fmt.Sprintf("Config already exists: %s", cfgPath))
	}

	// ── 3. .env template ─────────────────────────────────────────────────────
	if err := config.EnsureDotEnvTemplate(); err != nil {
		return err
	}
	envPath, _ := config.DotEnvPath()
	printOK("", fmt.Sprintf("Dotenv ready: %s", envPath))

	// ── 4. starter schema ────────────────────────────────────────────────────
	if flagInitNoSchema {
		printSkip("", "Starter schema not requested (--no-schema)")
		return nil
	}
	wrote, err := schemafile.Seed(cmd.Context(), env.schemaPath, env.fileOptions())
	if err != nil {
		return err
	}
	if wrote {
		printOK("", fmt.Sprintf("Starter schema written: %s", env.schemaPath))
	} else {
		printSkip("", fmt.Sprintf("Schema already exists: %s", env.schemaPath))
	}

	fmt.Fprintln(out, "\nNext: run 'coef validate' to check the schema, 'coef inspect' to browse it.")
	return nil
}
