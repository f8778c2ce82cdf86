package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ddx-coach-mcp-server/internal/bootstrap"
	"github.com/ddx-coach-mcp-server/internal/config"
	"github.com/ddx-coach-mcp-server/internal/domain"
	"github.com/ddx-coach-mcp-server/internal/logging"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ddx",
		Short:         "Differential diagnosis coach",
		Long:          "ddx matches a differential diagnosis against a case answer key and reports coverage, feedback prompts and practice cards.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "Path to a config file (default: search ., ./config, /etc/ddx-coach)")
	root.PersistentFlags().String("cases-dir", "", "Directory of case bundles (overrides data.cases_dir)")
	root.PersistentFlags().String("catalog", "", "Term catalog file (overrides data.catalog_path)")
	root.PersistentFlags().String("log-level", "warn", "Log level written to stderr")

	root.AddCommand(newSearchCmd())
	root.AddCommand(newEvaluateCmd())
	root.AddCommand(newQuizCmd())
	root.AddCommand(newCasesCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newSetupCmd())
	return root
}

// loadApp reads configuration, applies flag overrides and builds the engine.
// Logs always go to stderr so stdout stays machine readable.
func loadApp(cmd *cobra.Command, override func(*domain.Config)) (*bootstrap.App, error) {
	path, _ := cmd.Flags().GetString("config")
	manager, err := config.NewManagerFromFile(path)
	if err != nil {
		return nil, err
	}
	cfg := manager.GetConfig()

	if dir, _ := cmd.Flags().GetString("cases-dir"); dir != "" {
		cfg.Data.CasesDir = dir
	}
	if cat, _ := cmd.Flags().GetString("catalog"); cat != "" {
		cfg.Data.CatalogPath = cat
	}
	cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	cfg.Logging.Output = "stderr"
	if override != nil {
		override(cfg)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger.SetOutput(cmd.ErrOrStderr())

	return bootstrap.New(cfg, logger)
}

func entriesFromArgs(args []string) []domain.DiagnosisEntry {
	d := domain.NewDifferential(args...)
	return d.Entries()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
