package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/wren/internal/config"
	"github.com/simonhull/firebird-suite/wren/internal/logger"
	"github.com/simonhull/firebird-suite/wren/internal/output"
	"github.com/simonhull/firebird-suite/wren/internal/scaffold"
)

// TxCmd creates and returns the 'tx' command that adds a transaction type
func TxCmd() *cobra.Command {
	var projectDir, defaultType string
	var dryRun, skip, diff, interactive, format bool

	cmd := &cobra.Command{
		Use:     "tx <name> [field type]...",
		Aliases: []string{"create-tx"},
		Short:   "Add a new transaction type",
		Long: `Add a new transaction type to src/tx.rs and src/state.rs.

Fields are given as alternating name and type tokens. A trailing name
without a type uses the default type (String unless configured).

Existing files are overwritten unless a conflict strategy is chosen with
--skip, --diff or --interactive (or conflict.strategy in wren.yml).

Examples:
  wren tx Transfer amount u64 to String
  wren tx Ping
  wren tx Flag enabled --default-type bool
  wren tx Mint amount u128 --project ./chain --dry-run --diff
  wren tx Burn amount u128 --fmt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := conflictStrategy(skip, diff, interactive)
			if err != nil {
				return err
			}

			configFile, _ := cmd.Flags().GetString("config")
			name, tokens := args[0], args[1:]

			output.Verbose(fmt.Sprintf("Generating transaction %s in %s (dry-run=%v, strategy=%q)", name, projectDir, dryRun, strategy))

			report, err := scaffold.New(nil, logger.Default()).Run(cmd.Context(), scaffold.Options{
				ProjectRoot: projectDir,
				ConfigFile:  configFile,
				Name:        name,
				FieldTokens: tokens,
				DefaultType: defaultType,
				Strategy:    strategy,
				DryRun:      dryRun,
				Format:      format,
				Writer:      cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}

			if dryRun {
				output.Info("Dry run complete, no files were written")
				return nil
			}

			output.TransactionSummary(report.Name, report.Fields)
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectDir, "project", "p", ".", "Project root directory")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be written without writing")
	cmd.Flags().BoolVar(&skip, "skip", false, "Keep existing files instead of overwriting them")
	cmd.Flags().BoolVar(&diff, "diff", false, "Show a diff for existing files before deciding")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Ask before overwriting existing files")
	cmd.Flags().BoolVar(&format, "fmt", false, "Run the format command (cargo fmt by default) after writing")
	cmd.Flags().StringVar(&defaultType, "default-type", "", "Type for a trailing field given without one")

	return cmd
}

// conflictStrategy maps the mutually exclusive conflict flags to a strategy
// name. No flag means the configured strategy.
func conflictStrategy(skip, diff, interactive bool) (string, error) {
	var chosen []string
	if skip {
		chosen = append(chosen, "--skip")
	}
	if diff {
		chosen = append(chosen, "--diff")
	}
	if interactive {
		chosen = append(chosen, "--interactive")
	}
	if len(chosen) > 1 {
		return "", fmt.Errorf("conflicting flags: %v are mutually exclusive", chosen)
	}

	switch {
	case skip:
		return config.StrategySkip, nil
	case diff:
		return config.StrategyDiff, nil
	case interactive:
		return config.StrategyInteractive, nil
	default:
		return "", nil
	}
}
