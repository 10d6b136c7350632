package commands

import (
	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/wren"
	"github.com/simonhull/firebird-suite/wren/internal/logger"
	"github.com/simonhull/firebird-suite/wren/internal/output"
)

// RootCmd creates and returns the root command for the wren CLI
func RootCmd() *cobra.Command {
	var (
		verbose  bool
		logLevel string
		logJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "wren",
		Short: "Scaffold new transaction types into a state-machine project",
		Long: `Wren adds transaction types to a project generated from the Firebird
chain template.

For every new transaction it patches two files:
• src/tx.rs     - the Transaction enum and its verify() dispatch
• src/state.rs  - the validate_tx() and process_tx() dispatches

Learn more: https://github.com/simonhull/firebird-suite`,
		Version:       wren.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetWriter(cmd.OutOrStdout())
			output.SetVerbose(verbose)

			level := logger.Level(logLevel)
			if verbose && !cmd.Flags().Changed("log-level") {
				level = logger.LevelDebug
			}
			logger.Init(logger.Config{
				Level:  level,
				JSON:   logJSON,
				Output: cmd.ErrOrStderr(),
			})
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	cmd.PersistentFlags().String("config", "", "Config file (default is wren.yml in the project root)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", string(logger.LevelWarn), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON")

	return cmd
}

// NewApp returns the root command with every subcommand registered.
func NewApp() *cobra.Command {
	root := RootCmd()
	root.AddCommand(TxCmd())
	root.AddCommand(TemplateCmd())
	return root
}
