package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath    string
	catalogPath   string
	blocksPath    string
	telemetryPath string
	outputFormat  string
	verbose       bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "blockflow",
		Short: "blockflow - reconcile recipe flows and logistics of a factory network",
		Long: `blockflow reads recipe catalogs and block facts, solves the efficiency each
crafting unit can run at without starving or flooding its neighbours, and reports
what every block wants, exports and is short of.

Examples:
  blockflow analyze 0,0
  blockflow analyze --all --record
  blockflow analyze 0,0 --classify item:iron-plate=export
  blockflow reach --tree item:electronic-circuit
  blockflow logistics --block 0,0
  blockflow recipe fill-water-barrel
  blockflow history --block 0,0 --limit 5
  blockflow watch`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml, ./configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "",
		"Recipe catalog file (overrides facts.catalog)")
	rootCmd.PersistentFlags().StringVar(&blocksPath, "blocks", "",
		"Block facts file (overrides facts.blocks)")
	rootCmd.PersistentFlags().StringVar(&telemetryPath, "telemetry", "",
		"Production telemetry file (overrides facts.telemetry)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text",
		"Output format: text, json or yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(NewAnalyzeCommand())
	rootCmd.AddCommand(NewReachCommand())
	rootCmd.AddCommand(NewLogisticsCommand())
	rootCmd.AddCommand(NewRecipeCommand())
	rootCmd.AddCommand(NewHistoryCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
