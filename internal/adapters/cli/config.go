package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage blockflow configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (BF_* prefix)
2. Config file (config.yaml)
3. Default values

User preferences (default block, classification overrides) are stored in
~/.blockflow/config.json

Examples:
  blockflow config show
  blockflow config set-block 0,0
  blockflow config set-intent item:iron-plate export
  blockflow config clear`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetBlockCommand())
	cmd.AddCommand(newConfigSetIntentCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.LoadConfigOrDefault(configPath)
			}
			applyFlagOverrides(cfg)

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			fmt.Fprintln(out, "blockflow Configuration")
			fmt.Fprintln(out, "=======================")

			fmt.Fprintln(out, "User Preferences:")
			fmt.Fprintf(out, "  Config file:      %s\n", userConfigHandler.GetConfigPath())
			if userCfg.DefaultBlock != "" {
				fmt.Fprintf(out, "  Default Block:    %s\n", userCfg.DefaultBlock)
			} else {
				fmt.Fprintf(out, "  Default Block:    (not set)\n")
			}
			for _, id := range sortedKeys(userCfg.Classification) {
				fmt.Fprintf(out, "  Intent:           %s = %s\n", id, userCfg.Classification[id])
			}

			fmt.Fprintln(out, "\nFacts:")
			fmt.Fprintf(out, "  Catalog:          %s\n", cfg.Facts.Catalog)
			fmt.Fprintf(out, "  Blocks:           %s\n", cfg.Facts.Blocks)
			fmt.Fprintf(out, "  Telemetry:        %s\n", orNotSet(cfg.Facts.Telemetry))

			fmt.Fprintln(out, "\nSolver:")
			fmt.Fprintf(out, "  Trials:           %d\n", cfg.Solver.Trials)
			fmt.Fprintf(out, "  Iterations:       %d\n", cfg.Solver.Iterations)
			fmt.Fprintf(out, "  Step:             %g\n", cfg.Solver.Step)
			if cfg.Solver.Seed == 0 {
				fmt.Fprintf(out, "  Seed:             (clock)\n")
			} else {
				fmt.Fprintf(out, "  Seed:             %d\n", cfg.Solver.Seed)
			}
			fmt.Fprintf(out, "  Budget:           %s\n", cfg.Solver.Budget)
			fmt.Fprintf(out, "  Parallelism:      %d\n", cfg.Solver.Parallelism)
			fmt.Fprintf(out, "  Cache TTL:        %s\n", cfg.Solver.CacheTTL)

			fmt.Fprintln(out, "\nDatabase:")
			fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.Type == "sqlite":
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
			case cfg.Database.URL != "":
				fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
			default:
				fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
				fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
				fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
				fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
			}

			fmt.Fprintln(out, "\nWatch:")
			fmt.Fprintf(out, "  Debounce:         %s\n", cfg.Watch.Debounce)
			fmt.Fprintf(out, "  Rate:             %g/s (burst: %d)\n", cfg.Watch.MaxRate, cfg.Watch.Burst)
			fmt.Fprintf(out, "  PID File:         %s\n", cfg.Watch.PIDFile)

			fmt.Fprintln(out, "\nMetrics:")
			fmt.Fprintf(out, "  Enabled:          %v\n", cfg.Metrics.Enabled)
			if cfg.Metrics.Enabled {
				fmt.Fprintf(out, "  Endpoint:         %s%s\n", cfg.Metrics.Addr(), cfg.Metrics.Path)
			}

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}
}

// newConfigSetBlockCommand creates the config set-block subcommand
func newConfigSetBlockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-block <block-id>",
		Short: "Set the block analyzed when none is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := handler.SetDefaultBlock(args[0]); err != nil {
				return fmt.Errorf("failed to save default block: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Default block set to %s\n", args[0])
			return nil
		},
	}
}

// newConfigSetIntentCommand creates the config set-intent subcommand
func newConfigSetIntentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-intent <kind:name> <import|export|internal|ignore>",
		Short: "Store a classification override applied to every analysis",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := colon.Parse(args[0])
			if err != nil {
				return err
			}
			intent, err := colon.ParseIntent(args[1])
			if err != nil {
				return err
			}

			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := handler.SetIntent(id.String(), string(intent)); err != nil {
				return fmt.Errorf("failed to save intent: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is now %s\n", id, intent)
			return nil
		},
	}
}

// newConfigClearCommand creates the config clear subcommand
func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove stored preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := handler.Clear(); err != nil {
				return fmt.Errorf("failed to clear user config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Preferences cleared")
			return nil
		},
	}
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// maskPassword hides the password in a database URL
func maskPassword(url string) string {
	schemeEnd := strings.Index(url, "://")
	at := strings.LastIndex(url, "@")
	if schemeEnd < 0 || at < schemeEnd {
		return url
	}
	creds := url[schemeEnd+3 : at]
	user, _, hasPassword := strings.Cut(creds, ":")
	if !hasPassword {
		return url
	}
	return url[:schemeEnd+3] + user + ":****" + url[at:]
}
