// Package cli wires the cobra command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sqsp-tools/squarespace-mcp/internal/commands"
	"github.com/sqsp-tools/squarespace-mcp/internal/config"
	"github.com/sqsp-tools/squarespace-mcp/internal/version"
)

// NewRootCmd creates the root cobra command.
func NewRootCmd() *cobra.Command {
	var flags config.FlagOverrides

	cmd := &cobra.Command{
		Use:           "squarespace-mcp",
		Short:         "MCP server for the Squarespace API",
		Long:          "squarespace-mcp exposes the Squarespace commerce, profiles, and webhook APIs as MCP tools, with OAuth token refresh and retry handled by the client.",
		Version:       version.Full(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip setup for help and version commands
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.Load(flags)
			if err != nil {
				return err
			}

			app := &commands.App{Config: cfg, Flags: flags}
			commands.FillFromStore(cfg, app.Store())
			app.Log = newLogger(cfg.LogLevel)

			cmd.SetContext(commands.WithApp(cmd.Context(), app))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flags.BaseURL, "base-url", "", "Squarespace API base URL")
	cmd.PersistentFlags().StringVar(&flags.Listen, "listen", "", "SSE listen address (e.g. :8931); empty serves stdio")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")

	return cmd
}

// newLogger builds the process logger. Logs go to stderr; stdout belongs
// to the MCP stdio transport.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// Execute runs the root command.
func Execute() {
	cmd := NewRootCmd()

	cmd.AddCommand(commands.NewServeCmd())
	cmd.AddCommand(commands.NewAPICmd())
	cmd.AddCommand(commands.NewAuthCmd())
	cmd.AddCommand(commands.NewToolsCmd())

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
