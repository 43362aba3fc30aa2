package commands

import (
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sqsp-tools/squarespace-mcp/internal/config"
	"github.com/sqsp-tools/squarespace-mcp/internal/mcpserver"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		Long:  "Serve MCP over stdio, or over SSE when --listen is set. Requires a configured access token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := FromContext(cmd.Context())

			client, err := app.Client()
			if err != nil {
				return err
			}
			srv := mcpserver.New(client, app.Log)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Pick up log-level edits to the config file without a restart.
			// Credential changes still require one; the client holds its
			// token state internally.
			go func() {
				err := config.Watch(ctx, app.Flags, app.Log, func(cfg *config.Config) {
					if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
						zerolog.SetGlobalLevel(lvl)
					}
				})
				if err != nil {
					app.Log.Warn().Err(err).Msg("config watcher stopped")
				}
			}()

			if app.Config.Listen != "" {
				return srv.ServeSSE(ctx, app.Config.Listen)
			}
			return srv.ServeStdio(ctx)
		},
	}
}
