package commands

import (
	"github.com/spf13/cobra"

	"github.com/sqsp-tools/squarespace-mcp/internal/api"
	"github.com/sqsp-tools/squarespace-mcp/internal/auth"
)

// NewAuthCmd creates the auth command group.
func NewAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored credentials",
		Long:  "Store, inspect, and remove the Squarespace OAuth credentials used by the server. Credentials live in the system keychain when available, falling back to a file in the config directory.",
	}

	cmd.AddCommand(
		newAuthSetTokenCmd(),
		newAuthStatusCmd(),
		newAuthClearCmd(),
	)

	return cmd
}

func newAuthSetTokenCmd() *cobra.Command {
	var creds auth.Credentials

	cmd := &cobra.Command{
		Use:   "set-token",
		Short: "Store API credentials",
		Long:  "Store an access token, and optionally a refresh token with OAuth client credentials. The refresh token and client credentials enable automatic token rotation.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := FromContext(cmd.Context())

			if creds.AccessToken == "" {
				return api.ErrConfig("--access-token is required")
			}
			if creds.RefreshToken != "" && (creds.ClientID == "" || creds.ClientSecret == "") {
				return api.ErrConfig("--client-id and --client-secret are required when storing a refresh token")
			}

			store := app.Store()
			if err := store.Save(&creds); err != nil {
				return err
			}

			backend := "file"
			if store.UsingKeyring() {
				backend = "keyring"
			}
			cmd.Printf("Credentials stored (%s)\n", backend)
			return nil
		},
	}

	cmd.Flags().StringVar(&creds.AccessToken, "access-token", "", "API access token (required)")
	cmd.Flags().StringVar(&creds.RefreshToken, "refresh-token", "", "OAuth refresh token")
	cmd.Flags().StringVar(&creds.ClientID, "client-id", "", "OAuth client ID")
	cmd.Flags().StringVar(&creds.ClientSecret, "client-secret", "", "OAuth client secret")

	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show credential status",
		Long:  "Report whether credentials are configured, where each value came from, and whether automatic refresh is possible.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := FromContext(cmd.Context())
			cfg := app.Config

			if cfg.AccessToken == "" {
				cmd.Println("Not authenticated")
				cmd.Println("Run `squarespace-mcp auth set-token --access-token ...` or set SQUARESPACE_ACCESS_TOKEN.")
				return nil
			}

			cmd.Printf("Authenticated (access token from %s)\n", cfg.Sources["access_token"])
			if cfg.RefreshToken != "" && cfg.ClientID != "" && cfg.ClientSecret != "" {
				cmd.Println("Automatic token refresh: enabled")
			} else if cfg.RefreshToken != "" {
				cmd.Println("Automatic token refresh: refresh token present but client credentials missing")
			} else {
				cmd.Println("Automatic token refresh: disabled (no refresh token)")
			}

			backend := "file"
			if app.Store().UsingKeyring() {
				backend = "keyring"
			}
			cmd.Printf("Credential store: %s\n", backend)
			return nil
		},
	}
}

func newAuthClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := FromContext(cmd.Context())
			if err := app.Store().Delete(); err != nil {
				return err
			}
			cmd.Println("Credentials removed")
			return nil
		},
	}
}
