// Package commands implements the CLI commands.
package commands

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sqsp-tools/squarespace-mcp/internal/api"
	"github.com/sqsp-tools/squarespace-mcp/internal/auth"
	"github.com/sqsp-tools/squarespace-mcp/internal/config"
)

// App carries the resolved configuration and logger for a command run.
type App struct {
	Config *config.Config
	Log    zerolog.Logger
	Flags  config.FlagOverrides
}

type appKey struct{}

// WithApp stores the app in the context.
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

// FromContext retrieves the app from the context, or nil.
func FromContext(ctx context.Context) *App {
	app, _ := ctx.Value(appKey{}).(*App)
	return app
}

// Store returns the credential store rooted at the config directory.
func (a *App) Store() *auth.Store {
	return auth.NewStore(config.Dir())
}

// FillFromStore backfills credentials from the store for any field the
// config file and environment left empty. Load errors are ignored; a
// missing credential surfaces later as a configuration error.
func FillFromStore(cfg *config.Config, store *auth.Store) {
	if cfg.AccessToken != "" {
		return
	}
	creds, err := store.Load()
	if err != nil {
		return
	}
	cfg.AccessToken = creds.AccessToken
	cfg.Sources["access_token"] = string(config.SourceKeyring)
	if cfg.RefreshToken == "" && creds.RefreshToken != "" {
		cfg.RefreshToken = creds.RefreshToken
		cfg.Sources["refresh_token"] = string(config.SourceKeyring)
	}
	if cfg.ClientID == "" && creds.ClientID != "" {
		cfg.ClientID = creds.ClientID
		cfg.Sources["client_id"] = string(config.SourceKeyring)
	}
	if cfg.ClientSecret == "" && creds.ClientSecret != "" {
		cfg.ClientSecret = creds.ClientSecret
		cfg.Sources["client_secret"] = string(config.SourceKeyring)
	}
}

// Client builds an API client from the resolved configuration.
func (a *App) Client() (*api.Client, error) {
	if a.Config.AccessToken == "" {
		return nil, api.ErrConfig("no access token configured; run `squarespace-mcp auth set-token` or set SQUARESPACE_ACCESS_TOKEN")
	}
	return api.NewClient(api.ClientConfig{
		AccessToken:   a.Config.AccessToken,
		RefreshToken:  a.Config.RefreshToken,
		ClientID:      a.Config.ClientID,
		ClientSecret:  a.Config.ClientSecret,
		BaseURL:       a.Config.BaseURL,
		TokenURL:      a.Config.TokenURL,
		Timeout:       a.Config.Timeout,
		RetryAttempts: a.Config.RetryAttempts,
		Logger:        a.Log,
	})
}
