package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// assumedTokenLifetime is used when the token endpoint does not report an
// explicit expiry. The provider normally returns access_token_expires_at;
// this is the fallback, not the preferred source.
const assumedTokenLifetime = 30 * time.Minute

// tokenResponse is the token endpoint's success envelope.
type tokenResponse struct {
	AccessToken          string `json:"access_token"`
	RefreshToken         string `json:"refresh_token"`
	AccessTokenExpiresAt string `json:"access_token_expires_at"`
}

// ensureFreshToken performs a proactive refresh when a refresh token is
// configured and the stored expiry is within the safety margin of now.
// A refresh failure propagates; the caller must not attempt its request.
func (c *Client) ensureFreshToken(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.needsRefreshLocked() {
		return nil
	}
	return c.refreshLocked(ctx)
}

// refreshIfCurrent refreshes unless a concurrent caller already replaced
// the token that just failed, in which case the new token is used as-is.
func (c *Client) refreshIfCurrent(ctx context.Context, failedToken string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.creds.accessToken != failedToken {
		return nil
	}
	return c.refreshLocked(ctx)
}

func (c *Client) needsRefreshLocked() bool {
	if c.creds.refreshToken == "" || c.creds.expiresAt.IsZero() {
		return false
	}
	return time.Until(c.creds.expiresAt) <= refreshMargin
}

// refreshLocked runs the refresh protocol. The caller holds c.mu, which
// serializes refreshes: concurrent callers observing a stale token queue on
// the mutex and find fresh credentials instead of issuing duplicates.
func (c *Client) refreshLocked(ctx context.Context) error {
	if c.creds.refreshToken == "" {
		return ErrConfig("token refresh requires a refresh token")
	}
	if c.creds.clientID == "" || c.creds.clientSecret == "" {
		return ErrConfig("token refresh requires OAuth client credentials")
	}

	payload, err := json.Marshal(map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": c.creds.refreshToken,
	})
	if err != nil {
		return ErrConfig(err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, bytes.NewReader(payload))
	if err != nil {
		return ErrConfig(err.Error())
	}
	req.SetBasicAuth(c.creds.clientID, c.creds.clientSecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{
			StatusCode: 500,
			Type:       TypeTokenRefresh,
			Message:    "token refresh failed: " + err.Error(),
			Cause:      err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Type:       TypeTokenRefresh,
			Message:    fmt.Sprintf("token refresh failed (HTTP %d): %s", resp.StatusCode, string(body)),
		}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return &APIError{
			StatusCode: 500,
			Type:       TypeTokenRefresh,
			Message:    "token refresh failed: " + err.Error(),
			Cause:      err,
		}
	}
	if tr.AccessToken == "" {
		return &APIError{
			StatusCode: 500,
			Type:       TypeTokenRefresh,
			Message:    "token refresh failed: no access token in response",
		}
	}

	c.creds.accessToken = tr.AccessToken
	if tr.RefreshToken != "" {
		c.creds.refreshToken = tr.RefreshToken
	}
	c.creds.expiresAt = parseExpiry(tr.AccessTokenExpiresAt)

	c.log.Debug().Time("expires_at", c.creds.expiresAt).Msg("access token refreshed")
	return nil
}

// parseExpiry prefers the provider's exact expiry timestamp and falls back
// to the assumed lifetime when absent or unparseable.
func parseExpiry(s string) time.Time {
	if s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}
	return time.Now().Add(assumedTokenLifetime)
}

// Credentials returns a snapshot of the current token pair, for callers
// that surface auth status. The snapshot does not alias client state.
func (c *Client) Credentials() (accessToken, refreshToken string, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creds.accessToken, c.creds.refreshToken, c.creds.expiresAt
}
