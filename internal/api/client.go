// Package api provides a resilient HTTP client for the Squarespace API.
//
// All outbound calls funnel through Client.Execute, which owns bearer-token
// injection, proactive and reactive OAuth2 refresh, exponential-backoff retry
// for transient failures, and normalization of every failure into *APIError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sqsp-tools/squarespace-mcp/internal/version"
)

const (
	// DefaultBaseURL is the versioned REST root.
	DefaultBaseURL = "https://api.squarespace.com/1.0"

	// DefaultTokenURL is the OAuth token endpoint used for refresh.
	DefaultTokenURL = "https://login.squarespace.com/api/1/login/oauth/provider/tokens"

	defaultTimeout       = 30 * time.Second
	defaultRetryAttempts = 3

	// refreshMargin is the safety window before expiry that triggers a
	// proactive refresh.
	refreshMargin = 5 * time.Minute
)

// ClientConfig bundles everything needed to construct a Client.
// AccessToken is required; all other fields have documented defaults.
type ClientConfig struct {
	AccessToken  string
	RefreshToken string
	ClientID     string
	ClientSecret string

	// AccessTokenExpiresAt is the known expiry of the initial access token.
	// Zero means unknown; an unknown expiry never triggers a proactive
	// refresh on its own.
	AccessTokenExpiresAt time.Time

	BaseURL       string        // default: DefaultBaseURL
	TokenURL      string        // default: DefaultTokenURL
	Timeout       time.Duration // default: 30s
	RetryAttempts int           // default: 3

	Logger zerolog.Logger

	// HTTPClient overrides the transport. Used by tests.
	HTTPClient *http.Client
}

// Client performs authenticated calls against a single fixed base URL.
// It is safe for concurrent use; credential state is guarded by a mutex
// that also serializes token refreshes.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	tokenURL      string
	userAgent     string
	retryAttempts int
	log           zerolog.Logger

	// backoffBase is 1s in production; tests shorten it.
	backoffBase time.Duration

	mu    sync.Mutex
	creds credentials
}

// credentials is the mutable credential state owned by the client.
// Reads and writes go through Client.mu.
type credentials struct {
	accessToken  string
	refreshToken string
	clientID     string
	clientSecret string
	expiresAt    time.Time
}

// Response wraps an API response.
type Response struct {
	Data       json.RawMessage
	StatusCode int
	Headers    http.Header
}

// UnmarshalData unmarshals the response data into the given value.
func (r *Response) UnmarshalData(v any) error {
	return json.Unmarshal(r.Data, v)
}

// NewClient creates a Client from cfg. A missing access token is a
// configuration error; construction fails fast rather than deferring the
// failure to the first call.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.AccessToken == "" {
		return nil, ErrConfig("access token is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retryAttempts := cfg.RetryAttempts
	if retryAttempts <= 0 {
		retryAttempts = defaultRetryAttempts
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return &Client{
		httpClient:    httpClient,
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		tokenURL:      tokenURL,
		userAgent:     version.UserAgent(),
		retryAttempts: retryAttempts,
		log:           cfg.Logger,
		backoffBase:   time.Second,
		creds: credentials{
			accessToken:  cfg.AccessToken,
			refreshToken: cfg.RefreshToken,
			clientID:     cfg.ClientID,
			clientSecret: cfg.ClientSecret,
			expiresAt:    cfg.AccessTokenExpiresAt,
		},
	}, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Execute(ctx, http.MethodGet, path, query, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Execute(ctx, http.MethodPost, path, nil, body)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Execute(ctx, http.MethodPut, path, nil, body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Execute(ctx, http.MethodDelete, path, nil, nil)
}

// Execute performs an authenticated request and returns either the parsed
// response or an *APIError.
//
// Escalation paths, each bounded independently:
//   - 401 with a configured refresh token: refresh once, retry the original
//     request once. A second 401 surfaces.
//   - 429 or 5xx: retry with exponential backoff (1s, 2s, 4s, ...) up to the
//     configured attempt cap, then surface.
//
// Any other non-2xx status surfaces immediately.
func (c *Client) Execute(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	if err := c.ensureFreshToken(ctx); err != nil {
		return nil, err
	}

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, ErrConfig("failed to marshal request body: " + err.Error())
		}
	}

	reqURL := c.buildURL(path, query)

	// POSTs to commerce endpoints require an idempotency key; one key is
	// reused across retries of the same logical request.
	idempotencyKey := ""
	if method == http.MethodPost {
		idempotencyKey = uuid.NewString()
	}

	refreshed := false
	attempt := 0
	for {
		resp, usedToken, err := c.do(ctx, method, reqURL, bodyBytes, idempotencyKey)
		if err != nil {
			return nil, err
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil

		case resp.StatusCode == http.StatusUnauthorized && !refreshed && c.hasRefreshToken():
			c.log.Debug().Str("method", method).Str("url", reqURL).
				Msg("401 response, refreshing token")
			if err := c.refreshIfCurrent(ctx, usedToken); err != nil {
				return nil, err
			}
			refreshed = true
			continue

		case (resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500) && attempt < c.retryAttempts:
			delay := c.backoffBase << attempt
			c.log.Debug().Str("method", method).Str("url", reqURL).
				Int("status", resp.StatusCode).Int("attempt", attempt).
				Dur("delay", delay).Msg("transient failure, retrying")
			select {
			case <-ctx.Done():
				return nil, errTransport(ctx.Err())
			case <-time.After(delay):
			}
			attempt++
			continue

		default:
			return nil, errFromResponse(resp.StatusCode, resp.Data)
		}
	}
}

// do issues a single HTTP request. It returns the token used for the
// Authorization header so the 401 path can tell whether a concurrent caller
// already rotated it.
func (c *Client) do(ctx context.Context, method, reqURL string, body []byte, idempotencyKey string) (*Response, string, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, "", ErrConfig(err.Error())
	}

	token := c.accessToken()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", errTransport(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errTransport(err)
	}

	return &Response{
		Data:       respBody,
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
	}, token, nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) accessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creds.accessToken
}

func (c *Client) hasRefreshToken() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creds.refreshToken != ""
}
