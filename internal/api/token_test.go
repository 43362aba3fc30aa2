package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseExpiry(t *testing.T) {
	exact := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		exact bool
	}{
		{"provider timestamp preferred", exact.Format(time.RFC3339), true},
		{"empty falls back to assumed lifetime", "", false},
		{"garbage falls back to assumed lifetime", "not-a-timestamp", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseExpiry(tt.input)
			if tt.exact {
				if !got.Equal(exact) {
					t.Errorf("parseExpiry(%q) = %v, want %v", tt.input, got, exact)
				}
				return
			}
			want := time.Now().Add(assumedTokenLifetime)
			if diff := got.Sub(want); diff < -time.Minute || diff > time.Minute {
				t.Errorf("parseExpiry(%q) = %v, want ~%v", tt.input, got, want)
			}
		})
	}
}

func TestRefreshStoresProviderExpiry(t *testing.T) {
	expiry := time.Now().Add(45 * time.Minute).Truncate(time.Second)

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"access_token":            "tok-2",
			"access_token_expires_at": expiry.Format(time.RFC3339),
		})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := testClient(t, srv, ClientConfig{
		AccessToken:          "tok-1",
		RefreshToken:         "refresh-1",
		ClientID:             "id",
		ClientSecret:         "secret",
		AccessTokenExpiresAt: time.Now().Add(-time.Minute),
	})

	if err := c.ensureFreshToken(context.Background()); err != nil {
		t.Fatalf("ensureFreshToken failed: %v", err)
	}

	token, _, expiresAt := c.Credentials()
	if token != "tok-2" {
		t.Errorf("access token = %q, want tok-2", token)
	}
	if !expiresAt.Equal(expiry) {
		t.Errorf("expiresAt = %v, want provider value %v", expiresAt, expiry)
	}
}

func TestRefreshKeepsRefreshTokenWhenNotRotated(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		// No refresh_token in the response
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-2"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := testClient(t, srv, ClientConfig{
		AccessToken:          "tok-1",
		RefreshToken:         "refresh-1",
		ClientID:             "id",
		ClientSecret:         "secret",
		AccessTokenExpiresAt: time.Now().Add(-time.Minute),
	})

	if err := c.ensureFreshToken(context.Background()); err != nil {
		t.Fatalf("ensureFreshToken failed: %v", err)
	}

	_, refreshToken, _ := c.Credentials()
	if refreshToken != "refresh-1" {
		t.Errorf("refresh token = %q, want original kept", refreshToken)
	}
}

func TestRefreshEndpointFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := testClient(t, srv, ClientConfig{
		AccessToken:          "tok-1",
		RefreshToken:         "refresh-bad",
		ClientID:             "id",
		ClientSecret:         "secret",
		AccessTokenExpiresAt: time.Now().Add(-time.Minute),
	})

	err := c.ensureFreshToken(context.Background())
	if err == nil {
		t.Fatal("expected refresh failure")
	}

	apiErr := AsAPIError(err)
	if apiErr.Type != TypeTokenRefresh {
		t.Errorf("Type = %q, want %q", apiErr.Type, TypeTokenRefresh)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", apiErr.StatusCode)
	}

	// Stored credentials must survive a failed refresh
	token, refreshToken, _ := c.Credentials()
	if token != "tok-1" || refreshToken != "refresh-bad" {
		t.Errorf("credentials changed after failed refresh: %q/%q", token, refreshToken)
	}
}

func TestRefreshEmptyAccessTokenRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"refresh_token": "refresh-2"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := testClient(t, srv, ClientConfig{
		AccessToken:          "tok-1",
		RefreshToken:         "refresh-1",
		ClientID:             "id",
		ClientSecret:         "secret",
		AccessTokenExpiresAt: time.Now().Add(-time.Minute),
	})

	err := c.ensureFreshToken(context.Background())
	if err == nil {
		t.Fatal("expected error for token response without access_token")
	}
	if AsAPIError(err).Type != TypeTokenRefresh {
		t.Errorf("Type = %q, want %q", AsAPIError(err).Type, TypeTokenRefresh)
	}
}
