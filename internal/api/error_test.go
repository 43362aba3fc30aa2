package api

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrFromResponse(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantType    string
		wantMessage string
		wantDetails []FieldError
	}{
		{
			name:        "typed error with list details",
			status:      400,
			body:        `{"type":"INVALID_REQUEST_ERROR","message":"bad input","details":[{"field":"name","message":"required"}]}`,
			wantType:    "INVALID_REQUEST_ERROR",
			wantMessage: "bad input",
			wantDetails: []FieldError{{Field: "name", Message: "required"}},
		},
		{
			name:        "map details sorted by field",
			status:      400,
			body:        `{"type":"INVALID_REQUEST_ERROR","message":"bad input","details":{"zeta":"too long","alpha":"required"}}`,
			wantType:    "INVALID_REQUEST_ERROR",
			wantMessage: "bad input",
			wantDetails: []FieldError{{Field: "alpha", Message: "required"}, {Field: "zeta", Message: "too long"}},
		},
		{
			name:        "unparseable body keeps status",
			status:      502,
			body:        `<html>Bad Gateway</html>`,
			wantType:    TypeUnknown,
			wantMessage: "request failed (HTTP 502)",
		},
		{
			name:        "empty body",
			status:      404,
			body:        "",
			wantType:    TypeUnknown,
			wantMessage: "request failed (HTTP 404)",
		},
		{
			name:        "message without type",
			status:      403,
			body:        `{"message":"forbidden"}`,
			wantType:    TypeUnknown,
			wantMessage: "forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errFromResponse(tt.status, []byte(tt.body))

			if err.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tt.status)
			}
			if err.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", err.Type, tt.wantType)
			}
			if err.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMessage)
			}
			if len(err.Details) != len(tt.wantDetails) {
				t.Fatalf("Details = %v, want %v", err.Details, tt.wantDetails)
			}
			for i, d := range tt.wantDetails {
				if err.Details[i] != d {
					t.Errorf("Details[%d] = %v, want %v", i, err.Details[i], d)
				}
			}
		})
	}
}

func TestAPIErrorRetryable(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{400, false},
		{401, false},
		{404, false},
		{429, true},
		{500, true},
		{503, true},
		{0, false},
	}

	for _, tt := range tests {
		err := &APIError{StatusCode: tt.status}
		if got := err.Retryable(); got != tt.want {
			t.Errorf("Retryable() for status %d = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestAPIErrorString(t *testing.T) {
	withStatus := &APIError{StatusCode: 404, Type: "NOT_FOUND", Message: "gone"}
	if got := withStatus.Error(); got != "NOT_FOUND (404): gone" {
		t.Errorf("Error() = %q", got)
	}

	noStatus := ErrConfig("missing token")
	if got := noStatus.Error(); got != "CONFIGURATION_ERROR: missing token" {
		t.Errorf("Error() = %q", got)
	}
}

func TestAPIErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := errTransport(fmt.Errorf("dial: %w", cause))
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the transport cause")
	}
}

func TestAsAPIError(t *testing.T) {
	orig := ErrConfig("bad config")
	if got := AsAPIError(fmt.Errorf("wrapped: %w", orig)); got != orig {
		t.Errorf("AsAPIError should unwrap to the original *APIError")
	}

	plain := errors.New("boom")
	got := AsAPIError(plain)
	if got.Type != TypeUnknown || got.StatusCode != 500 {
		t.Errorf("AsAPIError(plain) = %+v", got)
	}
	if got.Message != "boom" {
		t.Errorf("Message = %q", got.Message)
	}
}
