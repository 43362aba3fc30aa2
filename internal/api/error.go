package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Error type strings. The provider supplies its own types on HTTP error
// responses; these cover failures the client itself synthesizes.
const (
	TypeConfiguration = "CONFIGURATION_ERROR"
	TypeTokenRefresh  = "TOKEN_REFRESH_FAILED"
	TypeUnknown       = "UNKNOWN_ERROR"
)

// FieldError is a field-level validation failure attached to an API error.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is the uniform error shape every client failure is converted
// into before it reaches a caller, whether it originated as an HTTP error
// response or a transport-level failure.
type APIError struct {
	StatusCode int          `json:"statusCode"`
	Type       string       `json:"type"`
	Message    string       `json:"message"`
	Details    []FieldError `json:"details,omitempty"`
	Cause      error        `json:"-"`
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the error is on the transient escalation path.
func (e *APIError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// ErrConfig creates a configuration error. Configuration errors are fatal
// to the triggering call and never retried.
func ErrConfig(msg string) *APIError {
	return &APIError{Type: TypeConfiguration, Message: msg}
}

// errTransport normalizes a transport-level failure (timeout, DNS, refused
// connection) that produced no HTTP response.
func errTransport(cause error) *APIError {
	return &APIError{
		StatusCode: 500,
		Type:       TypeUnknown,
		Message:    cause.Error(),
		Cause:      cause,
	}
}

// errorBody is the provider's error response envelope.
type errorBody struct {
	Type    string          `json:"type"`
	Subtype string          `json:"subtype"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

// errFromResponse shapes a non-2xx HTTP response into an APIError. The body
// is parsed on a best-effort basis; an unparseable body still yields an
// error carrying the status code.
func errFromResponse(status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Type:       TypeUnknown,
		Message:    fmt.Sprintf("request failed (HTTP %d)", status),
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return apiErr
	}
	if eb.Type != "" {
		apiErr.Type = eb.Type
	}
	if eb.Message != "" {
		apiErr.Message = eb.Message
	}
	apiErr.Details = parseDetails(eb.Details)
	return apiErr
}

// parseDetails accepts both shapes the provider uses for field errors:
// a list of {field, message} objects, or a field→message map.
func parseDetails(raw json.RawMessage) []FieldError {
	if len(raw) == 0 {
		return nil
	}

	var list []FieldError
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var m map[string]string
	if err := json.Unmarshal(raw, &m); err == nil {
		fields := make([]FieldError, 0, len(m))
		for field, msg := range m {
			fields = append(fields, FieldError{Field: field, Message: msg})
		}
		sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
		return fields
	}

	return nil
}

// AsAPIError attempts to convert an error to an *APIError, normalizing
// anything else into the unknown shape.
func AsAPIError(err error) *APIError {
	var e *APIError
	if errors.As(err, &e) {
		return e
	}
	return &APIError{
		StatusCode: 500,
		Type:       TypeUnknown,
		Message:    err.Error(),
		Cause:      err,
	}
}
