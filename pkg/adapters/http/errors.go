package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/wanderbuddy/pkg/ports"
)

// StatusError is returned for non-success HTTP responses.
type StatusError struct {
	Operation  string
	StatusCode int
	// Detail is the backend's explanation, when it sent one.
	Detail string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s: backend returned %d", e.Operation, e.StatusCode)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is maps status codes onto the port-level sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ports.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ports.ErrUnavailable:
		return e.StatusCode >= 500
	case ports.ErrRejected:
		return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != http.StatusNotFound
	}
	return false
}

// TransportError is returned when no response came back: the connection
// failed or the context ended.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ports.ErrUnavailable }

// ResponseError is returned for a success status whose body cannot be used:
// it does not decode, or a required field is missing. The backend answered,
// so it matches ErrRejected rather than ErrUnavailable.
type ResponseError struct {
	Operation  string
	StatusCode int
	Err        error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: unusable %d response: %v", e.Operation, e.StatusCode, e.Err)
}

func (e *ResponseError) Unwrap() error { return e.Err }

func (e *ResponseError) Is(target error) bool { return target == ports.ErrRejected }

// detailOf extracts {"detail": "..."} bodies; anything else is returned trimmed.
func detailOf(body []byte) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != nil {
		if s, ok := payload.Detail.(string); ok {
			return s
		}
		if b, err := json.Marshal(payload.Detail); err == nil {
			return string(b)
		}
	}
	return truncate(strings.TrimSpace(string(body)), maxDetailBytes)
}

const maxDetailBytes = 200

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
