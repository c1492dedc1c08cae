package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// ErrSessionExpired marks the terminal refresh failure: the stored
// credentials were cleared and the caller must go through login again.
var ErrSessionExpired = errors.New("session expired")

// Kind categorizes request failures.
type Kind int

const (
	// KindNetwork covers transport failures where no response arrived.
	KindNetwork Kind = iota + 1
	// KindClient covers 4xx responses.
	KindClient
	// KindServer covers 5xx responses.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	}
	return "unknown"
}

// Error is the failure type returned by all Client operations.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, zero for network failures
	Message string // server-provided message when the body carried one
	cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindNetwork:
		return fmt.Sprintf("network failure: %v", e.cause)
	case e.Message != "":
		return fmt.Sprintf("%s error (%d): %s", e.Kind, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s error (%d)", e.Kind, e.Status)
	}
}

func (e *Error) Unwrap() error {
	return e.cause
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, cause: err}
}

// statusError categorizes a non-2xx response, pulling the server's
// human-readable message out of the body when one is present.
func statusError(status int, body []byte) *Error {
	kind := KindClient
	if status >= http.StatusInternalServerError {
		kind = KindServer
	}

	var payload struct {
		Message string `json:"message"`
	}
	// A non-JSON body is fine, the message just stays empty
	_ = json.Unmarshal(body, &payload)

	return &Error{Kind: kind, Status: status, Message: payload.Message}
}

// Message returns the server-provided message carried by err, or fallback
// when err carries none. Call sites surface this directly to the user.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsStatus reports whether err is an API error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}
