package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// GenericMessage is shown when the backend gave no usable message.
const GenericMessage = "Network error. Please try again."

// Kind separates failures that never reached the backend from failures the
// backend reported.
type Kind int

const (
	// KindTransport means the request did not complete or the response could
	// not be parsed.
	KindTransport Kind = iota + 1
	// KindServer means the backend answered with a non-success status.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is the single failure type returned by the gateway.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Kind == KindServer {
		return fmt.Sprintf("gateway: server error %d: %s", e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("gateway: transport error: %v", e.Err)
	}
	return "gateway: transport error"
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: GenericMessage, Err: err}
}

// Message returns the user-facing message for any error.
func Message(err error) string {
	var gwErr *Error
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}
	return GenericMessage
}

// IsUnauthorized reports whether the backend rejected the credential.
func IsUnauthorized(err error) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Kind == KindServer && gwErr.Status == http.StatusUnauthorized
}

// IsServer reports whether err is a backend-reported failure.
func IsServer(err error) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Kind == KindServer
}

// IsTransport reports whether err is a transport or parse failure.
func IsTransport(err error) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Kind == KindTransport
}

// errorBody covers {"message": "..."}, {"error": "..."} and
// {"error": {"message": "..."}}.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// serverError builds the error for a non-success response body.
func serverError(status int, body []byte) *Error {
	return &Error{Kind: KindServer, Status: status, Message: extractMessage(body)}
}

func extractMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return GenericMessage
	}
	if msg := strings.TrimSpace(eb.Message); msg != "" {
		return msg
	}
	if len(eb.Error) > 0 {
		var s string
		if err := json.Unmarshal(eb.Error, &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(eb.Error, &nested); err == nil && strings.TrimSpace(nested.Message) != "" {
			return strings.TrimSpace(nested.Message)
		}
	}
	return GenericMessage
}
