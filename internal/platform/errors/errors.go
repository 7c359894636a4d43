package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrNetwork           = errors.New("network error")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrServer            = errors.New("server error")
	ErrMalformedResponse = errors.New("malformed response")
	ErrNotAuthenticated  = errors.New("not authenticated")
)

const (
	networkMessage   = "network error"
	malformedMessage = "invalid response"
)

// APIError is the normalized failure of one gateway call. Status is 0 when no
// response was received. Detail holds the server-provided message, if any.
type APIError struct {
	Status  int
	Message string
	Detail  string
	kind    error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.kind }

func NewNetworkError() *APIError {
	return &APIError{Status: 0, Message: networkMessage, kind: ErrNetwork}
}

func NewMalformedError() *APIError {
	return &APIError{Status: http.StatusOK, Message: malformedMessage, kind: ErrMalformedResponse}
}

// FromStatus builds the error for a non-2xx response.
func FromStatus(status int, detail string) *APIError {
	msg := detail
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = fmt.Sprintf("status %d", status)
	}
	return &APIError{Status: status, Message: msg, Detail: detail, kind: kindFor(status)}
}

func kindFor(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrServer
	}
}

// WithMessage returns a copy of err whose message is the server detail or,
// when the server gave none, fallback. Non-API errors are wrapped as is.
func WithMessage(err error, fallback string) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %w", fallback, err)
	}
	out := *apiErr
	out.Message = apiErr.Detail
	if out.Message == "" {
		out.Message = fallback
	}
	return &out
}

// Status returns the HTTP status carried by err, or -1 when err is not an APIError.
func Status(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return -1
}

// Message returns the user-facing text of err.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// ValidationError lists per-field problems found before any request is sent.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
