package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind tags an API call failure.
type Kind int

const (
	// KindHTTP is a non-2xx answer other than 401, or an envelope with success=false.
	KindHTTP Kind = iota + 1
	// KindUnauthorized is a 401 answer. Stored credentials are already purged.
	KindUnauthorized
	// KindTransport covers network failures, timeouts and cancelled contexts.
	KindTransport
	// KindMalformed is a response (or request) body that could not be coded.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindUnauthorized:
		return "unauthorized"
	case KindTransport:
		return "transport"
	case KindMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrUnauthorized matches any *Error of KindUnauthorized with errors.Is.
var ErrUnauthorized = errors.New("unauthorized")

// Error is returned by every failing Client call.
type Error struct {
	Kind   Kind
	Status int
	// Message is the server supplied message, empty when the body could not be parsed.
	Message string
	Method  string
	Path    string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" && e.Status != 0 {
		msg = http.StatusText(e.Status)
	}
	if e.Status != 0 {
		return fmt.Sprintf("api %s %s: %s (%d): %s", e.Method, e.Path, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("api %s %s: %s: %s", e.Method, e.Path, e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Kind == KindUnauthorized
}

// HTTP reports whether the server answered (as opposed to an unknown failure).
func (e *Error) HTTP() bool {
	return e.Kind == KindHTTP || e.Kind == KindUnauthorized
}

// MessageOr returns the server message, or fallback when there is none.
func (e *Error) MessageOr(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	if apiErr, ok := AsError(err); ok {
		return apiErr.Status
	}
	return 0
}
