package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a backend failure.
type Kind int

const (
	// KindTransport covers network failures and bodies that cannot be decoded.
	KindTransport Kind = iota + 1
	// KindStatus is a non-success HTTP status.
	KindStatus
	// KindApplication is a {success:false, error} reply.
	KindApplication
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindApplication:
		return "application"
	default:
		return "unknown"
	}
}

// Error is the single error type returned for backend calls.
type Error struct {
	Kind    Kind
	Op      string // e.g. "GET /api/reports"
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: %d %s", e.Op, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a backend Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// Notice renders err as the one-line message shown to the user.
func Notice(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return "Error: " + err.Error()
	}
	switch e.Kind {
	case KindTransport:
		if e.Err != nil {
			return "Could not reach the research server: " + e.Err.Error()
		}
		return "Could not reach the research server: " + e.Message
	case KindStatus:
		msg := e.Message
		if msg == "" {
			msg = http.StatusText(e.Status)
		}
		return fmt.Sprintf("Server error (%d): %s", e.Status, msg)
	default:
		return "Error: " + e.Message
	}
}
