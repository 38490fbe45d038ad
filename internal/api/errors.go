package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Kind classifies a failed request.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnreachable
	KindNotFound
	KindServerError
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindNotFound:
		return "not_found"
	case KindServerError:
		return "server_error"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks against *Error.
var (
	ErrUnreachable = errors.New("cannot reach server")
	ErrNotFound    = errors.New("data not found")
	ErrServerError = errors.New("server error, try again later")
	ErrCancelled   = errors.New("request cancelled")
)

// Error is the normalized failure returned by every Client operation.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the package sentinels by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnreachable:
		return e.Kind == KindUnreachable
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrServerError:
		return e.Kind == KindServerError
	case ErrCancelled:
		return e.Kind == KindCancelled
	}
	return false
}

// KindOf returns the Kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	if errors.Is(err, context.Canceled) {
		return KindCancelled
	}
	return KindUnknown
}

// IsCancelled reports whether err comes from a superseded request.
// Cancelled requests are never shown to the user.
func IsCancelled(err error) bool {
	return err != nil && KindOf(err) == KindCancelled
}

// UserMessage returns a short human-readable message for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case KindUnreachable:
			return "Cannot reach the server. Check that it is running."
		case KindNotFound:
			return "Data not found."
		case KindServerError:
			return "Server error. Please try again later."
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return err.Error()
}

// classifyTransport maps an http.Client.Do failure onto the taxonomy.
func classifyTransport(err error) *Error {
	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindCancelled, Message: ErrCancelled.Error(), Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindUnknown, Message: "request timed out", Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindUnknown, Message: "request timed out", Err: err}
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) || errors.Is(err, syscall.ECONNREFUSED) {
		return &Error{Kind: KindUnreachable, Message: ErrUnreachable.Error(), Err: err}
	}
	return &Error{Kind: KindUnknown, Message: "request failed", Err: err}
}

// classifyStatus maps a non-2xx response onto the taxonomy.
func classifyStatus(status int, body []byte) *Error {
	switch {
	case status == 404:
		return &Error{Kind: KindNotFound, Status: status, Message: ErrNotFound.Error()}
	case status >= 500:
		return &Error{Kind: KindServerError, Status: status, Message: ErrServerError.Error()}
	}
	if msg, ok := extractAPIErrorBody(body); ok {
		return &Error{Kind: KindUnknown, Status: status, Message: msg}
	}
	return &Error{Kind: KindUnknown, Status: status, Message: fmt.Sprintf("HTTP %d: %s", status, string(body))}
}
