package api

import (
	"errors"
	"fmt"
)

// Kind classifies why a request failed.
type Kind int

const (
	// KindNetwork is a transport-level failure: DNS, refused connection, timeout.
	KindNetwork Kind = iota + 1
	// KindHTTP is a response with a non-2xx status.
	KindHTTP
	// KindDecode is a 2xx response whose body was not the expected JSON.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against a *FetchError.
var (
	ErrNetwork    = errors.New("network failure")
	ErrHTTPStatus = errors.New("unexpected http status")
	ErrDecode     = errors.New("malformed response body")
)

// FetchError is the uniform failure signal of the client. Callers treat any
// FetchError as "unavailable this cycle".
type FetchError struct {
	Method     string
	Path       string
	StatusCode int
	Err        error
	kind       Kind
}

func (e *FetchError) Error() string {
	switch e.kind {
	case KindHTTP:
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
	default:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
}

// Unwrap exposes the underlying cause.
func (e *FetchError) Unwrap() error { return e.Err }

// Kind returns the failure classification.
func (e *FetchError) Kind() Kind { return e.kind }

// Is matches the package sentinels by kind.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.kind == KindNetwork
	case ErrHTTPStatus:
		return e.kind == KindHTTP
	case ErrDecode:
		return e.kind == KindDecode
	}
	return false
}

// Reason returns a short human-readable cause suitable for UI messages.
func Reason(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		switch fe.kind {
		case KindHTTP:
			return fmt.Sprintf("HTTP %d", fe.StatusCode)
		case KindDecode:
			return "invalid response from server"
		case KindNetwork:
			return fmt.Sprintf("network error: %v", fe.Err)
		}
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
