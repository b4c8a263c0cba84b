package lingva

import (
	"errors"
	"fmt"
)

// Kind classifies a translation failure.
type Kind int

const (
	// KindStatus is a non-2xx response from the endpoint.
	KindStatus Kind = iota + 1
	// KindNoResponse is a request that got no answer (network error,
	// timeout, or an open circuit breaker).
	KindNoResponse
	// KindInvalidResponse is a 2xx response without a usable translation.
	KindInvalidResponse
	// KindTransport is any other failure.
	KindTransport
)

// Sentinels for errors.Is.
var (
	ErrStatus          = errors.New("lingva: error status")
	ErrNoResponse      = errors.New("lingva: no response")
	ErrInvalidResponse = errors.New("lingva: invalid response")
	ErrTransport       = errors.New("lingva: transport failure")
)

// Error is returned by Client.TranslateUnit.
type Error struct {
	Kind       Kind
	StatusCode int    // KindStatus only
	Status     string // reason phrase, KindStatus only
	Err        error  // underlying cause, if any
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("Translation failed: %d - %s", e.StatusCode, e.Status)
	case KindNoResponse:
		return "Translation failed: No response from server"
	case KindInvalidResponse:
		return "Invalid response from Lingva API"
	}
	if e.Err != nil {
		return "Translation failed: " + e.Err.Error()
	}
	return "Translation failed"
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrStatus:
		return e.Kind == KindStatus
	case ErrNoResponse:
		return e.Kind == KindNoResponse
	case ErrInvalidResponse:
		return e.Kind == KindInvalidResponse
	case ErrTransport:
		return e.Kind == KindTransport
	}
	return false
}
