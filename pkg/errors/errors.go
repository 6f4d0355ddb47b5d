package errors

import "fmt"

// ErrUnauthenticated means the local session has no token or user id.
// Operations must fail with this before any network call is attempted.
type ErrUnauthenticated struct {
	Missing string
}

func (e *ErrUnauthenticated) Error() string {
	if e.Missing != "" {
		return fmt.Sprintf("not authenticated: missing %s", e.Missing)
	}
	return "not authenticated"
}

// ErrValidation means the caller passed arguments that must never reach
// the backend (e.g. a quantity below 1, an empty coupon code).
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// APIError carries a non-2xx backend response. Message holds the backend's
// own message when it returned one, so views can surface it verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}
