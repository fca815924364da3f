package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrQuotaExceeded is returned when the billing check finds no
	// generation credits remaining.
	ErrQuotaExceeded = errors.New("no generation credits remaining")

	// ErrPoolExhausted is returned when no session slot is idle and no
	// inactive slot could be activated.
	ErrPoolExhausted = errors.New("no session slot available")

	// ErrInvalidLease signals a lease-discipline bug: deactivating a slot
	// that is currently leased.
	ErrInvalidLease = errors.New("cannot deactivate a leased slot")
)

// AuthError covers session bootstrap and token failures.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NetworkError covers transport failures. Timeout distinguishes an exceeded
// request timeout from other transport problems.
type NetworkError struct {
	Op      string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("network: %s: request timed out", e.Op)
	}
	return fmt.Sprintf("network: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteError carries a job-level error the remote service reported through
// an error-message field.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote: %s", e.Message)
}
