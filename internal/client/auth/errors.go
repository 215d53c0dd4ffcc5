package auth

import (
	"errors"
	"fmt"
)

// ErrNoSession is wrapped by errors raised when an operation needs a session
// and none is held.
var ErrNoSession = errors.New("no session")

// AuthError reports a failed auth exchange. Err is the underlying cause, such
// as a *gateway.APIError, and stays reachable through errors.As.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "auth: " + e.Message
	}
	return fmt.Sprintf("auth: %s: %v", e.Message, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// PersistenceError reports that the stored session could not be read, written
// or decoded.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("session store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
