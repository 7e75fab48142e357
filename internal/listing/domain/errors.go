package domain

import (
	"errors"
	"fmt"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrNotOwner        = errors.New("user is not the owner of this listing")
)

// RemoteError marks a failed network call to the document store or an
// upload endpoint, including auth failures and non-2xx responses.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote call %s failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// MalformedResponseError marks a successful HTTP call whose body could not
// be parsed into the expected shape. The operation must be treated as
// failed even though the call itself succeeded.
type MalformedResponseError struct {
	Op     string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %s", e.Op, e.Reason)
}

// ValidationError is a user-input precondition failure detected before any
// network call is made. The message is shown to the user as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
