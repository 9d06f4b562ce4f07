package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks local, pre-network failures: a missing required
	// field, an inverted date range, or an unparseable row-key.
	ErrValidation = errors.New("validation failed")

	// ErrMalformedRowKey indicates a row-key without a known kind prefix or
	// numeric id. It also matches ErrValidation.
	ErrMalformedRowKey = fmt.Errorf("%w: malformed row-key", ErrValidation)

	// ErrNotFound indicates a row-key or id with no backing record.
	ErrNotFound = errors.New("not found")

	// ErrRemoteRejected indicates the external store declined an update.
	ErrRemoteRejected = errors.New("remote rejected update")
)

// RemoteError carries the external store's failure payload.
type RemoteError struct {
	Key     RowKey
	Payload string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Payload != "" {
		return fmt.Sprintf("updating %s: %s", e.Key, e.Payload)
	}
	if e.Err != nil {
		return fmt.Sprintf("updating %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("updating %s: rejected", e.Key)
}

// Is makes every RemoteError match ErrRemoteRejected.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemoteRejected
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
