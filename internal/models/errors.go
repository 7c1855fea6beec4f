package models

import (
	"errors"
	"fmt"
)

var (
	// ErrGeocodeUnavailable degrades a report to an empty address, never drops it.
	ErrGeocodeUnavailable = errors.New("geocode unavailable")

	// ErrUnknownReport marks a vote or approval referencing a purged or
	// never-seen report. Handled as a silent no-op towards the actor.
	ErrUnknownReport = errors.New("unknown report reference")

	// ErrUnknownRequest marks a decision on a subscription request that was
	// already decided or never existed.
	ErrUnknownRequest = errors.New("unknown subscription request")

	ErrNotAuthorized    = errors.New("actor is not the configured owner")
	ErrMalformedPayload = errors.New("malformed action payload")
)

// StorageError wraps a persistence failure. The triggering event is dropped,
// the process keeps serving subsequent events.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %s", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
