package apiclient

import (
	"errors"
	"fmt"
)

// ErrNetwork wraps any failure where the request never produced a response.
var ErrNetwork = errors.New("backend unreachable")

// ValidationError is a 4xx rejection of a write payload. Message carries the
// backend's own wording when one was provided.
type ValidationError struct {
	Status  int
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend rejected request (status %d)", e.Status)
	}
	return e.Message
}

// NotFoundError is returned when the backend reports a missing entity,
// e.g. deleting an event name that no longer exists.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return "not found"
	}
	return e.Message
}

// BackendError covers 5xx responses.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend error (status %d)", e.Status)
	}
	return e.Message
}
