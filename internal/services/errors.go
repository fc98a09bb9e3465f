package services

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to handlers. Each maps to one HTTP status; the
// mapping lives in the handlers package.
var (
	ErrPromptNotFound  = errors.New("prompt not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrUserNotFound    = errors.New("user not found")

	// ErrUnauthenticated marks operations that require an identity and got
	// none. Distinct from PermissionError (authenticated but insufficient).
	ErrUnauthenticated = errors.New("authentication required")
)

// PermissionError is a structured forbidden result. Denial is a first-class
// outcome here, not an exception path: no storage mutation has happened when
// one of these is returned.
type PermissionError struct {
	UserID     string
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsPermissionError reports whether err is a structured denial.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// StorageError marks transient backend failures. Callers may retry; the
// like-count client additionally reverts its optimistic state on one.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// IsStorageError reports whether err is a transient storage failure.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
