package services

import (
	"errors"
	"fmt"
)

// Validation and lookup failures. Handlers map these to 4xx responses.
var (
	ErrMissingCategory = errors.New("category is required")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidID       = errors.New("invalid article id")
	ErrNotFound        = errors.New("article not found")
	ErrMissingQuery    = errors.New("search query is required")
)

// StorageError wraps any failure coming from the article store. Its message
// is for logs only and must not reach API clients.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op string, err error) error {
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}

	return &StorageError{Op: op, Err: err}
}
