package db

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrNotFound is returned by writes that require an existing document.
	// Single-document reads report absence as a nil result instead.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned when creating a document that exists.
	ErrAlreadyExists = errors.New("document already exists")
	// ErrStorage is wrapped by every failure of the underlying store.
	ErrStorage = errors.New("storage failure")
	// ErrSlugTaken is returned when no free slug could be derived for a club.
	ErrSlugTaken = errors.New("club slug is already taken")
	// ErrBatchTooLarge is returned when a bulk write cannot commit atomically.
	ErrBatchTooLarge = errors.New("batch is too large to commit atomically")
)

// StorageError carries the store operation, the document path and the gRPC
// status code of a failed store call.
type StorageError struct {
	Op   string
	Path string
	Code codes.Code
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s (%s): %v", ErrStorage, e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s %s (%s): %v", ErrStorage, e.Op, e.Path, e.Code, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

// Retryable reports whether the failure is transient and the caller may
// retry the whole operation.
func (e *StorageError) Retryable() bool {
	switch e.Code {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Aborted, codes.ResourceExhausted:
		return true
	}
	return false
}

// IsRetryable reports whether err is a transient storage failure.
func IsRetryable(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Retryable()
}

// mapError translates a store client error into the package taxonomy.
// Errors that already belong to it, and errors raised by callers inside a
// transaction, pass through untouched.
func mapError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorage) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) {
		return err
	}
	st, ok := status.FromError(err)
	if !ok {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return &StorageError{Op: op, Path: path, Code: codes.DeadlineExceeded, Err: err}
		case errors.Is(err, context.Canceled):
			return &StorageError{Op: op, Path: path, Code: codes.Canceled, Err: err}
		}
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		return fmt.Errorf("%s %s: %w", op, path, ErrNotFound)
	case codes.AlreadyExists:
		return fmt.Errorf("%s %s: %w", op, path, ErrAlreadyExists)
	}
	return &StorageError{Op: op, Path: path, Code: st.Code(), Err: err}
}
