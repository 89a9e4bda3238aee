package store

import (
	"errors"
	"fmt"
)

// ErrPersistence matches every *PersistenceError with errors.Is.
var ErrPersistence = errors.New("persistence failure")

// PersistenceError reports a failed read or write of stored data.
type PersistenceError struct {
	Op   string // e.g. "load stats", "save corpus"
	Path string // file or database path, if known
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrPersistence) true for any PersistenceError.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func persistErr(op, path string, err error) error {
	return &PersistenceError{Op: op, Path: path, Err: err}
}
