package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a record-store lookup on a fingerprint that is not
// tracked. Surfaced to the caller, never retried.
var ErrNotFound = errors.New("record not found")

// AdapterError wraps a failure from one source adapter. It is recorded in
// the cycle result and never aborts the cycle for other adapters.
type AdapterError struct {
	Source string
	Err    error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("adapter %s: %v", e.Source, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// StorageError wraps a read or write failure on persisted state. Loads
// degrade to empty state; flush failures are surfaced since silent loss of
// durability would break the seen-set guarantee.
type StorageError struct {
	Op   string // load/flush
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
