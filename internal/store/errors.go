package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrClosed is returned when work is submitted after Close.
var ErrClosed = errors.New("store is closed")

// ErrNotInitialized indicates the schema has not been created yet.
var ErrNotInitialized = errors.New("database not initialized: run 'catlaunch init' first")

// InfraError is a failure of the store plumbing itself: the bridge was
// closed, no connection could be acquired, or a worker faulted. Errors
// reported by a unit of work are never wrapped in InfraError.
type InfraError struct {
	Op  string
	Err error
}

func (e *InfraError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *InfraError) Unwrap() error {
	return e.Err
}

// IsInfra reports whether err, or anything it wraps, is an InfraError.
func IsInfra(err error) bool {
	var ie *InfraError
	return errors.As(err, &ie)
}

// Classify maps driver errors that mean "no schema" to ErrNotInitialized,
// keeping the original message. Other errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%w: %v", ErrNotInitialized, err)
	}
	return err
}
