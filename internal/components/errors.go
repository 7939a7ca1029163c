package components

import (
	"errors"
	"fmt"

	"github.com/blackwell-systems/catlaunch/internal/variant"
)

// ErrNotFound is matched by errors.Is when Delete affected no row.
var ErrNotFound = errors.New("installed component not found")

// Operation names carried by Error.
const (
	OpAdd         = "add"
	OpDelete      = "delete"
	OpDeleteAll   = "deleteAll"
	OpIsInstalled = "isInstalled"
	OpList        = "list"
)

// Error reports which repository operation failed and why. Err is the
// original cause: ErrNotFound, a *store.InfraError, or a driver error.
type Error struct {
	Kind    Kind
	Op      string
	ID      string
	Variant variant.Variant
	Err     error
}

func (e *Error) Error() string {
	if errors.Is(e.Err, ErrNotFound) {
		return fmt.Sprintf("installed %s with id %s not found for variant %s", e.Kind.Name, e.ID, e.Variant)
	}
	switch e.Op {
	case OpAdd:
		return fmt.Sprintf("failed to add installed %s: %v", e.Kind.Name, e.Err)
	case OpDelete:
		return fmt.Sprintf("failed to delete installed %s: %v", e.Kind.Name, e.Err)
	case OpDeleteAll:
		return fmt.Sprintf("failed to delete all installed %s: %v", e.Kind.Plural, e.Err)
	case OpIsInstalled:
		return fmt.Sprintf("failed to check if %s is installed: %v", e.Kind.Name, e.Err)
	default:
		return fmt.Sprintf("failed to %s installed %s: %v", e.Op, e.Kind.Plural, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
