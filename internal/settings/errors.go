package settings

import "fmt"

// Error wraps a settings repository failure with the operation name
// ("get" or "save").
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to %s settings: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
