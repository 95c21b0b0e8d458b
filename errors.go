package toolstream

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to check.
var (
	ErrHandlerNotFound = errors.New("handler not found")
	ErrTimeout         = errors.New("dispatch timeout")
	ErrShutdown        = errors.New("dispatcher is shutting down")
	ErrBind            = errors.New("argument binding failed")
)

// BindError reports a directive argument that could not be bound to the
// handler's argument struct (missing positional value, bad number, etc.).
// The Reason is safe to feed back to the LLM for self-correction; it must
// not carry internal details.
type BindError struct {
	Reason string
	Err    error // wrapped sentinel (usually ErrBind) for errors.Is
}

func (e *BindError) Error() string {
	return fmt.Sprintf("invalid directive argument: %s", e.Reason)
}

// Unwrap supports errors.Is/errors.As on wrapped chains.
func (e *BindError) Unwrap() error { return e.Err }

// DispatchError is the recoverable failure of one directive's external
// call. The response keeps streaming and displaying; callers typically
// render this as an inline notice for that one action, not a full
// response failure. The Dispatcher never retries.
type DispatchError struct {
	Tool ToolName
	Err  error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s: %v", e.Tool, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// SystemError represents an internal failure (panic, marshal error,
// collaborator crash). Its message hides the underlying cause; the LLM
// and the end user should not see internals.
type SystemError struct {
	Err error
}

func (e *SystemError) Error() string {
	return "internal error during dispatch"
}

func (e *SystemError) Unwrap() error { return e.Err }

// IsBindError returns true if err is or wraps a BindError.
func IsBindError(err error) bool {
	var be *BindError
	return errors.As(err, &be)
}

// IsDispatchError returns true if err is or wraps a DispatchError.
func IsDispatchError(err error) bool {
	var de *DispatchError
	return errors.As(err, &de)
}

// IsSystemError returns true if err is or wraps a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}
