package bt

import (
	"errors"
	"fmt"
	"strings"
)

// ConstructionError reports a topology that must not be handed to a driver.
//
// Construction errors are detected by Validate (and therefore by NewTree)
// before the first tick. They are never produced during execution.
type ConstructionError struct {
	// Code identifies the error category.
	Code ConstructionErrorCode

	// Message is a human-readable description.
	Message string

	// Path lists the labels from the root down to the offending node's parent.
	Path []string
}

// ConstructionErrorCode categorizes construction errors.
type ConstructionErrorCode string

const (
	// ErrCodeNilRoot indicates a tree was built without a root node.
	ErrCodeNilRoot ConstructionErrorCode = "NIL_ROOT"

	// ErrCodeMissingCallable indicates a Check or Action without a function.
	ErrCodeMissingCallable ConstructionErrorCode = "MISSING_CALLABLE"

	// ErrCodeMissingChild indicates a decorator without a child, or a nil
	// entry in a composite's child list.
	ErrCodeMissingChild ConstructionErrorCode = "MISSING_CHILD"

	// ErrCodeEmptyLabel indicates a leaf without a display label.
	ErrCodeEmptyLabel ConstructionErrorCode = "EMPTY_LABEL"

	// ErrCodeNegativeBound indicates a LoopUntilFail with a negative bound.
	ErrCodeNegativeBound ConstructionErrorCode = "NEGATIVE_BOUND"

	// ErrCodeHookType indicates hooks registered for a different state type.
	ErrCodeHookType ConstructionErrorCode = "HOOK_TYPE"
)

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("%s: %s (at %s)", e.Code, e.Message, strings.Join(e.Path, " > "))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConstructionError reports whether err is, or wraps, a ConstructionError.
func IsConstructionError(err error) bool {
	var ce *ConstructionError
	return errors.As(err, &ce)
}

// ErrorCode returns the construction error code carried by err, or the
// empty code when err is not a construction error.
func ErrorCode(err error) ConstructionErrorCode {
	var ce *ConstructionError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

func newConstructionError(code ConstructionErrorCode, message string, path *ancestry) *ConstructionError {
	return &ConstructionError{Code: code, Message: message, Path: path.labels()}
}
