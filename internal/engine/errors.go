package engine

import (
	"errors"
	"fmt"
)

// EngineError reports why a game loop stopped or a turn could not be
// recorded. It wraps the underlying error.
type EngineError struct {
	// Code identifies the error category.
	Code EngineErrorCode

	// Turn is the turn being processed, 0 if unknown.
	Turn int

	// Err is the underlying cause.
	Err error
}

// EngineErrorCode categorizes engine errors.
type EngineErrorCode string

const (
	// ErrCodeRead indicates the input stream failed or ended mid-turn.
	ErrCodeRead EngineErrorCode = "READ"

	// ErrCodeParse indicates a malformed turn.
	ErrCodeParse EngineErrorCode = "PARSE"

	// ErrCodeWrite indicates orders could not be written to the host.
	ErrCodeWrite EngineErrorCode = "WRITE"

	// ErrCodeStore indicates the game log could not be written.
	ErrCodeStore EngineErrorCode = "STORE"
)

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Turn > 0 {
		return fmt.Sprintf("%s: turn %d: %v", e.Code, e.Turn, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

// Unwrap returns the underlying cause.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// IsEngineError reports whether err is, or wraps, an EngineError.
func IsEngineError(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee)
}

// ErrorCode extracts the code from an EngineError, or "" if err is not one.
func ErrorCode(err error) EngineErrorCode {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}
