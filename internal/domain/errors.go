package domain

import "errors"

// EngineError is a recoverable, caller-facing failure with a stable code.
// Anything that is not an EngineError is treated as an internal fault.
type EngineError struct {
	Code    string
	Message string
}

func (e *EngineError) Error() string { return e.Message }

func NewEngineError(code, message string) *EngineError {
	return &EngineError{Code: code, Message: message}
}

// ErrorCode extracts the stable code from an error chain, or empty.
func ErrorCode(err error) string {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}
