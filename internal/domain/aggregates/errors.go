package aggregates

import (
	"errors"
	"strings"
)

// ErrorCode classifies a memory operation failure. Transports map codes to
// their own vocabulary (HTTP status, Temporal retry policy, MCP tool errors).
type ErrorCode string

const (
	CodeValidation           ErrorCode = "validation"
	CodeNotFound             ErrorCode = "not_found"
	CodeInvalidState         ErrorCode = "invalid_state"
	CodeInvalidTransition    ErrorCode = "invalid_transition"
	CodeConflictRetryable    ErrorCode = "conflict_retryable"
	CodeConsistencyViolation ErrorCode = "consistency_violation"
	CodeRetryable            ErrorCode = "retryable"
	CodeInternal             ErrorCode = "internal"
)

// Retryable reports whether repeating the same call can succeed.
func (c ErrorCode) Retryable() bool {
	return c == CodeConflictRetryable || c == CodeRetryable
}

// Rejected reports whether the input or the current record state refused the
// call, so retrying it unchanged fails the same way.
func (c ErrorCode) Rejected() bool {
	switch c {
	case CodeValidation, CodeNotFound, CodeInvalidState, CodeInvalidTransition:
		return true
	}
	return false
}

type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

// Error renders "op: message (code)", dropping the empty parts.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var parts []string
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if len(parts) == 0 {
		return string(e.Code)
	}
	return strings.Join(parts, ": ") + " (" + string(e.Code) + ")"
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap tags err with code, keeping its text as the message.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// CodeOf returns the code of the outermost *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var aggErr *Error
	if errors.As(err, &aggErr) {
		return aggErr.Code
	}
	return ""
}
