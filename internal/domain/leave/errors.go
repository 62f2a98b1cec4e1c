package leave

import (
	"errors"
	"fmt"
)

var (
	ErrRequestNotFound   = errors.New("leave request not found")
	ErrAlreadyDecided    = errors.New("leave request already decided")
	ErrLeaveTypeNotFound = errors.New("leave type not found")
	ErrOverdrawBlocked   = errors.New("insufficient leave balance")
)

type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError rejects a malformed submission before anything is written.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s %s", e.Issues[0].Field, e.Issues[0].Reason)
}

func validationError(field, reason string) *ValidationError {
	return &ValidationError{Issues: []FieldIssue{{Field: field, Reason: reason}}}
}
