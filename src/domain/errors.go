package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies tool-level failures so the model can frame its reply:
// bad arguments call for different inputs, a full slot calls for a different
// time, and a missing record calls for re-specifying the identifier.
type ErrorKind string

const (
	KindValidation       ErrorKind = "validation"
	KindNotFound         ErrorKind = "not_found"
	KindCapacityConflict ErrorKind = "capacity_conflict"
	KindInternal         ErrorKind = "internal"
)

// ToolError is a domain failure local to one tool execution. It is reported
// back into conversation history and never aborts the remainder of a turn.
type ToolError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func Validationf(format string, args ...any) *ToolError {
	return &ToolError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *ToolError {
	return &ToolError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func CapacityConflictf(format string, args ...any) *ToolError {
	return &ToolError{Kind: KindCapacityConflict, Message: fmt.Sprintf(format, args...)}
}

func Internalf(format string, args ...any) *ToolError {
	return &ToolError{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}

// AsToolError unwraps err into a *ToolError if it is one.
func AsToolError(err error) (*ToolError, bool) {
	var te *ToolError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// ErrNotFound is the sentinel stores return for unknown identifiers.
var ErrNotFound = errors.New("not found")
