package engine

import (
	"errors"
	"fmt"
)

var errInvalidPosition = errors.New("invalid position")

// OperationError rejects an entire batch before any mutation becomes
// visible. Index identifies the offending operation in the caller's
// original order; batch-level failures (operation cap, empty batch) carry
// Index -1.
type OperationError struct {
	Index  int           `json:"index"`
	Type   OperationType `json:"type,omitempty"`
	Reason string        `json:"reason"`
}

func (slf *OperationError) Error() string {
	if slf.Index < 0 {
		return slf.Reason
	}
	return fmt.Sprintf("operation %d (%s): %s", slf.Index, slf.Type, slf.Reason)
}

func batchError(format string, args ...any) *OperationError {
	return &OperationError{Index: -1, Reason: fmt.Sprintf(format, args...)}
}

func opError(index int, op Operation, format string, args ...any) *OperationError {
	return &OperationError{Index: index, Type: op.Type, Reason: fmt.Sprintf(format, args...)}
}
