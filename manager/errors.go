package manager

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/tradebook/trade"
)

// ValidationError wraps the field-level problems with a rejected
// mutation. It is expected and recoverable; callers re-prompt.
type ValidationError struct {
	Fields []trade.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		msgs[i] = fe.Error()
	}
	return "invalid trade: " + strings.Join(msgs, "; ")
}

// NotFoundError reports an operation against an id that is not in the
// store.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("trade %d not found", e.ID)
}

// AlreadyClosedError reports an attempt to close a trade twice.
// Closing is one-way; re-opening goes through Update with the exit
// price cleared.
type AlreadyClosedError struct {
	ID int64
}

func (e *AlreadyClosedError) Error() string {
	return fmt.Sprintf("trade %d is already closed", e.ID)
}
