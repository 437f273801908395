package gcal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnparseableDateTime = errors.New("unparseable date/time")
	ErrInvalidTimezone     = errors.New("invalid timezone")
	ErrInvalidTransparency = errors.New("invalid transparency")
	ErrInvalidDuration     = errors.New("invalid duration")
	ErrInvalidRecurrence   = errors.New("invalid recurrence rule")
	ErrStartNotSet         = errors.New("start not set")
	ErrMissingSubject      = errors.New("no subject set")
	ErrMissingStart        = errors.New("no start set")
)

// FieldError is a non-fatal problem with a single field. It is logged and
// counted, never returned from a setter.
type FieldError struct {
	kind error
	msg  string
	args map[string]any
}

func newFieldError(kind error, msg string, args map[string]any) *FieldError {
	if args == nil {
		args = make(map[string]any)
	}
	return &FieldError{
		kind: kind,
		msg:  msg,
		args: args,
	}
}

// Get the error message
func (e *FieldError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.msg)
	if len(e.args) == 0 {
		return sb.String()
	}
	sb.WriteString(" |")
	keys := make([]string, 0, len(e.args))
	for key := range e.args {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		sb.WriteString(fmt.Sprintf(" %s: %v", key, e.args[key]))
	}
	return sb.String()
}

func (e *FieldError) Unwrap() error {
	return e.kind
}

// Get the context passed along to the logger
func (e *FieldError) Args() map[string]any {
	return e.args
}
