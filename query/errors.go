package query

import (
	"fmt"
	"strings"
)

// FieldNotFoundError reports a condition or operation referencing a column
// the schema does not have. Available carries the schema's column names for
// error messages.
type FieldNotFoundError struct {
	Field     string
	Available []string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field %q not found in schema (%s)", e.Field, strings.Join(e.Available, ", "))
}

// ParseError reports a lexing or parsing failure at a byte position in the
// filter string. Token is the offending text, empty at end of input.
type ParseError struct {
	Pos   int
	Token string
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("parse error at position %d near %q: %s", e.Pos, e.Token, e.Msg)
}

// ValidationError reports a structurally invalid request: malformed condition
// trees, input limits, or bad aggregation specs.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
