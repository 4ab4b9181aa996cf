package kvpairs

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// SyntaxError is returned when a document does not match the grammar.
// The message names the token(s) the grammar expected at Pos.
type SyntaxError struct {
	Pos     lexer.Position
	Message string

	err error
}

func newSyntaxError(err error) *SyntaxError {
	var perr participle.Error
	if errors.As(err, &perr) {
		return &SyntaxError{Pos: perr.Position(), Message: expecting(perr.Message()), err: err}
	}
	return &SyntaxError{Message: expecting(err.Error()), err: err}
}

// Leftover tokens are only reported at the start of a line, where the
// grammar gives no expectation of its own.
func expecting(msg string) string {
	if strings.Contains(msg, "expected") {
		return msg
	}
	return msg + " (expected comment, pair or end of line)"
}

func (e *SyntaxError) Error() string {
	if e.Pos.Line == 0 {
		return "syntax error: " + e.Message
	}
	return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Message)
}

func (e *SyntaxError) Unwrap() error { return e.err }
func (e *SyntaxError) Cause() error  { return e.err }

// ValueConversionError is returned when a literal of the value list of Key
// does not fit the target integer type.
type ValueConversionError struct {
	Key     string
	Literal string
	Err     error
}

func (e *ValueConversionError) Error() string {
	return fmt.Sprintf("failed to parse number for key '%s': %v", e.Key, e.Err)
}

func (e *ValueConversionError) Unwrap() error { return e.Err }
func (e *ValueConversionError) Cause() error  { return e.Err }
