package types

import "fmt"

// ErrorCode identifies a structured parser or evaluator error.
type ErrorCode string

// Error codes. Sxxxx are lexical/syntax errors, Dxxxx are evaluation errors,
// Uxxxx are unresolved-name errors.
const (
	// S01xx: Lexical errors
	ErrStringNotClosed   ErrorCode = "S0101"
	ErrUnsupportedEscape ErrorCode = "S0103"
	ErrUnexpectedEnd     ErrorCode = "S0104"
	ErrTemplateNotClosed ErrorCode = "S0105"
	ErrUnknownChar       ErrorCode = "S0106"

	// S02xx: Syntax errors
	ErrSyntaxError   ErrorCode = "S0201"
	ErrExpectedToken ErrorCode = "S0202"
	ErrEmptySigilID  ErrorCode = "S0203"
	ErrReservedWord  ErrorCode = "S0205"
	ErrDepthExceeded ErrorCode = "S0206"

	// T0xxx: Type errors
	ErrArgumentCount ErrorCode = "T0410"

	// D3xxx: Evaluation errors
	ErrInvokeNonFunction ErrorCode = "D3001"
	ErrStackOverflow     ErrorCode = "D3020"
	ErrTypeMismatch      ErrorCode = "D3070"
	ErrArrowOutsideCall  ErrorCode = "D3080"

	// U1xxx: Unresolved names
	ErrUndefinedIdentifier ErrorCode = "U1001"
	ErrUndefinedFunction   ErrorCode = "U1002"
)

// Error is a structured expression-language error.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new structured error. A negative position means the
// location is unknown (typical for evaluation errors).
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds the offending token text to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}
