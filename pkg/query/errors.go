package query

import (
	"errors"
	"fmt"
)

// ErrSyntax is the class of errors raised for malformed query text
var ErrSyntax = errors.New("query syntax error")

// SyntaxError describes where and why a query could not be parsed
type SyntaxError struct {
	Pos    int    // Byte offset in the query, -1 at end of input
	Token  string // Offending token text, empty at end of input
	Reason string
}

func (e *SyntaxError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("%v: %s", ErrSyntax, e.Reason)
	}
	return fmt.Sprintf("%v at position %d near `%s`: %s", ErrSyntax, e.Pos, e.Token, e.Reason)
}

// Is reports whether target is ErrSyntax
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

func endOfInput(reason string) *SyntaxError {
	return &SyntaxError{Pos: -1, Reason: reason}
}

func unexpected(tok Token, reason string) *SyntaxError {
	return &SyntaxError{Pos: tok.Pos, Token: tok.Value, Reason: reason}
}
