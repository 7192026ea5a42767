package driver

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnexpectedEOF means the input ran out before the parser emptied its stack. It is the only error
// that aborts a parse.
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// SyntaxError is a recovered syntax error. Row and Col are 0-based.
type SyntaxError struct {
	Row               int
	Col               int
	Message           string
	Token             VToken
	ExpectedTerminals []string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v", e.Message)
	if e.Token != nil {
		switch {
		case e.Token.EOF():
			fmt.Fprintf(&b, "; got: <eof>")
		default:
			fmt.Fprintf(&b, "; got: %#v", string(e.Token.Lexeme()))
		}
	}
	if len(e.ExpectedTerminals) > 0 {
		fmt.Fprintf(&b, "; expected: %v", strings.Join(e.ExpectedTerminals, ", "))
	}
	return b.String()
}
