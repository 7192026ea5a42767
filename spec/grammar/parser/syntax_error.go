package parser

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return e.message
}

var (
	// lexical errors
	synErrInvalidToken     = newSyntaxError("invalid token")
	synErrUnclosedTerminal = newSyntaxError("a terminal symbol must be closed by ]")
	synErrUnclosedNonTerm  = newSyntaxError("a non-terminal symbol must be closed by >")

	// syntax errors
	synErrNoProduction     = newSyntaxError("a grammar needs at least one production")
	synErrNoProductionName = newSyntaxError("a production must begin with a non-terminal symbol")
	synErrNoArrow          = newSyntaxError("-> must follow an LHS")
	synErrEmptyRHS         = newSyntaxError("an RHS needs at least one symbol; use # for the empty production")
	synErrStrayArrow       = newSyntaxError("a production can contain just one ->")
)
