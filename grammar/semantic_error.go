package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoProduction        = newSemanticError("a grammar needs at least one production")
	semErrUndefinedSym        = newSemanticError("undefined symbol")
	semErrDuplicateProduction = newSemanticError("duplicate production")
	semErrReservedEOF         = newSemanticError("the end marker $ is implicit and cannot appear in a grammar description")
	semErrUnusedProduction    = newSemanticError("unused production")
	semErrDuplicateName       = newSemanticError("a name is used as both a terminal and a non-terminal")
)
