package semantic

import (
	"fmt"
)

// SemanticError is a kind of semantic diagnostic. Kind is the name a golden test file refers to.
type SemanticError struct {
	Kind    string
	message string
}

func newSemanticError(kind, message string) *SemanticError {
	return &SemanticError{
		Kind:    kind,
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	ErrUndefined            = newSemanticError("UndefinedError", "undefined variable")
	ErrUndefinedFunc        = newSemanticError("UndefinedFuncError", "undefined function")
	ErrAlreadyDefinedVar    = newSemanticError("AlreadyDefinedVar", "variable is already defined")
	ErrAlreadyDefinedFunc   = newSemanticError("AlreadyDefinedFunc", "function is already defined")
	ErrUninitializedVar     = newSemanticError("UninitializedVar", "variable is uninitialized but used")
	ErrUnsupportedOperation = newSemanticError("UnsupportedOperation", "unsupported operation")
	ErrIncompatibleType     = newSemanticError("IncompatibleType", "incompatible type")
	ErrMismatchedParams     = newSemanticError("MismatchedParams", "mismatched parameters")
	ErrMismatchedType       = newSemanticError("MismatchedType", "mismatched types")
)

// Kinds lists every kind of semantic diagnostic.
var Kinds = []*SemanticError{
	ErrUndefined,
	ErrUndefinedFunc,
	ErrAlreadyDefinedVar,
	ErrAlreadyDefinedFunc,
	ErrUninitializedVar,
	ErrUnsupportedOperation,
	ErrIncompatibleType,
	ErrMismatchedParams,
	ErrMismatchedType,
}

// Diagnostic is a semantic error found in a program. Row and Col are 1-based.
type Diagnostic struct {
	Cause  *SemanticError
	Detail string
	Row    int
	Col    int
}

func (d *Diagnostic) Error() string {
	if d.Detail == "" {
		return fmt.Sprintf("%v:%v: %v", d.Row, d.Col, d.Cause)
	}
	return fmt.Sprintf("%v:%v: %v: %v", d.Row, d.Col, d.Cause, d.Detail)
}

func (d *Diagnostic) Unwrap() error {
	return d.Cause
}
