package semantic

import (
	"fmt"
	"strings"

	"github.com/nihei9/lilac/ast"
)

type Type string

const (
	TypeBool   = Type("bool")
	TypeInt    = Type("int")
	TypeChar   = Type("char")
	TypeVoid   = Type("void")
	TypeStruct = Type("struct")
)

func parseType(s string) (Type, bool) {
	switch t := Type(s); t {
	case TypeBool, TypeInt, TypeChar, TypeVoid:
		return t, true
	}
	return "", false
}

// Variable is a declared variable. Value holds the last value known at compile time, if any. Every variable
// owns a stack slot at StackOffset bytes from $sp; slots are never reused.
type Variable struct {
	Name           string
	Type           Type
	Value          *int32
	Initialized    bool
	DeclaredAt     ast.Pos
	Scope          int
	StructTypeName string
	StackOffset    int
	Fields         map[string]*FieldValue

	structType *StructType
}

// FieldValue is a value stored in a field of a struct variable.
type FieldValue struct {
	Type  Type
	Value *int32
}

func (v *Variable) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v %v", v.Name, v.Type)
	if v.StructTypeName != "" {
		fmt.Fprintf(&b, " %v", v.StructTypeName)
	}
	fmt.Fprintf(&b, " scope=%v offset=%v", v.Scope, v.StackOffset)
	switch {
	case v.Value != nil:
		fmt.Fprintf(&b, " value=%v", *v.Value)
	case !v.Initialized && v.Type != TypeStruct:
		fmt.Fprintf(&b, " uninitialized")
	}
	return b.String()
}

// Function is a function signature. A built-in function has no body; a user-defined one lowers to the
// code between its Label and EndLabel.
type Function struct {
	RetType      Type
	Name         string
	Params       []Type
	DeclaredAt   ast.Pos
	Builtin      bool
	Defined      bool
	Label        string
	EndLabel     string
	RASlot       int
	ParamOffsets []int
}

func (f *Function) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = string(p)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%v %v(%v)", f.RetType, f.Name, strings.Join(params, ", "))
	switch {
	case f.Builtin:
		fmt.Fprintf(&b, " built-in")
	case f.Defined:
		fmt.Fprintf(&b, " %v", f.Label)
	default:
		fmt.Fprintf(&b, " prototype")
	}
	return b.String()
}

func sameParams(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type StructField struct {
	Type Type
	Name string
}

type StructType struct {
	Name       string
	Fields     []*StructField
	DeclaredAt ast.Pos
	Scope      int
}

func (s *StructType) field(name string) *StructField {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (s *StructType) String() string {
	fields := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = fmt.Sprintf("%v %v", f.Type, f.Name)
	}
	return fmt.Sprintf("struct %v { %v } scope=%v", s.Name, strings.Join(fields, "; "), s.Scope)
}

type scope struct {
	id      int
	vars    map[string]*Variable
	structs map[string]*StructType
}

// scopeStack is the chain of open scopes. Every scope gets a fresh ID; the global scope is 1.
type scopeStack struct {
	scopes []*scope
	maxID  int
}

func (s *scopeStack) enter() {
	s.maxID++
	s.scopes = append(s.scopes, &scope{
		id:      s.maxID,
		vars:    map[string]*Variable{},
		structs: map[string]*StructType{},
	})
}

func (s *scopeStack) exit() {
	s.scopes = s.scopes[:len(s.scopes)-1]
}

func (s *scopeStack) current() *scope {
	return s.scopes[len(s.scopes)-1]
}

// lookupVar resolves a variable from the innermost scope outward.
func (s *scopeStack) lookupVar(name string) *Variable {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if v, ok := s.scopes[i].vars[name]; ok {
			return v
		}
	}
	return nil
}

func (s *scopeStack) lookupStruct(name string) *StructType {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if st, ok := s.scopes[i].structs[name]; ok {
			return st
		}
	}
	return nil
}
