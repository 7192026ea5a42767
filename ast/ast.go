// Package ast defines the abstract syntax tree of the language. Each construct is a distinct type with
// named fields, so a walker switches on types instead of comparing grammar symbol names.
package ast

// Pos is a 1-based source position.
type Pos struct {
	Row int
	Col int
}

// Base carries the identity of a node: the ID of the parse-tree node it was built from and its position.
type Base struct {
	ID  int
	Pos Pos
}

func (b Base) NodeID() int {
	return b.ID
}

func (b Base) Position() Pos {
	return b.Pos
}

type Node interface {
	NodeID() int
	Position() Pos
}

// Item is an element of a program.
type Item interface {
	Node
	isItem()
}

// Stmt is an element of a block. Every statement is also an item.
type Stmt interface {
	Item
	isStmt()
}

type Expr interface {
	Node
	isExpr()
}

// Type names.
const (
	TypeInt  = "int"
	TypeBool = "bool"
	TypeChar = "char"
	TypeVoid = "void"
)

type Program struct {
	Base
	Items []Item
}

// VarDecl declares one or more variables of the same type.
type VarDecl struct {
	Base
	Type string
	Vars []*Declarator
}

// Declarator is a declared variable. Init is nil when the declaration has no initializer.
type Declarator struct {
	Base
	Name string
	Init Expr
}

// FuncDecl is a function definition or, when Body is nil, a prototype.
type FuncDecl struct {
	Base
	RetType string
	Name    string
	Params  []*Param
	Body    *Block
}

type Param struct {
	Base
	Type string
	Name string
}

type StructDecl struct {
	Base
	Name   string
	Fields []*Field
}

type Field struct {
	Base
	Type string
	Name string
}

// StructVarDecl declares a variable of a struct type.
type StructVarDecl struct {
	Base
	StructName string
	Name       string
}

type Block struct {
	Base
	Stmts []Stmt
}

// AssignStmt assigns Value to Target, or to the field Field of Target when Field is not empty.
type AssignStmt struct {
	Base
	Target string
	Field  string
	Value  Expr
}

type CallStmt struct {
	Base
	Call *CallExpr
}

type IOFunc string

const (
	IOPut = IOFunc("put")
	IOGet = IOFunc("get")
)

// IOStmt calls a built-in I/O function. put takes one argument; get takes one or more variables.
type IOStmt struct {
	Base
	Func IOFunc
	Args []Expr
}

// IfStmt is a conditional statement. Else is nil when the statement has no else clause.
type IfStmt struct {
	Base
	Cond *Cond
	Then *Block
	Else *Block
}

type WhileStmt struct {
	Base
	Cond *Cond
	Body *Block
}

// ReturnStmt returns from a function. Value is nil for a bare return.
type ReturnStmt struct {
	Base
	Value Expr
}

type EmptyStmt struct {
	Base
}

// Cond is the comparison controlling an if or a while statement. Op is one of == < > <= >=.
type Cond struct {
	Base
	Left  Expr
	Op    string
	Right Expr
}

// BinaryExpr applies Op, one of + - * / & | && ||, to two operands.
type BinaryExpr struct {
	Base
	Op    string
	Left  Expr
	Right Expr
}

type IntLit struct {
	Base
	Value int32
}

type CharLit struct {
	Base
	Value rune
}

type BoolLit struct {
	Base
	Value bool
}

type Ident struct {
	Base
	Name string
}

// FieldRef reads the field Field of the struct variable Var.
type FieldRef struct {
	Base
	Var   string
	Field string
}

type CallExpr struct {
	Base
	Name string
	Args []Expr
}

func (*VarDecl) isItem()       {}
func (*FuncDecl) isItem()      {}
func (*StructDecl) isItem()    {}
func (*StructVarDecl) isItem() {}
func (*AssignStmt) isItem()    {}
func (*CallStmt) isItem()      {}
func (*IOStmt) isItem()        {}
func (*IfStmt) isItem()        {}
func (*WhileStmt) isItem()     {}
func (*ReturnStmt) isItem()    {}
func (*EmptyStmt) isItem()     {}

func (*VarDecl) isStmt()       {}
func (*StructDecl) isStmt()    {}
func (*StructVarDecl) isStmt() {}
func (*AssignStmt) isStmt()    {}
func (*CallStmt) isStmt()      {}
func (*IOStmt) isStmt()        {}
func (*IfStmt) isStmt()        {}
func (*WhileStmt) isStmt()     {}
func (*ReturnStmt) isStmt()    {}
func (*EmptyStmt) isStmt()     {}

func (*BinaryExpr) isExpr() {}
func (*IntLit) isExpr()     {}
func (*CharLit) isExpr()    {}
func (*BoolLit) isExpr()    {}
func (*Ident) isExpr()      {}
func (*FieldRef) isExpr()   {}
func (*CallExpr) isExpr()   {}
