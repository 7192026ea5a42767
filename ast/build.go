package ast

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/nihei9/lilac/driver"
)

var (
	ErrMalformedTree = errors.New("a parse tree does not fit the language grammar")
	ErrIntOutOfRange = errors.New("an integer literal is out of range")
	ErrInvalidChar   = errors.New("an invalid character literal")
)

// BuildError is an error found while building an AST. Row and Col are 1-based.
type BuildError struct {
	Cause  error
	Detail string
	Row    int
	Col    int
}

func (e *BuildError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v:%v: %v", e.Row, e.Col, e.Cause)
	}
	return fmt.Sprintf("%v:%v: %v: %v", e.Row, e.Col, e.Cause, e.Detail)
}

func (e *BuildError) Unwrap() error {
	return e.Cause
}

func raise(n *driver.Node, cause error, detail string) {
	err := &BuildError{
		Cause:  cause,
		Detail: detail,
	}
	if n != nil {
		pos := posOf(n)
		err.Row = pos.Row
		err.Col = pos.Col
	}
	panic(err)
}

// Build converts a parse tree of the language grammar into an AST. The tree must be free of syntax errors.
func Build(root *driver.Node) (prog *Program, retErr error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		err, ok := v.(*BuildError)
		if !ok {
			panic(v)
		}
		prog = nil
		retErr = err
	}()

	return buildProgram(root), nil
}

// child returns the i-th child of n after checking its kind. Symbol names are unique across terminals and
// non-terminals of the language grammar, so the kind alone identifies a child.
func child(n *driver.Node, i int, kind string) *driver.Node {
	if n == nil || i >= len(n.Children) {
		raise(n, ErrMalformedTree, fmt.Sprintf("%v has no child #%v", kindOf(n), i))
	}
	c := n.Children[i]
	if c.KindName != kind {
		raise(c, ErrMalformedTree, fmt.Sprintf("%v is expected but got %v", kind, c.KindName))
	}
	if c.Terminal && !c.Matched {
		raise(c, ErrMalformedTree, fmt.Sprintf("%v is missing", kind))
	}
	return c
}

func firstKind(n *driver.Node) string {
	if len(n.Children) == 0 {
		raise(n, ErrMalformedTree, fmt.Sprintf("%v has no children", n.KindName))
	}
	return n.Children[0].KindName
}

// isEmpty reports whether n was expanded by the empty production.
func isEmpty(n *driver.Node) bool {
	return len(n.Children) == 1 && n.Children[0].Epsilon
}

func kindOf(n *driver.Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.KindName
}

// posOf returns the position of the first matched token under n.
func posOf(n *driver.Node) Pos {
	if n.Terminal {
		return Pos{Row: n.Row + 1, Col: n.Col + 1}
	}
	for _, c := range n.Children {
		if c.Terminal && !c.Matched {
			continue
		}
		if c.Epsilon {
			continue
		}
		if pos := posOf(c); pos.Row != 0 {
			return pos
		}
	}
	return Pos{}
}

func baseOf(n *driver.Node) Base {
	return Base{
		ID:  n.ID,
		Pos: posOf(n),
	}
}

func buildProgram(n *driver.Node) *Program {
	if n == nil || n.KindName != "program" {
		raise(n, ErrMalformedTree, fmt.Sprintf("program is expected but got %v", kindOf(n)))
	}
	prog := &Program{
		Base: baseOf(n),
	}
	list := child(n, 0, "item_list")
	for !isEmpty(list) {
		prog.Items = append(prog.Items, buildItem(child(list, 0, "item")))
		list = child(list, 1, "item_list")
	}
	if prog.Pos.Row == 0 {
		prog.Pos = Pos{Row: 1, Col: 1}
	}
	return prog
}

func buildItem(n *driver.Node) Item {
	switch firstKind(n) {
	case "type":
		typ := buildType(child(n, 0, "type"))
		name := child(n, 1, "id")
		tail := child(n, 2, "decl_tail")
		if firstKind(tail) == "(" {
			return buildFunc(n, typ, name, tail)
		}
		return buildVarDecl(n, typ, name, child(tail, 0, "init_value"), child(tail, 1, "var_list_tail"))
	case "struct_stmt":
		return buildStructStmt(child(n, 0, "struct_stmt"))
	case "stmt":
		return buildStmt(child(n, 0, "stmt"))
	}
	raise(n, ErrMalformedTree, fmt.Sprintf("unexpected item: %v", firstKind(n)))
	return nil
}

func buildFunc(n *driver.Node, typ string, name *driver.Node, tail *driver.Node) *FuncDecl {
	f := &FuncDecl{
		Base: Base{
			ID:  n.ID,
			Pos: posOf(name),
		},
		RetType: typ,
		Name:    name.Text,
	}

	list := child(tail, 1, "param_list")
	if !isEmpty(list) {
		f.Params = append(f.Params, buildParam(child(list, 0, "param")))
		rest := child(list, 1, "param_tail")
		for !isEmpty(rest) {
			f.Params = append(f.Params, buildParam(child(rest, 1, "param")))
			rest = child(rest, 2, "param_tail")
		}
	}
	child(tail, 2, ")")

	body := child(tail, 3, "func_body")
	if firstKind(body) == "{" {
		f.Body = buildBlock(body, child(body, 1, "block_items"))
		child(body, 2, "}")
	}
	return f
}

func buildParam(n *driver.Node) *Param {
	name := child(n, 1, "id")
	return &Param{
		Base: Base{
			ID:  n.ID,
			Pos: posOf(name),
		},
		Type: buildType(child(n, 0, "type")),
		Name: name.Text,
	}
}

func buildVarDecl(n *driver.Node, typ string, name *driver.Node, init *driver.Node, rest *driver.Node) *VarDecl {
	d := &VarDecl{
		Base: baseOf(n),
		Type: typ,
		Vars: []*Declarator{
			buildDeclarator(name, init),
		},
	}
	for !isEmpty(rest) {
		d.Vars = append(d.Vars, buildDeclarator(child(rest, 1, "id"), child(rest, 2, "init_value")))
		rest = child(rest, 3, "var_list_tail")
	}
	return d
}

func buildDeclarator(name *driver.Node, init *driver.Node) *Declarator {
	d := &Declarator{
		Base: Base{
			ID:  name.ID,
			Pos: posOf(name),
		},
		Name: name.Text,
	}
	if !isEmpty(init) {
		child(init, 0, "=")
		d.Init = buildExpr(child(init, 1, "expr"))
	}
	return d
}

func buildType(n *driver.Node) string {
	switch k := firstKind(n); k {
	case TypeInt, TypeBool, TypeChar, TypeVoid:
		child(n, 0, k)
		return k
	}
	raise(n, ErrMalformedTree, fmt.Sprintf("unknown type: %v", firstKind(n)))
	return ""
}

func buildBlock(n *driver.Node, items *driver.Node) *Block {
	b := &Block{
		Base: baseOf(n),
	}
	for !isEmpty(items) {
		b.Stmts = append(b.Stmts, buildBlockItem(child(items, 0, "block_item")))
		items = child(items, 1, "block_items")
	}
	return b
}

func buildBlockItem(n *driver.Node) Stmt {
	switch firstKind(n) {
	case "type":
		return buildVarDecl(n, buildType(child(n, 0, "type")), child(n, 1, "id"), child(n, 2, "init_value"), child(n, 3, "var_list_tail"))
	case "struct_stmt":
		return buildStructStmt(child(n, 0, "struct_stmt"))
	case "stmt":
		return buildStmt(child(n, 0, "stmt"))
	}
	raise(n, ErrMalformedTree, fmt.Sprintf("unexpected block item: %v", firstKind(n)))
	return nil
}

func buildStructStmt(n *driver.Node) Stmt {
	name := child(n, 1, "id")
	tail := child(n, 2, "struct_tail")
	if firstKind(tail) == "id" {
		v := child(tail, 0, "id")
		return &StructVarDecl{
			Base: Base{
				ID:  n.ID,
				Pos: posOf(v),
			},
			StructName: name.Text,
			Name:       v.Text,
		}
	}

	d := &StructDecl{
		Base: Base{
			ID:  n.ID,
			Pos: posOf(name),
		},
		Name: name.Text,
	}
	list := child(tail, 1, "field_list")
	for !isEmpty(list) {
		fname := child(list, 1, "id")
		d.Fields = append(d.Fields, &Field{
			Base: Base{
				ID:  list.ID,
				Pos: posOf(fname),
			},
			Type: buildType(child(list, 0, "type")),
			Name: fname.Text,
		})
		list = child(list, 3, "field_list")
	}
	return d
}

func buildStmt(n *driver.Node) Stmt {
	switch firstKind(n) {
	case "id":
		name := child(n, 0, "id")
		aoc := child(n, 1, "assign_or_call")
		if firstKind(aoc) == "(" {
			return &CallStmt{
				Base: baseOf(n),
				Call: &CallExpr{
					Base: baseOf(n),
					Name: name.Text,
					Args: buildArgs(child(aoc, 1, "args")),
				},
			}
		}
		s := &AssignStmt{
			Base:   baseOf(n),
			Target: name.Text,
		}
		attr := child(aoc, 0, "attr")
		if !isEmpty(attr) {
			s.Field = child(attr, 1, "id").Text
		}
		s.Value = buildExpr(child(aoc, 2, "expr"))
		return s
	case "if":
		s := &IfStmt{
			Base: baseOf(n),
			Cond: buildCond(child(n, 2, "cond")),
			Then: buildBlock(n, child(n, 5, "block_items")),
		}
		s.Then.Pos = posOf(child(n, 4, "{"))
		elsePart := child(n, 7, "else_part")
		if !isEmpty(elsePart) {
			s.Else = buildBlock(elsePart, child(elsePart, 2, "block_items"))
		}
		return s
	case "while":
		s := &WhileStmt{
			Base: baseOf(n),
			Cond: buildCond(child(n, 2, "cond")),
			Body: buildBlock(n, child(n, 5, "block_items")),
		}
		s.Body.Pos = posOf(child(n, 4, "{"))
		return s
	case "return":
		s := &ReturnStmt{
			Base: baseOf(n),
		}
		v := child(n, 1, "ret_value")
		if !isEmpty(v) {
			s.Value = buildExpr(child(v, 0, "expr"))
		}
		return s
	case "put":
		return &IOStmt{
			Base: baseOf(n),
			Func: IOPut,
			Args: []Expr{buildExpr(child(n, 2, "expr"))},
		}
	case "get":
		return &IOStmt{
			Base: baseOf(n),
			Func: IOGet,
			Args: buildArgs(child(n, 2, "args")),
		}
	case ";":
		return &EmptyStmt{
			Base: baseOf(n),
		}
	}
	raise(n, ErrMalformedTree, fmt.Sprintf("unexpected statement: %v", firstKind(n)))
	return nil
}

func buildCond(n *driver.Node) *Cond {
	op := child(n, 1, "rel_op")
	return &Cond{
		Base: Base{
			ID:  n.ID,
			Pos: posOf(op),
		},
		Left:  buildExpr(child(n, 0, "expr")),
		Op:    firstKind(op),
		Right: buildExpr(child(n, 2, "expr")),
	}
}

func buildArgs(n *driver.Node) []Expr {
	if isEmpty(n) {
		return nil
	}
	args := []Expr{buildExpr(child(n, 0, "expr"))}
	rest := child(n, 1, "args_tail")
	for !isEmpty(rest) {
		args = append(args, buildExpr(child(rest, 1, "expr")))
		rest = child(rest, 2, "args_tail")
	}
	return args
}

// buildExpr folds `term (add_op term)*` to the left.
func buildExpr(n *driver.Node) Expr {
	left := buildTerm(child(n, 0, "term"))
	tail := child(n, 1, "expr_tail")
	for !isEmpty(tail) {
		op := child(tail, 0, "add_op")
		left = &BinaryExpr{
			Base: Base{
				ID:  tail.ID,
				Pos: posOf(op),
			},
			Op:    firstKind(op),
			Left:  left,
			Right: buildTerm(child(tail, 1, "term")),
		}
		tail = child(tail, 2, "expr_tail")
	}
	return left
}

func buildTerm(n *driver.Node) Expr {
	left := buildFactor(child(n, 0, "factor"))
	tail := child(n, 1, "term_tail")
	for !isEmpty(tail) {
		op := child(tail, 0, "mul_op")
		left = &BinaryExpr{
			Base: Base{
				ID:  tail.ID,
				Pos: posOf(op),
			},
			Op:    firstKind(op),
			Left:  left,
			Right: buildFactor(child(tail, 1, "factor")),
		}
		tail = child(tail, 2, "term_tail")
	}
	return left
}

func buildFactor(n *driver.Node) Expr {
	switch firstKind(n) {
	case "(":
		e := buildExpr(child(n, 1, "expr"))
		child(n, 2, ")")
		return e
	case "num":
		tok := child(n, 0, "num")
		v, err := strconv.ParseInt(tok.Text, 10, 32)
		if err != nil {
			raise(tok, ErrIntOutOfRange, tok.Text)
		}
		return &IntLit{
			Base:  baseOf(tok),
			Value: int32(v),
		}
	case "character":
		tok := child(n, 0, "character")
		return &CharLit{
			Base:  baseOf(tok),
			Value: decodeChar(tok),
		}
	case "bool_value":
		v := child(n, 0, "bool_value")
		return &BoolLit{
			Base:  baseOf(v),
			Value: firstKind(v) == "true",
		}
	case "id":
		name := child(n, 0, "id")
		tail := child(n, 1, "factor_tail")
		if isEmpty(tail) {
			return &Ident{
				Base: baseOf(name),
				Name: name.Text,
			}
		}
		switch firstKind(tail) {
		case ".":
			return &FieldRef{
				Base:  baseOf(name),
				Var:   name.Text,
				Field: child(tail, 1, "id").Text,
			}
		case "(":
			return &CallExpr{
				Base: baseOf(name),
				Name: name.Text,
				Args: buildArgs(child(tail, 1, "args")),
			}
		}
	}
	raise(n, ErrMalformedTree, fmt.Sprintf("unexpected factor: %v", firstKind(n)))
	return nil
}

func decodeChar(tok *driver.Node) rune {
	rs := []rune(tok.Text)
	switch {
	case len(rs) == 3:
		return rs[1]
	case len(rs) == 4 && rs[1] == '\\':
		switch rs[2] {
		case 'n':
			return '\n'
		case 't':
			return '\t'
		case '0':
			return 0
		case '\\':
			return '\\'
		case '\'':
			return '\''
		}
	}
	raise(tok, ErrInvalidChar, tok.Text)
	return 0
}
