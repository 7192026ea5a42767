// Package semantic checks a program and lowers it to three-address code in one walk over its AST.
package semantic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nihei9/lilac/ast"
	"github.com/nihei9/lilac/ir"
)

// EntryLabel is the first label of every program. SPIM starts execution there.
const EntryLabel = "main"

// Analyzer checks programs against a set of built-in functions. An Analyzer keeps no state between runs,
// so one Analyzer can analyze any number of programs.
type Analyzer struct {
	stdlib []*Function
}

func NewAnalyzer(stdlib []*Function) *Analyzer {
	return &Analyzer{
		stdlib: stdlib,
	}
}

// Analyze walks a program once. It never stops at an error: every diagnostic is collected in the result,
// and the instructions are meaningful only when the result has no diagnostics.
func (a *Analyzer) Analyze(prog *ast.Program) *Result {
	c := newContext(a.stdlib)
	c.program(prog)
	return &Result{
		Instructions: c.stream.Instructions(),
		Variables:    c.vars,
		Functions:    c.funcOrder,
		Structs:      c.structs,
		Diagnostics:  c.diags,
	}
}

type callSite struct {
	fn  *Function
	pos ast.Pos
}

// context is the state of one run.
type context struct {
	stream    *ir.Stream
	scopes    *scopeStack
	offset    int
	vars      []*Variable
	structs   []*StructType
	funcs     map[string]*Function
	funcOrder []*Function
	calls     []*callSite
	called    map[string]struct{}
	curFunc   *Function
	regions   []map[valueKey]struct{}
	diags     []*Diagnostic
}

func newContext(stdlib []*Function) *context {
	c := &context{
		stream: ir.NewStream(),
		scopes: &scopeStack{},
		funcs:  map[string]*Function{},
		called: map[string]struct{}{},
	}
	for _, f := range stdlib {
		fn := *f
		fn.Params = append([]Type{}, f.Params...)
		fn.Builtin = true
		c.registerFunc(&fn)
	}
	return c
}

func (c *context) report(cause *SemanticError, pos ast.Pos, detail string) {
	c.diags = append(c.diags, &Diagnostic{
		Cause:  cause,
		Detail: detail,
		Row:    pos.Row,
		Col:    pos.Col,
	})
}

// allocOffset returns a fresh stack slot. Slots go 0, -4, -8, and so on.
func (c *context) allocOffset() int {
	o := c.offset
	c.offset -= 4
	return o
}

func (c *context) registerFunc(f *Function) {
	c.funcs[f.Name] = f
	c.funcOrder = append(c.funcOrder, f)
}

func (c *context) isGlobal() bool {
	return c.curFunc == nil && len(c.scopes.scopes) == 1
}

func posString(pos ast.Pos) string {
	if pos.Row == 0 {
		return "built-in"
	}
	return fmt.Sprintf("%v:%v", pos.Row, pos.Col)
}

func typesString(ts []Type) string {
	s := make([]string, len(ts))
	for i, t := range ts {
		s[i] = string(t)
	}
	return strings.Join(s, ", ")
}

func (c *context) program(prog *ast.Program) {
	c.stream.Emit(ir.OpLabel, "", "", EntryLabel)

	c.scopes.enter()
	for _, item := range prog.Items {
		switch item := item.(type) {
		case *ast.FuncDecl:
			c.funcDecl(item)
		case ast.Stmt:
			c.stmt(item)
		default:
			panic(fmt.Sprintf("unexpected item: %T", item))
		}
	}
	c.scopes.exit()

	for _, cl := range c.calls {
		if !cl.fn.Builtin && !cl.fn.Defined {
			c.report(ErrUndefinedFunc, cl.pos, fmt.Sprintf("%v is declared but never defined", cl.fn.Name))
		}
	}

	if main, ok := c.funcs["main"]; ok && main.Defined {
		c.stream.Emit(ir.OpGotoSave, "", "", main.Label)
	}
	c.stream.Emit(ir.OpExit, "", "", "")
}

func (c *context) funcDecl(d *ast.FuncDecl) {
	ret, _ := parseType(d.RetType)
	params := make([]Type, len(d.Params))
	for i, p := range d.Params {
		params[i], _ = parseType(p.Type)
	}

	f, ok := c.funcs[d.Name]
	switch {
	case !ok:
		f = &Function{
			RetType:    ret,
			Name:       d.Name,
			Params:     params,
			DeclaredAt: d.Pos,
			Label:      fmt.Sprintf("%v_body_%v", d.Name, d.ID),
			EndLabel:   fmt.Sprintf("%v_end_%v", d.Name, d.ID),
			RASlot:     c.allocOffset(),
		}
		for range params {
			f.ParamOffsets = append(f.ParamOffsets, c.allocOffset())
		}
		c.registerFunc(f)
	case !f.Builtin && !f.Defined && d.Body != nil && f.RetType == ret && sameParams(f.Params, params):
		// The definition of an earlier prototype.
	default:
		c.report(ErrAlreadyDefinedFunc, d.Pos, fmt.Sprintf("%v (first declared at %v)", d.Name, posString(f.DeclaredAt)))
		return
	}
	if d.Body == nil {
		return
	}
	f.Defined = true

	raSlot := strconv.Itoa(f.RASlot)
	c.stream.Emit(ir.OpGoto, "", "", f.EndLabel)
	c.stream.Emit(ir.OpLabel, ir.FuncEntry, raSlot, f.Label)

	restore := c.hideValues()
	c.scopes.enter()
	for i, p := range d.Params {
		if c.redefined(p.Name, p.Pos) {
			continue
		}
		c.addVar(&Variable{
			Name:        p.Name,
			Type:        params[i],
			Initialized: true,
			DeclaredAt:  p.Pos,
			StackOffset: f.ParamOffsets[i],
		})
	}
	prev := c.curFunc
	c.curFunc = f
	for _, s := range d.Body.Stmts {
		c.stmt(s)
	}
	c.curFunc = prev
	c.scopes.exit()
	restore()

	if n := len(d.Body.Stmts); n == 0 || !isReturn(d.Body.Stmts[n-1]) {
		c.stream.Emit(ir.OpReturn, raSlot, "", "")
	}
	c.stream.Emit(ir.OpLabel, "", "", f.EndLabel)
}

func isReturn(s ast.Stmt) bool {
	_, ok := s.(*ast.ReturnStmt)
	return ok
}

// redefined reports a variable already declared in the current scope.
func (c *context) redefined(name string, pos ast.Pos) bool {
	old, ok := c.scopes.current().vars[name]
	if !ok {
		return false
	}
	c.report(ErrAlreadyDefinedVar, pos, fmt.Sprintf("%v (first declared at %v)", name, posString(old.DeclaredAt)))
	return true
}

func (c *context) addVar(v *Variable) {
	cur := c.scopes.current()
	v.Scope = cur.id
	cur.vars[v.Name] = v
	c.vars = append(c.vars, v)
}

func (c *context) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.VarDecl:
		c.varDecl(s)
	case *ast.StructDecl:
		c.structDecl(s)
	case *ast.StructVarDecl:
		c.structVarDecl(s)
	case *ast.AssignStmt:
		c.assign(s)
	case *ast.CallStmt:
		c.call(s.Call, false)
	case *ast.IOStmt:
		c.io(s)
	case *ast.IfStmt:
		c.ifStmt(s)
	case *ast.WhileStmt:
		c.whileStmt(s)
	case *ast.ReturnStmt:
		c.returnStmt(s)
	case *ast.EmptyStmt:
	default:
		panic(fmt.Sprintf("unexpected statement: %T", s))
	}
}

func (c *context) block(b *ast.Block) {
	c.scopes.enter()
	for _, s := range b.Stmts {
		c.stmt(s)
	}
	c.scopes.exit()
}

func (c *context) varDecl(d *ast.VarDecl) {
	typ, _ := parseType(d.Type)
	global := c.isGlobal()
	for _, decl := range d.Vars {
		if typ == TypeVoid {
			c.report(ErrUnsupportedOperation, decl.Pos, fmt.Sprintf("variable %v cannot have type void", decl.Name))
			continue
		}
		if c.redefined(decl.Name, decl.Pos) {
			continue
		}
		v := &Variable{
			Name:        decl.Name,
			Type:        typ,
			DeclaredAt:  decl.Pos,
			StackOffset: c.allocOffset(),
		}
		c.addVar(v)
		offset := strconv.Itoa(v.StackOffset)

		if decl.Init == nil {
			if !global {
				c.stream.Emit(ir.OpAssign, ir.Zero, "", offset)
			}
			continue
		}

		op := c.expr(decl.Init)
		// Counts as initialized even when the initializer is erroneous.
		v.Initialized = true
		if op == nil {
			continue
		}
		if op.typ != typ {
			c.report(ErrIncompatibleType, decl.Pos, fmt.Sprintf("%v (%v) cannot be assigned with %v", decl.Name, typ, op.typ))
			continue
		}
		c.stream.Emit(ir.OpAssign, op.temp, "", offset)
		v.Value = op.value
	}
}

func (c *context) structDecl(d *ast.StructDecl) {
	cur := c.scopes.current()
	if old, ok := cur.structs[d.Name]; ok {
		c.report(ErrAlreadyDefinedVar, d.Pos, fmt.Sprintf("struct %v (first declared at %v)", d.Name, posString(old.DeclaredAt)))
		return
	}
	st := &StructType{
		Name:       d.Name,
		DeclaredAt: d.Pos,
		Scope:      cur.id,
	}
	for _, f := range d.Fields {
		typ, _ := parseType(f.Type)
		if typ == TypeVoid {
			c.report(ErrUnsupportedOperation, f.Pos, fmt.Sprintf("field %v.%v cannot have type void", d.Name, f.Name))
			continue
		}
		if st.field(f.Name) != nil {
			c.report(ErrAlreadyDefinedVar, f.Pos, fmt.Sprintf("field %v.%v", d.Name, f.Name))
			continue
		}
		st.Fields = append(st.Fields, &StructField{
			Type: typ,
			Name: f.Name,
		})
	}
	cur.structs[d.Name] = st
	c.structs = append(c.structs, st)
}

func (c *context) structVarDecl(d *ast.StructVarDecl) {
	st := c.scopes.lookupStruct(d.StructName)
	if st == nil {
		c.report(ErrUndefined, d.Pos, fmt.Sprintf("struct %v", d.StructName))
		return
	}
	if c.redefined(d.Name, d.Pos) {
		return
	}
	c.addVar(&Variable{
		Name:           d.Name,
		Type:           TypeStruct,
		Initialized:    true,
		DeclaredAt:     d.Pos,
		StructTypeName: st.Name,
		StackOffset:    c.allocOffset(),
		Fields:         map[string]*FieldValue{},
		structType:     st,
	})
}

func (c *context) assign(s *ast.AssignStmt) {
	v := c.scopes.lookupVar(s.Target)
	if v == nil {
		c.report(ErrUndefined, s.Pos, s.Target)
		return
	}
	if s.Field != "" {
		c.assignField(s, v)
		return
	}
	if v.Type == TypeStruct {
		c.report(ErrUnsupportedOperation, s.Pos, fmt.Sprintf("struct variable %v cannot be assigned as a whole", v.Name))
		return
	}

	op := c.expr(s.Value)
	if op == nil {
		v.Initialized = true
		return
	}
	if op.typ != v.Type {
		c.report(ErrIncompatibleType, s.Pos, fmt.Sprintf("%v (%v) cannot be assigned with %v", v.Name, v.Type, op.typ))
		return
	}
	c.stream.Emit(ir.OpAssign, op.temp, "", strconv.Itoa(v.StackOffset))
	v.Initialized = true
	v.Value = op.value
	c.assigned(valueKey{
		v: v,
	})
}

// assignField records a value in a field of a struct variable. Struct values live only at compile time,
// so the right-hand side is checked but not lowered.
func (c *context) assignField(s *ast.AssignStmt, v *Variable) {
	name := fmt.Sprintf("%v.%v", s.Target, s.Field)
	if v.Type != TypeStruct {
		c.report(ErrUndefined, s.Pos, name)
		return
	}
	fld := v.structType.field(s.Field)
	if fld == nil {
		c.report(ErrUndefined, s.Pos, name)
		return
	}

	op := c.check(s.Value)
	if op == nil {
		return
	}
	if op.typ != fld.Type {
		c.report(ErrIncompatibleType, s.Pos, fmt.Sprintf("%v (%v) cannot be assigned with %v", name, fld.Type, op.typ))
		return
	}
	v.Fields[s.Field] = &FieldValue{
		Type:  fld.Type,
		Value: op.value,
	}
	c.assigned(valueKey{
		v:     v,
		field: s.Field,
	})
}

func (c *context) io(s *ast.IOStmt) {
	f, ok := c.funcs[string(s.Func)]
	if !ok || !f.Builtin {
		c.report(ErrUndefinedFunc, s.Pos, fmt.Sprintf("built-in %v", s.Func))
		return
	}

	switch s.Func {
	case ast.IOPut:
		if len(s.Args) != 1 {
			c.report(ErrMismatchedParams, s.Pos, fmt.Sprintf("put received %v arguments, expected (%v)", len(s.Args), typesString(f.Params)))
			return
		}
		op := c.expr(s.Args[0])
		if op == nil {
			return
		}
		if !sameParams([]Type{op.typ}, f.Params) {
			c.report(ErrMismatchedParams, s.Pos, fmt.Sprintf("put received (%v), expected (%v)", op.typ, typesString(f.Params)))
			return
		}
		c.stream.Emit(ir.OpPut, "", "", op.temp)
	case ast.IOGet:
		if len(f.Params) != 1 {
			c.report(ErrMismatchedParams, s.Pos, fmt.Sprintf("get must take one parameter type, got (%v)", typesString(f.Params)))
			return
		}
		for _, arg := range s.Args {
			id, ok := arg.(*ast.Ident)
			if !ok {
				c.report(ErrMismatchedParams, arg.Position(), "get takes only variables")
				continue
			}
			v := c.scopes.lookupVar(id.Name)
			if v == nil {
				c.report(ErrUndefined, id.Pos, id.Name)
				continue
			}
			if v.Type != f.Params[0] {
				c.report(ErrMismatchedParams, id.Pos, fmt.Sprintf("get received (%v), expected (%v)", v.Type, f.Params[0]))
				continue
			}
			c.stream.Emit(ir.OpGet, "", "", strconv.Itoa(v.StackOffset))
			v.Initialized = true
			v.Value = nil
		}
	}
}

func (c *context) ifStmt(s *ast.IfStmt) {
	ifLabel := fmt.Sprintf("if_%v", s.ID)
	elseLabel := fmt.Sprintf("else_%v", s.ID)
	exitLabel := fmt.Sprintf("exit_%v", s.ID)

	c.cond(s.Cond, ifLabel)
	if s.Else == nil {
		c.stream.Emit(ir.OpGoto, "", "", exitLabel)
	} else {
		c.stream.Emit(ir.OpGoto, "", "", elseLabel)
	}
	c.stream.Emit(ir.OpLabel, "", "", ifLabel)
	c.enterRegion()
	c.block(s.Then)
	c.exitRegion()
	c.stream.Emit(ir.OpGoto, "", "", exitLabel)
	if s.Else != nil {
		c.stream.Emit(ir.OpLabel, "", "", elseLabel)
		c.enterRegion()
		c.block(s.Else)
		c.exitRegion()
	}
	c.stream.Emit(ir.OpLabel, "", "", exitLabel)
}

func (c *context) whileStmt(s *ast.WhileStmt) {
	topLabel := fmt.Sprintf("while_%v", s.ID)
	blockLabel := fmt.Sprintf("while_block_%v", s.ID)
	exitLabel := fmt.Sprintf("while_exit_%v", s.ID)

	c.forgetLoopEffects(s)
	c.stream.Emit(ir.OpLabel, "", "", topLabel)
	c.cond(s.Cond, blockLabel)
	c.stream.Emit(ir.OpGoto, "", "", exitLabel)
	c.stream.Emit(ir.OpLabel, "", "", blockLabel)
	c.enterRegion()
	c.block(s.Body)
	c.exitRegion()
	c.stream.Emit(ir.OpGoto, "", "", topLabel)
	c.stream.Emit(ir.OpLabel, "", "", exitLabel)
}

// cond emits a comparison and backpatches its branch target to label.
func (c *context) cond(cd *ast.Cond, label string) {
	l := c.expr(cd.Left)
	r := c.expr(cd.Right)
	if l == nil || r == nil {
		return
	}
	if l.typ != r.typ {
		c.report(ErrMismatchedType, cd.Pos, fmt.Sprintf("%v and %v do not support %v", l.typ, r.typ, cd.Op))
		return
	}
	if l.typ == TypeStruct || l.typ == TypeVoid {
		c.report(ErrUnsupportedOperation, cd.Pos, fmt.Sprintf("%v does not support %v", l.typ, cd.Op))
		return
	}
	c.stream.Emit(ir.Opcode(cd.Op), l.temp, r.temp, "")
	if err := c.stream.Backpatch(label); err != nil {
		panic(err)
	}
}

func (c *context) returnStmt(s *ast.ReturnStmt) {
	f := c.curFunc
	if f == nil {
		c.stream.Emit(ir.OpExit, "", "", "")
		return
	}

	raSlot := strconv.Itoa(f.RASlot)
	if s.Value == nil {
		if f.RetType != TypeVoid {
			c.report(ErrIncompatibleType, s.Pos, fmt.Sprintf("%v returns %v but the return has no value", f.Name, f.RetType))
			return
		}
		c.stream.Emit(ir.OpReturn, raSlot, "", "")
		return
	}

	op := c.expr(s.Value)
	if op == nil {
		return
	}
	if f.RetType == TypeVoid || op.typ != f.RetType {
		c.report(ErrIncompatibleType, s.Pos, fmt.Sprintf("%v returns %v but the value is %v", f.Name, f.RetType, op.typ))
		return
	}
	c.stream.Emit(ir.OpReturn, raSlot, "", op.temp)
}
