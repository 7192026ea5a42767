package semantic

import (
	"fmt"
	"strconv"

	"github.com/nihei9/lilac/ast"
	"github.com/nihei9/lilac/ir"
)

// operand is the result of an expression. temp is the temporary holding the value at run time, and value
// is the value when it is known at compile time. A nil operand means the expression was erroneous and
// has been reported.
type operand struct {
	typ   Type
	temp  string
	value *int32
}

func (c *context) expr(e ast.Expr) *operand {
	switch e := e.(type) {
	case *ast.IntLit:
		return c.immediate(TypeInt, e.Value)
	case *ast.CharLit:
		return c.immediate(TypeChar, int32(e.Value))
	case *ast.BoolLit:
		return c.immediate(TypeBool, boolToInt(e.Value))
	case *ast.Ident:
		return c.ident(e)
	case *ast.FieldRef:
		return c.fieldRef(e)
	case *ast.CallExpr:
		return c.call(e, true)
	case *ast.BinaryExpr:
		return c.binary(e)
	}
	panic(fmt.Sprintf("unexpected expression: %T", e))
}

// check evaluates an expression without emitting instructions.
func (c *context) check(e ast.Expr) *operand {
	saved := c.stream
	c.stream = ir.NewStream()
	op := c.expr(e)
	c.stream = saved
	if op != nil {
		op.temp = ""
	}
	return op
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func (c *context) immediate(typ Type, v int32) *operand {
	t := c.stream.NewTemp()
	c.stream.Emit(ir.OpLoadImmediate, strconv.Itoa(int(v)), "", t)
	return &operand{
		typ:   typ,
		temp:  t,
		value: &v,
	}
}

func (c *context) ident(e *ast.Ident) *operand {
	v := c.scopes.lookupVar(e.Name)
	if v == nil {
		c.report(ErrUndefined, e.Pos, e.Name)
		return nil
	}
	if v.Type == TypeStruct {
		return &operand{
			typ: TypeStruct,
		}
	}
	if !v.Initialized {
		c.report(ErrUninitializedVar, e.Pos, e.Name)
		return nil
	}

	t := c.stream.NewTemp()
	c.stream.Emit(ir.OpLoadVar, strconv.Itoa(v.StackOffset), "", t)
	op := &operand{
		typ:  v.Type,
		temp: t,
	}
	if v.Value != nil {
		val := *v.Value
		op.value = &val
	}
	return op
}

// fieldRef reads the value stored in a struct field. The value must be known at compile time.
func (c *context) fieldRef(e *ast.FieldRef) *operand {
	name := fmt.Sprintf("%v.%v", e.Var, e.Field)
	v := c.scopes.lookupVar(e.Var)
	if v == nil {
		c.report(ErrUndefined, e.Pos, e.Var)
		return nil
	}
	if v.Type != TypeStruct || v.structType.field(e.Field) == nil {
		c.report(ErrUndefined, e.Pos, name)
		return nil
	}
	fv, ok := v.Fields[e.Field]
	if !ok {
		c.report(ErrUninitializedVar, e.Pos, name)
		return nil
	}
	if fv.Value == nil {
		c.report(ErrUnsupportedOperation, e.Pos, fmt.Sprintf("the value of %v is unknown at compile time", name))
		return nil
	}
	return c.immediate(fv.Type, *fv.Value)
}

// call lowers a call to a user-defined function: the arguments are stored in the parameter slots of the
// callee, then goto_save jumps to its body. With wantResult, the return value lands in a new temporary.
func (c *context) call(e *ast.CallExpr, wantResult bool) *operand {
	f, ok := c.funcs[e.Name]
	if !ok {
		c.report(ErrUndefinedFunc, e.Pos, e.Name)
		return nil
	}
	if f.Builtin {
		c.report(ErrUnsupportedOperation, e.Pos, fmt.Sprintf("built-in function %v has no body to call", e.Name))
		return nil
	}

	args := make([]*operand, len(e.Args))
	failed := false
	for i, a := range e.Args {
		args[i] = c.expr(a)
		if args[i] == nil {
			failed = true
		}
	}
	if failed {
		return nil
	}
	types := make([]Type, len(args))
	for i, a := range args {
		types[i] = a.typ
	}
	if !sameParams(types, f.Params) {
		c.report(ErrMismatchedParams, e.Pos, fmt.Sprintf("%v received (%v), expected (%v)", e.Name, typesString(types), typesString(f.Params)))
		return nil
	}

	if _, ok := c.called[f.Name]; !ok {
		c.called[f.Name] = struct{}{}
		c.calls = append(c.calls, &callSite{
			fn:  f,
			pos: e.Pos,
		})
	}

	for i, a := range args {
		c.stream.Emit(ir.OpAssign, a.temp, "", strconv.Itoa(f.ParamOffsets[i]))
	}
	c.forgetScalars()
	if wantResult && f.RetType != TypeVoid {
		t := c.stream.NewTemp()
		c.stream.Emit(ir.OpGotoSave, t, "", f.Label)
		return &operand{
			typ:  f.RetType,
			temp: t,
		}
	}
	c.stream.Emit(ir.OpGotoSave, "", "", f.Label)
	return &operand{
		typ: f.RetType,
	}
}

func (c *context) binary(e *ast.BinaryExpr) *operand {
	l := c.expr(e.Left)
	r := c.expr(e.Right)
	if l == nil || r == nil {
		return nil
	}
	if l.typ != r.typ {
		c.report(ErrMismatchedType, e.Pos, fmt.Sprintf("%v and %v do not support %v", l.typ, r.typ, e.Op))
		return nil
	}
	switch l.typ {
	case TypeStruct, TypeVoid:
		c.report(ErrUnsupportedOperation, e.Pos, fmt.Sprintf("%v does not support %v", l.typ, e.Op))
		return nil
	case TypeBool:
		switch e.Op {
		case "+", "-", "*", "/":
			c.report(ErrUnsupportedOperation, e.Pos, fmt.Sprintf("%v does not support %v", l.typ, e.Op))
			return nil
		}
	}

	typ := l.typ
	if e.Op == "&&" || e.Op == "||" {
		typ = TypeBool
	}
	t := c.stream.NewTemp()
	c.stream.Emit(ir.Opcode(e.Op), l.temp, r.temp, t)
	return &operand{
		typ:   typ,
		temp:  t,
		value: fold(e.Op, l.value, r.value),
	}
}

// fold computes a binary operation on values known at compile time. Arithmetic wraps around as int32, and
// a division by zero is left to run time.
func fold(op string, l, r *int32) *int32 {
	if l == nil || r == nil {
		return nil
	}
	var v int32
	switch op {
	case "+":
		v = *l + *r
	case "-":
		v = *l - *r
	case "*":
		v = *l * *r
	case "/":
		if *r == 0 {
			return nil
		}
		v = *l / *r
	case "&":
		v = *l & *r
	case "|":
		v = *l | *r
	case "&&":
		v = boolToInt(*l != 0 && *r != 0)
	case "||":
		v = boolToInt(*l != 0 || *r != 0)
	default:
		return nil
	}
	return &v
}
