package semantic

import (
	"github.com/nihei9/lilac/ast"
)

// valueKey names a variable, or a field of a struct variable when field is not empty.
type valueKey struct {
	v     *Variable
	field string
}

// A region is a branch or a loop body. It runs any number of times, so a value assigned inside it is
// unknown once the region is left.
func (c *context) enterRegion() {
	c.regions = append(c.regions, map[valueKey]struct{}{})
}

func (c *context) exitRegion() {
	r := c.regions[len(c.regions)-1]
	c.regions = c.regions[:len(c.regions)-1]
	for k := range r {
		c.forget(k)
	}
}

// assigned records a store into a variable or a field in the innermost region.
func (c *context) assigned(k valueKey) {
	if len(c.regions) == 0 {
		return
	}
	c.regions[len(c.regions)-1][k] = struct{}{}
}

func (c *context) forget(k valueKey) {
	if k.field == "" {
		k.v.Value = nil
		return
	}
	if fv, ok := k.v.Fields[k.field]; ok {
		fv.Value = nil
	}
}

// forgetScalars drops the value of every non-struct variable. A callee may store into any global.
func (c *context) forgetScalars() {
	for _, v := range c.vars {
		if v.Type != TypeStruct {
			v.Value = nil
		}
	}
}

// forgetLoopEffects drops the values a loop may change. The condition and the body also run after
// earlier iterations, so they cannot rely on the values before the loop.
func (c *context) forgetLoopEffects(s *ast.WhileStmt) {
	e := &effects{}
	e.cond(s.Cond)
	e.block(s.Body)
	if e.calls {
		c.forgetScalars()
	}
	for _, t := range e.targets {
		v := c.scopes.lookupVar(t.name)
		if v == nil {
			continue
		}
		c.forget(valueKey{
			v:     v,
			field: t.field,
		})
	}
}

// hideValues drops every value known outside a function body and returns a function restoring them.
// A body runs when it is called, not where it is defined.
func (c *context) hideValues() func() {
	vars := append([]*Variable{}, c.vars...)
	values := make([]*int32, len(vars))
	fields := make([]map[string]*FieldValue, len(vars))
	for i, v := range vars {
		values[i] = v.Value
		v.Value = nil
		if v.Fields == nil {
			continue
		}
		fields[i] = v.Fields
		hidden := make(map[string]*FieldValue, len(v.Fields))
		for name, fv := range v.Fields {
			hidden[name] = &FieldValue{
				Type: fv.Type,
			}
		}
		v.Fields = hidden
	}
	return func() {
		for i, v := range vars {
			v.Value = values[i]
			if fields[i] != nil {
				v.Fields = fields[i]
			}
		}
	}
}

type target struct {
	name  string
	field string
}

// effects collects the stores a piece of code makes and whether it calls a function.
type effects struct {
	targets []*target
	calls   bool
}

func (e *effects) block(b *ast.Block) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		e.stmt(s)
	}
}

func (e *effects) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.VarDecl:
		for _, d := range s.Vars {
			if d.Init != nil {
				e.expr(d.Init)
			}
		}
	case *ast.AssignStmt:
		e.targets = append(e.targets, &target{
			name:  s.Target,
			field: s.Field,
		})
		e.expr(s.Value)
	case *ast.CallStmt:
		e.expr(s.Call)
	case *ast.IOStmt:
		for _, arg := range s.Args {
			if id, ok := arg.(*ast.Ident); ok && s.Func == ast.IOGet {
				e.targets = append(e.targets, &target{
					name: id.Name,
				})
			}
			e.expr(arg)
		}
	case *ast.IfStmt:
		e.cond(s.Cond)
		e.block(s.Then)
		e.block(s.Else)
	case *ast.WhileStmt:
		e.cond(s.Cond)
		e.block(s.Body)
	case *ast.ReturnStmt:
		if s.Value != nil {
			e.expr(s.Value)
		}
	}
}

func (e *effects) cond(cd *ast.Cond) {
	e.expr(cd.Left)
	e.expr(cd.Right)
}

func (e *effects) expr(x ast.Expr) {
	switch x := x.(type) {
	case *ast.CallExpr:
		e.calls = true
		for _, arg := range x.Args {
			e.expr(arg)
		}
	case *ast.BinaryExpr:
		e.expr(x.Left)
		e.expr(x.Right)
	}
}
