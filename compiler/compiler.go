// Package compiler runs the whole pipeline: parsing, analysis, and MIPS code generation.
package compiler

import (
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/nihei9/lilac/ast"
	"github.com/nihei9/lilac/codegen"
	"github.com/nihei9/lilac/driver"
	verr "github.com/nihei9/lilac/error"
	"github.com/nihei9/lilac/ir"
	"github.com/nihei9/lilac/lang"
	"github.com/nihei9/lilac/semantic"
)

// Config overrides parts of the language. Zero values select the embedded defaults.
type Config struct {
	// Grammar is a grammar description that replaces the language grammar.
	Grammar string

	// StdLib is a list of built-in function signatures that replaces the standard library.
	StdLib string

	// Registers is the number of temporary registers available to the code generator.
	Registers int
}

// Compiler holds what is shared by every compilation: the grammar and the standard library.
type Compiler struct {
	gram     driver.Grammar
	analyzer *semantic.Analyzer
	genOpts  []codegen.GenerateOption
}

func New(cfg *Config) (*Compiler, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	var gram driver.Grammar
	if cfg.Grammar == "" {
		g, err := lang.LoadGrammar()
		if err != nil {
			return nil, err
		}
		gram = g
	} else {
		cg, report, err := lang.CompileGrammar("custom", cfg.Grammar)
		if err != nil {
			return nil, err
		}
		if report != nil {
			log.WithField("conflicts", len(report.Conflicts)).Warn("the grammar is not LL(1); the lowest production wins each conflict")
		}
		gram = driver.NewGrammar(cg)
	}
	log.WithFields(log.Fields{
		"terminals":     gram.TerminalCount(),
		"start":         gram.NonTerminal(gram.StartSymbol()),
		"user-supplied": cfg.Grammar != "",
	}).Debug("grammar loaded")

	stdlibSrc := cfg.StdLib
	if stdlibSrc == "" {
		stdlibSrc = lang.StdLib
	}
	stdlib, err := semantic.ParseStdLib(stdlibSrc)
	if err != nil {
		return nil, err
	}

	c := &Compiler{
		gram:     gram,
		analyzer: semantic.NewAnalyzer(stdlib),
	}
	if cfg.Registers != 0 {
		c.genOpts = append(c.genOpts, codegen.Registers(cfg.Registers))
	}
	return c, nil
}

// Result is the output of every stage that ran. A stage runs only when the previous ones reported nothing.
type Result struct {
	Tree          *driver.Node
	AST           *ast.Program
	SyntaxErrors  []*driver.SyntaxError
	UnexpectedEOF bool
	LiteralError  *ast.BuildError
	Diagnostics   []*semantic.Diagnostic
	Instructions  []*ir.Instruction
	Variables     []*semantic.Variable
	Functions     []*semantic.Function
	Structs       []*semantic.StructType
	Assembly      string
}

// Failed reports whether the source has any error.
func (r *Result) Failed() bool {
	return len(r.SyntaxErrors) > 0 || r.UnexpectedEOF || r.LiteralError != nil || len(r.Diagnostics) > 0
}

// Errors converts the syntax errors and the diagnostics to positioned errors that echo the source line.
func (r *Result) Errors(sourceName string, src []byte) verr.SpecErrors {
	var errs verr.SpecErrors
	for _, e := range r.SyntaxErrors {
		errs = append(errs, &verr.SpecError{
			Cause:      e,
			SourceName: sourceName,
			Source:     src,
			Row:        e.Row + 1,
			Col:        e.Col + 1,
		})
	}
	if r.UnexpectedEOF && len(r.SyntaxErrors) == 0 {
		errs = append(errs, &verr.SpecError{
			Cause:      driver.ErrUnexpectedEOF,
			SourceName: sourceName,
		})
	}
	if e := r.LiteralError; e != nil {
		errs = append(errs, &verr.SpecError{
			Cause:      e.Cause,
			Detail:     e.Detail,
			SourceName: sourceName,
			Source:     src,
			Row:        e.Row,
			Col:        e.Col,
		})
	}
	for _, d := range r.Diagnostics {
		errs = append(errs, &verr.SpecError{
			Cause:      d.Cause,
			Detail:     d.Detail,
			SourceName: sourceName,
			Source:     src,
			Row:        d.Row,
			Col:        d.Col,
		})
	}
	return errs
}

// Compile compiles one program. Problems in the program are reported in the result; the error is
// reserved for failures that stop the pipeline itself.
func (c *Compiler) Compile(src io.Reader) (*Result, error) {
	p, err := lang.NewParser(c.gram, src)
	if err != nil {
		return nil, err
	}
	res := &Result{}
	err = p.Parse()
	res.Tree = p.Tree()
	res.SyntaxErrors = p.SyntaxErrors()
	if err != nil {
		if !errors.Is(err, driver.ErrUnexpectedEOF) {
			return nil, err
		}
		res.UnexpectedEOF = true
	}
	log.WithFields(log.Fields{
		"syntax-errors":  len(res.SyntaxErrors),
		"unexpected-eof": res.UnexpectedEOF,
	}).Debug("parse finished")
	if res.Failed() {
		return res, nil
	}

	prog, err := ast.Build(res.Tree)
	if err != nil {
		var buildErr *ast.BuildError
		if errors.As(err, &buildErr) && !errors.Is(err, ast.ErrMalformedTree) {
			res.LiteralError = buildErr
			return res, nil
		}
		return nil, fmt.Errorf("the parse tree does not fit the language; is the grammar compatible? %w", err)
	}
	res.AST = prog

	sem := c.analyzer.Analyze(prog)
	res.Diagnostics = sem.Diagnostics
	res.Instructions = sem.Instructions
	res.Variables = sem.Variables
	res.Functions = sem.Functions
	res.Structs = sem.Structs
	log.WithFields(log.Fields{
		"instructions": len(res.Instructions),
		"diagnostics":  len(res.Diagnostics),
	}).Debug("analysis finished")
	if res.Failed() {
		return res, nil
	}

	asm, err := codegen.Generate(res.Instructions, c.genOpts...)
	if err != nil {
		return nil, err
	}
	res.Assembly = asm
	log.WithField("bytes", len(asm)).Debug("code emitted")

	return res, nil
}
