package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/sanity-io/litter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nihei9/lilac/ast"
	"github.com/nihei9/lilac/driver"
	verr "github.com/nihei9/lilac/error"
	"github.com/nihei9/lilac/lang"
)

var parseFlags = struct {
	trace *bool
	ast   *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse [source file path]",
		Short:   "Parse a program and print its parse tree",
		Example: `  cat prog.c | lilac parse --trace`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runParse,
	}
	parseFlags.trace = cmd.Flags().Bool("trace", false, "log every step of the parser")
	parseFlags.ast = cmd.Flags().Bool("ast", false, "print the abstract syntax tree instead of the parse tree")
	rootCmd.AddCommand(cmd)
}

// traceActionSet logs the steps of a parser.
type traceActionSet struct {
	driver.NopActionSet
}

func (traceActionSet) Expand(nonTerminal string, prodNum int) {
	log.WithFields(log.Fields{
		"non-terminal": nonTerminal,
		"production":   prodNum,
	}).Debug("expand")
}

func (traceActionSet) Match(terminal string, tok driver.VToken) {
	row, col := tok.Position()
	log.WithFields(log.Fields{
		"terminal": terminal,
		"lexeme":   string(tok.Lexeme()),
		"pos":      fmt.Sprintf("%v:%v", row+1, col+1),
	}).Debug("match")
}

func (traceActionSet) Skip(nonTerminal string, tok driver.VToken) {
	log.WithFields(log.Fields{
		"non-terminal": nonTerminal,
		"lexeme":       string(tok.Lexeme()),
	}).Debug("skip a token")
}

func (traceActionSet) Discard(symbol string, tok driver.VToken, synch bool) {
	log.WithFields(log.Fields{
		"symbol": symbol,
		"lexeme": string(tok.Lexeme()),
		"synch":  synch,
	}).Debug("discard a symbol")
}

func loadGrammar() (driver.Grammar, error) {
	if *rootFlags.grammar == "" {
		return lang.LoadGrammar()
	}
	name, src, err := readGrammarSource()
	if err != nil {
		return nil, err
	}
	cg, report, err := lang.CompileGrammar(name, src)
	if err != nil {
		if specErrs, ok := err.(verr.SpecErrors); ok {
			attachFilePath(specErrs, name)
		}
		return nil, err
	}
	if report != nil {
		log.WithField("conflicts", len(report.Conflicts)).Warn("the grammar is not LL(1); the lowest production wins each conflict")
	}
	return driver.NewGrammar(cg), nil
}

func runParse(cmd *cobra.Command, args []string) error {
	name, src, err := readSource(args)
	if err != nil {
		return err
	}

	gram, err := loadGrammar()
	if err != nil {
		return err
	}

	var opts []driver.ParserOption
	if *parseFlags.trace {
		log.SetLevel(log.DebugLevel)
		opts = append(opts, driver.SemanticAction(traceActionSet{}))
	}
	p, err := lang.NewParser(gram, bytes.NewReader(src), opts...)
	if err != nil {
		return err
	}

	parseErr := p.Parse()
	if parseErr != nil && !errors.Is(parseErr, driver.ErrUnexpectedEOF) {
		return parseErr
	}

	synErrs := p.SyntaxErrors()
	for _, synErr := range synErrs {
		fmt.Fprintf(os.Stderr, "%v\n", &verr.SpecError{
			Cause:      synErr,
			SourceName: name,
			Source:     src,
			Row:        synErr.Row + 1,
			Col:        synErr.Col + 1,
		})
	}
	if parseErr != nil {
		return fmt.Errorf("%v: %w", name, parseErr)
	}

	if *parseFlags.ast {
		if len(synErrs) > 0 {
			return fmt.Errorf("%v: %v syntax error(s)", name, len(synErrs))
		}
		prog, err := ast.Build(p.Tree())
		if err != nil {
			return err
		}
		litter.Config.HidePrivateFields = true
		fmt.Fprintln(os.Stdout, litter.Sdump(prog))
		return nil
	}

	if colored() {
		driver.PrintColoredTree(os.Stdout, p.Tree())
	} else {
		driver.PrintTree(os.Stdout, p.Tree())
	}
	if len(synErrs) > 0 {
		return fmt.Errorf("%v: %v syntax error(s)", name, len(synErrs))
	}
	return nil
}
