package grammar

import (
	"errors"
	"strings"
	"testing"

	verr "github.com/nihei9/lilac/error"
	spec "github.com/nihei9/lilac/spec/grammar"
	"github.com/nihei9/lilac/spec/grammar/parser"
)

func TestGrammarBuilder_Build_Error(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		errs    []*SemanticError
	}{
		{
			caption: "an undefined non-terminal",
			src: `
<s>-><a>[x]
`,
			errs: []*SemanticError{semErrUndefinedSym},
		},
		{
			caption: "the end marker is reserved",
			src: `
<s>->[a][$]
`,
			errs: []*SemanticError{semErrReservedEOF},
		},
		{
			caption: "a duplicate production",
			src: `
<s>->[a]<b>
<b>->#
<s>->[a]<b>
`,
			errs: []*SemanticError{semErrDuplicateProduction},
		},
		{
			caption: "a non-terminal the start symbol never derives",
			src: `
<s>->[a]
<t>->[b]
`,
			errs: []*SemanticError{semErrUnusedProduction},
		},
		{
			caption: "a terminal named after a non-terminal",
			src: `
<s>-><a>[a]
<a>->[b]
`,
			errs: []*SemanticError{semErrDuplicateName},
		},
		{
			caption: "every error is reported",
			src: `
<s>-><a><b>
`,
			errs: []*SemanticError{semErrUndefinedSym, semErrUndefinedSym},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			ast, err := parser.Parse(strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			b := GrammarBuilder{
				AST: ast,
			}
			_, err = b.Build()
			var specErrs verr.SpecErrors
			if !errors.As(err, &specErrs) {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(specErrs) != len(tt.errs) {
				t.Fatalf("unexpected error count; want: %v, got: %v", len(tt.errs), specErrs)
			}
			for i, e := range specErrs {
				if e.Cause != tt.errs[i] {
					t.Fatalf("unexpected error; want: %v, got: %v", tt.errs[i], e.Cause)
				}
				if e.Row == 0 {
					t.Fatalf("an error must have a position: %v", e)
				}
			}
		})
	}
}

func TestCompile(t *testing.T) {
	gram := buildTestGrammar(t, exprGrammar)
	cg, report, err := Compile(gram, EnableReporting())
	if err != nil {
		t.Fatal(err)
	}
	if report == nil {
		t.Fatal("a report must be generated")
	}
	if len(report.Conflicts) != 0 {
		t.Fatalf("an expression grammar must not have conflicts: %v", report.Conflicts)
	}

	synt := cg.Syntactic
	if synt.Terminals[synt.EOFSymbol] != SymbolNameEOF {
		t.Fatalf("unexpected end marker: %v", synt.Terminals[synt.EOFSymbol])
	}
	if synt.NonTerminals[synt.StartSymbol] != "expr" {
		t.Fatalf("the LHS of the first production must be the start symbol; got: %v", synt.NonTerminals[synt.StartSymbol])
	}
	if len(synt.LHSSymbols) != 8 || len(synt.RHSSymbols) != 8 {
		t.Fatalf("unexpected production count: %v", len(synt.LHSSymbols))
	}
	if len(synt.RHSSymbols[2]) != 0 {
		t.Fatalf("the empty production must have an empty RHS: %v", synt.RHSSymbols[2])
	}

	// The compressed table agrees with the report on every cell.
	for nt := 1; nt < synt.NonTerminalCount; nt++ {
		for term := 1; term < synt.TerminalCount; term++ {
			entry := synt.Table.Lookup(nt, term)
			c := report.FindCell(nt, term)
			switch {
			case c == nil:
				if entry != spec.TableEntryError {
					t.Fatalf("[%v, %v] must be an error entry; got: %v", nt, term, entry)
				}
			case len(c.Productions) > 0:
				if entry != c.Productions[0]+1 {
					t.Fatalf("[%v, %v] must hold production %v; got: %v", nt, term, c.Productions[0], entry)
				}
			default:
				if entry != spec.TableEntrySynch {
					t.Fatalf("[%v, %v] must be synch; got: %v", nt, term, entry)
				}
			}
		}
	}

	nullable := map[string]bool{}
	for _, nt := range report.NonTerminals {
		nullable[nt.Name] = nt.Nullable
	}
	if !nullable["expr_tail"] || !nullable["term_tail"] || nullable["expr"] {
		t.Fatalf("unexpected NULLABLE: %v", nullable)
	}
	if s := report.ProductionString(report.Productions[2]); s != "<expr_tail>->#" {
		t.Fatalf("unexpected production string: %v", s)
	}
	if s := report.ProductionString(report.Productions[6]); s != "<factor>->[(]<expr>[)]" {
		t.Fatalf("unexpected production string: %v", s)
	}
}

func TestCompile_Conflict(t *testing.T) {
	gram := buildTestGrammar(t, `
<s>->[a][b]
<s>->[a][c]
`)
	cg, report, err := Compile(gram)
	if err != nil {
		t.Fatal(err)
	}
	if report == nil || len(report.Conflicts) != 1 {
		t.Fatalf("a conflict must be reported even without EnableReporting")
	}
	con := report.Conflicts[0]
	if con.AdoptedProduction != 0 {
		t.Fatalf("the lowest production must be adopted; got: %v", con.AdoptedProduction)
	}
	if entry := cg.Syntactic.Table.Lookup(con.NonTerminal, con.Terminal); entry != 1 {
		t.Fatalf("the table must hold the adopted production; got: %v", entry)
	}
}

func TestWriteTableCSV(t *testing.T) {
	gram := buildTestGrammar(t, `
<s>-><a>
<a>->[id]<a>
<a>->#
`)
	_, report, err := Compile(gram, EnableReporting())
	if err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	if err := spec.WriteTableCSV(&b, report); err != nil {
		t.Fatal(err)
	}
	expected := ",id,$\ns,0,0\na,1,2\n"
	if b.String() != expected {
		t.Fatalf("unexpected CSV; want: %q, got: %q", expected, b.String())
	}
}
