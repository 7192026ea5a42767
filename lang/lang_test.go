package lang

import (
	"strings"
	"testing"

	"github.com/nihei9/lilac/driver/lexer"
	"github.com/nihei9/lilac/grammar"
	"github.com/nihei9/lilac/spec/grammar/parser"
)

func TestGrammar_ConflictFree(t *testing.T) {
	ast, err := parser.Parse(strings.NewReader(Grammar))
	if err != nil {
		t.Fatal(err)
	}
	b := grammar.GrammarBuilder{
		AST: ast,
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	_, report, err := grammar.Compile(g, grammar.EnableReporting())
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Conflicts) > 0 {
		for _, c := range report.Conflicts {
			t.Errorf("conflict: %v meets %v: %v", report.NonTerminals[c.NonTerminal-1].Name, report.TerminalName(c.Terminal), c.Productions)
		}
		t.FailNow()
	}
	for _, c := range report.Cells {
		if len(c.Productions) > 1 {
			t.Fatalf("a cell holds more than one production: %+v", c)
		}
	}

	// Every terminal of the grammar must be reachable from the lexical specification.
	terms := map[string]struct{}{}
	for _, term := range KindToTerminal {
		terms[term] = struct{}{}
	}
	for _, term := range report.Terminals {
		if term.Name == "$" {
			continue
		}
		if _, ok := terms[term.Name]; !ok {
			t.Fatalf("no lexical kind produces a terminal: %v", term.Name)
		}
	}
}

func TestLexSpec(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		kinds   []string
	}{
		{
			caption: "keywords win over identifiers of the same length",
			src:     "int integer if iffy",
			kinds:   []string{"kw_int", "id", "kw_if", "id"},
		},
		{
			caption: "the longest operator wins",
			src:     "a==b<=c=d&&e||f&g|h",
			kinds:   []string{"id", "eq", "id", "le", "id", "assign", "id", "and_and", "id", "or_or", "id", "amp", "id", "pipe", "id"},
		},
		{
			caption: "comments are skipped",
			src:     "x = 1; // comment\n/* block\n * comment */ y",
			kinds:   []string{"id", "assign", "num", "semicolon", "id"},
		},
		{
			caption: "character literals",
			src:     `'a' '\n' '\''`,
			kinds:   []string{"character", "character", "character"},
		},
		{
			caption: "struct field access",
			src:     "p.x",
			kinds:   []string{"id", "dot", "id"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			s, err := LexSpec()
			if err != nil {
				t.Fatal(err)
			}
			l, err := lexer.NewLexer(s, strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			var kinds []string
			for {
				tok, err := l.Next()
				if err != nil {
					t.Fatal(err)
				}
				if tok.EOF {
					break
				}
				if tok.Invalid {
					t.Fatalf("unexpected invalid token: %#v", tok.Text())
				}
				kinds = append(kinds, tok.Kind)
			}
			if strings.Join(kinds, " ") != strings.Join(tt.kinds, " ") {
				t.Fatalf("unexpected kinds; want: %v, got: %v", tt.kinds, kinds)
			}
		})
	}
}

func TestParseProgram(t *testing.T) {
	src := `
struct point { int x; int y; };
int add(int a, int b) {
    return a + b;
}
int main() {
    struct point p;
    int x = 1, y;
    get(y);
    while (x < 10) {
        x = x + add(x, y);
    }
    if (x == 10) {
        put(x);
    } else {
        p.x = 3;
    }
    return 0;
}
`
	p, err := NewParser(nil, strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	if p.HadError() {
		for _, synErr := range p.SyntaxErrors() {
			t.Errorf("%v:%v: %v", synErr.Row+1, synErr.Col+1, synErr)
		}
		t.FailNow()
	}
}

func TestNewParser_NestedDefinitionHint(t *testing.T) {
	src := `
int main() {
    int f() { return 1; }
}
`
	p, err := NewParser(nil, strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	if !p.HadError() {
		t.Fatal("a nested definition must be a syntax error")
	}
	synErr := p.SyntaxErrors()[0]
	if !strings.Contains(synErr.Message, "nested function definitions are not allowed") {
		t.Fatalf("unexpected message: %v", synErr.Message)
	}
	if synErr.Row != 2 || synErr.Col != 9 {
		t.Fatalf("unexpected position: %v:%v", synErr.Row, synErr.Col)
	}
}
