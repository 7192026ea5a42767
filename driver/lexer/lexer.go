package lexer

import (
	"fmt"
	"io"
	"strings"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

// Entry is one lexical kind. Entries listed earlier win when two kinds match lexemes of the same length.
type Entry struct {
	Kind    string
	Pattern string
}

// Spec is a compiled lexical specification.
type Spec struct {
	compiled  *mlspec.CompiledLexSpec
	kindNames []string
	skip      []bool
}

// Compile compiles entries into a DFA. name identifies the specification and must be a snake_case identifier.
// Tokens of a kind listed in skipKinds never reach a caller of Lexer.Next.
func Compile(name string, entries []*Entry, skipKinds ...string) (*Spec, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("a lexical specification needs at least one entry")
	}

	lexSpec := &mlspec.LexSpec{
		Name:    name,
		Entries: make([]*mlspec.LexEntry, len(entries)),
	}
	for i, e := range entries {
		lexSpec.Entries[i] = &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(e.Kind),
			Pattern: mlspec.LexPattern(e.Pattern),
		}
	}

	clspec, err, cErrs := mlcompiler.Compile(lexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr)
			}
			return nil, fmt.Errorf("%v", b.String())
		}
		return nil, err
	}

	kindNames := make([]string, len(clspec.KindNames))
	for i, k := range clspec.KindNames {
		kindNames[i] = k.String()
	}

	skip := make([]bool, len(kindNames))
	for _, sk := range skipKinds {
		found := false
		for i, k := range kindNames {
			if k != sk {
				continue
			}
			skip[i] = true
			found = true
		}
		if !found {
			return nil, fmt.Errorf("a skip kind was not found in a lexical specification: %v", sk)
		}
	}

	return &Spec{
		compiled:  clspec,
		kindNames: kindNames,
		skip:      skip,
	}, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}

// KindNames returns kind names indexed by kind ID. The name at index 0 is empty.
func (s *Spec) KindNames() []string {
	return s.kindNames
}

// Token represents a token. Row and Col are 0-based, and Col is counted in code points.
type Token struct {
	Kind    string
	Lexeme  []byte
	Row     int
	Col     int
	EOF     bool
	Invalid bool
}

func (t *Token) Text() string {
	return string(t.Lexeme)
}

type Lexer struct {
	spec *Spec
	d    *mldriver.Lexer
}

func NewLexer(s *Spec, src io.Reader) (*Lexer, error) {
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(s.compiled), src)
	if err != nil {
		return nil, err
	}

	return &Lexer{
		spec: s,
		d:    d,
	}, nil
}

// Next returns the next token that is not of a skip kind. Once the lexer reaches the end of the input,
// it keeps returning the EOF token.
func (l *Lexer) Next() (*Token, error) {
	for {
		tok, err := l.d.Next()
		if err != nil {
			return nil, err
		}

		kindID := int(tok.KindID)
		if !tok.EOF && !tok.Invalid && kindID > 0 && kindID < len(l.spec.skip) && l.spec.skip[kindID] {
			continue
		}

		var kind string
		if !tok.EOF && !tok.Invalid && kindID > 0 && kindID < len(l.spec.kindNames) {
			kind = l.spec.kindNames[kindID]
		}

		return &Token{
			Kind:    kind,
			Lexeme:  tok.Lexeme,
			Row:     tok.Row,
			Col:     tok.Col,
			EOF:     tok.EOF,
			Invalid: tok.Invalid,
		}, nil
	}
}

var rep = strings.NewReplacer(
	`.`, `\.`,
	`*`, `\*`,
	`+`, `\+`,
	`?`, `\?`,
	`|`, `\|`,
	`(`, `\(`,
	`)`, `\)`,
	`[`, `\[`,
	`]`, `\]`,
	`\`, `\\`,
)

// EscapePattern escapes the special characters so that a pattern matches s literally.
// For example, EscapePattern(`||`) returns `\|\|`.
func EscapePattern(s string) string {
	return rep.Replace(s)
}
