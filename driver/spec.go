package driver

import spec "github.com/nihei9/lilac/spec/grammar"

type Grammar interface {
	// StartSymbol returns the non-terminal number of the start symbol.
	StartSymbol() int

	// EOF returns the terminal number of the end marker.
	EOF() int

	// Entry returns an entry of the analysis table: 0 for an error, -1 for synch, and p+1 for production p.
	Entry(nonTerminal int, terminal int) int

	// RHS returns the RHS of a production. A terminal t is encoded as t and a non-terminal n as -n.
	RHS(prod int) []int

	// TerminalCount returns the number of terminals including the nil and the end marker.
	TerminalCount() int

	Terminal(terminal int) string

	NonTerminal(nonTerminal int) string

	// TerminalNumber returns the number of a terminal name.
	TerminalNumber(name string) (int, bool)

	// NonTerminalNumber returns the number of a non-terminal name.
	NonTerminalNumber(name string) (int, bool)
}

var _ Grammar = &grammarImpl{}

type grammarImpl struct {
	g            *spec.CompiledGrammar
	terminals    map[string]int
	nonTerminals map[string]int
}

func NewGrammar(g *spec.CompiledGrammar) *grammarImpl {
	terms := map[string]int{}
	for i, name := range g.Syntactic.Terminals {
		if i == 0 {
			continue
		}
		terms[name] = i
	}
	nonTerms := map[string]int{}
	for i, name := range g.Syntactic.NonTerminals {
		if i == 0 {
			continue
		}
		nonTerms[name] = i
	}
	return &grammarImpl{
		g:            g,
		terminals:    terms,
		nonTerminals: nonTerms,
	}
}

func (g *grammarImpl) StartSymbol() int {
	return g.g.Syntactic.StartSymbol
}

func (g *grammarImpl) EOF() int {
	return g.g.Syntactic.EOFSymbol
}

func (g *grammarImpl) Entry(nonTerminal int, terminal int) int {
	return g.g.Syntactic.Table.Lookup(nonTerminal, terminal)
}

func (g *grammarImpl) RHS(prod int) []int {
	return g.g.Syntactic.RHSSymbols[prod]
}

func (g *grammarImpl) TerminalCount() int {
	return g.g.Syntactic.TerminalCount
}

func (g *grammarImpl) Terminal(terminal int) string {
	return g.g.Syntactic.Terminals[terminal]
}

func (g *grammarImpl) NonTerminal(nonTerminal int) string {
	return g.g.Syntactic.NonTerminals[nonTerminal]
}

func (g *grammarImpl) TerminalNumber(name string) (int, bool) {
	num, ok := g.terminals[name]
	return num, ok
}

func (g *grammarImpl) NonTerminalNumber(name string) (int, bool) {
	num, ok := g.nonTerminals[name]
	return num, ok
}
