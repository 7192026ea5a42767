package grammar

import (
	"fmt"
	"strings"
)

type Terminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type NonTerminal struct {
	Number   int    `json:"number"`
	Name     string `json:"name"`
	Nullable bool   `json:"nullable"`
	First    []int  `json:"first"`
	Follow   []int  `json:"follow"`
}

// Production describes a production. RHS uses the same encoding as SyntacticSpec.RHSSymbols.
type Production struct {
	Number    int   `json:"number"`
	LHS       int   `json:"lhs"`
	RHS       []int `json:"rhs"`
	FirstStar []int `json:"first_star"`
}

// Cell is a non-error cell of the analysis table. Productions holds every production the cell received.
type Cell struct {
	NonTerminal int   `json:"non_terminal"`
	Terminal    int   `json:"terminal"`
	Productions []int `json:"productions"`
	Synch       bool  `json:"synch"`
}

// Conflict is a cell holding two or more productions. A parser adopts the production with the lowest number.
type Conflict struct {
	NonTerminal       int   `json:"non_terminal"`
	Terminal          int   `json:"terminal"`
	Productions       []int `json:"productions"`
	AdoptedProduction int   `json:"adopted_production"`
}

type Report struct {
	Terminals    []*Terminal    `json:"terminals"`
	NonTerminals []*NonTerminal `json:"non_terminals"`
	Productions  []*Production  `json:"productions"`
	Cells        []*Cell        `json:"cells"`
	Conflicts    []*Conflict    `json:"conflicts"`
}

// SymbolString returns a symbol in the grammar description notation: `[t]` or `<N>`.
func (r *Report) SymbolString(sym int) string {
	if sym < 0 {
		return fmt.Sprintf("<%v>", r.NonTerminals[-sym-1].Name)
	}
	return fmt.Sprintf("[%v]", r.Terminals[sym-1].Name)
}

// ProductionString returns a production in the grammar description notation. The empty production
// shows `#` as its RHS.
func (r *Report) ProductionString(prod *Production) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v->", r.SymbolString(-prod.LHS))
	if len(prod.RHS) == 0 {
		fmt.Fprintf(&b, "#")
	}
	for _, sym := range prod.RHS {
		fmt.Fprintf(&b, "%v", r.SymbolString(sym))
	}
	return b.String()
}

// TerminalName returns the name of a terminal number.
func (r *Report) TerminalName(term int) string {
	return r.Terminals[term-1].Name
}

// FindCell returns a cell of the analysis table, or nil when the cell is an error entry.
func (r *Report) FindCell(nonTerminal, terminal int) *Cell {
	for _, c := range r.Cells {
		if c.NonTerminal == nonTerminal && c.Terminal == terminal {
			return c
		}
	}
	return nil
}
