package grammar

type CompiledGrammar struct {
	Name      string         `json:"name"`
	Syntactic *SyntacticSpec `json:"syntactic"`
}

// SyntacticSpec is an LL(1) grammar and its analysis table.
//
// Terminals and non-terminals are numbered independently. Number 0 of both kinds is nil, terminal 1 is
// the end marker, and non-terminal 1 is the start symbol. RHSSymbols encodes a terminal t as t and
// a non-terminal n as -n.
type SyntacticSpec struct {
	Terminals        []string       `json:"terminals"`
	TerminalCount    int            `json:"terminal_count"`
	NonTerminals     []string       `json:"non_terminals"`
	NonTerminalCount int            `json:"non_terminal_count"`
	StartSymbol      int            `json:"start_symbol"`
	EOFSymbol        int            `json:"eof_symbol"`
	LHSSymbols       []int          `json:"lhs_symbols"`
	RHSSymbols       [][]int        `json:"rhs_symbols"`
	Table            *AnalysisTable `json:"table"`
}

// AnalysisTable is a row-displacement compressed table of NonTerminalCount rows and TerminalCount columns.
// An entry is 0 for an error, -1 for synch, and p+1 for production p.
type AnalysisTable struct {
	OriginalRowCount int   `json:"original_row_count"`
	OriginalColCount int   `json:"original_col_count"`
	EmptyValue       int   `json:"empty_value"`
	Entries          []int `json:"entries"`
	Bounds           []int `json:"bounds"`
	RowDisplacement  []int `json:"row_displacement"`
}

const (
	TableEntryError = 0
	TableEntrySynch = -1
)

// Lookup returns the entry of a cell.
func (t *AnalysisTable) Lookup(nonTerminal, terminal int) int {
	if nonTerminal < 0 || nonTerminal >= t.OriginalRowCount || terminal < 0 || terminal >= t.OriginalColCount {
		return t.EmptyValue
	}
	d := t.RowDisplacement[nonTerminal]
	if t.Bounds[d+terminal] != nonTerminal {
		return t.EmptyValue
	}
	return t.Entries[d+terminal]
}
