package grammar

import (
	"bytes"
	"testing"
)

func TestAnalysisTable_Lookup(t *testing.T) {
	tab := &AnalysisTable{
		OriginalRowCount: 2,
		OriginalColCount: 3,
		EmptyValue:       TableEntryError,
		Entries:          []int{0, 3, TableEntrySynch, 0},
		Bounds:           []int{-1, 1, 1, -1},
		RowDisplacement:  []int{0, 1},
	}
	tests := []struct {
		nonTerm int
		term    int
		entry   int
	}{
		{nonTerm: 1, term: 0, entry: 3},
		{nonTerm: 1, term: 1, entry: TableEntrySynch},
		{nonTerm: 1, term: 2, entry: TableEntryError},
		{nonTerm: 0, term: 0, entry: TableEntryError},
		{nonTerm: 2, term: 0, entry: TableEntryError},
		{nonTerm: 1, term: 3, entry: TableEntryError},
		{nonTerm: -1, term: 0, entry: TableEntryError},
	}
	for _, tt := range tests {
		if e := tab.Lookup(tt.nonTerm, tt.term); e != tt.entry {
			t.Errorf("unexpected entry of (%v, %v); want: %v, got: %v", tt.nonTerm, tt.term, tt.entry, e)
		}
	}
}

func TestWriteTableCSV(t *testing.T) {
	r := &Report{
		Terminals: []*Terminal{
			{Number: 1, Name: "$"},
			{Number: 2, Name: "a"},
			{Number: 3, Name: ","},
		},
		NonTerminals: []*NonTerminal{
			{Number: 1, Name: "s"},
			{Number: 2, Name: "t"},
		},
		Cells: []*Cell{
			{NonTerminal: 1, Terminal: 2, Productions: []int{0}},
			{NonTerminal: 1, Terminal: 1, Synch: true},
			{NonTerminal: 2, Terminal: 2, Productions: []int{1, 2}},
			{NonTerminal: 2, Terminal: 3, Productions: []int{3}, Synch: true},
		},
	}
	var b bytes.Buffer
	err := WriteTableCSV(&b, r)
	if err != nil {
		t.Fatal(err)
	}
	expected := `,a,",",$
s,0,,synch
t,1 2,3,
`
	if b.String() != expected {
		t.Fatalf("unexpected CSV;\nwant:\n%v\ngot:\n%v", expected, b.String())
	}
}

func TestReport_ProductionString(t *testing.T) {
	r := &Report{
		Terminals: []*Terminal{
			{Number: 1, Name: "$"},
			{Number: 2, Name: "id"},
		},
		NonTerminals: []*NonTerminal{
			{Number: 1, Name: "s"},
			{Number: 2, Name: "t"},
		},
	}
	tests := []struct {
		prod     *Production
		expected string
	}{
		{
			prod:     &Production{LHS: 1, RHS: []int{2, -2}},
			expected: "<s>->[id]<t>",
		},
		{
			prod:     &Production{LHS: 2},
			expected: "<t>->#",
		},
	}
	for _, tt := range tests {
		if s := r.ProductionString(tt.prod); s != tt.expected {
			t.Errorf("want: %v, got: %v", tt.expected, s)
		}
	}
	if c := (&Report{Cells: []*Cell{{NonTerminal: 1, Terminal: 2}}}).FindCell(1, 3); c != nil {
		t.Fatalf("an error entry must not be found: %+v", c)
	}
}
