package compressor

import (
	"fmt"
	"testing"
)

func TestRowDisplacementTable_Compress(t *testing.T) {
	x := 0 // an empty value
	s := -1

	tests := []struct {
		original []int
		rowCount int
		colCount int
	}{
		{
			original: []int{
				1, 1, 1, 1, 1,
				1, 1, 1, 1, 1,
				1, 1, 1, 1, 1,
			},
			rowCount: 3,
			colCount: 5,
		},
		{
			original: []int{
				x, x, x, x, x,
				x, x, x, x, x,
				x, x, x, x, x,
			},
			rowCount: 3,
			colCount: 5,
		},
		{
			original: []int{
				1, 1, 1, 1, 1,
				x, x, x, x, x,
				1, 1, 1, 1, 1,
			},
			rowCount: 3,
			colCount: 5,
		},
		{
			original: []int{
				1, x, 1, 1, 1,
				1, 1, x, 1, 1,
				1, 1, 1, x, 1,
			},
			rowCount: 3,
			colCount: 5,
		},
		{
			// an analysis table with synch entries
			original: []int{
				x, 2, x, 2, s, s,
				4, x, 3, x, x, x,
				s, 6, s, 5, s, s,
				x, x, x, x, 7, x,
			},
			rowCount: 4,
			colCount: 6,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			orig, err := NewOriginalTable(tt.original, tt.colCount)
			if err != nil {
				t.Fatal(err)
			}
			tab := NewRowDisplacementTable(x)
			err = tab.Compress(orig)
			if err != nil {
				t.Fatal(err)
			}
			rowCount, colCount := tab.OriginalTableSize()
			if rowCount != tt.rowCount || colCount != tt.colCount {
				t.Fatalf("unexpected table size; want: %vx%v, got: %vx%v", tt.rowCount, tt.colCount, rowCount, colCount)
			}
			for row := 0; row < tt.rowCount; row++ {
				for col := 0; col < tt.colCount; col++ {
					v, err := tab.Lookup(row, col)
					if err != nil {
						t.Fatal(err)
					}
					expected := tt.original[row*tt.colCount+col]
					if v != expected {
						t.Fatalf("unexpected entry (%v, %v); want: %v, got: %v", row, col, expected, v)
					}
				}
			}
			if len(tab.Entries) > len(tt.original)+tt.colCount {
				t.Fatalf("a compressed table must not exceed the original size; got: %v", len(tab.Entries))
			}
		})
	}
}

func TestRowDisplacementTable_Lookup_OutOfRange(t *testing.T) {
	orig, err := NewOriginalTable([]int{1, 0, 0, 1}, 2)
	if err != nil {
		t.Fatal(err)
	}
	tab := NewRowDisplacementTable(0)
	if err := tab.Compress(orig); err != nil {
		t.Fatal(err)
	}
	if _, err := tab.Lookup(2, 0); err == nil {
		t.Fatal("an out-of-range lookup must fail")
	}
}

func TestNewOriginalTable(t *testing.T) {
	tests := []struct {
		caption  string
		entries  []int
		colCount int
	}{
		{caption: "empty entries", entries: nil, colCount: 1},
		{caption: "no columns", entries: []int{1}, colCount: 0},
		{caption: "a partial row", entries: []int{1, 2, 3}, colCount: 2},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := NewOriginalTable(tt.entries, tt.colCount)
			if err == nil {
				t.Fatal("an error must occur")
			}
		})
	}
}
