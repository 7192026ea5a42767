package compressor

import (
	"fmt"
	"sort"
)

type OriginalTable struct {
	entries  []int
	rowCount int
	colCount int
}

func NewOriginalTable(entries []int, colCount int) (*OriginalTable, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("entries is empty")
	}
	if colCount <= 0 {
		return nil, fmt.Errorf("colCount must be >=1")
	}
	if len(entries)%colCount != 0 {
		return nil, fmt.Errorf("entries length or column count are incorrect; entries length: %v, column count: %v", len(entries), colCount)
	}

	return &OriginalTable{
		entries:  entries,
		rowCount: len(entries) / colCount,
		colCount: colCount,
	}, nil
}

func (t *OriginalTable) Lookup(row, col int) (int, error) {
	if row < 0 || row >= t.rowCount || col < 0 || col >= t.colCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return t.entries[row*t.colCount+col], nil
}

const ForbiddenValue = -1

// RowDisplacementTable overlays the rows of a sparse table in one array. Each row is shifted by its
// displacement so that its non-empty entries land on free slots, and Bounds records which row owns a slot.
type RowDisplacementTable struct {
	OriginalRowCount int
	OriginalColCount int
	EmptyValue       int
	Entries          []int
	Bounds           []int
	RowDisplacement  []int
}

func NewRowDisplacementTable(emptyValue int) *RowDisplacementTable {
	return &RowDisplacementTable{
		EmptyValue: emptyValue,
	}
}

func (tab *RowDisplacementTable) Lookup(row int, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return tab.EmptyValue, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	d := tab.RowDisplacement[row]
	if tab.Bounds[d+col] != row {
		return tab.EmptyValue, nil
	}
	return tab.Entries[d+col], nil
}

func (tab *RowDisplacementTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

type rowInfo struct {
	rowNum      int
	nonEmptyCol []int
}

// Compress places the densest rows first. Each row takes the lowest displacement at which none of its
// non-empty entries collide with an occupied slot.
func (tab *RowDisplacementTable) Compress(orig *OriginalTable) error {
	rows := make([]*rowInfo, orig.rowCount)
	for row := 0; row < orig.rowCount; row++ {
		info := &rowInfo{
			rowNum: row,
		}
		for col := 0; col < orig.colCount; col++ {
			if orig.entries[row*orig.colCount+col] != tab.EmptyValue {
				info.nonEmptyCol = append(info.nonEmptyCol, col)
			}
		}
		rows[row] = info
	}
	sort.SliceStable(rows, func(i int, j int) bool {
		return len(rows[i].nonEmptyCol) > len(rows[j].nonEmptyCol)
	})

	size := len(orig.entries) + orig.colCount
	entries := make([]int, size)
	bounds := make([]int, size)
	for i := 0; i < size; i++ {
		entries[i] = tab.EmptyValue
		bounds[i] = ForbiddenValue
	}

	rowDisplacement := make([]int, orig.rowCount)
	bottom := orig.colCount
	for _, info := range rows {
		if len(info.nonEmptyCol) == 0 {
			continue
		}

		d := 0
		for !fits(bounds, d, info.nonEmptyCol) {
			d++
		}

		rowDisplacement[info.rowNum] = d
		for _, col := range info.nonEmptyCol {
			entries[d+col] = orig.entries[info.rowNum*orig.colCount+col]
			bounds[d+col] = info.rowNum
		}
		if d+orig.colCount > bottom {
			bottom = d + orig.colCount
		}
	}

	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount
	tab.Entries = entries[:bottom]
	tab.Bounds = bounds[:bottom]
	tab.RowDisplacement = rowDisplacement

	return nil
}

func fits(bounds []int, d int, cols []int) bool {
	for _, col := range cols {
		if bounds[d+col] != ForbiddenValue {
			return false
		}
	}
	return true
}
