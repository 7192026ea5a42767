package grammar

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

// WriteTableCSV writes the analysis table in CSV. Rows are non-terminals and columns are terminals
// followed by the end marker. A cell holds its production numbers separated by spaces, `synch`, or
// nothing for an error entry.
func WriteTableCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)

	var cols []*Terminal
	var eof *Terminal
	for _, term := range r.Terminals {
		if term.Number == 1 {
			eof = term
			continue
		}
		cols = append(cols, term)
	}
	if eof != nil {
		cols = append(cols, eof)
	}

	header := make([]string, 0, len(cols)+1)
	header = append(header, "")
	for _, term := range cols {
		header = append(header, term.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	cells := map[[2]int]*Cell{}
	for _, c := range r.Cells {
		cells[[2]int{c.NonTerminal, c.Terminal}] = c
	}

	for _, nonTerm := range r.NonTerminals {
		row := make([]string, 0, len(cols)+1)
		row = append(row, nonTerm.Name)
		for _, term := range cols {
			c, ok := cells[[2]int{nonTerm.Number, term.Number}]
			switch {
			case !ok:
				row = append(row, "")
			case len(c.Productions) > 0:
				nums := make([]string, len(c.Productions))
				for i, p := range c.Productions {
					nums[i] = strconv.Itoa(p)
				}
				row = append(row, strings.Join(nums, " "))
			case c.Synch:
				row = append(row, "synch")
			default:
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
