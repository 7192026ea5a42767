package semantic

import (
	"fmt"
	"io"

	"github.com/nihei9/lilac/ir"
)

type Result struct {
	Instructions []*ir.Instruction
	Variables    []*Variable
	Functions    []*Function
	Structs      []*StructType
	Diagnostics  []*Diagnostic
}

func (r *Result) HasError() bool {
	return len(r.Diagnostics) > 0
}

// WriteTables writes the variable, function, and struct tables.
func (r *Result) WriteTables(w io.Writer) error {
	sections := []struct {
		title string
		rows  []fmt.Stringer
	}{
		{title: "variables"},
		{title: "functions"},
		{title: "structs"},
	}
	for _, v := range r.Variables {
		sections[0].rows = append(sections[0].rows, v)
	}
	for _, f := range r.Functions {
		sections[1].rows = append(sections[1].rows, f)
	}
	for _, s := range r.Structs {
		sections[2].rows = append(sections[2].rows, s)
	}

	for i, sec := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "# %v\n", sec.title); err != nil {
			return err
		}
		for _, row := range sec.rows {
			if _, err := fmt.Fprintf(w, "%v\n", row); err != nil {
				return err
			}
		}
	}
	return nil
}
