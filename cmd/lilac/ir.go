package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nihei9/lilac/ir"
	"github.com/nihei9/lilac/semantic"
)

func init() {
	cmd := &cobra.Command{
		Use:     "ir [source file path]",
		Short:   "Print the three-address code and the symbol tables of a program",
		Example: `  lilac ir prog.c`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runIR,
	}
	rootCmd.AddCommand(cmd)
}

func runIR(cmd *cobra.Command, args []string) error {
	name, src, err := readSource(args)
	if err != nil {
		return err
	}

	c, err := newCompiler()
	if err != nil {
		return err
	}
	res, err := c.Compile(bytes.NewReader(src))
	if err != nil {
		return err
	}
	if res.AST == nil {
		return reportErrors(os.Stderr, res, name, src)
	}

	fmt.Fprintf(os.Stdout, "# instructions\n")
	if err := ir.WriteListing(os.Stdout, res.Instructions); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout)
	tabs := &semantic.Result{
		Variables: res.Variables,
		Functions: res.Functions,
		Structs:   res.Structs,
	}
	if err := tabs.WriteTables(os.Stdout); err != nil {
		return err
	}

	if res.Failed() {
		return reportErrors(os.Stderr, res, name, src)
	}
	return nil
}
