package main

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nihei9/lilac/ir"
)

var compileFlags = struct {
	output *string
	ir     *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile [source file path]",
		Short:   "Compile a program into MIPS assembly",
		Example: `  lilac compile prog.c -o prog.s`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.ir = cmd.Flags().String("ir", "", "also write the three-address code to a file")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) (retErr error) {
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

	if *compileFlags.ir != "" && len(res.Instructions) > 0 {
		f, err := os.OpenFile(*compileFlags.ir, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return errors.Wrapf(err, "cannot open the IR file %v", *compileFlags.ir)
		}
		defer f.Close()
		if err := ir.WriteListing(f, res.Instructions); err != nil {
			return errors.Wrapf(err, "cannot write the IR file %v", *compileFlags.ir)
		}
	}

	if res.Failed() {
		return reportErrors(os.Stderr, res, name, src)
	}

	if *compileFlags.output == "" {
		_, err = os.Stdout.WriteString(res.Assembly)
		return err
	}
	err = os.WriteFile(*compileFlags.output, []byte(res.Assembly), 0644)
	if err != nil {
		return errors.Wrapf(err, "cannot write the assembly file %v", *compileFlags.output)
	}
	log.WithFields(log.Fields{
		"source": name,
		"output": *compileFlags.output,
	}).Info("compiled")
	return nil
}
