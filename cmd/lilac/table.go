package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	verr "github.com/nihei9/lilac/error"
	"github.com/nihei9/lilac/grammar"
	"github.com/nihei9/lilac/lang"
	spec "github.com/nihei9/lilac/spec/grammar"
)

var tableFlags = struct {
	format *string
	output *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "table [grammar file path]",
		Short: "Print the LL(1) analysis table of a grammar",
		Long: `table prints the analysis table of a grammar description, or of the built-in grammar when no
file is given. The csv format has a row per non-terminal and a column per terminal.`,
		Example: `  lilac table grammar.txt --format csv -o table.csv`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runTable,
	}
	tableFlags.format = cmd.Flags().String("format", "csv", "output format: csv or json")
	tableFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	rootCmd.AddCommand(cmd)
}

// compileGrammarArg compiles the grammar description named by args, the --grammar file, or the built-in
// grammar, in this order of preference.
func compileGrammarArg(args []string) (*spec.CompiledGrammar, *spec.Report, error) {
	var name, src string
	if len(args) > 0 {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return nil, nil, errors.Wrapf(err, "cannot read the grammar file %v", args[0])
		}
		name, src = args[0], string(b)
	} else {
		var err error
		name, src, err = readGrammarSource()
		if err != nil {
			return nil, nil, err
		}
	}

	cg, report, err := lang.CompileGrammar(name, src, grammar.EnableReporting())
	if err != nil {
		if specErrs, ok := err.(verr.SpecErrors); ok && name != "lilac" {
			attachFilePath(specErrs, name)
		}
		return nil, nil, err
	}
	log.WithFields(log.Fields{
		"grammar":     name,
		"productions": len(report.Productions),
		"conflicts":   len(report.Conflicts),
	}).Debug("table built")
	return cg, report, nil
}

func runTable(cmd *cobra.Command, args []string) (retErr error) {
	switch *tableFlags.format {
	case "csv", "json":
	default:
		return fmt.Errorf("--format must be csv or json: %v", *tableFlags.format)
	}

	cg, report, err := compileGrammarArg(args)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if *tableFlags.output != "" {
		f, err := os.OpenFile(*tableFlags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return errors.Wrapf(err, "cannot open the output file %v", *tableFlags.output)
		}
		defer func() {
			if err := f.Close(); err != nil && retErr == nil {
				retErr = err
			}
		}()
		w = f
	}

	if *tableFlags.format == "json" {
		b, err := json.Marshal(cg)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%v\n", string(b))
		return err
	}
	return spec.WriteTableCSV(w, report)
}
