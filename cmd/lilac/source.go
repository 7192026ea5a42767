package main

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/nihei9/lilac/compiler"
	verr "github.com/nihei9/lilac/error"
	"github.com/nihei9/lilac/lang"
	"github.com/nihei9/lilac/semantic"
)

// readSource reads the file named by the first argument, or stdin when there is no argument.
func readSource(args []string) (string, []byte, error) {
	if len(args) == 0 {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", nil, errors.Wrap(err, "cannot read stdin")
		}
		return "stdin", src, nil
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return "", nil, errors.Wrapf(err, "cannot read the source file %v", args[0])
	}
	return args[0], src, nil
}

// readGrammarSource returns the grammar description named by --grammar, or the built-in one.
func readGrammarSource() (string, string, error) {
	if *rootFlags.grammar == "" {
		return "lilac", lang.Grammar, nil
	}
	src, err := os.ReadFile(*rootFlags.grammar)
	if err != nil {
		return "", "", errors.Wrapf(err, "cannot read the grammar file %v", *rootFlags.grammar)
	}
	return *rootFlags.grammar, string(src), nil
}

func newCompiler() (*compiler.Compiler, error) {
	cfg := &compiler.Config{}
	if *rootFlags.stdlib != "" {
		src, err := os.ReadFile(*rootFlags.stdlib)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read the standard library file %v", *rootFlags.stdlib)
		}
		if _, err := semantic.ParseStdLib(string(src)); err != nil {
			if specErrs, ok := err.(verr.SpecErrors); ok {
				attachFilePath(specErrs, *rootFlags.stdlib)
			}
			return nil, err
		}
		cfg.StdLib = string(src)
	}
	if *rootFlags.grammar != "" {
		_, src, err := readGrammarSource()
		if err != nil {
			return nil, err
		}
		cfg.Grammar = src
	}

	c, err := compiler.New(cfg)
	if err != nil {
		if specErrs, ok := err.(verr.SpecErrors); ok {
			attachFilePath(specErrs, *rootFlags.grammar)
		}
		return nil, err
	}
	return c, nil
}

// attachFilePath lets positioned errors echo the offending line of the file they came from.
func attachFilePath(errs verr.SpecErrors, path string) {
	if path == "" {
		return
	}
	for _, err := range errs {
		if err.FilePath == "" && err.Source == nil {
			err.FilePath = path
			err.SourceName = path
		}
	}
}

// reportErrors prints the errors of a compilation and returns an error that makes the command fail.
func reportErrors(w io.Writer, res *compiler.Result, name string, src []byte) error {
	errs := res.Errors(name, src)
	for _, err := range errs {
		io.WriteString(w, err.Error()+"\n")
	}
	return errors.Errorf("%v: %v error(s)", name, len(errs))
}
