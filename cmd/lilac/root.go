package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootFlags = struct {
	verbose *bool
	logFile *string
	color   *string
	grammar *string
	stdlib  *string
}{}

var logFile *os.File

var rootCmd = &cobra.Command{
	Use:   "lilac",
	Short: "Compile a small C-like language to MIPS assembly",
	Long: `lilac provides the following features:
- Derives an LL(1) analysis table from a grammar description.
- Parses a source program with the table and prints its parse tree.
- Checks a program and lowers it to three-address code and MIPS assembly.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setUpLogging,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			logFile.Close()
		}
	},
}

func init() {
	rootFlags.verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print debug logs")
	rootFlags.logFile = rootCmd.PersistentFlags().String("log-file", "", "also write logs to a file")
	rootFlags.color = rootCmd.PersistentFlags().String("color", "auto", "colorize output: auto, always, or never")
	rootFlags.grammar = rootCmd.PersistentFlags().String("grammar", "", "grammar description that replaces the built-in grammar")
	rootFlags.stdlib = rootCmd.PersistentFlags().String("stdlib", "", "signature file that replaces the built-in standard library")
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}

func setUpLogging(cmd *cobra.Command, args []string) error {
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp: true,
	})
	if *rootFlags.verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	switch *rootFlags.color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("--color must be auto, always, or never: %v", *rootFlags.color)
	}

	if *rootFlags.logFile == "" {
		log.SetOutput(os.Stderr)
		return nil
	}
	f, err := os.OpenFile(*rootFlags.logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrapf(err, "cannot open the log file %v", *rootFlags.logFile)
	}
	logFile = f
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return nil
}

// colored reports whether tree dumps written to stdout should carry ANSI escape sequences.
func colored() bool {
	switch *rootFlags.color {
	case "always":
		return true
	case "never":
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
