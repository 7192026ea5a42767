package error

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

type SpecErrors []*SpecError

func (e SpecErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%v", e[0])
	for _, err := range e[1:] {
		fmt.Fprintf(&b, "\n%v", err)
	}

	return b.String()
}

// SpecError is an error positioned in a grammar description or a source program.
// Row and Col are 1-based; zero means unknown.
type SpecError struct {
	Cause      error
	Detail     string
	FilePath   string
	SourceName string
	Source     []byte
	Row        int
	Col        int
}

func (e *SpecError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	}
	if e.Row != 0 {
		if e.Col != 0 {
			fmt.Fprintf(&b, "%v:%v: ", e.Row, e.Col)
		} else {
			fmt.Fprintf(&b, "%v: ", e.Row)
		}
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %v", e.Detail)
	}

	line := e.readLine()
	if line != "" {
		fmt.Fprintf(&b, "\n    %v", line)
	}

	return b.String()
}

func (e *SpecError) Unwrap() error {
	return e.Cause
}

func (e *SpecError) readLine() string {
	if e.Row <= 0 {
		return ""
	}
	if e.Source != nil {
		return readLine(bytes.NewReader(e.Source), e.Row)
	}
	if e.FilePath == "" {
		return ""
	}

	f, err := os.Open(e.FilePath)
	if err != nil {
		return ""
	}
	defer f.Close()

	return readLine(f, e.Row)
}

func readLine(r io.Reader, row int) string {
	i := 1
	s := bufio.NewScanner(r)
	for s.Scan() {
		if i == row {
			return s.Text()
		}
		i++
	}

	return ""
}
