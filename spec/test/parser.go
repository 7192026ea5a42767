package test

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

type TreeDiff struct {
	ExpectedPath string
	ActualPath   string
	Message      string
}

func newTreeDiff(expected, actual *Tree, message string) *TreeDiff {
	return &TreeDiff{
		ExpectedPath: expected.path(),
		ActualPath:   actual.path(),
		Message:      message,
	}
}

// Tree is a parse tree in a form that can be compared. A terminal has a Lexeme; an epsilon node has the
// kind `#`, and a terminal that the parser discarded has its kind prefixed with `!`.
type Tree struct {
	Parent   *Tree
	Offset   int
	Kind     string
	Children []*Tree
	Lexeme   string
}

func NewNonTerminalTree(kind string, children ...*Tree) *Tree {
	return &Tree{
		Kind:     kind,
		Children: children,
	}
}

func NewTerminalNode(kind string, lexeme string) *Tree {
	return &Tree{
		Kind:   kind,
		Lexeme: lexeme,
	}
}

func (t *Tree) Fill() *Tree {
	for i, c := range t.Children {
		c.Parent = t
		c.Offset = i
		c.Fill()
	}
	return t
}

func (t *Tree) path() string {
	if t.Parent == nil {
		return t.Kind
	}
	return fmt.Sprintf("%v.[%v]%v", t.Parent.path(), t.Offset, t.Kind)
}

func DiffTree(expected, actual *Tree) []*TreeDiff {
	if expected == nil && actual == nil {
		return nil
	}
	// _ matches any symbols.
	if expected.Kind != "_" && actual.Kind != expected.Kind {
		msg := fmt.Sprintf("unexpected kind: expected '%v' but got '%v'", expected.Kind, actual.Kind)
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	if expected.Lexeme != actual.Lexeme {
		msg := fmt.Sprintf("unexpected lexeme: expected '%v' but got '%v'", expected.Lexeme, actual.Lexeme)
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	if len(actual.Children) != len(expected.Children) {
		msg := fmt.Sprintf("unexpected node count: expected %v but got %v", len(expected.Children), len(actual.Children))
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	var diffs []*TreeDiff
	for i, exp := range expected.Children {
		if ds := DiffTree(exp, actual.Children[i]); len(ds) > 0 {
			diffs = append(diffs, ds...)
		}
	}
	return diffs
}

// Outcome is the expected result of compiling a test source.
type Outcome int

const (
	// OutcomeNone leaves the result unchecked. Only a tree expectation is checked.
	OutcomeNone Outcome = iota
	// OutcomeOK expects the source to compile to assembly.
	OutcomeOK
	// OutcomeSyntax expects at least one syntax error.
	OutcomeSyntax
	// OutcomeDiagnostics expects exactly the semantic diagnostics listed in Kinds, in order.
	OutcomeDiagnostics
)

type TestCase struct {
	Description string
	Source      []byte
	Outcome     Outcome
	Kinds       []string
	Tree        *Tree
}

// ParseTestCase reads a test case: a description, the source, and the expectation, separated by `---` lines.
// The expectation is `ok`, `syntax`, or diagnostic kind names one per line, optionally followed by `tree:` and
// a parse-tree dump.
func ParseTestCase(r io.Reader) (*TestCase, error) {
	parts, err := splitIntoParts(r)
	if err != nil {
		return nil, err
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("too many or too few part delimiters: a test case consists of just three parts: %v parts found", len(parts))
	}

	c := &TestCase{
		Description: string(parts[0].buf),
		Source:      parts[1].buf,
	}
	lineOffset := parts[0].lineCount + parts[1].lineCount + 2
	lines := strings.Split(string(parts[2].buf), "\n")
	for i, line := range lines {
		row := lineOffset + i + 1
		word := strings.TrimSpace(line)
		switch {
		case word == "":
			continue
		case word == "tree:":
			tp := &treeParser{
				lineOffset: row,
			}
			c.Tree, err = tp.parseTree(lines[i+1:])
			if err != nil {
				return nil, err
			}
			return c, nil
		case word == "ok" || word == "syntax":
			if c.Outcome != OutcomeNone {
				return nil, fmt.Errorf("%v: %v cannot follow another expectation", row, word)
			}
			if word == "ok" {
				c.Outcome = OutcomeOK
			} else {
				c.Outcome = OutcomeSyntax
			}
		default:
			if c.Outcome != OutcomeNone && c.Outcome != OutcomeDiagnostics {
				return nil, fmt.Errorf("%v: %v cannot follow another expectation", row, word)
			}
			c.Outcome = OutcomeDiagnostics
			c.Kinds = append(c.Kinds, word)
		}
	}
	if c.Outcome == OutcomeNone {
		return nil, fmt.Errorf("%v: a test case needs an expectation", lineOffset+1)
	}
	return c, nil
}

type testCasePart struct {
	buf       []byte
	lineCount int
}

func splitIntoParts(r io.Reader) ([]*testCasePart, error) {
	var bufs []*testCasePart
	s := bufio.NewScanner(r)
	for {
		buf, lineCount, err := readPart(s)
		if err != nil {
			return nil, err
		}
		if buf == nil {
			break
		}
		bufs = append(bufs, &testCasePart{
			buf:       buf,
			lineCount: lineCount,
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return bufs, nil
}

var reDelim = regexp.MustCompile(`^\s*---+\s*$`)

func readPart(s *bufio.Scanner) ([]byte, int, error) {
	if !s.Scan() {
		return nil, 0, s.Err()
	}
	buf := &bytes.Buffer{}
	line := s.Bytes()
	if reDelim.Match(line) {
		// Return an empty slice because (*bytes.Buffer).Bytes() returns nil if we have never written data.
		return []byte{}, 0, nil
	}
	buf.Write(line)
	lineCount := 1
	for s.Scan() {
		line := s.Bytes()
		if reDelim.Match(line) {
			return buf.Bytes(), lineCount, nil
		}
		buf.WriteByte('\n')
		buf.Write(line)
		lineCount++
	}
	if err := s.Err(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), lineCount, nil
}

// treeParser reads the box-drawing dump that driver.PrintTree writes. Every level of depth is indented by
// three runes.
type treeParser struct {
	lineOffset int
}

func (tp *treeParser) parseTree(lines []string) (*Tree, error) {
	var root *Tree
	var stack []*Tree
	for i, line := range lines {
		row := tp.lineOffset + i + 1
		if strings.TrimSpace(line) == "" {
			continue
		}

		depth, content, err := splitRuledLine(line)
		if err != nil {
			return nil, fmt.Errorf("%v: %v", row, err)
		}
		node, err := parseNode(content)
		if err != nil {
			return nil, fmt.Errorf("%v: %v", row, err)
		}

		if root == nil {
			if depth != 0 {
				return nil, fmt.Errorf("%v: the root must not be indented", row)
			}
			root = node
			stack = []*Tree{root}
			continue
		}
		if depth == 0 {
			return nil, fmt.Errorf("%v: a tree has only one root", row)
		}
		if depth > len(stack) {
			return nil, fmt.Errorf("%v: the node is indented too deeply", row)
		}
		stack = stack[:depth]
		parent := stack[depth-1]
		parent.Children = append(parent.Children, node)
		stack = append(stack, node)
	}
	if root == nil {
		return nil, fmt.Errorf("%v: tree: needs a tree", tp.lineOffset)
	}
	return root.Fill(), nil
}

func splitRuledLine(line string) (int, string, error) {
	line = strings.TrimRight(line, " \t")
	n := 0
	rest := line
	for {
		r, size := utf8.DecodeRuneInString(rest)
		if r != ' ' && r != '│' && r != '├' && r != '└' && r != '─' {
			break
		}
		n++
		rest = rest[size:]
	}
	if n%3 != 0 {
		return 0, "", fmt.Errorf("a ruled line must be a multiple of three runes wide: %q", line)
	}
	return n / 3, rest, nil
}

func parseNode(content string) (*Tree, error) {
	kind, lexeme, ok := strings.Cut(content, " ")
	if !ok {
		return NewNonTerminalTree(kind), nil
	}
	text, err := strconv.Unquote(strings.TrimSpace(lexeme))
	if err != nil {
		return nil, fmt.Errorf("a lexeme must be a quoted string: %v", lexeme)
	}
	return NewTerminalNode(kind, text), nil
}
