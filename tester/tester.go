package tester

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/lilac/compiler"
	"github.com/nihei9/lilac/driver"
	"github.com/nihei9/lilac/semantic"
	tspec "github.com/nihei9/lilac/spec/test"
)

type TestResult struct {
	TestCasePath string
	Error        error
	Diffs        []*tspec.TreeDiff
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, diff := range r.Diffs {
			diffLines = append(diffLines, diff.Message)
			diffLines = append(diffLines, fmt.Sprintf("%vexpected path: %v", indent1, diff.ExpectedPath))
			diffLines = append(diffLines, fmt.Sprintf("%vactual path:   %v", indent1, diff.ActualPath))
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

type TestCaseWithMetadata struct {
	TestCase *tspec.TestCase
	FilePath string
	Error    error
}

// ListTestCases reads a test case file, or every test case file under a directory.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCase(testCasePath string) (*tspec.TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tspec.ParseTestCase(f)
}

type Tester struct {
	Compiler *compiler.Compiler
	Cases    []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, runTest(t.Compiler, c))
	}
	return rs
}

func runTest(comp *compiler.Compiler, c *TestCaseWithMetadata) *TestResult {
	if c.Error != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        c.Error,
		}
	}
	tc := c.TestCase
	for _, k := range tc.Kinds {
		if !isKind(k) {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        fmt.Errorf("unknown diagnostic kind: %v", k),
			}
		}
	}

	res, err := comp.Compile(bytes.NewReader(tc.Source))
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}

	if err := checkOutcome(tc, res); err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}

	if tc.Tree != nil {
		diffs := tspec.DiffTree(tc.Tree, genTree(res.Tree).Fill())
		if len(diffs) > 0 {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        fmt.Errorf("output mismatch"),
				Diffs:        diffs,
			}
		}
	}
	return &TestResult{
		TestCasePath: c.FilePath,
	}
}

func isKind(name string) bool {
	for _, k := range semantic.Kinds {
		if k.Kind == name {
			return true
		}
	}
	return false
}

func hasSyntaxError(res *compiler.Result) bool {
	return len(res.SyntaxErrors) > 0 || res.UnexpectedEOF || res.LiteralError != nil
}

func checkOutcome(tc *tspec.TestCase, res *compiler.Result) error {
	switch tc.Outcome {
	case tspec.OutcomeOK:
		if res.Failed() {
			return fmt.Errorf("the source was expected to compile but got:\n%v", res.Errors("", tc.Source))
		}
	case tspec.OutcomeSyntax:
		if !hasSyntaxError(res) {
			return fmt.Errorf("a syntax error was expected but none occurred")
		}
	case tspec.OutcomeDiagnostics:
		if hasSyntaxError(res) {
			return fmt.Errorf("diagnostics were expected but the source has syntax errors:\n%v", res.Errors("", tc.Source))
		}
		var kinds []string
		for _, d := range res.Diagnostics {
			kinds = append(kinds, d.Cause.Kind)
		}
		if strings.Join(kinds, "\n") != strings.Join(tc.Kinds, "\n") {
			return fmt.Errorf("unexpected diagnostics: expected [%v] but got [%v]", strings.Join(tc.Kinds, ", "), strings.Join(kinds, ", "))
		}
	}
	return nil
}

// genTree converts a parse tree to the form that test cases describe.
func genTree(dTree *driver.Node) *tspec.Tree {
	switch {
	case dTree.Epsilon:
		return tspec.NewNonTerminalTree("#")
	case dTree.Terminal && dTree.Matched:
		return tspec.NewTerminalNode(dTree.KindName, dTree.Text)
	case dTree.Terminal:
		return tspec.NewNonTerminalTree("!" + dTree.KindName)
	}
	var children []*tspec.Tree
	if len(dTree.Children) > 0 {
		children = make([]*tspec.Tree, len(dTree.Children))
		for i, c := range dTree.Children {
			children[i] = genTree(c)
		}
	}
	return tspec.NewNonTerminalTree(dTree.KindName, children...)
}
