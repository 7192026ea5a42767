package test

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func nt(kind string, children ...*Tree) *Tree {
	return NewNonTerminalTree(kind, children...)
}

func TestDiffTree(t *testing.T) {
	tests := []struct {
		t1        *Tree
		t2        *Tree
		different bool
	}{
		{
			t1: nt("a"),
			t2: nt("a"),
		},
		{
			t1: nt("a",
				nt("b"),
				NewTerminalNode("id", "x"),
			),
			t2: nt("a",
				nt("b"),
				NewTerminalNode("id", "x"),
			),
		},
		{
			t1: nt("a",
				nt("_",
					nt("c"),
				),
			),
			t2: nt("a",
				nt("b",
					nt("c"),
				),
			),
		},
		{
			t1:        nt("a"),
			t2:        nt("b"),
			different: true,
		},
		{
			t1: nt("a",
				nt("b"),
			),
			t2:        nt("a"),
			different: true,
		},
		{
			t1: nt("a",
				NewTerminalNode("id", "x"),
			),
			t2: nt("a",
				NewTerminalNode("id", "y"),
			),
			different: true,
		},
		{
			t1: nt("a",
				nt("b",
					nt("c"),
				),
			),
			t2: nt("a",
				nt("b",
					nt("d"),
				),
			),
			different: true,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			diffs := DiffTree(tt.t1.Fill(), tt.t2.Fill())
			if tt.different && len(diffs) == 0 {
				t.Fatalf("unexpected result")
			} else if !tt.different && len(diffs) > 0 {
				t.Fatalf("unexpected result: %v", diffs[0].Message)
			}
		})
	}
}

func TestDiffTree_Path(t *testing.T) {
	expected := nt("s", nt("a"), nt("b", NewTerminalNode("id", "x"))).Fill()
	actual := nt("s", nt("a"), nt("b", NewTerminalNode("num", "1"))).Fill()
	diffs := DiffTree(expected, actual)
	if len(diffs) != 1 {
		t.Fatalf("unexpected diffs: %v", diffs)
	}
	if diffs[0].ExpectedPath != "s.[1]b.[0]id" || diffs[0].ActualPath != "s.[1]b.[0]num" {
		t.Fatalf("unexpected paths: %v, %v", diffs[0].ExpectedPath, diffs[0].ActualPath)
	}
}

func TestParseTestCase(t *testing.T) {
	tests := []struct {
		caption  string
		src      string
		tc       *TestCase
		parseErr bool
	}{
		{
			caption: "a program that compiles",
			src: `test
---
int x;
---
ok
`,
			tc: &TestCase{
				Description: "test",
				Source:      []byte("int x;"),
				Outcome:     OutcomeOK,
			},
		},
		{
			caption: "blank lines belong to the parts",
			src: `
test

---

x = 1;

---

UndefinedError

`,
			tc: &TestCase{
				Description: "\ntest\n",
				Source:      []byte("\nx = 1;\n"),
				Outcome:     OutcomeDiagnostics,
				Kinds:       []string{"UndefinedError"},
			},
		},
		{
			caption: "diagnostics in order",
			src: `test
----
x = y;
----
UndefinedError
UndefinedError
`,
			tc: &TestCase{
				Description: "test",
				Source:      []byte("x = y;"),
				Outcome:     OutcomeDiagnostics,
				Kinds:       []string{"UndefinedError", "UndefinedError"},
			},
		},
		{
			caption: "a syntax error with an empty description",
			src: `----
int = ;
----
syntax
`,
			tc: &TestCase{
				Source:  []byte("int = ;"),
				Outcome: OutcomeSyntax,
			},
		},
		{
			caption: "a tree",
			src: `test
---
x;
---
ok
tree:
s
├─ id "x"
├─ a
│  └─ #
└─ ; ";"
`,
			tc: &TestCase{
				Description: "test",
				Source:      []byte("x;"),
				Outcome:     OutcomeOK,
				Tree: nt("s",
					NewTerminalNode("id", "x"),
					nt("a", nt("#")),
					NewTerminalNode(";", ";"),
				).Fill(),
			},
		},
		{
			caption: "a tree with escaped lexemes and discarded symbols",
			src: `test
---
'\n'
---
tree:
s
├─ character "'\\n'"
└─ !;
`,
			tc: &TestCase{
				Description: "test",
				Source:      []byte(`'\n'`),
				Tree: nt("s",
					NewTerminalNode("character", `'\n'`),
					nt("!;"),
				).Fill(),
			},
		},
		{
			caption:  "an empty file",
			src:      ``,
			parseErr: true,
		},
		{
			caption: "no expectation part",
			src: `test
---
foo
`,
			parseErr: true,
		},
		{
			caption: "an empty expectation",
			src: `test
---
foo
---
`,
			parseErr: true,
		},
		{
			caption: "a delimiter that is too short",
			src: `test
--
foo
--
ok
`,
			parseErr: true,
		},
		{
			caption: "ok and syntax together",
			src: `test
---
foo
---
ok
syntax
`,
			parseErr: true,
		},
		{
			caption: "ok after a diagnostic",
			src: `test
---
foo
---
UndefinedError
ok
`,
			parseErr: true,
		},
		{
			caption: "an empty tree",
			src: `test
---
foo
---
ok
tree:
`,
			parseErr: true,
		},
		{
			caption: "two roots",
			src: `test
---
foo
---
tree:
s
t
`,
			parseErr: true,
		},
		{
			caption: "a node indented too deeply",
			src: `test
---
foo
---
tree:
s
└─    a
`,
			parseErr: true,
		},
		{
			caption: "an unquoted lexeme",
			src: `test
---
foo
---
tree:
s
└─ id x
`,
			parseErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			tc, err := ParseTestCase(strings.NewReader(tt.src))
			if tt.parseErr {
				if err == nil {
					t.Fatalf("an expected error didn't occur")
				}
			} else {
				if err != nil {
					t.Fatal(err)
				}
				testTestCase(t, tt.tc, tc)
			}
		})
	}
}

func testTestCase(t *testing.T, expected, actual *TestCase) {
	t.Helper()

	if expected.Description != actual.Description ||
		!reflect.DeepEqual(expected.Source, actual.Source) ||
		expected.Outcome != actual.Outcome ||
		!reflect.DeepEqual(expected.Kinds, actual.Kinds) {
		t.Fatalf("unexpected test case: want: %#v, got: %#v", expected, actual)
	}
	if (expected.Tree == nil) != (actual.Tree == nil) {
		t.Fatalf("unexpected tree: want: %#v, got: %#v", expected.Tree, actual.Tree)
	}
	if expected.Tree != nil {
		if diffs := DiffTree(expected.Tree, actual.Tree); len(diffs) > 0 {
			t.Fatalf("unexpected tree: %v", diffs[0].Message)
		}
	}
}
