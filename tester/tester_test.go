package tester

import (
	"fmt"
	"strings"
	"testing"

	"github.com/nihei9/lilac/compiler"
	tspec "github.com/nihei9/lilac/spec/test"
)

func TestTester_Run(t *testing.T) {
	tests := []struct {
		testSrc string
		error   bool
	}{
		{
			testSrc: `
Test
---
int x;
x = 5 + 3;
---
ok
`,
		},
		{
			testSrc: `
Test
---
;
---
ok
tree:
program
└─ item_list
   ├─ item
   │  └─ stmt
   │     └─ ; ";"
   └─ item_list
      └─ #
`,
		},
		{
			testSrc: `
Test
---
;
---
ok
tree:
program
└─ item_list
   └─ #
`,
			error: true,
		},
		{
			testSrc: `
Test
---
int x;
x = true;
---
IncompatibleType
`,
		},
		{
			testSrc: `
Test
---
int x;
x = true;
---
ok
`,
			error: true,
		},
		{
			testSrc: `
Test
---
foo(1);
---
UndefinedFuncError
UndefinedFuncError
`,
			error: true,
		},
		{
			testSrc: `
Test
---
int x = 1
---
syntax
`,
		},
		{
			testSrc: `
Test
---
int x = 1;
---
NoSuchKind
`,
			error: true,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			comp, err := compiler.New(nil)
			if err != nil {
				t.Fatal(err)
			}
			c, err := tspec.ParseTestCase(strings.NewReader(tt.testSrc))
			if err != nil {
				t.Fatal(err)
			}
			tester := &Tester{
				Compiler: comp,
				Cases: []*TestCaseWithMetadata{
					{
						TestCase: c,
					},
				},
			}
			rs := tester.Run()
			if len(rs) != 1 {
				t.Fatalf("unexpected result count: %v", len(rs))
			}
			if tt.error {
				if rs[0].Error == nil {
					t.Fatal("this test must fail, but it passed")
				}
				if !strings.HasPrefix(rs[0].String(), "Failed ") {
					t.Fatalf("unexpected result: %v", rs[0])
				}
			} else {
				if rs[0].Error != nil {
					t.Fatalf("unexpected error occurred: %v", rs[0].Error)
				}
				if !strings.HasPrefix(rs[0].String(), "Passed ") {
					t.Fatalf("unexpected result: %v", rs[0])
				}
			}
		})
	}
}

func TestTester_RunTestdata(t *testing.T) {
	cs := ListTestCases("testdata")
	if len(cs) == 0 {
		t.Fatal("testdata has no test cases")
	}
	for _, c := range cs {
		if c.Error != nil {
			t.Fatalf("%v: %v", c.FilePath, c.Error)
		}
	}

	comp, err := compiler.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	tester := &Tester{
		Compiler: comp,
		Cases:    cs,
	}
	for _, r := range tester.Run() {
		if r.Error != nil {
			t.Errorf("%v", r)
		}
	}
}

func TestListTestCases_MissingPath(t *testing.T) {
	cs := ListTestCases("testdata/no_such_file.txt")
	if len(cs) != 1 {
		t.Fatalf("unexpected test case count: %v", len(cs))
	}
	if cs[0].Error == nil {
		t.Fatal("a missing path must yield an error")
	}
}
