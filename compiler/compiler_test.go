package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nihei9/lilac/ast"
	"github.com/nihei9/lilac/codegen"
	"github.com/nihei9/lilac/semantic"
)

const program = `
// Sums the integers from 1 to n.
int sum(int n) {
    int i = 1;
    int s = 0;
    while (i <= n) {
        s = s + i;
        i = i + 1;
    }
    return s;
}

int main() {
    int n;
    get(n);
    if (n > 0) {
        put(sum(n));
    } else {
        put(0);
    }
    return 0;
}
`

func compile(t *testing.T, cfg *Config, src string) *Result {
	t.Helper()
	c, err := New(cfg)
	require.NoError(t, err)
	res, err := c.Compile(strings.NewReader(src))
	require.NoError(t, err)
	return res
}

func TestCompile(t *testing.T) {
	res := compile(t, nil, program)
	require.False(t, res.Failed(), "%v", res.Errors("program", []byte(program)))

	require.NotNil(t, res.Tree)
	require.NotNil(t, res.AST)
	assert.Len(t, res.AST.Items, 2)
	assert.NotEmpty(t, res.Instructions)

	asm := res.Assembly
	assert.True(t, strings.HasPrefix(asm, ".data\n"))
	assert.Contains(t, asm, "\nmain:\n")
	assert.Contains(t, asm, "ble $t0 $t1 while_block_")
	assert.Contains(t, asm, "jal read\n")
	assert.Contains(t, asm, "jal write\n")
	assert.Contains(t, asm, "li $v0 10\nsyscall\n")

	var mainLabel string
	for _, f := range res.Functions {
		if f.Name == "main" {
			mainLabel = f.Label
		}
	}
	require.NotEmpty(t, mainLabel)
	assert.Contains(t, asm, "jal "+mainLabel+"\nli $v0 10\n")
}

func TestCompile_Deterministic(t *testing.T) {
	c, err := New(nil)
	require.NoError(t, err)

	res1, err := c.Compile(strings.NewReader(program))
	require.NoError(t, err)
	_, err = c.Compile(strings.NewReader("int x = 1; put(x);"))
	require.NoError(t, err)
	res2, err := c.Compile(strings.NewReader(program))
	require.NoError(t, err)

	assert.Equal(t, res1.Instructions, res2.Instructions)
	assert.Equal(t, res1.Assembly, res2.Assembly)
}

func TestCompile_StopsAtFirstFailingStage(t *testing.T) {
	t.Run("syntax errors skip the analysis", func(t *testing.T) {
		res := compile(t, nil, "int x = ;\nx = 1;")
		assert.True(t, res.Failed())
		assert.NotEmpty(t, res.SyntaxErrors)
		assert.False(t, res.UnexpectedEOF)
		assert.Nil(t, res.AST)
		assert.Empty(t, res.Instructions)
		assert.Empty(t, res.Assembly)
	})

	t.Run("input ending inside a function", func(t *testing.T) {
		res := compile(t, nil, "int main() {")
		assert.True(t, res.Failed())
		assert.True(t, res.UnexpectedEOF)
		assert.Nil(t, res.AST)
	})

	t.Run("an out-of-range literal", func(t *testing.T) {
		src := "int x = 99999999999;"
		res := compile(t, nil, src)
		assert.True(t, res.Failed())
		require.NotNil(t, res.LiteralError)
		assert.True(t, errors.Is(res.LiteralError, ast.ErrIntOutOfRange))

		errs := res.Errors("x.c", []byte(src))
		require.Len(t, errs, 1)
		assert.Equal(t, 1, errs[0].Row)
		assert.Equal(t, 9, errs[0].Col)
	})

	t.Run("diagnostics skip code generation", func(t *testing.T) {
		src := "int x;\nx = true;"
		res := compile(t, nil, src)
		assert.True(t, res.Failed())
		require.Len(t, res.Diagnostics, 1)
		assert.Equal(t, semantic.ErrIncompatibleType, res.Diagnostics[0].Cause)
		assert.NotEmpty(t, res.Instructions)
		assert.Empty(t, res.Assembly)

		errs := res.Errors("x.c", []byte(src))
		require.Len(t, errs, 1)
		msg := errs[0].Error()
		assert.Contains(t, msg, "x.c: 2:1: error: incompatible type")
		assert.Contains(t, msg, "\n    x = true;")
	})
}

func TestResult_Errors_SyntaxPositions(t *testing.T) {
	src := "int x;\nx = = 1;"
	res := compile(t, nil, src)
	require.NotEmpty(t, res.SyntaxErrors)

	errs := res.Errors("", []byte(src))
	require.Len(t, errs, len(res.SyntaxErrors))
	assert.Equal(t, res.SyntaxErrors[0].Row+1, errs[0].Row)
	assert.Equal(t, res.SyntaxErrors[0].Col+1, errs[0].Col)
	assert.Equal(t, 2, errs[0].Row)
}

func TestNew_Config(t *testing.T) {
	t.Run("a register pool too small for the program", func(t *testing.T) {
		c, err := New(&Config{
			Registers: 1,
		})
		require.NoError(t, err)
		_, err = c.Compile(strings.NewReader("int x = 1 + 2;"))
		assert.ErrorIs(t, err, codegen.ErrRegisterPressure)
	})

	t.Run("a malformed standard library", func(t *testing.T) {
		_, err := New(&Config{
			StdLib: "void put\nvoid\n",
		})
		assert.Error(t, err)
	})

	t.Run("a standard library with an extra function", func(t *testing.T) {
		c, err := New(&Config{
			StdLib: "void put int\nvoid get int\nint twice int\n",
		})
		require.NoError(t, err)
		res, err := c.Compile(strings.NewReader("int twice(int a) { return a + a; }"))
		require.NoError(t, err)
		require.Len(t, res.Diagnostics, 1)
		assert.Equal(t, semantic.ErrAlreadyDefinedFunc, res.Diagnostics[0].Cause)
	})

	t.Run("a malformed grammar", func(t *testing.T) {
		_, err := New(&Config{
			Grammar: "<s>-><t>\n",
		})
		assert.Error(t, err)
	})

	t.Run("a grammar that does not fit the AST", func(t *testing.T) {
		c, err := New(&Config{
			Grammar: "<program>->[id][;]\n",
		})
		require.NoError(t, err)
		_, err = c.Compile(strings.NewReader("x;"))
		assert.ErrorIs(t, err, ast.ErrMalformedTree)
	})
}

func TestCompile_CallInsideExpression(t *testing.T) {
	src := "int f(int a) { return a + 1; }\nint x = 2;\nint y = x + f(3);\nput(y);"
	res := compile(t, nil, src)
	require.False(t, res.Failed(), "%v", res.Errors("x.c", []byte(src)))

	var label string
	for _, f := range res.Functions {
		if f.Name == "f" {
			label = f.Label
		}
	}
	require.NotEmpty(t, label)

	// x stays in $t0 across the call because $t0 is spilled below y.
	assert.Contains(t, res.Assembly, "lw $t0 -8($sp)\nli $t1 3\nsw $t1 -4($sp)\nsw $t0 -16($sp)\njal "+label+
		"\nlw $t0 -16($sp)\nmove $t1 $v0\nadd $t0 $t0 $t1\nsw $t0 -12($sp)\n")
	assert.Equal(t, 1, strings.Count(res.Assembly, "jr $ra\n")-2, "the body of f returns once")
}
