package compiler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthonycabreralara/antcc/compiler/ast"
	"github.com/anthonycabreralara/antcc/compiler/back"
)

const dump = `Program(
	Function(
		name=main
		type=int
		Return(
			BinaryOp(
				op=And
				Constant(1)
				Constant(0)
			)
		)
	)
)
`

func TestCompileFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "and.ast")

	err := os.WriteFile(name, []byte(dump), 0o644)
	require.NoError(t, err)

	ctx := context.Background()

	obj, err := CompileFile(ctx, name, Options{})
	require.NoError(t, err)

	t.Logf("result:\n%s", obj)

	s := string(obj)

	assert.True(t, strings.HasPrefix(s, "\t.globl main\nmain:\n"))
	assert.Contains(t, s, "\tsubq\t$4, %rsp\n")
	assert.Contains(t, s, "\tje\t.Land_false0\n")
	assert.Contains(t, s, ".Lend0:\n")
	assert.True(t, strings.HasSuffix(s, "\t.section .note.GNU-stack,\"\",@progbits\n"))

	again, err := CompileFile(ctx, name, Options{})
	require.NoError(t, err)
	assert.Equal(t, obj, again)

	darwin, err := CompileFile(ctx, name, Options{Platform: back.Darwin})
	require.NoError(t, err)
	assert.Contains(t, string(darwin), "_main:\n")
	assert.Contains(t, string(darwin), "\tje\tLand_false0\n")

	_, err = CompileFile(ctx, filepath.Join(t.TempDir(), "missing.ast"), Options{})
	assert.Error(t, err)
}

func TestCompileStages(t *testing.T) {
	ctx := context.Background()

	p := &ast.Program{
		Func: &ast.Function{
			Name: "main",
			Type: "int",
			Body: []ast.Item{
				ast.Return{Expr: ast.UnaryOp{Op: ast.Negate, Expr: ast.Constant("5")}},
			},
		},
	}

	obj, err := Compile(ctx, p, Options{Stage: StageAST})
	require.NoError(t, err)
	assert.Equal(t, `Program(
	Function(
		name=main
		type=int
		Return(
			UnaryOp(
				op=Negate
				Constant(5)
			)
		)
	)
)
`, string(obj))

	obj, err = Compile(ctx, p, Options{Stage: StageTacky})
	require.NoError(t, err)
	assert.Equal(t, `Program(
	Function(
		name=main
		Unary(
			op=Negate
			Constant(5)
			Var(tmp.0)
		)
		Return(
			Var(tmp.0)
		)
	)
)
`, string(obj))

	obj, err = Compile(ctx, p, Options{Stage: StageCodegen})
	require.NoError(t, err)
	assert.Equal(t, `Program(
	Function(
		name=main
		AllocateStack(4)
		Mov(
			Imm(5)
			Stack(-4)
		)
		Unary(
			op=Neg
			Stack(-4)
		)
		Mov(
			Stack(-4)
			Reg(AX)
		)
		Ret()
	)
)
`, string(obj))

	obj, err = Compile(ctx, p, Options{})
	require.NoError(t, err)
	assert.Contains(t, string(obj), "\tnegl\t-4(%rbp)\n")
}

func TestInternal(t *testing.T) {
	ctx := context.Background()

	p := &ast.Program{
		Func: &ast.Function{
			Name: "main",
			Body: []ast.Item{ast.Return{Expr: ast.Variable("x")}},
		},
	}

	_, err := Compile(ctx, p, Options{})
	require.Error(t, err)
	assert.True(t, Internal(err))

	name := filepath.Join(t.TempDir(), "bad.ast")

	err = os.WriteFile(name, []byte("Program(Function("), 0o644)
	require.NoError(t, err)

	_, err = CompileFile(ctx, name, Options{})
	require.Error(t, err)
	assert.False(t, Internal(err))
}

func TestParseStage(t *testing.T) {
	for _, s := range []Stage{StageEmit, StageAST, StageTacky, StageCodegen} {
		q, err := ParseStage(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, q)
	}

	_, err := ParseStage("link")
	assert.Error(t, err)
}
