package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthonycabreralara/antcc/compiler/ast"
	"github.com/anthonycabreralara/antcc/compiler/format"
)

func TestParseCompact(t *testing.T) {
	p, err := Parse(context.Background(), []byte(`Program(Function(name=main, type=int, Return(UnaryOp(op=Negate, Constant(5)))))`))
	require.NoError(t, err)

	assert.Equal(t, &ast.Program{
		Func: &ast.Function{
			Name: "main",
			Type: "int",
			Body: []ast.Item{
				ast.Return{Expr: ast.UnaryOp{Op: ast.Negate, Expr: ast.Constant("5")}},
			},
		},
	}, p)
}

func TestParseRoundTrip(t *testing.T) {
	ctx := context.Background()

	p := &ast.Program{
		Func: &ast.Function{
			Name: "main",
			Type: "int",
			Body: []ast.Item{
				ast.Declaration{Name: "a"},
				ast.Declaration{Name: "b", Init: ast.Constant("3")},
				ast.ExprStatement{Expr: ast.Assignment{Target: ast.Variable("a"), Value: ast.Variable("b")}},
				ast.Return{Expr: ast.BinaryOp{
					Op: ast.Or,
					Left: ast.BinaryOp{
						Op:    ast.Le,
						Left:  ast.UnaryOp{Op: ast.Complement, Expr: ast.Constant("10")},
						Right: ast.Variable("a"),
					},
					Right: ast.UnaryOp{Op: ast.Not, Expr: ast.BinaryOp{Op: ast.Rem, Left: ast.Constant("7"), Right: ast.Constant("2")}},
				}},
			},
		},
	}

	text, err := format.Format(ctx, nil, p)
	require.NoError(t, err)

	t.Logf("dump:\n%s", text)

	q, err := Parse(ctx, text)
	require.NoError(t, err)

	assert.Equal(t, p, q)
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		text string
	}{
		{"empty", ``},
		{"unclosed", `Program(Function(name=main, Return(Constant(2))`},
		{"root", `Function(name=main)`},
		{"no_func", `Program()`},
		{"two_funcs", `Program(Function(name=a) Function(name=b))`},
		{"no_name", `Program(Function(type=int))`},
		{"attr", `Program(Function(name=main, color=red))`},
		{"item", `Program(Function(name=main, Constant(1)))`},
		{"unary_op", `Program(Function(name=main, Return(UnaryOp(op=Plus, Constant(1)))))`},
		{"binary_arity", `Program(Function(name=main, Return(BinaryOp(op=Add, Constant(1)))))`},
		{"literal", `Program(Function(name=main, Return(Constant())))`},
		{"dup", `Program(Function(name=main, name=other))`},
		{"init", `Program(Function(name=main, Declaration(name=x, Constant(1), Constant(2))))`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(context.Background(), []byte(tc.text))
			assert.Error(t, err)
		})
	}
}

func TestParsePartial(t *testing.T) {
	_, err := Parse(context.Background(), []byte("Program(Function(name=main))\n)"))

	var pe PartialReadError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 29, pe.End)
}

func TestPos(t *testing.T) {
	s := New([]byte("ab\ncd\n\nef"))

	for _, tc := range []struct {
		i, line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{5, 2, 3},
		{7, 4, 1},
		{100, 4, 3},
	} {
		line, col := s.Pos(tc.i)
		assert.Equal(t, []int{tc.line, tc.col}, []int{line, col}, "offset %d", tc.i)
	}
}
