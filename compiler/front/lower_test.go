package front

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthonycabreralara/antcc/compiler/ast"
	"github.com/anthonycabreralara/antcc/compiler/ir"
)

func TestLowerConstant(t *testing.T) {
	p := lower(t, ast.Return{Expr: ast.Constant("2")})

	assert.Equal(t, "main", p.Func.Name)
	assert.Equal(t, []ir.Instr{
		ir.Return{Val: ir.Constant("2")},
	}, p.Func.Code)
}

func TestLowerNested(t *testing.T) {
	// -(~3) * (4 - 1)
	x := ast.BinaryOp{
		Op:    ast.Mul,
		Left:  ast.UnaryOp{Op: ast.Negate, Expr: ast.UnaryOp{Op: ast.Complement, Expr: ast.Constant("3")}},
		Right: ast.BinaryOp{Op: ast.Sub, Left: ast.Constant("4"), Right: ast.Constant("1")},
	}

	p := lower(t, ast.Return{Expr: x})

	assert.Equal(t, []ir.Instr{
		ir.Unary{Op: ast.Complement, Src: ir.Constant("3"), Dst: "tmp.0"},
		ir.Unary{Op: ast.Negate, Src: ir.Var("tmp.0"), Dst: "tmp.1"},
		ir.Binary{Op: ast.Sub, L: ir.Constant("4"), R: ir.Constant("1"), Dst: "tmp.2"},
		ir.Binary{Op: ast.Mul, L: ir.Var("tmp.1"), R: ir.Var("tmp.2"), Dst: "tmp.3"},
		ir.Return{Val: ir.Var("tmp.3")},
	}, p.Func.Code)
}

func TestLowerAnd(t *testing.T) {
	x := ast.BinaryOp{Op: ast.And, Left: ast.Constant("1"), Right: ast.Constant("0")}

	p := lower(t, ast.Return{Expr: x})

	assert.Equal(t, []ir.Instr{
		ir.JumpIfZero{Cond: ir.Constant("1"), Label: "and_false0"},
		ir.JumpIfZero{Cond: ir.Constant("0"), Label: "and_false0"},
		ir.Copy{Src: ir.Constant("1"), Dst: "tmp.0"},
		ir.Jump{Label: "end0"},
		ir.Label("and_false0"),
		ir.Copy{Src: ir.Constant("0"), Dst: "tmp.0"},
		ir.Label("end0"),
		ir.Return{Val: ir.Var("tmp.0")},
	}, p.Func.Code)
}

func TestLowerOrShortCircuit(t *testing.T) {
	// (1 + 1) || (2 / 0)
	x := ast.BinaryOp{
		Op:    ast.Or,
		Left:  ast.BinaryOp{Op: ast.Add, Left: ast.Constant("1"), Right: ast.Constant("1")},
		Right: ast.BinaryOp{Op: ast.Div, Left: ast.Constant("2"), Right: ast.Constant("0")},
	}

	p := lower(t, ast.Return{Expr: x})

	assert.Equal(t, []ir.Instr{
		ir.Binary{Op: ast.Add, L: ir.Constant("1"), R: ir.Constant("1"), Dst: "tmp.0"},
		ir.JumpIfNotZero{Cond: ir.Var("tmp.0"), Label: "or_true0"},
		ir.Binary{Op: ast.Div, L: ir.Constant("2"), R: ir.Constant("0"), Dst: "tmp.1"},
		ir.JumpIfNotZero{Cond: ir.Var("tmp.1"), Label: "or_true0"},
		ir.Copy{Src: ir.Constant("0"), Dst: "tmp.2"},
		ir.Jump{Label: "end0"},
		ir.Label("or_true0"),
		ir.Copy{Src: ir.Constant("1"), Dst: "tmp.2"},
		ir.Label("end0"),
		ir.Return{Val: ir.Var("tmp.2")},
	}, p.Func.Code)
}

func TestLowerLabelsUnique(t *testing.T) {
	// (1 && 2) || (3 && 4)
	x := ast.BinaryOp{
		Op:    ast.Or,
		Left:  ast.BinaryOp{Op: ast.And, Left: ast.Constant("1"), Right: ast.Constant("2")},
		Right: ast.BinaryOp{Op: ast.And, Left: ast.Constant("3"), Right: ast.Constant("4")},
	}

	p := lower(t, ast.Return{Expr: x})

	defined := map[ir.Label]int{}
	targets := map[ir.Label]bool{}

	for _, in := range p.Func.Code {
		switch in := in.(type) {
		case ir.Label:
			defined[in]++
		case ir.Jump:
			targets[in.Label] = true
		case ir.JumpIfZero:
			targets[in.Label] = true
		case ir.JumpIfNotZero:
			targets[in.Label] = true
		}
	}

	for l, n := range defined {
		assert.Equal(t, 1, n, "label %v", l)
	}

	for l := range targets {
		assert.Contains(t, defined, l)
	}

	assert.Equal(t, map[ir.Label]int{
		"or_true0":   1,
		"end0":       1,
		"and_false0": 1,
		"end1":       1,
		"and_false1": 1,
		"end2":       1,
	}, defined)
}

func TestLowerSingleAssignment(t *testing.T) {
	x := ast.BinaryOp{
		Op:   ast.Add,
		Left: ast.UnaryOp{Op: ast.Not, Expr: ast.Constant("0")},
		Right: ast.BinaryOp{
			Op:    ast.Ge,
			Left:  ast.BinaryOp{Op: ast.Rem, Left: ast.Constant("7"), Right: ast.Constant("2")},
			Right: ast.UnaryOp{Op: ast.Negate, Expr: ast.Constant("1")},
		},
	}

	p := lower(t, ast.Return{Expr: x})

	defs := map[ir.Var]int{}

	for _, in := range p.Func.Code {
		for _, v := range ir.Uses(in) {
			if v, ok := v.(ir.Var); ok {
				assert.Contains(t, defs, v, "use before def")
			}
		}

		if v, ok := ir.Defs(in); ok {
			defs[v]++
		}
	}

	for v, n := range defs {
		assert.Equal(t, 1, n, "var %v", v)
	}

	assert.Len(t, defs, 5)
}

func TestLowerDeterministic(t *testing.T) {
	x := ast.BinaryOp{
		Op:    ast.And,
		Left:  ast.BinaryOp{Op: ast.Or, Left: ast.Constant("0"), Right: ast.Constant("1")},
		Right: ast.UnaryOp{Op: ast.Negate, Expr: ast.Constant("2")},
	}

	p1 := lower(t, ast.Return{Expr: x})
	p2 := lower(t, ast.Return{Expr: x})

	assert.Equal(t, p1, p2)
}

func TestLowerImplicitReturn(t *testing.T) {
	p := lower(t, ast.ExprStatement{Expr: ast.UnaryOp{Op: ast.Negate, Expr: ast.Constant("1")}})

	assert.Equal(t, []ir.Instr{
		ir.Unary{Op: ast.Negate, Src: ir.Constant("1"), Dst: "tmp.0"},
		ir.Return{Val: ir.Constant("0")},
	}, p.Func.Code)

	p = lower(t)

	assert.Equal(t, []ir.Instr{
		ir.Return{Val: ir.Constant("0")},
	}, p.Func.Code)
}

func TestLowerUnsupported(t *testing.T) {
	for _, it := range []ast.Item{
		ast.Declaration{Name: "x", Init: ast.Constant("1")},
		ast.Return{Expr: ast.Variable("x")},
		ast.ExprStatement{Expr: ast.Assignment{Target: ast.Variable("x"), Value: ast.Constant("1")}},
		ast.Return{Expr: ast.BinaryOp{Op: ast.Add, Left: ast.Constant("1"), Right: ast.Variable("y")}},
	} {
		_, err := Lower(context.Background(), program(it))

		var ue UnsupportedError
		require.ErrorAs(t, err, &ue, "%+v", it)
		assert.NotNil(t, ue.Node)
		assert.NotZero(t, ue.PC)
	}

	_, err := Lower(context.Background(), &ast.Program{})
	assert.Error(t, err)
}

func TestUnsupportedErrorNamesNode(t *testing.T) {
	_, err := Lower(context.Background(), program(ast.Return{Expr: ast.Variable("counter")}))
	require.Error(t, err)

	assert.Contains(t, err.Error(), "ast.Variable counter")
}

func program(items ...ast.Item) *ast.Program {
	return &ast.Program{
		Func: &ast.Function{
			Name: "main",
			Type: "int",
			Body: items,
		},
	}
}

func lower(tb testing.TB, items ...ast.Item) *ir.Program {
	tb.Helper()

	p, err := Lower(context.Background(), program(items...))
	require.NoError(tb, err)

	return p
}
