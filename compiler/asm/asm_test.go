package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapOperandsOrder(t *testing.T) {
	var seen []Operand

	f := func(x Operand) Operand {
		seen = append(seen, x)

		if p, ok := x.(Pseudo); ok {
			return Stack(-4 * len(p))
		}

		return x
	}

	x := MapOperands(Binary{Op: Sub, Src: Pseudo("ab"), Dst: Pseudo("a")}, f)

	assert.Equal(t, []Operand{Pseudo("ab"), Pseudo("a")}, seen)
	assert.Equal(t, Binary{Op: Sub, Src: Stack(-8), Dst: Stack(-4)}, x)

	seen = nil

	x = MapOperands(Jmp{Label: "end0"}, f)

	assert.Nil(t, seen)
	assert.Equal(t, Jmp{Label: "end0"}, x)
}

func TestOperands(t *testing.T) {
	for _, x := range []Instr{
		Mov{Src: Imm("1"), Dst: AX},
		Unary{Op: Neg, Dst: DX},
		Binary{Op: Add, Src: R10, Dst: R11},
		Cmp{Src: Imm("0"), Dst: Stack(-4)},
		Idiv{Src: R10},
		SetCC{Cond: E, Dst: Stack(-8)},
		Cdq{},
		Ret{},
		Label("x"),
		AllocateStack(8),
	} {
		var mapped []Operand

		MapOperands(x, func(o Operand) Operand {
			mapped = append(mapped, o)
			return o
		})

		assert.Equal(t, Operands(x), mapped, "%#v", x)
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, "R10", R10.String())
	assert.Equal(t, "Reg(9)", Reg(9).String())
	assert.Equal(t, "Mult", Mul.String())
	assert.Equal(t, "Neg", Neg.String())

	assert.True(t, Memory(Stack(-4)))
	assert.True(t, Memory(Pseudo("tmp.0")))
	assert.False(t, Memory(AX))
	assert.False(t, Memory(Imm("1")))
}
