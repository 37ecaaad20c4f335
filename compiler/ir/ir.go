package ir

import (
	"github.com/anthonycabreralara/antcc/compiler/ast"
)

// Three-address code. Every instruction has at most two source values
// and one destination; values are leaves only.
type (
	Instr interface {
		instr()
	}

	Value interface {
		value()
	}

	Program struct {
		Func *Func
	}

	Func struct {
		Name string

		Code []Instr
	}

	Constant string

	Var string

	Label string

	Return struct {
		Val Value
	}

	Unary struct {
		Op  UnaryOp
		Src Value
		Dst Var
	}

	Binary struct {
		Op  BinaryOp
		L   Value
		R   Value
		Dst Var
	}

	Copy struct {
		Src Value
		Dst Var
	}

	Jump struct {
		Label Label
	}

	JumpIfZero struct {
		Cond  Value
		Label Label
	}

	JumpIfNotZero struct {
		Cond  Value
		Label Label
	}

	UnaryOp = ast.UnaryOperator

	BinaryOp = ast.BinaryOperator
)

func (Return) instr()        {}
func (Unary) instr()         {}
func (Binary) instr()        {}
func (Copy) instr()          {}
func (Jump) instr()          {}
func (JumpIfZero) instr()    {}
func (JumpIfNotZero) instr() {}
func (Label) instr()         {}

func (Constant) value() {}
func (Var) value()      {}

// Defs returns the temporary written by x, if any.
func Defs(x Instr) (Var, bool) {
	switch x := x.(type) {
	case Unary:
		return x.Dst, true
	case Binary:
		return x.Dst, true
	case Copy:
		return x.Dst, true
	}

	return "", false
}

// Uses returns the values read by x in evaluation order.
func Uses(x Instr) []Value {
	switch x := x.(type) {
	case Return:
		return []Value{x.Val}
	case Unary:
		return []Value{x.Src}
	case Binary:
		return []Value{x.L, x.R}
	case Copy:
		return []Value{x.Src}
	case JumpIfZero:
		return []Value{x.Cond}
	case JumpIfNotZero:
		return []Value{x.Cond}
	}

	return nil
}
