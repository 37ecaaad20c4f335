package asm

import (
	"fmt"

	"tlog.app/go/tlog/tlwire"
)

// Target instruction tree for the x86 stack-frame calling convention.
// Two-operand instructions are in AT&T order: Src first, Dst second.
type (
	Instr interface {
		instr()
	}

	Operand interface {
		operand()
	}

	Program struct {
		Func *Func
	}

	Func struct {
		Name string

		Code []Instr
	}

	Imm string

	Reg int

	// Pseudo names a temporary that has no storage yet.
	Pseudo string

	// Stack is an offset from the frame base, always negative.
	Stack int

	Cond string

	Label string

	UnaryOp int

	BinaryOp int

	Mov struct {
		Src Operand
		Dst Operand
	}

	Unary struct {
		Op  UnaryOp
		Dst Operand
	}

	Binary struct {
		Op  BinaryOp
		Src Operand
		Dst Operand
	}

	// Cmp sets flags from Dst - Src.
	Cmp struct {
		Src Operand
		Dst Operand
	}

	Idiv struct {
		Src Operand
	}

	Cdq struct{}

	Jmp struct {
		Label Label
	}

	JmpCC struct {
		Cond  Cond
		Label Label
	}

	SetCC struct {
		Cond Cond
		Dst  Operand
	}

	AllocateStack int

	Ret struct{}
)

const (
	AX Reg = iota
	DX
	R10
	R11
)

const (
	E  Cond = "E"
	NE Cond = "NE"
	L  Cond = "L"
	LE Cond = "LE"
	G  Cond = "G"
	GE Cond = "GE"
)

const (
	Neg UnaryOp = iota
	Not
)

const (
	Add BinaryOp = iota
	Sub
	Mul
)

func (Mov) instr()           {}
func (Unary) instr()         {}
func (Binary) instr()        {}
func (Cmp) instr()           {}
func (Idiv) instr()          {}
func (Cdq) instr()           {}
func (Jmp) instr()           {}
func (JmpCC) instr()         {}
func (SetCC) instr()         {}
func (Label) instr()         {}
func (AllocateStack) instr() {}
func (Ret) instr()           {}

func (Imm) operand()    {}
func (Reg) operand()    {}
func (Pseudo) operand() {}
func (Stack) operand()  {}

var regNames = [...]string{
	AX:  "AX",
	DX:  "DX",
	R10: "R10",
	R11: "R11",
}

func (r Reg) String() string {
	if r < 0 || int(r) >= len(regNames) {
		return fmt.Sprintf("Reg(%d)", int(r))
	}

	return regNames[r]
}

func (op UnaryOp) String() string {
	switch op {
	case Neg:
		return "Neg"
	case Not:
		return "Not"
	}

	return fmt.Sprintf("UnaryOp(%d)", int(op))
}

func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "Add"
	case Sub:
		return "Sub"
	case Mul:
		return "Mult"
	}

	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

// Memory reports whether x addresses memory.
func Memory(x Operand) bool {
	switch x.(type) {
	case Stack, Pseudo:
		return true
	}

	return false
}

// Operands returns the operands of x in source order.
func Operands(x Instr) []Operand {
	switch x := x.(type) {
	case Mov:
		return []Operand{x.Src, x.Dst}
	case Unary:
		return []Operand{x.Dst}
	case Binary:
		return []Operand{x.Src, x.Dst}
	case Cmp:
		return []Operand{x.Src, x.Dst}
	case Idiv:
		return []Operand{x.Src}
	case SetCC:
		return []Operand{x.Dst}
	}

	return nil
}

// MapOperands returns x with every operand replaced by f(operand).
// f is called in source order.
func MapOperands(x Instr, f func(Operand) Operand) Instr {
	switch x := x.(type) {
	case Mov:
		x.Src, x.Dst = f(x.Src), f(x.Dst)
		return x
	case Unary:
		x.Dst = f(x.Dst)
		return x
	case Binary:
		x.Src, x.Dst = f(x.Src), f(x.Dst)
		return x
	case Cmp:
		x.Src, x.Dst = f(x.Src), f(x.Dst)
		return x
	case Idiv:
		x.Src = f(x.Src)
		return x
	case SetCC:
		x.Dst = f(x.Dst)
		return x
	}

	return x
}

func (x Stack) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	return e.AppendString(b, fmt.Sprintf("%d(%%rbp)", int(x)))
}

func (r Reg) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	return e.AppendString(b, r.String())
}
