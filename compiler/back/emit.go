package back

import (
	"context"
	"strconv"
	"strings"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/anthonycabreralara/antcc/compiler/asm"
)

type (
	Platform int
)

const (
	Linux Platform = iota
	Darwin
)

var regNames = map[asm.Reg][2]string{ // 4-byte, 1-byte
	asm.AX:  {"%eax", "%al"},
	asm.DX:  {"%edx", "%dl"},
	asm.R10: {"%r10d", "%r10b"},
	asm.R11: {"%r11d", "%r11b"},
}

// Emit appends AT&T assembly text for p to b.
func Emit(ctx context.Context, b []byte, pl Platform, p *asm.Program) (_ []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "back: emit", "platform", pl)
	defer tr.Finish("err", &err)

	if p == nil || p.Func == nil {
		return nil, errors.New("program has no function")
	}

	st := len(b)

	b, err = emitFunc(ctx, b, pl, p.Func)
	if err != nil {
		return nil, errors.Wrap(err, "func %v", p.Func.Name)
	}

	if pl == Linux {
		b = append(b, "\t.section .note.GNU-stack,\"\",@progbits\n"...)
	}

	tr.V("emit").Printw("emitted", "size", len(b)-st)

	return b, nil
}

func emitFunc(ctx context.Context, b []byte, pl Platform, f *asm.Func) (_ []byte, err error) {
	name := pl.symbol(f.Name)

	b = hfmt.Appendf(b, "\t.globl %s\n%[1]s:\n", name)
	b = append(b, "\tpushq\t%rbp\n\tmovq\t%rsp, %rbp\n"...)

	for i, x := range f.Code {
		b, err = emitInstr(b, pl, x)
		if err != nil {
			return nil, errors.Wrap(err, "instr %d", i)
		}
	}

	return b, nil
}

func emitInstr(b []byte, pl Platform, x asm.Instr) ([]byte, error) {
	switch x := x.(type) {
	case asm.Mov:
		return emit2(b, "movl", x.Src, x.Dst)
	case asm.Unary:
		var m string

		switch x.Op {
		case asm.Neg:
			m = "negl"
		case asm.Not:
			m = "notl"
		default:
			return nil, newUnsupported("emit", x.Op)
		}

		return emit1(b, m, x.Dst, 4)
	case asm.Binary:
		var m string

		switch x.Op {
		case asm.Add:
			m = "addl"
		case asm.Sub:
			m = "subl"
		case asm.Mul:
			m = "imull"
		default:
			return nil, newUnsupported("emit", x.Op)
		}

		return emit2(b, m, x.Src, x.Dst)
	case asm.Cmp:
		return emit2(b, "cmpl", x.Src, x.Dst)
	case asm.Idiv:
		return emit1(b, "idivl", x.Src, 4)
	case asm.Cdq:
		return append(b, "\tcdq\n"...), nil
	case asm.Jmp:
		return hfmt.Appendf(b, "\tjmp\t%s\n", pl.label(x.Label)), nil
	case asm.JmpCC:
		cc, err := cond(x.Cond)
		if err != nil {
			return nil, err
		}

		return hfmt.Appendf(b, "\tj%s\t%s\n", cc, pl.label(x.Label)), nil
	case asm.SetCC:
		cc, err := cond(x.Cond)
		if err != nil {
			return nil, err
		}

		return emit1(b, "set"+cc, x.Dst, 1)
	case asm.Label:
		return hfmt.Appendf(b, "%s:\n", pl.label(x)), nil
	case asm.AllocateStack:
		return hfmt.Appendf(b, "\tsubq\t$%d, %%rsp\n", int(x)), nil
	case asm.Ret:
		return append(b, "\tmovq\t%rbp, %rsp\n\tpopq\t%rbp\n\tret\n"...), nil
	default:
		return nil, newUnsupported("emit", x)
	}
}

func emit1(b []byte, m string, x asm.Operand, size int) ([]byte, error) {
	s, err := operandText(x, size)
	if err != nil {
		return nil, errors.Wrap(err, "%v", m)
	}

	return hfmt.Appendf(b, "\t%s\t%s\n", m, s), nil
}

func emit2(b []byte, m string, src, dst asm.Operand) ([]byte, error) {
	s, err := operandText(src, 4)
	if err != nil {
		return nil, errors.Wrap(err, "%v src", m)
	}

	d, err := operandText(dst, 4)
	if err != nil {
		return nil, errors.Wrap(err, "%v dst", m)
	}

	return hfmt.Appendf(b, "\t%s\t%s, %s\n", m, s, d), nil
}

func operandText(x asm.Operand, size int) (string, error) {
	switch x := x.(type) {
	case asm.Imm:
		return "$" + string(x), nil
	case asm.Reg:
		n, ok := regNames[x]
		if !ok {
			return "", newUnsupported("emit", x)
		}

		if size == 1 {
			return n[1], nil
		}

		return n[0], nil
	case asm.Stack:
		return strconv.Itoa(int(x)) + "(%rbp)", nil
	default:
		return "", newUnsupported("emit", x)
	}
}

func cond(c asm.Cond) (string, error) {
	switch c {
	case asm.E, asm.NE, asm.L, asm.LE, asm.G, asm.GE:
		return strings.ToLower(string(c)), nil
	}

	return "", newUnsupported("emit", c)
}

func (pl Platform) symbol(name string) string {
	if pl == Darwin {
		return "_" + name
	}

	return name
}

func (pl Platform) label(l asm.Label) string {
	if pl == Darwin {
		return "L" + string(l)
	}

	return ".L" + string(l)
}

func (pl Platform) String() string {
	switch pl {
	case Linux:
		return "linux"
	case Darwin:
		return "darwin"
	}

	return "platform(" + strconv.Itoa(int(pl)) + ")"
}

func ParsePlatform(s string) (Platform, error) {
	switch s {
	case "", "linux":
		return Linux, nil
	case "darwin", "macos":
		return Darwin, nil
	}

	return 0, errors.New("unknown platform: %q", s)
}
