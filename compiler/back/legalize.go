package back

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/anthonycabreralara/antcc/compiler/asm"
)

// Legalize rewrites instructions whose operand combination x86 cannot encode
// and prefixes the code with the frame allocation for slots stack slots.
// No rewritten sequence is itself illegal, so a single pass is enough.
func Legalize(ctx context.Context, f *asm.Func, slots int) *asm.Func {
	tr := tlog.SpanFromContext(ctx)

	code := make([]asm.Instr, 0, len(f.Code)+len(f.Code)/2+1)
	code = append(code, asm.AllocateStack(slots*slotSize))

	for i, x := range f.Code {
		l := len(code)

		code = legalize(code, x)

		if n := len(code) - l; n != 1 {
			tr.V("legalize").Printw("rewrite", "i", i, "typ", tlog.NextAsType, x, "instr", x, "into", n)
		}
	}

	return &asm.Func{
		Name: f.Name,
		Code: code,
	}
}

func legalize(b []asm.Instr, x asm.Instr) []asm.Instr {
	switch x := x.(type) {
	case asm.Mov:
		if asm.Memory(x.Src) && asm.Memory(x.Dst) {
			return append(b,
				asm.Mov{Src: x.Src, Dst: asm.R10},
				asm.Mov{Src: asm.R10, Dst: x.Dst},
			)
		}
	case asm.Binary:
		switch {
		case x.Op == asm.Mul && asm.Memory(x.Dst):
			return append(b,
				asm.Mov{Src: x.Dst, Dst: asm.R11},
				asm.Binary{Op: x.Op, Src: x.Src, Dst: asm.R11},
				asm.Mov{Src: asm.R11, Dst: x.Dst},
			)
		case asm.Memory(x.Src) && asm.Memory(x.Dst):
			return append(b,
				asm.Mov{Src: x.Src, Dst: asm.R10},
				asm.Binary{Op: x.Op, Src: asm.R10, Dst: x.Dst},
			)
		}
	case asm.Cmp:
		switch {
		case isImm(x.Dst):
			return append(b,
				asm.Mov{Src: x.Dst, Dst: asm.R11},
				asm.Cmp{Src: x.Src, Dst: asm.R11},
			)
		case asm.Memory(x.Src) && asm.Memory(x.Dst):
			return append(b,
				asm.Mov{Src: x.Src, Dst: asm.R10},
				asm.Cmp{Src: asm.R10, Dst: x.Dst},
			)
		}
	case asm.Idiv:
		if isImm(x.Src) {
			return append(b,
				asm.Mov{Src: x.Src, Dst: asm.R10},
				asm.Idiv{Src: asm.R10},
			)
		}
	}

	return append(b, x)
}

// illegal returns why x cannot be encoded, or "" if it can.
func illegal(x asm.Instr) string {
	switch x := x.(type) {
	case asm.Mov:
		if asm.Memory(x.Src) && asm.Memory(x.Dst) {
			return "memory to memory mov"
		}
		if isImm(x.Dst) {
			return "immediate destination"
		}
	case asm.Unary:
		if isImm(x.Dst) {
			return "immediate destination"
		}
	case asm.Binary:
		if x.Op == asm.Mul && asm.Memory(x.Dst) {
			return "multiply into memory"
		}
		if asm.Memory(x.Src) && asm.Memory(x.Dst) {
			return "memory to memory arithmetic"
		}
		if isImm(x.Dst) {
			return "immediate destination"
		}
	case asm.Cmp:
		if asm.Memory(x.Src) && asm.Memory(x.Dst) {
			return "memory to memory compare"
		}
		if isImm(x.Dst) {
			return "immediate compared against"
		}
	case asm.Idiv:
		if isImm(x.Src) {
			return "immediate divisor"
		}
	case asm.SetCC:
		if isImm(x.Dst) {
			return "immediate destination"
		}
	}

	for _, op := range asm.Operands(x) {
		if _, ok := op.(asm.Pseudo); ok {
			return "pseudo operand"
		}
	}

	return ""
}

func isImm(x asm.Operand) bool {
	_, ok := x.(asm.Imm)
	return ok
}
