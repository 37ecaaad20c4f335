package back

import (
	"context"

	"tlog.app/go/tlog"
	"tlog.app/go/tlog/tlwire"

	"github.com/anthonycabreralara/antcc/compiler/asm"
)

const slotSize = 4

type (
	// frame maps temporaries to stack slots in first-encounter order.
	frame struct {
		slots map[asm.Pseudo]asm.Stack
		order []asm.Pseudo
	}
)

// AssignStorage replaces every pseudo operand of f with a stack slot.
// Repeated names share one slot. It returns f and the number of slots used.
func AssignStorage(ctx context.Context, f *asm.Func) (*asm.Func, int) {
	tr := tlog.SpanFromContext(ctx)

	fr := &frame{
		slots: make(map[asm.Pseudo]asm.Stack),
	}

	for i, x := range f.Code {
		f.Code[i] = asm.MapOperands(x, fr.replace)
	}

	if tr.If("dump_slots") {
		tr.Printw("stack slots", "func", f.Name, "slots", fr)
	}

	return f, len(fr.order)
}

func (fr *frame) replace(x asm.Operand) asm.Operand {
	p, ok := x.(asm.Pseudo)
	if !ok {
		return x
	}

	return fr.slot(p)
}

func (fr *frame) slot(p asm.Pseudo) asm.Stack {
	if s, ok := fr.slots[p]; ok {
		return s
	}

	fr.order = append(fr.order, p)

	s := asm.Stack(-slotSize * len(fr.order))
	fr.slots[p] = s

	return s
}

func (fr *frame) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, len(fr.order))

	for _, p := range fr.order {
		b = e.AppendKeyInt(b, string(p), int(fr.slots[p]))
	}

	return b
}
