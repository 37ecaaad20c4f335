package back

import (
	"context"
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/anthonycabreralara/antcc/compiler/asm"
	"github.com/anthonycabreralara/antcc/compiler/set"
)

type (
	IllegalInstrError struct {
		Index  int
		Instr  asm.Instr
		Reason string
	}
)

// Verify checks a legalized function: frame allocation first and sized to
// the distinct slots used, no pseudo operands, no forbidden operand pairs,
// and every jump target defined.
func Verify(ctx context.Context, f *asm.Func) error {
	if len(f.Code) == 0 {
		return errors.New("func %v: no code", f.Name)
	}

	alloc, ok := f.Code[0].(asm.AllocateStack)
	if !ok {
		return IllegalInstrError{Index: 0, Instr: f.Code[0], Reason: "frame allocation expected"}
	}

	nslots := int(alloc) / slotSize
	used := set.MakeBitmap(nslots)
	labels := map[asm.Label]bool{}

	for i, x := range f.Code {
		if l, ok := x.(asm.Label); ok {
			if labels[l] {
				return IllegalInstrError{Index: i, Instr: x, Reason: "label redefined"}
			}

			labels[l] = true
		}

		if _, ok := x.(asm.AllocateStack); ok && i != 0 {
			return IllegalInstrError{Index: i, Instr: x, Reason: "frame allocation in the middle"}
		}

		if r := illegal(x); r != "" {
			return IllegalInstrError{Index: i, Instr: x, Reason: r}
		}

		for _, op := range asm.Operands(x) {
			s, ok := op.(asm.Stack)
			if !ok {
				continue
			}

			if s >= 0 || int(s)%slotSize != 0 || int(-s)/slotSize > nslots {
				return IllegalInstrError{Index: i, Instr: x, Reason: fmt.Sprintf("slot %d out of frame of %d bytes", int(s), int(alloc))}
			}

			used.Set(int(-s)/slotSize - 1)
		}
	}

	if tr := tlog.SpanFromContext(ctx); tr.If("dump_slots") {
		tr.Printw("slots used", "func", f.Name, "frame", nslots, "used", used)
	}

	if n := used.Size(); n != nslots {
		return errors.New("func %v: frame has %d slots, %d used", f.Name, nslots, n)
	}

	for i, x := range f.Code {
		var l asm.Label

		switch x := x.(type) {
		case asm.Jmp:
			l = x.Label
		case asm.JmpCC:
			l = x.Label
		default:
			continue
		}

		if !labels[l] {
			return IllegalInstrError{Index: i, Instr: x, Reason: fmt.Sprintf("undefined label %v", l)}
		}
	}

	return nil
}

func (e IllegalInstrError) Error() string {
	return fmt.Sprintf("illegal instruction %d: %+v: %v", e.Index, e.Instr, e.Reason)
}
