package back

import (
	"context"
	"fmt"
	"reflect"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/anthonycabreralara/antcc/compiler/asm"
	"github.com/anthonycabreralara/antcc/compiler/ir"
)

type (
	Compiler struct {
		Platform Platform
	}

	UnsupportedError struct {
		Stage string
		Node  any
		PC    loc.PC
	}
)

func New(pl Platform) *Compiler {
	return &Compiler{Platform: pl}
}

// Codegen selects instructions for p, assigns stack slots and legalizes
// the result. The returned tree is verified and ready for emission.
func (c *Compiler) Codegen(ctx context.Context, p *ir.Program) (_ *asm.Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "back: codegen")
	defer tr.Finish("err", &err)

	sel, err := Select(ctx, p)
	if err != nil {
		return nil, errors.Wrap(err, "select")
	}

	f, slots := AssignStorage(ctx, sel.Func)
	f = Legalize(ctx, f, slots)

	err = Verify(ctx, f)
	if err != nil {
		return nil, errors.Wrap(err, "verify")
	}

	if tr.If("dump_asm") {
		for i, x := range f.Code {
			tr.Printw("asm", "i", i, "typ", tlog.NextAsType, x, "val", x)
		}
	}

	return &asm.Program{Func: f}, nil
}

func (c *Compiler) CompileProgram(ctx context.Context, b []byte, p *ir.Program) (_ []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "back: compile program", "platform", c.Platform)
	defer tr.Finish("err", &err)

	ap, err := c.Codegen(ctx, p)
	if err != nil {
		return nil, err
	}

	return Emit(ctx, b, c.Platform, ap)
}

func newUnsupported(stage string, x any) UnsupportedError {
	return UnsupportedError{
		Stage: stage,
		Node:  x,
		PC:    loc.Caller(1),
	}
}

func (e UnsupportedError) Error() string {
	return fmt.Sprintf("%v: unsupported node: %v %v (rejected at %v)", e.Stage, reflect.TypeOf(e.Node), e.Node, e.PC)
}
