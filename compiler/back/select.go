package back

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/anthonycabreralara/antcc/compiler/asm"
	"github.com/anthonycabreralara/antcc/compiler/ast"
	"github.com/anthonycabreralara/antcc/compiler/ir"
)

// Select translates three-address code into target instructions
// operating on registers, immediates and pseudo locations.
func Select(ctx context.Context, p *ir.Program) (_ *asm.Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "back: select")
	defer tr.Finish("err", &err)

	if p == nil || p.Func == nil {
		return nil, errors.New("program has no function")
	}

	f, err := selectFunc(ctx, p.Func)
	if err != nil {
		return nil, errors.Wrap(err, "func %v", p.Func.Name)
	}

	return &asm.Program{Func: f}, nil
}

func selectFunc(ctx context.Context, f *ir.Func) (_ *asm.Func, err error) {
	code := make([]asm.Instr, 0, 2*len(f.Code))

	for i, x := range f.Code {
		code, err = selectInstr(code, x)
		if err != nil {
			return nil, errors.Wrap(err, "instr %d", i)
		}
	}

	tlog.SpanFromContext(ctx).V("select").Printw("selected", "func", f.Name, "tacky", len(f.Code), "asm", len(code))

	return &asm.Func{
		Name: f.Name,
		Code: code,
	}, nil
}

func selectInstr(b []asm.Instr, x ir.Instr) ([]asm.Instr, error) {
	switch x := x.(type) {
	case ir.Return:
		v, err := operand(x.Val)
		if err != nil {
			return nil, errors.Wrap(err, "return")
		}

		return append(b, asm.Mov{Src: v, Dst: asm.AX}, asm.Ret{}), nil
	case ir.Unary:
		src, err := operand(x.Src)
		if err != nil {
			return nil, errors.Wrap(err, "unary src")
		}

		if x.Op == ast.Not {
			return append(b,
				asm.Cmp{Src: asm.Imm("0"), Dst: src},
				asm.Mov{Src: asm.Imm("0"), Dst: pseudo(x.Dst)},
				asm.SetCC{Cond: asm.E, Dst: pseudo(x.Dst)},
			), nil
		}

		op, err := unaryOp(x.Op)
		if err != nil {
			return nil, err
		}

		return append(b,
			asm.Mov{Src: src, Dst: pseudo(x.Dst)},
			asm.Unary{Op: op, Dst: pseudo(x.Dst)},
		), nil
	case ir.Binary:
		return selectBinary(b, x)
	case ir.Copy:
		src, err := operand(x.Src)
		if err != nil {
			return nil, errors.Wrap(err, "copy src")
		}

		return append(b, asm.Mov{Src: src, Dst: pseudo(x.Dst)}), nil
	case ir.Jump:
		return append(b, asm.Jmp{Label: asm.Label(x.Label)}), nil
	case ir.JumpIfZero:
		return selectCondJump(b, x.Cond, asm.E, x.Label)
	case ir.JumpIfNotZero:
		return selectCondJump(b, x.Cond, asm.NE, x.Label)
	case ir.Label:
		return append(b, asm.Label(x)), nil
	default:
		return nil, newUnsupported("select", x)
	}
}

func selectBinary(b []asm.Instr, x ir.Binary) ([]asm.Instr, error) {
	l, err := operand(x.L)
	if err != nil {
		return nil, errors.Wrap(err, "%v left", x.Op)
	}

	r, err := operand(x.R)
	if err != nil {
		return nil, errors.Wrap(err, "%v right", x.Op)
	}

	dst := pseudo(x.Dst)

	switch {
	case x.Op == ast.Div, x.Op == ast.Rem:
		res := asm.AX
		if x.Op == ast.Rem {
			res = asm.DX
		}

		return append(b,
			asm.Mov{Src: l, Dst: asm.AX},
			asm.Cdq{},
			asm.Idiv{Src: r},
			asm.Mov{Src: res, Dst: dst},
		), nil
	case x.Op.Relational():
		cc, err := condCode(x.Op)
		if err != nil {
			return nil, err
		}

		return append(b,
			asm.Cmp{Src: r, Dst: l},
			asm.Mov{Src: asm.Imm("0"), Dst: dst},
			asm.SetCC{Cond: cc, Dst: pseudo(x.Dst)},
		), nil
	}

	op, err := binaryOp(x.Op)
	if err != nil {
		return nil, err
	}

	return append(b,
		asm.Mov{Src: l, Dst: dst},
		asm.Binary{Op: op, Src: r, Dst: pseudo(x.Dst)},
	), nil
}

func selectCondJump(b []asm.Instr, cond ir.Value, cc asm.Cond, l ir.Label) ([]asm.Instr, error) {
	v, err := operand(cond)
	if err != nil {
		return nil, errors.Wrap(err, "condition")
	}

	return append(b,
		asm.Cmp{Src: asm.Imm("0"), Dst: v},
		asm.JmpCC{Cond: cc, Label: asm.Label(l)},
	), nil
}

func operand(v ir.Value) (asm.Operand, error) {
	switch v := v.(type) {
	case ir.Constant:
		return asm.Imm(v), nil
	case ir.Var:
		return pseudo(v), nil
	default:
		return nil, newUnsupported("select", v)
	}
}

func pseudo(v ir.Var) asm.Pseudo {
	return asm.Pseudo(v)
}

func unaryOp(op ir.UnaryOp) (asm.UnaryOp, error) {
	switch op {
	case ast.Negate:
		return asm.Neg, nil
	case ast.Complement:
		return asm.Not, nil
	default:
		return 0, newUnsupported("select", op)
	}
}

func binaryOp(op ir.BinaryOp) (asm.BinaryOp, error) {
	switch op {
	case ast.Add:
		return asm.Add, nil
	case ast.Sub:
		return asm.Sub, nil
	case ast.Mul:
		return asm.Mul, nil
	default:
		return 0, newUnsupported("select", op)
	}
}

func condCode(op ir.BinaryOp) (asm.Cond, error) {
	switch op {
	case ast.Eq:
		return asm.E, nil
	case ast.Ne:
		return asm.NE, nil
	case ast.Lt:
		return asm.L, nil
	case ast.Le:
		return asm.LE, nil
	case ast.Gt:
		return asm.G, nil
	case ast.Ge:
		return asm.GE, nil
	default:
		return "", newUnsupported("select", op)
	}
}
