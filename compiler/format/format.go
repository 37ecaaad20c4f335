package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/anthonycabreralara/antcc/compiler/asm"
	"github.com/anthonycabreralara/antcc/compiler/ast"
	"github.com/anthonycabreralara/antcc/compiler/ir"
)

// Format appends a dump of an AST, three-address or target program to b.
// One node per line, children indented by a tab.
func Format(ctx context.Context, b []byte, x any) ([]byte, error) {
	switch x := x.(type) {
	case *ast.Program:
		return formatAST(ctx, b, x, 0)
	case *ir.Program:
		return formatTacky(ctx, b, x, 0)
	case *asm.Program:
		return formatAsm(ctx, b, x, 0)
	default:
		return nil, errors.New("unsupported type: %T", x)
	}
}

func formatAST(ctx context.Context, b []byte, x *ast.Program, d int) (_ []byte, err error) {
	if x.Func == nil {
		return nil, errors.New("program has no function")
	}

	f := x.Func

	b = app(b, d, "Program(\n")
	b = app(b, d+1, "Function(\n")
	b = app(b, d+2, "name=%s\n", f.Name)

	if f.Type != "" {
		b = app(b, d+2, "type=%s\n", f.Type)
	}

	for i, it := range f.Body {
		b, err = formatItem(ctx, b, it, d+2)
		if err != nil {
			return nil, errors.Wrap(err, "func %v: item %d", f.Name, i)
		}
	}

	b = app(b, d+1, ")\n")
	b = app(b, d, ")\n")

	return b, nil
}

func formatItem(ctx context.Context, b []byte, x ast.Item, d int) (_ []byte, err error) {
	switch x := x.(type) {
	case ast.Declaration:
		if x.Init == nil {
			return app(b, d, "Declaration(name=%s)\n", x.Name), nil
		}

		b = app(b, d, "Declaration(\n")
		b = app(b, d+1, "name=%s\n", x.Name)

		b, err = formatExpr(ctx, b, x.Init, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "init")
		}
	case ast.Return:
		b = app(b, d, "Return(\n")

		b, err = formatExpr(ctx, b, x.Expr, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "return")
		}
	case ast.ExprStatement:
		b = app(b, d, "ExprStatement(\n")

		b, err = formatExpr(ctx, b, x.Expr, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "expr")
		}
	default:
		return nil, errors.New("unsupported item: %T", x)
	}

	return app(b, d, ")\n"), nil
}

func formatExpr(ctx context.Context, b []byte, x ast.Expr, d int) (_ []byte, err error) {
	switch x := x.(type) {
	case ast.Constant:
		return app(b, d, "Constant(%s)\n", string(x)), nil
	case ast.Variable:
		return app(b, d, "Variable(%s)\n", string(x)), nil
	case ast.UnaryOp:
		b = app(b, d, "UnaryOp(\n")
		b = app(b, d+1, "op=%v\n", x.Op)

		b, err = formatExpr(ctx, b, x.Expr, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "operand")
		}
	case ast.BinaryOp:
		b = app(b, d, "BinaryOp(\n")
		b = app(b, d+1, "op=%v\n", x.Op)

		b, err = formatExpr(ctx, b, x.Left, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "left")
		}

		b, err = formatExpr(ctx, b, x.Right, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "right")
		}
	case ast.Assignment:
		b = app(b, d, "Assignment(\n")

		b, err = formatExpr(ctx, b, x.Target, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "target")
		}

		b, err = formatExpr(ctx, b, x.Value, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "value")
		}
	default:
		return nil, errors.New("unsupported expr: %T", x)
	}

	return app(b, d, ")\n"), nil
}

func formatTacky(ctx context.Context, b []byte, x *ir.Program, d int) (_ []byte, err error) {
	if x.Func == nil {
		return nil, errors.New("program has no function")
	}

	b = app(b, d, "Program(\n")
	b = app(b, d+1, "Function(\n")
	b = app(b, d+2, "name=%s\n", x.Func.Name)

	for i, in := range x.Func.Code {
		b, err = formatTackyInstr(b, in, d+2)
		if err != nil {
			return nil, errors.Wrap(err, "func %v: instr %d", x.Func.Name, i)
		}
	}

	b = app(b, d+1, ")\n")
	b = app(b, d, ")\n")

	return b, nil
}

func formatTackyInstr(b []byte, x ir.Instr, d int) (_ []byte, err error) {
	var vals []ir.Value

	switch x := x.(type) {
	case ir.Label:
		return app(b, d, "Label(%s)\n", string(x)), nil
	case ir.Jump:
		return app(b, d, "Jump(%s)\n", string(x.Label)), nil
	case ir.Return:
		b = app(b, d, "Return(\n")
		vals = []ir.Value{x.Val}
	case ir.Unary:
		b = app(b, d, "Unary(\n")
		b = app(b, d+1, "op=%v\n", x.Op)
		vals = []ir.Value{x.Src, x.Dst}
	case ir.Binary:
		b = app(b, d, "Binary(\n")
		b = app(b, d+1, "op=%v\n", x.Op)
		vals = []ir.Value{x.L, x.R, x.Dst}
	case ir.Copy:
		b = app(b, d, "Copy(\n")
		vals = []ir.Value{x.Src, x.Dst}
	case ir.JumpIfZero:
		b = app(b, d, "JumpIfZero(\n")
		b = app(b, d+1, "target=%s\n", string(x.Label))
		vals = []ir.Value{x.Cond}
	case ir.JumpIfNotZero:
		b = app(b, d, "JumpIfNotZero(\n")
		b = app(b, d+1, "target=%s\n", string(x.Label))
		vals = []ir.Value{x.Cond}
	default:
		return nil, errors.New("unsupported instr: %T", x)
	}

	for _, v := range vals {
		switch v := v.(type) {
		case ir.Constant:
			b = app(b, d+1, "Constant(%s)\n", string(v))
		case ir.Var:
			b = app(b, d+1, "Var(%s)\n", string(v))
		default:
			return nil, errors.New("unsupported value: %T", v)
		}
	}

	return app(b, d, ")\n"), nil
}

func formatAsm(ctx context.Context, b []byte, x *asm.Program, d int) (_ []byte, err error) {
	if x.Func == nil {
		return nil, errors.New("program has no function")
	}

	b = app(b, d, "Program(\n")
	b = app(b, d+1, "Function(\n")
	b = app(b, d+2, "name=%s\n", x.Func.Name)

	for i, in := range x.Func.Code {
		b, err = formatAsmInstr(b, in, d+2)
		if err != nil {
			return nil, errors.Wrap(err, "func %v: instr %d", x.Func.Name, i)
		}
	}

	b = app(b, d+1, ")\n")
	b = app(b, d, ")\n")

	return b, nil
}

func formatAsmInstr(b []byte, x asm.Instr, d int) (_ []byte, err error) {
	switch x := x.(type) {
	case asm.Label:
		return app(b, d, "Label(%s)\n", string(x)), nil
	case asm.Jmp:
		return app(b, d, "Jmp(%s)\n", string(x.Label)), nil
	case asm.AllocateStack:
		return app(b, d, "AllocateStack(%d)\n", int(x)), nil
	case asm.Cdq:
		return app(b, d, "Cdq()\n"), nil
	case asm.Ret:
		return app(b, d, "Ret()\n"), nil
	case asm.Mov:
		b = app(b, d, "Mov(\n")
	case asm.Unary:
		b = app(b, d, "Unary(\n")
		b = app(b, d+1, "op=%v\n", x.Op)
	case asm.Binary:
		b = app(b, d, "Binary(\n")
		b = app(b, d+1, "op=%v\n", x.Op)
	case asm.Cmp:
		b = app(b, d, "Cmp(\n")
	case asm.Idiv:
		b = app(b, d, "Idiv(\n")
	case asm.JmpCC:
		b = app(b, d, "JmpCC(\n")
		b = app(b, d+1, "cond=%s\n", string(x.Cond))
		b = app(b, d+1, "target=%s\n", string(x.Label))
	case asm.SetCC:
		b = app(b, d, "SetCC(\n")
		b = app(b, d+1, "cond=%s\n", string(x.Cond))
	default:
		return nil, errors.New("unsupported instr: %T", x)
	}

	for _, op := range asm.Operands(x) {
		switch op := op.(type) {
		case asm.Imm:
			b = app(b, d+1, "Imm(%s)\n", string(op))
		case asm.Reg:
			b = app(b, d+1, "Reg(%v)\n", op)
		case asm.Pseudo:
			b = app(b, d+1, "Pseudo(%s)\n", string(op))
		case asm.Stack:
			b = app(b, d+1, "Stack(%d)\n", int(op))
		default:
			return nil, errors.New("unsupported operand: %T", op)
		}
	}

	return app(b, d, ")\n"), nil
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"

	for d > len(tabs) {
		b = append(b, tabs...)
		d -= len(tabs)
	}

	b = append(b, tabs[:d]...)
	b = hfmt.Appendf(b, f, args...)

	return b
}
