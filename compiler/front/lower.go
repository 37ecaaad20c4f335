package front

import (
	"context"
	"fmt"
	"reflect"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/anthonycabreralara/antcc/compiler/ast"
	"github.com/anthonycabreralara/antcc/compiler/ir"
)

type (
	// pkgContext holds counters for one compilation.
	// Temporary and label names are unique within it.
	pkgContext struct {
		nexttmp   int
		nextlabel map[string]int
	}

	funContext struct {
		*pkgContext

		code []ir.Instr
	}

	UnsupportedError struct {
		Node ast.Node
		PC   loc.PC
	}
)

const (
	labelAndFalse = "and_false"
	labelOrTrue   = "or_true"
	labelEnd      = "end"
)

func Lower(ctx context.Context, p *ast.Program) (_ *ir.Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "front: lower program")
	defer tr.Finish("err", &err)

	if p == nil || p.Func == nil {
		return nil, errors.New("program has no function")
	}

	c := &pkgContext{
		nextlabel: make(map[string]int),
	}

	f, err := c.lowerFunc(ctx, p.Func)
	if err != nil {
		return nil, errors.Wrap(err, "func %v", p.Func.Name)
	}

	if tr.If("dump_tacky") {
		for i, x := range f.Code {
			tr.Printw("tacky", "i", i, "typ", tlog.NextAsType, x, "val", x)
		}
	}

	return &ir.Program{Func: f}, nil
}

func (c *pkgContext) lowerFunc(ctx context.Context, fn *ast.Function) (_ *ir.Func, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "lower func", "name", fn.Name, "items", len(fn.Body))
	defer tr.Finish("err", &err)

	f := &funContext{pkgContext: c}

	for i, it := range fn.Body {
		err = f.item(ctx, it)
		if err != nil {
			return nil, errors.Wrap(err, "item %d", i)
		}
	}

	if l := len(f.code); l == 0 || !isReturn(f.code[l-1]) {
		f.code = append(f.code, ir.Return{Val: ir.Constant("0")})
	}

	return &ir.Func{
		Name: fn.Name,
		Code: f.code,
	}, nil
}

func (f *funContext) item(ctx context.Context, x ast.Item) error {
	switch x := x.(type) {
	case ast.Return:
		v, err := f.expr(ctx, x.Expr)
		if err != nil {
			return errors.Wrap(err, "return")
		}

		f.emit(ir.Return{Val: v})
	case ast.ExprStatement:
		_, err := f.expr(ctx, x.Expr)
		if err != nil {
			return errors.Wrap(err, "expression statement")
		}
	default:
		return newUnsupported(x)
	}

	return nil
}

func (f *funContext) expr(ctx context.Context, x ast.Expr) (ir.Value, error) {
	switch x := x.(type) {
	case ast.Constant:
		return ir.Constant(x), nil
	case ast.UnaryOp:
		src, err := f.expr(ctx, x.Expr)
		if err != nil {
			return nil, errors.Wrap(err, "%v operand", x.Op)
		}

		dst := f.tmp()

		f.emit(ir.Unary{Op: x.Op, Src: src, Dst: dst})

		return dst, nil
	case ast.BinaryOp:
		switch x.Op {
		case ast.And:
			return f.and(ctx, x)
		case ast.Or:
			return f.or(ctx, x)
		}

		l, err := f.expr(ctx, x.Left)
		if err != nil {
			return nil, errors.Wrap(err, "%v left", x.Op)
		}

		r, err := f.expr(ctx, x.Right)
		if err != nil {
			return nil, errors.Wrap(err, "%v right", x.Op)
		}

		dst := f.tmp()

		f.emit(ir.Binary{Op: x.Op, L: l, R: r, Dst: dst})

		return dst, nil
	default:
		return nil, newUnsupported(x)
	}
}

// and evaluates Right only if Left is non-zero.
func (f *funContext) and(ctx context.Context, x ast.BinaryOp) (ir.Value, error) {
	lfalse := f.label(labelAndFalse)
	lend := f.label(labelEnd)

	l, err := f.expr(ctx, x.Left)
	if err != nil {
		return nil, errors.Wrap(err, "and left")
	}

	f.emit(ir.JumpIfZero{Cond: l, Label: lfalse})

	r, err := f.expr(ctx, x.Right)
	if err != nil {
		return nil, errors.Wrap(err, "and right")
	}

	f.emit(ir.JumpIfZero{Cond: r, Label: lfalse})

	dst := f.tmp()

	f.emit(
		ir.Copy{Src: ir.Constant("1"), Dst: dst},
		ir.Jump{Label: lend},
		lfalse,
		ir.Copy{Src: ir.Constant("0"), Dst: dst},
		lend,
	)

	return dst, nil
}

// or evaluates Right only if Left is zero.
func (f *funContext) or(ctx context.Context, x ast.BinaryOp) (ir.Value, error) {
	ltrue := f.label(labelOrTrue)
	lend := f.label(labelEnd)

	l, err := f.expr(ctx, x.Left)
	if err != nil {
		return nil, errors.Wrap(err, "or left")
	}

	f.emit(ir.JumpIfNotZero{Cond: l, Label: ltrue})

	r, err := f.expr(ctx, x.Right)
	if err != nil {
		return nil, errors.Wrap(err, "or right")
	}

	f.emit(ir.JumpIfNotZero{Cond: r, Label: ltrue})

	dst := f.tmp()

	f.emit(
		ir.Copy{Src: ir.Constant("0"), Dst: dst},
		ir.Jump{Label: lend},
		ltrue,
		ir.Copy{Src: ir.Constant("1"), Dst: dst},
		lend,
	)

	return dst, nil
}

func (f *funContext) emit(x ...ir.Instr) {
	f.code = append(f.code, x...)
}

func (c *pkgContext) tmp() ir.Var {
	n := c.nexttmp
	c.nexttmp++

	return ir.Var(fmt.Sprintf("tmp.%d", n))
}

func (c *pkgContext) label(category string) ir.Label {
	n := c.nextlabel[category]
	c.nextlabel[category]++

	return ir.Label(fmt.Sprintf("%s%d", category, n))
}

func isReturn(x ir.Instr) bool {
	_, ok := x.(ir.Return)
	return ok
}

func newUnsupported(x ast.Node) UnsupportedError {
	return UnsupportedError{
		Node: x,
		PC:   loc.Caller(1),
	}
}

func (e UnsupportedError) Error() string {
	return fmt.Sprintf("lower: unsupported node: %v %v (rejected at %v)", reflect.TypeOf(e.Node), e.Node, e.PC)
}
