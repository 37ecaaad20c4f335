package parse

import (
	"context"
)

type (
	// Call is a parsed Name(items...) node.
	Call struct {
		Name string
		Args []any // Call, KV or Atom
	}

	KV struct {
		Key string
		Val string
	}

	Node struct{}

	Item struct{}

	KeyValue struct{}
)

func (p Node) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	r := AllOf{
		Ident{},
		Const("("),
		Many{Of: Spaced(Item{}, Separator)},
		Spaced(Const(")"), Separator),
	}

	x, i, err = r.Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	xt := x.([]any)

	c := Call{
		Name: string(xt[0].(Ident)),
	}

	if args, ok := xt[2].([]any); ok {
		c.Args = args
	}

	return c, i, nil
}

func (p Item) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	r := AnyOf{
		Node{},
		KeyValue{},
		Atom{},
	}

	return r.Parse(ctx, b, st)
}

func (p KeyValue) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	r := AllOf{
		Ident{},
		Const("="),
		Atom{},
	}

	x, i, err = r.Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	xt := x.([]any)

	return KV{
		Key: string(xt[0].(Ident)),
		Val: string(xt[2].(Atom)),
	}, i, nil
}
