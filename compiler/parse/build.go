package parse

import (
	"tlog.app/go/errors"

	"github.com/anthonycabreralara/antcc/compiler/ast"
)

type (
	fields struct {
		kv    map[string]string
		nodes []Call
		atoms []string
	}
)

// Program converts a parsed node tree into an AST.
func Program(x any) (*ast.Program, error) {
	c, f, err := split(x, "Program")
	if err != nil {
		return nil, err
	}

	if len(f.nodes) != 1 || len(f.atoms) != 0 || len(f.kv) != 0 {
		return nil, errors.New("%v: want exactly one function", c.Name)
	}

	fn, err := function(f.nodes[0])
	if err != nil {
		return nil, errors.Wrap(err, "program")
	}

	return &ast.Program{Func: fn}, nil
}

func function(x any) (*ast.Function, error) {
	c, f, err := split(x, "Function")
	if err != nil {
		return nil, err
	}

	fn := &ast.Function{
		Name: f.kv["name"],
		Type: f.kv["type"],
	}

	if fn.Name == "" {
		return nil, errors.New("%v: name expected", c.Name)
	}

	if err := f.only("name", "type"); err != nil {
		return nil, errors.Wrap(err, "function %v", fn.Name)
	}

	for i, n := range f.nodes {
		it, err := item(n)
		if err != nil {
			return nil, errors.Wrap(err, "function %v: item %d", fn.Name, i)
		}

		fn.Body = append(fn.Body, it)
	}

	return fn, nil
}

func item(c Call) (ast.Item, error) {
	switch c.Name {
	case "Declaration":
		_, f, err := split(c, "")
		if err != nil {
			return nil, err
		}

		d := ast.Declaration{Name: f.kv["name"]}

		if d.Name == "" {
			return nil, errors.New("%v: name expected", c.Name)
		}

		if err := f.only("name"); err != nil {
			return nil, err
		}

		switch len(f.nodes) {
		case 0:
		case 1:
			d.Init, err = expr(f.nodes[0])
			if err != nil {
				return nil, errors.Wrap(err, "declaration %v", d.Name)
			}
		default:
			return nil, errors.New("%v: at most one initializer expected", c.Name)
		}

		return d, nil
	case "Return":
		e, err := single(c)
		if err != nil {
			return nil, err
		}

		return ast.Return{Expr: e}, nil
	case "ExprStatement":
		e, err := single(c)
		if err != nil {
			return nil, err
		}

		return ast.ExprStatement{Expr: e}, nil
	default:
		return nil, errors.New("unexpected body item: %v", c.Name)
	}
}

func expr(c Call) (ast.Expr, error) {
	switch c.Name {
	case "Constant", "Variable":
		_, f, err := split(c, "")
		if err != nil {
			return nil, err
		}

		if len(f.atoms) != 1 || len(f.nodes) != 0 || len(f.kv) != 0 {
			return nil, errors.New("%v: one literal expected", c.Name)
		}

		if c.Name == "Constant" {
			return ast.Constant(f.atoms[0]), nil
		}

		return ast.Variable(f.atoms[0]), nil
	case "UnaryOp":
		f, args, err := operands(c, 1)
		if err != nil {
			return nil, err
		}

		op, ok := ast.ParseUnaryOperator(f.kv["op"])
		if !ok {
			return nil, errors.New("%v: unknown operator %q", c.Name, f.kv["op"])
		}

		return ast.UnaryOp{Op: op, Expr: args[0]}, nil
	case "BinaryOp":
		f, args, err := operands(c, 2)
		if err != nil {
			return nil, err
		}

		op, ok := ast.ParseBinaryOperator(f.kv["op"])
		if !ok {
			return nil, errors.New("%v: unknown operator %q", c.Name, f.kv["op"])
		}

		return ast.BinaryOp{Op: op, Left: args[0], Right: args[1]}, nil
	case "Assignment":
		_, args, err := operands(c, 2)
		if err != nil {
			return nil, err
		}

		return ast.Assignment{Target: args[0], Value: args[1]}, nil
	default:
		return nil, errors.New("unexpected expression: %v", c.Name)
	}
}

func single(c Call) (ast.Expr, error) {
	_, args, err := operands(c, 1)
	if err != nil {
		return nil, err
	}

	return args[0], nil
}

func operands(c Call, n int) (f fields, args []ast.Expr, err error) {
	_, f, err = split(c, "")
	if err != nil {
		return f, nil, err
	}

	if len(f.nodes) != n || len(f.atoms) != 0 {
		return f, nil, errors.New("%v: %d operands expected, got %d", c.Name, n, len(f.nodes)+len(f.atoms))
	}

	for i, nd := range f.nodes {
		e, err := expr(nd)
		if err != nil {
			return f, nil, errors.Wrap(err, "%v: operand %d", c.Name, i)
		}

		args = append(args, e)
	}

	return f, args, nil
}

func split(x any, name string) (c Call, f fields, err error) {
	c, ok := x.(Call)
	if !ok {
		return c, f, errors.New("node expected, got %T", x)
	}

	if name != "" && c.Name != name {
		return c, f, errors.New("%v expected, got %v", name, c.Name)
	}

	f.kv = map[string]string{}

	for _, a := range c.Args {
		switch a := a.(type) {
		case Call:
			f.nodes = append(f.nodes, a)
		case KV:
			if _, dup := f.kv[a.Key]; dup {
				return c, f, errors.New("%v: duplicate %v", c.Name, a.Key)
			}

			f.kv[a.Key] = a.Val
		case Atom:
			f.atoms = append(f.atoms, string(a))
		default:
			return c, f, errors.New("%v: unexpected %T", c.Name, a)
		}
	}

	return c, f, nil
}

func (f fields) only(keys ...string) error {
next:
	for k := range f.kv {
		for _, q := range keys {
			if k == q {
				continue next
			}
		}

		return errors.New("unexpected attribute %v", k)
	}

	if len(f.atoms) != 0 {
		return errors.New("unexpected literal %v", f.atoms[0])
	}

	return nil
}
