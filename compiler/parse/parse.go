package parse

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/anthonycabreralara/antcc/compiler/ast"
)

type (
	State struct {
		b []byte

		Grammar Parser
	}

	Parser interface {
		Parse(ctx context.Context, b []byte, st int) (x any, i int, err error)
	}

	PartialReadError struct {
		End int
	}
)

// ParseFile reads an AST dump as written by format.Format.
func ParseFile(ctx context.Context, name string) (*ast.Program, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(data), "name", name)

	return Parse(ctx, data)
}

func Parse(ctx context.Context, text []byte) (p *ast.Program, err error) {
	s := New(text)

	x, err := s.Parse(ctx)
	if err != nil {
		return nil, err
	}

	return Program(x)
}

func New(text []byte) *State {
	return &State{
		b:       text,
		Grammar: Node{},
	}
}

func (s *State) Parse(ctx context.Context) (x any, err error) {
	st := SpaceAll.Skip(s.b, 0)

	x, i, err := s.Grammar.Parse(ctx, s.b, st)
	if err != nil {
		line, col := s.Pos(i)

		return nil, errors.Wrap(err, "at %d:%d", line, col)
	}

	i = SpaceAll.Skip(s.b, i)

	if i != len(s.b) {
		return x, PartialReadError{End: i}
	}

	return x, nil
}

// Pos converts a byte offset into 1-based line and column.
func (s *State) Pos(i int) (line, col int) {
	if i > len(s.b) {
		i = len(s.b)
	}

	line = 1 + bytes.Count(s.b[:i], []byte{'\n'})
	col = 1 + i - (bytes.LastIndexByte(s.b[:i], '\n') + 1)

	return line, col
}

func (e PartialReadError) Error() string {
	return fmt.Sprintf("partial read: unexpected text at offset %d", e.End)
}
