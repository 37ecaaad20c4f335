package compiler

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/anthonycabreralara/antcc/compiler/ast"
	"github.com/anthonycabreralara/antcc/compiler/back"
	"github.com/anthonycabreralara/antcc/compiler/format"
	"github.com/anthonycabreralara/antcc/compiler/front"
	"github.com/anthonycabreralara/antcc/compiler/parse"
)

type (
	Stage int

	Options struct {
		Platform back.Platform

		// Stage stops the pipeline after it and returns its dump.
		// StageEmit returns assembly text.
		Stage Stage
	}
)

const (
	StageEmit Stage = iota
	StageAST
	StageTacky
	StageCodegen
)

func CompileFile(ctx context.Context, name string, opts Options) (obj []byte, err error) {
	p, err := parse.ParseFile(ctx, name)
	if err != nil {
		return nil, errors.Wrap(err, "parse ast")
	}

	return Compile(ctx, p, opts)
}

// Compile runs the pipeline on p up to opts.Stage.
func Compile(ctx context.Context, p *ast.Program, opts Options) (obj []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "stage", opts.Stage, "platform", opts.Platform)
	defer tr.Finish("err", &err)

	if tr.If("dump_ast") {
		d, _ := format.Format(ctx, nil, p)
		tr.Printw("ast", "dump", d)
	}

	if opts.Stage == StageAST {
		return format.Format(ctx, nil, p)
	}

	tacky, err := front.Lower(ctx, p)
	if err != nil {
		return nil, errors.Wrap(err, "lower")
	}

	if opts.Stage == StageTacky {
		return format.Format(ctx, nil, tacky)
	}

	c := back.New(opts.Platform)

	if opts.Stage == StageCodegen {
		code, err := c.Codegen(ctx, tacky)
		if err != nil {
			return nil, errors.Wrap(err, "codegen")
		}

		return format.Format(ctx, nil, code)
	}

	obj, err = c.CompileProgram(ctx, nil, tacky)
	if err != nil {
		return nil, errors.Wrap(err, "back")
	}

	return obj, nil
}

// Internal reports whether err is a compiler bug rather than bad input.
func Internal(err error) bool {
	var fe front.UnsupportedError
	var be back.UnsupportedError
	var ie back.IllegalInstrError

	return errors.As(err, &fe) || errors.As(err, &be) || errors.As(err, &ie)
}

func ParseStage(s string) (Stage, error) {
	switch s {
	case "", "emit", "asm":
		return StageEmit, nil
	case "ast", "parse":
		return StageAST, nil
	case "tacky":
		return StageTacky, nil
	case "codegen":
		return StageCodegen, nil
	}

	return 0, errors.New("unknown stage: %q", s)
}

func (s Stage) String() string {
	switch s {
	case StageEmit:
		return "emit"
	case StageAST:
		return "ast"
	case StageTacky:
		return "tacky"
	case StageCodegen:
		return "codegen"
	}

	return "stage?"
}
