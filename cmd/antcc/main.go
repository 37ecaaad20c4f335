package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/anthonycabreralara/antcc/compiler"
	"github.com/anthonycabreralara/antcc/compiler/back"
)

func main() {
	compileCmd := &cli.Command{
		Name:        "compile",
		Description: "compile AST dump files into assembly",
		Action:      compileAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("output,o", "", "output file (default: input with .s extension)"),
		},
	}

	dumpCmd := &cli.Command{
		Name:        "dump",
		Description: "print an intermediate representation",
		Action:      dumpAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("stage", "tacky", "ast, tacky or codegen"),
		},
	}

	watchCmd := &cli.Command{
		Name:        "watch",
		Description: "recompile an AST dump file every time it changes",
		Action:      watchAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("output,o", "", "output file (default: input with .s extension)"),
		},
	}

	app := &cli.Command{
		Name:        "antcc",
		Description: "antcc lowers C ASTs to x86-64 assembly",
		Before:      before,
		Flags: []*cli.Flag{
			cli.NewFlag("platform", "linux", "target platform: linux or darwin"),
			cli.NewFlag("verbosity,v", "", "logger verbosity topics"),
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			compileCmd,
			dumpCmd,
			watchCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) error {
	tlog.SetVerbosity(c.String("verbosity"))

	return nil
}

func options(c *cli.Command) (opts compiler.Options, err error) {
	opts.Platform, err = back.ParsePlatform(c.String("platform"))
	if err != nil {
		return opts, err
	}

	return opts, nil
}

func compileAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	opts, err := options(c)
	if err != nil {
		return err
	}

	if len(c.Args) > 1 && c.String("output") != "" {
		return errors.New("--output requires a single input file")
	}

	for _, a := range c.Args {
		err = compileFile(ctx, a, outputName(a, c.String("output")), opts)
		if err != nil {
			return err
		}
	}

	return nil
}

func dumpAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	opts, err := options(c)
	if err != nil {
		return err
	}

	opts.Stage, err = compiler.ParseStage(c.String("stage"))
	if err != nil {
		return err
	}

	for _, a := range c.Args {
		d, err := compiler.CompileFile(ctx, a, opts)
		if err != nil {
			return errors.Wrap(err, "dump %v", a)
		}

		_, err = os.Stdout.Write(d)
		if err != nil {
			return errors.Wrap(err, "write")
		}
	}

	return nil
}

func watchAct(c *cli.Command) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	opts, err := options(c)
	if err != nil {
		return err
	}

	if len(c.Args) != 1 {
		return errors.New("watch expects exactly one file")
	}

	in := c.Args[0]
	out := outputName(in, c.String("output"))

	w, err := newWatcher(in)
	if err != nil {
		return errors.Wrap(err, "watch %v", in)
	}

	defer func() {
		e := w.Close()
		if err == nil && e != nil {
			err = errors.Wrap(e, "close watcher")
		}
	}()

	return w.Run(ctx, func(ctx context.Context) error {
		err := compileFile(ctx, in, out, opts)
		if err != nil && !compiler.Internal(err) {
			tlog.SpanFromContext(ctx).Printw("compile failed", "file", in, "err", err)
			return nil
		}

		return err
	})
}

func compileFile(ctx context.Context, in, out string, opts compiler.Options) error {
	obj, err := compiler.CompileFile(ctx, in, opts)
	if err != nil {
		return errors.Wrap(err, "compile %v", in)
	}

	err = os.WriteFile(out, obj, 0o644)
	if err != nil {
		return errors.Wrap(err, "write %v", out)
	}

	tlog.SpanFromContext(ctx).Printw("compiled", "in", in, "out", out, "size", len(obj))

	return nil
}

func outputName(in, out string) string {
	if out != "" {
		return out
	}

	return strings.TrimSuffix(in, filepath.Ext(in)) + ".s"
}
