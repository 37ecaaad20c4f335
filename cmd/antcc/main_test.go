package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthonycabreralara/antcc/compiler"
)

const program = `Program(Function(name=main, type=int, Return(BinaryOp(op=Lt, Constant(3), Constant(5)))))`

func TestOutputName(t *testing.T) {
	assert.Equal(t, "prog.s", outputName("prog.ast", ""))
	assert.Equal(t, "dir/prog.s", outputName("dir/prog", ""))
	assert.Equal(t, "out.s", outputName("prog.ast", "out.s"))
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "less.ast")
	out := outputName(in, "")

	err := os.WriteFile(in, []byte(program), 0o644)
	require.NoError(t, err)

	err = compileFile(context.Background(), in, out, compiler.Options{})
	require.NoError(t, err)

	obj, err := os.ReadFile(out)
	require.NoError(t, err)

	assert.Contains(t, string(obj), "\tsetl\t-4(%rbp)\n")
}

func TestWatcher(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	in := filepath.Join(dir, "less.ast")

	err = os.WriteFile(in, []byte(program), 0o644)
	require.NoError(t, err)

	w, err := newWatcher(in)
	require.NoError(t, err)

	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	calls := 0

	err = w.Run(ctx, func(ctx context.Context) error {
		calls++

		if calls == 1 {
			return os.WriteFile(in, []byte(program+"\n"), 0o644)
		}

		cancel()

		return nil
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, calls, 2)
}
