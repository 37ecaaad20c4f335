package main

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

type (
	// watcher reports writes to a single file. The parent directory is
	// watched so editors that replace the file by rename are still seen.
	watcher struct {
		w    *fsnotify.Watcher
		name string
	}
)

func newWatcher(name string) (*watcher, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, errors.Wrap(err, "abs path")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "new watcher")
	}

	err = w.Add(filepath.Dir(abs))
	if err != nil {
		_ = w.Close()
		return nil, errors.Wrap(err, "add dir")
	}

	return &watcher{w: w, name: abs}, nil
}

// Run calls f once and then after each change to the file until ctx is done.
func (w *watcher) Run(ctx context.Context, f func(context.Context) error) error {
	tr := tlog.SpanFromContext(ctx)

	err := f(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(ev.Name) != w.name || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}

			tr.V("watch").Printw("file changed", "name", ev.Name, "op", ev.Op.String())

			err = f(ctx)
			if err != nil {
				return err
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}

			return errors.Wrap(err, "watch")
		}
	}
}

func (w *watcher) Close() error {
	return w.w.Close()
}
