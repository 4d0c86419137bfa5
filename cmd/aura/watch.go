package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchSettle = 100 * time.Millisecond

// watch builds once, then again after every burst of changes to .aur
// files in the source directory, until ctx is done.
func watch(ctx context.Context, j job, stdout, stderr io.Writer) int {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(stderr, "Watch error: %v\n", err)
		return 1
	}
	defer w.Close()

	dir := filepath.Dir(j.path)
	if err := w.Add(dir); err != nil {
		fmt.Fprintf(stderr, "Watch error: %v\n", err)
		return 1
	}
	j.logger.Printf("watching %s", dir)
	build(j, stdout, stderr)

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return 0
		case ev, ok := <-w.Events:
			if !ok {
				return 0
			}
			if !sourceChanged(ev) {
				continue
			}
			j.logger.Printf("change: %s", ev)
			settle = time.After(watchSettle)
		case <-settle:
			settle = nil
			build(j, stdout, stderr)
		case err, ok := <-w.Errors:
			if !ok {
				return 0
			}
			fmt.Fprintf(stderr, "Watch error: %v\n", err)
		}
	}
}

func sourceChanged(ev fsnotify.Event) bool {
	if filepath.Ext(ev.Name) != ".aur" {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
