//-----------------------------------------------------------------------------
// Copyright (c) 2025-present Detlef Stern
//
// This file is part of Zettelstore.
//
// Zettelstore is licensed under the latest version of the EUPL (European Union
// Public License). Please see file LICENSE.txt for your rights and obligations
// under this license.
//
// SPDX-License-Identifier: EUPL-1.2
// SPDX-FileCopyrightText: 2025-present Detlef Stern
//-----------------------------------------------------------------------------

package cmd

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"slices"

	"zettelstore.de/emojidate/internal/logging"
	"zettelstore.de/emojidate/internal/notify"
	"zettelstore.de/emojidate/internal/parser"
)

// ---------- Subcommand: dates ----------------------------------------------

func cmdDates(env *Environment, flags *flag.FlagSet) (int, error) {
	args := flags.Args()
	if len(args) == 0 {
		args = []string{"."}
	}
	exitCode := 0
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil {
			return 1, err
		}
		if !fi.IsDir() {
			if err = listFileDates(env, arg, syntaxFor(arg, env.Syntax)); err != nil {
				return 1, err
			}
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				env.Logger.Warn("Unable to read", "path", path, logging.Err(err))
				exitCode = 1
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			syntax := syntaxOf(path)
			if syntax == "" {
				logging.LogTrace(env.Logger, "Skip file", "path", path)
				return nil
			}
			if env.Syntax != "" {
				syntax = env.Syntax
			}
			if err = listFileDates(env, path, syntax); err != nil {
				env.Logger.Warn("Unable to list dates", "path", path, logging.Err(err))
				exitCode = 1
			}
			return nil
		})
		if err != nil {
			return 1, err
		}
	}
	return exitCode, nil
}

// readFile reads a source file. Tests replace it.
var readFile = os.ReadFile

func listFileDates(env *Environment, path, syntax string) error {
	src, err := readFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	dates := parser.Dates(src, syntax, env.Options)
	env.Logger.Debug("File parsed", "path", path, "syntax", syntax, "dates", len(dates))
	return writeDates(env.Stdout, path, dates)
}

// ---------- Subcommand: watch ----------------------------------------------

func cmdWatch(env *Environment, flags *flag.FlagSet) (int, error) {
	dir := "."
	if args := flags.Args(); len(args) > 0 {
		dir = args[0]
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n, err := notify.New(env.Logger.With("system", "NOTIFY"), dir)
	if err != nil {
		return 1, err
	}
	defer n.Close()

	w := newWatcher(env, dir)
	events := n.Events()
	for {
		select {
		case <-ctx.Done():
			env.Logger.Info("Watching stopped", "dir", dir)
			return 0, nil
		case ev, ok := <-events:
			if !ok {
				return 0, nil
			}
			if !w.handle(ev) {
				return 1, nil
			}
		}
	}
}

// watcher keeps the dates of all files of a directory and reports changes.
type watcher struct {
	env   *Environment
	dir   string
	dates map[string][]parser.Date
}

func newWatcher(env *Environment, dir string) *watcher {
	return &watcher{env: env, dir: dir, dates: map[string][]parser.Date{}}
}

// handle processes one event. It returns false if watching must stop.
func (w *watcher) handle(ev notify.Event) bool {
	logging.LogTrace(w.env.Logger, "Event", "op", ev.Op, "name", ev.Name)
	switch ev.Op {
	case notify.Make:
		clear(w.dates)
	case notify.List, notify.Update:
		w.update(ev.Name, ev.Op == notify.Update)
	case notify.Delete:
		if _, found := w.dates[ev.Name]; found {
			delete(w.dates, ev.Name)
			fmt.Fprintf(w.env.Stdout, "%s: removed\n", filepath.Join(w.dir, ev.Name))
		}
	case notify.Error:
		w.env.Logger.Error("Notification error", "dir", w.dir, logging.Err(ev.Err))
	case notify.Destroy:
		w.env.Logger.Error("Directory removed", "dir", w.dir)
		return false
	}
	return true
}

func (w *watcher) update(name string, changed bool) {
	path := filepath.Join(w.dir, name)
	syntax := syntaxOf(name)
	if syntax == "" {
		logging.LogTrace(w.env.Logger, "Skip file", "path", path)
		return
	}
	if w.env.Syntax != "" {
		syntax = w.env.Syntax
	}
	src, err := readFile(path)
	if err != nil {
		w.env.Logger.Warn("Unable to read file", "path", path, logging.Err(err))
		return
	}
	dates := parser.Dates(src, syntax, w.env.Options)
	if changed {
		if _, found := w.dates[name]; found && slices.Equal(w.dates[name], dates) {
			return
		}
		fmt.Fprintf(w.env.Stdout, "%s: updated\n", path)
	}
	w.dates[name] = dates
	if err = writeDates(w.env.Stdout, path, dates); err != nil {
		w.env.Logger.Error("Unable to write dates", logging.Err(err))
	}
}
