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

package notify

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"zettelstore.de/emojidate/internal/logging"
)

type dirNotifier struct {
	logger    *slog.Logger
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
	refresh   chan struct{}
	base      *fsnotify.Watcher
	path      string
	fetcher   EntryFetcher
}

// New creates a notifier for the given directory. The parent directory is
// watched too, so that a removal or re-creation of the directory is noticed.
func New(logger *slog.Logger, path string) (Notifier, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		logger.Debug("Unable to create absolute path", logging.Err(err), "path", path)
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Debug("Unable to create watcher", logging.Err(err), "absPath", absPath)
		return nil, err
	}
	absParentDir := filepath.Dir(absPath)
	errParent := watcher.Add(absParentDir)
	err = watcher.Add(absPath)
	if errParent != nil {
		if err != nil {
			logger.Error("Unable to access directory and its parent directory",
				"parentDir", absParentDir, "errParent", errParent, "path", absPath, logging.Err(err))
			_ = watcher.Close()
			return nil, err
		}
		logger.Info("Parent of directory cannot be watched", "parentDir", absParentDir, logging.Err(errParent))
		logger.Info("Deletion or movement of the directory might not be detected", "path", absPath)
	} else if err != nil {
		logger.Info("Directory currently not available", logging.Err(err), "path", absPath)
	}

	dn := &dirNotifier{
		logger:  logger,
		events:  make(chan Event),
		refresh: make(chan struct{}),
		done:    make(chan struct{}),
		base:    watcher,
		path:    absPath,
		fetcher: newDirPathFetcher(absPath),
	}
	go dn.eventLoop()
	return dn, nil
}

func (dn *dirNotifier) Events() <-chan Event { return dn.events }

func (dn *dirNotifier) Refresh() {
	select {
	case dn.refresh <- struct{}{}:
	case <-dn.done:
	}
}

func (dn *dirNotifier) eventLoop() {
	defer func() { _ = dn.base.Close() }()
	defer close(dn.events)
	if !listDirElements(dn.logger, dn.fetcher, dn.events, dn.done) {
		return
	}

	for dn.readAndProcessEvent() {
	}
}

func (dn *dirNotifier) readAndProcessEvent() bool {
	select {
	case <-dn.done:
		dn.traceDone(1)
		return false
	default:
	}
	select {
	case <-dn.done:
		dn.traceDone(2)
		return false
	case <-dn.refresh:
		logging.LogTrace(dn.logger, "refresh")
		return listDirElements(dn.logger, dn.fetcher, dn.events, dn.done)
	case err, ok := <-dn.base.Errors:
		logging.LogTrace(dn.logger, "got errors", logging.Err(err), "ok", ok)
		if !ok {
			return false
		}
		select {
		case dn.events <- Event{Op: Error, Err: err}:
		case <-dn.done:
			dn.traceDone(3)
			return false
		}
	case ev, ok := <-dn.base.Events:
		logging.LogTrace(dn.logger, "file event", "name", ev.Name, "op", ev.Op, "ok", ok)
		if !ok {
			return false
		}
		return dn.processEvent(&ev)
	}
	return true
}

func (dn *dirNotifier) traceDone(pos int64) {
	logging.LogTrace(dn.logger, "done with read and process events", "i", pos)
}

func (dn *dirNotifier) processEvent(ev *fsnotify.Event) bool {
	if ev.Name == dn.path {
		return dn.processDirEvent(ev)
	}
	if strings.HasPrefix(ev.Name, dn.path+string(filepath.Separator)) {
		return dn.processFileEvent(ev)
	}
	logging.LogTrace(dn.logger, "event does not match", "path", dn.path, "name", ev.Name, "op", ev.Op)
	return true
}

func (dn *dirNotifier) processDirEvent(ev *fsnotify.Event) bool {
	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		dn.logger.Debug("Directory removed", "name", dn.path)
		_ = dn.base.Remove(dn.path)
		select {
		case dn.events <- Event{Op: Destroy}:
		case <-dn.done:
			logging.LogTrace(dn.logger, "done dir event processing", "i", 1)
			return false
		}
		return true
	}

	if ev.Has(fsnotify.Create) {
		err := dn.base.Add(dn.path)
		if err != nil {
			dn.logger.Error("Unable to add directory", logging.Err(err), "name", dn.path)
			select {
			case dn.events <- Event{Op: Error, Err: err}:
			case <-dn.done:
				logging.LogTrace(dn.logger, "done dir event processing", "i", 2)
				return false
			}
		}
		dn.logger.Debug("Directory added", "name", dn.path)
		return listDirElements(dn.logger, dn.fetcher, dn.events, dn.done)
	}

	logging.LogTrace(dn.logger, "Directory processed", "name", ev.Name, "op", ev.Op)
	return true
}

func (dn *dirNotifier) processFileEvent(ev *fsnotify.Event) bool {
	if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
		if fi, err := os.Lstat(ev.Name); err != nil || !fi.Mode().IsRegular() {
			regular := err == nil && fi.Mode().IsRegular()
			logging.LogTrace(dn.logger, "error with file",
				"name", ev.Name, "op", ev.Op, logging.Err(err), "regular", regular)
			return true
		}
		logging.LogTrace(dn.logger, "File updated", "name", ev.Name, "op", ev.Op)
		return dn.sendEvent(Update, filepath.Base(ev.Name))
	}

	if ev.Has(fsnotify.Rename) {
		fi, err := os.Lstat(ev.Name)
		if err != nil {
			logging.LogTrace(dn.logger, "File deleted", "name", ev.Name, "op", ev.Op)
			return dn.sendEvent(Delete, filepath.Base(ev.Name))
		}
		if fi.Mode().IsRegular() {
			logging.LogTrace(dn.logger, "File updated", "name", ev.Name, "op", ev.Op)
			return dn.sendEvent(Update, filepath.Base(ev.Name))
		}
		logging.LogTrace(dn.logger, "File not regular", "name", ev.Name)
		return true
	}

	if ev.Has(fsnotify.Remove) {
		logging.LogTrace(dn.logger, "File deleted", "name", ev.Name, "op", ev.Op)
		return dn.sendEvent(Delete, filepath.Base(ev.Name))
	}

	logging.LogTrace(dn.logger, "File processed", "name", ev.Name, "op", ev.Op)
	return true
}

func (dn *dirNotifier) sendEvent(op EventOp, filename string) bool {
	select {
	case dn.events <- Event{Op: op, Name: filename}:
	case <-dn.done:
		logging.LogTrace(dn.logger, "done file event processing")
		return false
	}
	return true
}

func (dn *dirNotifier) Close() {
	dn.closeOnce.Do(func() { close(dn.done) })
}
