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

// Package notify watches a directory and reports changes of its files.
package notify

import (
	"log/slog"
	"os"
	"slices"

	"zettelstore.de/emojidate/internal/logging"
)

// Notifier send events about their container and content.
type Notifier interface {
	// Events returns the channel of events. It is closed after Close.
	Events() <-chan Event

	// Refresh the directory listing.
	Refresh()

	// Close the notifier, and stop sending events.
	Close()
}

// EventOp describe a notification operation.
type EventOp uint8

// Valid constants for event operations.
//
// Error signals a detected error. Details are in Event.Err.
//
// Make signals that the directory is listed from scratch. It is followed by
// one List event for each file.
//
// Update signals that a file was created or changed, Delete that it was
// removed. Destroy signals that the watched directory itself is gone.
const (
	_ EventOp = iota
	Error
	Make
	List
	Update
	Delete
	Destroy
)

func (c EventOp) String() string {
	switch c {
	case Error:
		return "ERROR"
	case Make:
		return "MAKE"
	case List:
		return "LIST"
	case Update:
		return "UPDATE"
	case Delete:
		return "DELETE"
	case Destroy:
		return "DESTROY"
	default:
		return "UNKNOWN"
	}
}

// Event represents a single file notification event.
type Event struct {
	Op   EventOp
	Name string // base name of the file
	Err  error  // valid iff Op == Error
}

// EntryFetcher return a list of file names.
type EntryFetcher interface {
	Fetch() ([]string, error)
}

type dirPathFetcher struct {
	dirPath string
}

func newDirPathFetcher(dirPath string) EntryFetcher { return &dirPathFetcher{dirPath} }

// Fetch returns the sorted names of all regular files of the directory.
func (dpf *dirPathFetcher) Fetch() ([]string, error) {
	entries, err := os.ReadDir(dpf.dirPath)
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(entries))
	for _, entry := range entries {
		if info, err1 := entry.Info(); err1 != nil || !info.Mode().IsRegular() {
			continue
		}
		result = append(result, entry.Name())
	}
	slices.Sort(result)
	return result, nil
}

// listDirElements sends a Make event followed by a List event for every
// fetched file. It returns false if done was closed meanwhile.
func listDirElements(logger *slog.Logger, fetcher EntryFetcher, events chan<- Event, done <-chan struct{}) bool {
	select {
	case events <- Event{Op: Make}:
	case <-done:
		return false
	}
	names, err := fetcher.Fetch()
	if err != nil {
		logger.Debug("Unable to list directory", logging.Err(err))
		select {
		case events <- Event{Op: Error, Err: err}:
		case <-done:
			return false
		}
	}
	for _, name := range names {
		logging.LogTrace(logger, "File listed", "name", name)
		select {
		case events <- Event{Op: List, Name: name}:
		case <-done:
			return false
		}
	}
	return true
}
