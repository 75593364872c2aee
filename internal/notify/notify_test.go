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
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"zettelstore.de/emojidate/internal/logging"
)

func TestEventOpString(t *testing.T) {
	testcases := []struct {
		op  EventOp
		exp string
	}{
		{Error, "ERROR"}, {Make, "MAKE"}, {List, "LIST"}, {Update, "UPDATE"},
		{Delete, "DELETE"}, {Destroy, "DESTROY"}, {0, "UNKNOWN"},
	}
	for _, tc := range testcases {
		if got := tc.op.String(); got != tc.exp {
			t.Errorf("EventOp(%d).String() == %q, but got %q", tc.op, tc.exp, got)
		}
	}
}

func TestDirPathFetcher(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.md", "a.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o700); err != nil {
		t.Fatal(err)
	}
	got, err := newDirPathFetcher(dir).Fetch()
	if err != nil {
		t.Fatal(err)
	}
	if exp := []string{"a.txt", "b.md"}; !slices.Equal(got, exp) {
		t.Errorf("exp: %v, got: %v", exp, got)
	}

	if _, err = newDirPathFetcher(filepath.Join(dir, "missing")).Fetch(); err == nil {
		t.Error("error expected for missing directory")
	}
}

type failFetcher struct{}

func (failFetcher) Fetch() ([]string, error) { return nil, errors.New("fail") }

func TestListDirElements(t *testing.T) {
	logger := logging.New(io.Discard, logging.LevelMissing)
	events := make(chan Event, 10)
	done := make(chan struct{})

	if !listDirElements(logger, failFetcher{}, events, done) {
		t.Fatal("listing stopped")
	}
	if ev := <-events; ev.Op != Make {
		t.Errorf("exp MAKE, got %v", ev.Op)
	}
	if ev := <-events; ev.Op != Error || ev.Err == nil {
		t.Errorf("exp ERROR, got %v", ev)
	}

	close(done)
	blocked := make(chan Event)
	if listDirElements(logger, failFetcher{}, blocked, done) {
		t.Error("listing should stop after done")
	}
}

func waitFor(t *testing.T, events <-chan Event, op EventOp, name string) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatalf("events closed while waiting for %v %q", op, name)
			}
			if ev.Op == op && ev.Name == name {
				return
			}
		case <-timeout:
			t.Fatalf("timeout while waiting for %v %q", op, name)
		}
	}
}

func TestNotifier(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.md"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	n, err := New(logging.New(io.Discard, logging.LevelMissing), dir)
	if err != nil {
		t.Fatal(err)
	}
	events := n.Events()
	waitFor(t, events, List, "a.md")

	if err = os.WriteFile(filepath.Join(dir, "b.txt"), []byte("📅 2024-01-15"), 0o600); err != nil {
		t.Fatal(err)
	}
	waitFor(t, events, Update, "b.txt")

	if err = os.Remove(filepath.Join(dir, "a.md")); err != nil {
		t.Fatal(err)
	}
	waitFor(t, events, Delete, "a.md")

	go n.Refresh()
	waitFor(t, events, List, "b.txt")

	n.Close()
	n.Close()
	for range events {
	}
}
