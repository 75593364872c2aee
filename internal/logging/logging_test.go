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

package logging_test

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	"zettelstore.de/emojidate/internal/logging"
)

func TestParseLevel(t *testing.T) {
	testcases := []struct {
		text string
		exp  slog.Level
	}{
		{"trace", logging.LevelTrace},
		{"DEB", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"wa", slog.LevelWarn},
		{"Error", slog.LevelError},
		{"x", logging.LevelMissing},
		{"", logging.LevelMissing},
	}
	for _, tc := range testcases {
		if got := logging.ParseLevel(tc.text); got != tc.exp {
			t.Errorf("ParseLevel(%q) == %v, but got %v", tc.text, tc.exp, got)
		}
	}
}

func TestLevelStringPad(t *testing.T) {
	for _, lvl := range []slog.Level{logging.LevelTrace, slog.LevelDebug, slog.LevelInfo, slog.LevelError, logging.LevelMandatory} {
		if s := logging.LevelStringPad(lvl); len(s) < 5 {
			t.Errorf("LevelStringPad(%v) == %q is too short", lvl, s)
		}
	}
	if got := logging.LevelStringPad(slog.LevelInfo); got != "INFO " {
		t.Errorf("expected %q, got %q", "INFO ", got)
	}
}

func TestHandler(t *testing.T) {
	var sb strings.Builder
	logger := logging.New(&sb, slog.LevelInfo).With("system", "PARSE")
	logger.Debug("hidden")
	logger.Info("parsed", "file", "a.md", "dates", 2)
	logger.Error("failed", logging.Err(errors.New("boom")), logging.Err(nil))
	lines := strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", sb.String())
	}
	if !strings.HasSuffix(lines[0], "INFO  PARSE  parsed file=a.md dates=2") {
		t.Errorf("unexpected line %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "ERROR PARSE  failed err=boom") {
		t.Errorf("unexpected line %q", lines[1])
	}
}

func TestTraceLevel(t *testing.T) {
	var sb strings.Builder
	logger := logging.New(&sb, logging.LevelTrace)
	logging.LogTrace(logger, "tracing", "i", 1)
	logging.LogMandatory(logger, "always")
	if got := sb.String(); !strings.Contains(got, "TRACE tracing i=1") || !strings.Contains(got, ">>>>> always") {
		t.Errorf("unexpected output %q", got)
	}
}
