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

package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Handler is a slog.Handler that writes one line per record:
//
//	YYYY-MM-DD hh:mm:ss LEVEL system message key=value...
//
// A "system" attribute given to WithAttrs is written as a prefix.
type Handler struct {
	lw     *lineWriter
	level  slog.Leveler
	system string
	attrs  string
}

// NewHandler creates a new handler.
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	return &Handler{
		lw:    &lineWriter{w: w, buf: make([]byte, 0, 500)},
		level: level,
	}
}

// Enabled reports whether the level is logged.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes the record.
func (h *Handler) Handle(_ context.Context, rec slog.Record) error {
	var buf bytes.Buffer
	buf.WriteString(h.attrs)
	rec.Attrs(func(attr slog.Attr) bool {
		if !attr.Equal(slog.Attr{}) {
			buf.WriteByte(' ')
			buf.WriteString(attr.String())
		}
		return true
	})
	return h.lw.writeMessage(rec.Level, rec.Time, h.system, rec.Message, buf.Bytes())
}

// WithAttrs returns a handler that adds the given attributes to all records.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	result := &Handler{lw: h.lw, level: h.level, system: h.system, attrs: h.attrs}
	for _, attr := range attrs {
		if attr.Equal(slog.Attr{}) {
			continue
		}
		if attr.Key == "system" {
			system := attr.Value.String()
			if len(system) < 6 {
				system += "     "[:6-len(system)]
			}
			result.system = system
			continue
		}
		result.attrs += " " + attr.String()
	}
	return result
}

// WithGroup is not supported; groups are ignored.
func (h *Handler) WithGroup(string) slog.Handler { return h }

type lineWriter struct {
	mx  sync.Mutex // protects buf, serializes w.Write
	w   io.Writer
	buf []byte
}

func (lw *lineWriter) writeMessage(level slog.Level, ts time.Time, prefix, msg string, details []byte) error {
	lw.mx.Lock()
	defer lw.mx.Unlock()

	buf := lw.buf[:0]
	if !ts.IsZero() {
		addTimestamp(&buf, ts)
		buf = append(buf, ' ')
	}
	buf = append(buf, LevelStringPad(level)...)
	buf = append(buf, ' ')
	if prefix != "" {
		buf = append(buf, prefix...)
		buf = append(buf, ' ')
	}
	buf = append(buf, msg...)
	buf = append(buf, details...)
	buf = append(buf, '\n')
	lw.buf = buf
	_, err := lw.w.Write(buf)
	return err
}

func addTimestamp(buf *[]byte, ts time.Time) {
	year, month, day := ts.Date()
	itoa(buf, year, 4)
	*buf = append(*buf, '-')
	itoa(buf, int(month), 2)
	*buf = append(*buf, '-')
	itoa(buf, day, 2)
	*buf = append(*buf, ' ')
	hour, minute, second := ts.Clock()
	itoa(buf, hour, 2)
	*buf = append(*buf, ':')
	itoa(buf, minute, 2)
	*buf = append(*buf, ':')
	itoa(buf, second, 2)
}

func itoa(buf *[]byte, i, wid int) {
	var b [20]byte
	for bp := wid - 1; bp >= 0; bp-- {
		q := i / 10
		b[bp] = byte('0' + i - q*10)
		i = q
	}
	*buf = append(*buf, b[:wid]...)
}
