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

// Package emojidate recognizes a marker symbol followed by white space and a
// date-like run of digits and dashes, e.g. "📅 2024-01-15".
package emojidate

import (
	"errors"
	"unicode/utf16"
	"unicode/utf8"

	"zettelstore.de/emojidate/internal/markup"
)

// DefaultMarker is the calendar emoji.
const DefaultMarker = '📅'

// ErrNoMarker is returned if a marker specification does not start with a
// valid scalar value.
var ErrNoMarker = errors.New("no valid marker symbol")

// Marker is the configured symbol that opens the construct. A marker outside
// the basic multilingual plane is matched as a pair of code units.
type Marker struct {
	r     rune
	lead  markup.Code
	trail markup.Code // only valid if pair is set
	pair  bool
}

// NewMarker creates a marker for the given scalar value.
func NewMarker(r rune) Marker {
	if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError || r2 != utf8.RuneError {
		return Marker{r: r, lead: markup.Code(r1), trail: markup.Code(r2), pair: true}
	}
	return Marker{r: r, lead: markup.Code(r)}
}

// ParseMarker returns a marker for the first scalar value of the given string.
func ParseMarker(s string) (Marker, error) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || (r == utf8.RuneError && size == 1) {
		return Marker{}, ErrNoMarker
	}
	return NewMarker(r), nil
}

// Rune returns the scalar value of the marker.
func (m Marker) Rune() rune { return m.r }

// String returns the marker as a string.
func (m Marker) String() string { return string(m.r) }

// Lead returns the code unit that triggers the construct.
func (m Marker) Lead() markup.Code { return m.lead }

// Trail returns the second code unit, if the marker needs two units.
func (m Marker) Trail() (markup.Code, bool) { return m.trail, m.pair }

// Len returns the number of code units of the marker.
func (m Marker) Len() int {
	if m.pair {
		return 2
	}
	return 1
}
