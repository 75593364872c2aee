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

// Package markup provides a small character-at-a-time tokenizer for inline
// markup together with a tree builder that replays its events.
//
// Input is handled as a sequence of UTF-16 code units, so that constructs
// may match scalar values that need two units.
package markup

import (
	"unicode/utf16"
)

// Code is a single input code unit.
type Code int32

// EOF signals the end of input.
const EOF Code = -1

// Some code units with a special meaning.
const (
	CodeTab   Code = '\t'
	CodeLF    Code = '\n'
	CodeCR    Code = '\r'
	CodeSpace Code = ' '
	CodeDash  Code = '-'
)

// Units returns the code units of the given string.
func Units(s string) []Code {
	return UnitsUTF16(utf16.Encode([]rune(s)))
}

// UnitsUTF16 converts UTF-16 encoded data into code units. Unpaired
// surrogates are retained as they are.
func UnitsUTF16(data []uint16) []Code {
	result := make([]Code, len(data))
	for i, u := range data {
		result[i] = Code(u)
	}
	return result
}

// String decodes the given code units into a string.
func String(codes []Code) string {
	data := make([]uint16, len(codes))
	for i, c := range codes {
		data[i] = uint16(c)
	}
	return string(utf16.Decode(data))
}

// IsMarkdownSpace returns true, if the code unit is a space or a tab.
func IsMarkdownSpace(c Code) bool { return c == CodeSpace || c == CodeTab }

// IsLineEnding returns true, if the code unit ends a line.
func IsLineEnding(c Code) bool { return c == CodeLF || c == CodeCR }

// IsLineEndingOrSpace returns true, if the code unit is white space.
func IsLineEndingOrSpace(c Code) bool { return IsMarkdownSpace(c) || IsLineEnding(c) }

// IsASCIIDigit returns true, if the code unit is in the range '0'..'9'.
func IsASCIIDigit(c Code) bool { return '0' <= c && c <= '9' }
