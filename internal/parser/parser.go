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

// Package parser provides a generic interface to a range of different parsers.
package parser

import (
	"errors"
	"fmt"
	"slices"

	"t73f.de/r/sx"
	"t73f.de/r/zsx/input"

	"zettelstore.de/emojidate/internal/emojidate"
)

// ErrUnknownSyntax is returned if no parser is registered for a syntax.
var ErrUnknownSyntax = errors.New("unknown syntax")

// Options control parsing.
type Options struct {
	Marker     emojidate.Marker // marker of emoji dates
	Extensions []string         // names of markdown extensions, nil for the defaults
	HardWraps  bool             // HTML: render soft line breaks as <br>
	SafeMode   bool             // HTML: do not emit raw HTML
}

// DefaultOptions returns the options used if none are given.
func DefaultOptions() *Options {
	return &Options{Marker: emojidate.NewMarker(emojidate.DefaultMarker)}
}

// Date is an emoji date found in a document.
type Date struct {
	Value string
	Line  int // 1-based line number of the marker
}

// Info describes a single parser.
//
// Parse returns the block structure of the input, Dates returns all emoji
// dates in document order.
type Info struct {
	Name         string
	AltNames     []string
	IsASTParser  bool
	IsTextFormat bool
	Parse        func(*input.Input, *Options, string) *sx.Pair
	Dates        func([]byte, *Options) []Date
}

var registry = map[string]*Info{}

// register the parser (info) for later retrieval.
func register(pi *Info) {
	if _, ok := registry[pi.Name]; ok {
		panic(fmt.Sprintf("Parser %q already registered", pi.Name))
	}
	registry[pi.Name] = pi
	for _, alt := range pi.AltNames {
		if _, ok := registry[alt]; ok {
			panic(fmt.Sprintf("Parser %q already registered", alt))
		}
		registry[alt] = pi
	}
}

// GetSyntaxes returns a sorted list of syntaxes implemented by all registered parsers.
func GetSyntaxes() []string {
	result := make([]string, 0, len(registry))
	for syntax := range registry {
		result = append(result, syntax)
	}
	slices.Sort(result)
	return result
}

// Lookup returns the parser (info) by name.
func Lookup(name string) (*Info, error) {
	if pi := registry[name]; pi != nil {
		return pi, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSyntax, name)
}

// Get the parser (info) by name. If name not found, use a default parser.
func Get(name string) *Info {
	if pi := registry[name]; pi != nil {
		return pi
	}
	if pi := registry["plain"]; pi != nil {
		return pi
	}
	panic(fmt.Sprintf("No parser for %q found", name))
}

// IsASTParser returns whether the given syntax parses text into an AST or not.
func IsASTParser(syntax string) bool {
	pi, ok := registry[syntax]
	if !ok {
		return false
	}
	return pi.IsASTParser
}

// IsTextFormat returns whether the given syntax is known to be a text format.
func IsTextFormat(syntax string) bool {
	pi, ok := registry[syntax]
	if !ok {
		return false
	}
	return pi.IsTextFormat
}

// Parse parses some input and returns it as a block list.
func Parse(inp *input.Input, syntax string, opts *Options) *sx.Pair {
	if opts == nil {
		opts = DefaultOptions()
	}
	return Get(syntax).Parse(inp, opts, syntax)
}

// Dates returns the emoji dates of the source, interpreted with the given syntax.
func Dates(src []byte, syntax string, opts *Options) []Date {
	if opts == nil {
		opts = DefaultOptions()
	}
	return Get(syntax).Dates(src, opts)
}

// lineOf returns the 1-based line number of the given byte position.
func lineOf(src []byte, pos int) int {
	line := 1
	for i := 0; i < pos && i < len(src); i++ {
		if src[i] == '\n' || (src[i] == '\r' && (i+1 >= len(src) || src[i+1] != '\n')) {
			line++
		}
	}
	return line
}
