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
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"t73f.de/r/zsc/domain/meta"
	"t73f.de/r/zsx/input"

	"zettelstore.de/emojidate/internal/parser"
)

// ---------- Subcommand: file -----------------------------------------------

const (
	targetHTML  = "html"
	targetSx    = "sx"
	targetDates = "dates"
)

func flgSyntax(fs *flag.FlagSet) {
	fs.String("s", "", "syntax of input (default: derived from file name)")
}

func flgFile(fs *flag.FlagSet) {
	flgSyntax(fs)
	fs.String("t", targetHTML, "target output format (html, sx, dates)")
	fs.Bool("hard-wraps", false, "render soft line breaks as hard breaks")
	fs.Bool("safe", false, "omit raw HTML")
}

func cmdFile(env *Environment, fs *flag.FlagSet) (int, error) {
	target := fs.Lookup("t").Value.String()
	name, src, err := getInput(fs.Args())
	if err != nil {
		return 2, err
	}
	syntax := syntaxFor(name, env.Syntax)
	env.Logger.Debug("Parse file", "name", name, "syntax", syntax, "target", target)

	switch target {
	case targetHTML:
		err = parser.RenderHTML(env.Stdout, src, syntax, env.Options)
	case targetSx:
		bs := parser.Parse(input.NewInput(src), syntax, env.Options)
		_, err = fmt.Fprintln(env.Stdout, bs.String())
	case targetDates:
		err = writeDates(env.Stdout, "", parser.Dates(src, syntax, env.Options))
	default:
		return 2, fmt.Errorf("unknown target format %q", target)
	}
	if err != nil {
		return 1, err
	}
	return 0, nil
}

// getInput reads the named file, or stdin if no file is given.
func getInput(args []string) (string, []byte, error) {
	if len(args) < 1 {
		src, err := io.ReadAll(os.Stdin)
		return "", src, err
	}
	src, err := os.ReadFile(args[0])
	return args[0], src, err
}

// syntaxOf returns the syntax given by the extension of the file name, or
// the empty string if no parser for it is registered.
func syntaxOf(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return ""
	}
	if _, err := parser.Lookup(ext); err != nil {
		return ""
	}
	return ext
}

// syntaxFor returns the configured syntax, or the syntax of the file name,
// or markdown.
func syntaxFor(name, configured string) string {
	if configured != "" {
		return configured
	}
	if syntax := syntaxOf(name); syntax != "" {
		return syntax
	}
	return meta.ValueSyntaxMarkdown
}

// writeDates writes one line per date. A non-empty name is used as prefix.
func writeDates(w io.Writer, name string, dates []parser.Date) error {
	for _, d := range dates {
		var err error
		if name == "" {
			_, err = fmt.Fprintf(w, "%d: %s\n", d.Line, d.Value)
		} else {
			_, err = fmt.Fprintf(w, "%s:%d: %s\n", name, d.Line, d.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
