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

package parser_test

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"testing"

	"t73f.de/r/zsx/input"

	"zettelstore.de/emojidate/internal/parser"
)

// Test all parsers with a list of "naughty strings", i.e. unusual strings
// that often crash software.

func getNaughtyStrings() (result []string, err error) {
	fpath := filepath.Join("testdata", "naughty.txt")
	file, err := os.Open(fpath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if text := scanner.Text(); text != "" && text[0] != '#' {
			result = append(result, text)
		}
	}
	return result, scanner.Err()
}

func getAllParser() (result []*parser.Info) {
	for _, pname := range parser.GetSyntaxes() {
		pinfo := parser.Get(pname)
		if pname == pinfo.Name {
			result = append(result, pinfo)
		}
	}
	return result
}

func TestNaughtyStringParser(t *testing.T) {
	blns, err := getNaughtyStrings()
	if err != nil {
		t.Fatal(err)
	}
	if len(blns) == 0 {
		t.Fatal("no naughty strings found")
	}
	pinfos := getAllParser()
	if len(pinfos) == 0 {
		t.Fatal("no parser found")
	}
	for _, s := range blns {
		for _, pinfo := range pinfos {
			if node := parser.Parse(input.NewInput([]byte(s)), pinfo.Name, nil); node == nil {
				t.Errorf("%s: no block for %q", pinfo.Name, s)
			}
			for _, d := range parser.Dates([]byte(s), pinfo.Name, nil) {
				if len(d.Value) < 10 || d.Line != 1 {
					t.Errorf("%s: invalid date %v for %q", pinfo.Name, d, s)
				}
			}
			if err = parser.RenderHTML(io.Discard, []byte(s), pinfo.Name, nil); err != nil {
				t.Error(err)
			}
		}
	}
}
