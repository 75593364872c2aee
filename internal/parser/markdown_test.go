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
	"bytes"
	"strings"
	"testing"

	"t73f.de/r/zsc/domain/meta"
	"t73f.de/r/zsx/input"

	"zettelstore.de/emojidate/internal/parser"
)

func TestMarkdown(t *testing.T) {
	testcases := []struct {
		name string
		src  string
		exp  string
	}{
		{"empty", "", "(BLOCK)"},
		{name: "simple-list",
			src: "*   T1\n*   T2",
			exp: `(BLOCK (UNORDERED () (BLOCK (PARA (TEXT "T1"))) (BLOCK (PARA (TEXT "T2")))))`},
		{name: "strikethrough",
			src: "~~gone~~",
			exp: `(BLOCK (PARA (FORMAT-DELETE () (TEXT "gone"))))`},
		{name: "code",
			src: "`x`",
			exp: `(BLOCK (PARA (LITERAL-CODE () "x")))`},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			inp := input.NewInput([]byte(tc.src))
			node := parser.Parse(inp, meta.ValueSyntaxMD, nil)
			if got := node.String(); got != tc.exp {
				t.Errorf("\nExp: %s\nGot: %s", tc.exp, got)
			}
		})
	}
}

func TestMarkdownEmojiDate(t *testing.T) {
	testcases := []struct {
		name string
		src  string
		exp  []string
		not  []string
	}{
		{name: "date",
			src: "a 📅 2024-01-15 b",
			exp: []string{`(TEXT "a ")`, `(FORMAT-SPAN (("date" . "2024-01-15"))`, `(TEXT " b")`}},
		{name: "too-short",
			src: "a 📅 2024-01-1 b",
			not: []string{"FORMAT-SPAN"}},
		{name: "in-emphasis",
			src: "*📅 2024-01-15 due*",
			exp: []string{`(FORMAT-EMPH () (FORMAT-SPAN (("date" . "2024-01-15"))`}},
		{name: "in-list",
			src: "- 📅 2024-01-15 one\n- two",
			exp: []string{`(UNORDERED () (BLOCK (PARA (FORMAT-SPAN (("date" . "2024-01-15"))`}},
		{name: "front-matter-marker",
			src: "---\nmarker: \"@\"\n---\n@ 2024-01-15\n",
			exp: []string{`(FORMAT-SPAN (("date" . "2024-01-15"))`},
			not: []string{"marker"}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			inp := input.NewInput([]byte(tc.src))
			got := parser.Parse(inp, meta.ValueSyntaxMarkdown, nil).String()
			for _, exp := range tc.exp {
				if !strings.Contains(got, exp) {
					t.Errorf("%q not found in %s", exp, got)
				}
			}
			for _, not := range tc.not {
				if strings.Contains(got, not) {
					t.Errorf("%q unexpected in %s", not, got)
				}
			}
		})
	}
}

func TestRenderHTML(t *testing.T) {
	testcases := []struct {
		name   string
		syntax string
		opts   *parser.Options
		src    string
		exp    string
	}{
		{"date", meta.ValueSyntaxMD, nil, "📅 2024-01-15 done",
			`<time class="emoji-date" datetime="2024-01-15">`},
		{"plain", meta.ValueSyntaxTxt, nil, "a <b>", "<pre>a &lt;b&gt;</pre>"},
		{"hard-wraps", meta.ValueSyntaxMD, &parser.Options{Marker: parser.DefaultOptions().Marker, HardWraps: true},
			"a\nb", "a<br>\nb"},
		{"safe", meta.ValueSyntaxMD, &parser.Options{Marker: parser.DefaultOptions().Marker, SafeMode: true},
			"<b>x</b>", "<!-- raw HTML omitted -->"},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := parser.RenderHTML(&buf, []byte(tc.src), tc.syntax, tc.opts); err != nil {
				t.Fatal(err)
			}
			if got := buf.String(); !strings.Contains(got, tc.exp) {
				t.Errorf("\nexp: %q\ngot: %q", tc.exp, got)
			}
		})
	}
}

func FuzzParseMarkdown(f *testing.F) {
	f.Add([]byte("📅 2024-01-15 done"))
	f.Add([]byte("---\nmarker: x\n---\nx 2024-01-15"))
	f.Fuzz(func(t *testing.T, src []byte) {
		t.Parallel()
		inp := input.NewInput(src)
		parser.Parse(inp, meta.ValueSyntaxMarkdown, nil)
		parser.Dates(src, meta.ValueSyntaxMarkdown, nil)
	})
}
