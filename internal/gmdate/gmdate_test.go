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

package gmdate_test

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	gm "github.com/yuin/goldmark"
	gmAst "github.com/yuin/goldmark/ast"
	gmText "github.com/yuin/goldmark/text"

	"zettelstore.de/emojidate/internal/emojidate"
	"zettelstore.de/emojidate/internal/gmdate"
)

func newMarkdown(r rune) gm.Markdown {
	return gm.New(gm.WithExtensions(gmdate.New(emojidate.NewMarker(r))))
}

func TestRender(t *testing.T) {
	testcases := []struct {
		name string
		src  string
		exp  string
	}{
		{"simple", "📅 2024-01-15 done",
			`<p><time class="emoji-date" datetime="2024-01-15">📅 2024-01-15</time> done</p>` + "\n"},
		{"too-short", "📅 2024-01-1", "<p>📅 2024-01-1</p>\n"},
		{"no-space", "📅x2024-01-15", "<p>📅x2024-01-15</p>\n"},
		{"in-text", "task 📅   2024-01-15\nnext",
			`<p>task <time class="emoji-date" datetime="2024-01-15">📅 2024-01-15</time>` + "\nnext</p>\n"},
		{"other-emoji", "😀 2024-01-15", "<p>😀 2024-01-15</p>\n"},
		{"emphasis", "*📅 2024-01-15 due*",
			`<p><em><time class="emoji-date" datetime="2024-01-15">📅 2024-01-15</time> due</em></p>` + "\n"},
		{"emphasis-terminator", "*📅 2024-01-15*", "<p><em>📅 2024-01-15</em></p>\n"},
		{"after-tab", "a\t📅 2024-01-15 b",
			"<p>a\t" + `<time class="emoji-date" datetime="2024-01-15">📅 2024-01-15</time> b</p>` + "\n"},
		{"after-spaces", "a   📅 2024-01-15",
			`<p>a   <time class="emoji-date" datetime="2024-01-15">📅 2024-01-15</time></p>` + "\n"},
		{"after-code", "`x`📅 2024-01-15 y",
			`<p><code>x</code><time class="emoji-date" datetime="2024-01-15">📅 2024-01-15</time> y</p>` + "\n"},
		{"mid-word", "text📅 2024-01-15", "<p>text📅 2024-01-15</p>\n"},
		{"second-line", "a\n📅 2024-01-15",
			"<p>a\n" + `<time class="emoji-date" datetime="2024-01-15">📅 2024-01-15</time></p>` + "\n"},
	}
	md := newMarkdown('📅')
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := md.Convert([]byte(tc.src), &buf); err != nil {
				t.Fatal(err)
			}
			if got := buf.String(); got != tc.exp {
				t.Errorf("\nExp: %q\nGot: %q", tc.exp, got)
			}
		})
	}
}

func TestParseNode(t *testing.T) {
	src := []byte("a @ 2024-01-15 b @ 2025-02-28")
	doc := newMarkdown('@').Parser().Parse(gmText.NewReader(src))
	var dates []string
	_ = gmAst.Walk(doc, func(n gmAst.Node, entering bool) (gmAst.WalkStatus, error) {
		if ed, ok := n.(*gmdate.EmojiDate); ok && entering {
			dates = append(dates, ed.Date)
			if got := string(ed.Segment.Value(src)); !strings.HasPrefix(got, "@") || !strings.HasSuffix(got, ed.Date) {
				t.Errorf("unexpected segment %q", got)
			}
		}
		return gmAst.WalkContinue, nil
	})
	if len(dates) != 2 || dates[0] != "2024-01-15" || dates[1] != "2025-02-28" {
		t.Errorf("unexpected dates %q", dates)
	}
}

func TestNonASCIIMarker(t *testing.T) {
	src := []byte("ä 2024-01-15 b ä 2025-02-28\nä 2026-03-01")
	doc := newMarkdown('ä').Parser().Parse(gmText.NewReader(src))
	var got []string
	_ = gmAst.Walk(doc, func(n gmAst.Node, entering bool) (gmAst.WalkStatus, error) {
		if ed, ok := n.(*gmdate.EmojiDate); ok && entering {
			got = append(got, string(ed.Segment.Value(src)))
		}
		return gmAst.WalkContinue, nil
	})
	exp := []string{"ä 2024-01-15", "ä 2025-02-28", "ä 2026-03-01"}
	if !slices.Equal(got, exp) {
		t.Errorf("\nexp: %q\ngot: %q", exp, got)
	}
}
