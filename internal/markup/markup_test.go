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

package markup_test

import (
	"testing"

	"zettelstore.de/emojidate/internal/markup"
)

// starConstruct recognizes "**", and rejects after consuming one '*' otherwise.
type starConstruct struct{}

func (starConstruct) Name() string { return "star" }
func (starConstruct) Start(fx markup.Effects) markup.Attempt {
	return &starAttempt{fx: fx}
}

type starAttempt struct {
	fx    markup.Effects
	count int
}

func (a *starAttempt) Feed(c markup.Code) markup.Status {
	if a.count == 2 {
		a.fx.Exit("star")
		return markup.Accepted
	}
	if c != '*' {
		return markup.Rejected
	}
	if a.count == 0 {
		a.fx.Enter("star")
	}
	a.fx.Consume(c)
	a.count++
	return markup.Continue
}

var starExt = markup.Extension{Text: map[markup.Code][]markup.Construct{'*': {starConstruct{}}}}

var starTree = markup.TreeExtension{
	Enter: map[markup.TokenType]markup.Handler{
		"star": func(ctx markup.Context, tok *markup.Token) {
			ctx.Push(&markup.Node{Type: "star", Start: tok.Start})
		},
	},
	Exit: map[markup.TokenType]markup.Handler{
		"star": func(ctx markup.Context, tok *markup.Token) {
			n := ctx.Pop()
			n.End = tok.End
		},
	},
}

func TestUnits(t *testing.T) {
	testcases := []struct {
		src string
		exp []markup.Code
	}{
		{"", []markup.Code{}},
		{"a b", []markup.Code{'a', ' ', 'b'}},
		{"ä", []markup.Code{0xe4}},
		{"📅", []markup.Code{0xd83d, 0xdcc5}},
	}
	for _, tc := range testcases {
		got := markup.Units(tc.src)
		if len(got) != len(tc.exp) {
			t.Errorf("Units(%q) == %v, but got %v", tc.src, tc.exp, got)
			continue
		}
		for i := range got {
			if got[i] != tc.exp[i] {
				t.Errorf("Units(%q) == %v, but got %v", tc.src, tc.exp, got)
				break
			}
		}
		if s := markup.String(got); s != tc.src {
			t.Errorf("String(Units(%q)) == %q", tc.src, s)
		}
	}
}

func TestPredicates(t *testing.T) {
	for _, c := range []markup.Code{' ', '\t'} {
		if !markup.IsMarkdownSpace(c) {
			t.Errorf("%d should be a space", c)
		}
	}
	for _, c := range []markup.Code{'\n', '\r', 'a', '-', markup.EOF, 0xa0} {
		if markup.IsMarkdownSpace(c) {
			t.Errorf("%d should not be a space", c)
		}
	}
	if !markup.IsLineEnding('\n') || !markup.IsLineEnding('\r') || markup.IsLineEnding(markup.EOF) {
		t.Error("line ending classification failed")
	}
	if !markup.IsASCIIDigit('0') || !markup.IsASCIIDigit('9') || markup.IsASCIIDigit('-') {
		t.Error("digit classification failed")
	}
}

func TestTokenizeData(t *testing.T) {
	src := markup.Units("ab\r\ncd\n")
	events := markup.NewTokenizer().Tokenize(src)
	exp := []struct {
		kind  markup.EventKind
		typ   markup.TokenType
		start int
		end   int
	}{
		{markup.EventEnter, markup.TypeData, 0, 2},
		{markup.EventExit, markup.TypeData, 0, 2},
		{markup.EventEnter, markup.TypeLineEnding, 2, 4},
		{markup.EventExit, markup.TypeLineEnding, 2, 4},
		{markup.EventEnter, markup.TypeData, 4, 6},
		{markup.EventExit, markup.TypeData, 4, 6},
		{markup.EventEnter, markup.TypeLineEnding, 6, 7},
		{markup.EventExit, markup.TypeLineEnding, 6, 7},
	}
	if len(events) != len(exp) {
		t.Fatalf("expected %d events, but got %d: %v", len(exp), len(events), events)
	}
	for i, ev := range events {
		e := exp[i]
		if ev.Kind != e.kind || ev.Token.Type != e.typ || ev.Token.Start != e.start || ev.Token.End != e.end {
			t.Errorf("event %d: exp %v %v [%d,%d], got %v %v [%d,%d]", i,
				e.kind, e.typ, e.start, e.end, ev.Kind, ev.Token.Type, ev.Token.Start, ev.Token.End)
		}
	}
}

func TestTryAtRewinds(t *testing.T) {
	tz := markup.NewTokenizer(starExt)
	src := markup.Units("*a")
	pos, events, ok := tz.TryAt(src, 0, starConstruct{})
	if ok || pos != 0 || len(events) != 0 {
		t.Errorf("expected rejection at 0 without events, got ok=%v pos=%d events=%v", ok, pos, events)
	}
	src = markup.Units("x**")
	pos, events, ok = tz.TryAt(src, 1, starConstruct{})
	if !ok || pos != 3 || len(events) != 2 {
		t.Errorf("expected acceptance up to 3, got ok=%v pos=%d events=%v", ok, pos, events)
	}
}

func TestBuild(t *testing.T) {
	testcases := []struct {
		name string
		src  string
		exp  string
	}{
		{"empty", "", `(root ())`},
		{"text", "abc", `(root () (text "abc"))`},
		{"lines", "a\nb", `(root () (text "a\nb"))`},
		{"star", "a**b", `(root () (text "a") (star ()) (text "b"))`},
		{"lone-star", "a*b*", `(root () (text "a*b*"))`},
		{"stars", "***", `(root () (star ()) (text "*"))`},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			root := markup.Parse(tc.src, []markup.Extension{starExt}, []markup.TreeExtension{starTree})
			if got := root.String(); got != tc.exp {
				t.Errorf("\nExp: %s\nGot: %s", tc.exp, got)
			}
		})
	}
}

func TestNodeAttr(t *testing.T) {
	var n markup.Node
	if _, found := n.Attr("date"); found {
		t.Error("attribute must be absent")
	}
	n.SetAttr("date", "2024-01-15")
	if val, found := n.Attr("date"); !found || val != "2024-01-15" {
		t.Errorf("expected date attribute, got %q/%v", val, found)
	}
}

func FuzzTokenize(f *testing.F) {
	f.Add("a**b\n*")
	f.Fuzz(func(t *testing.T, src string) {
		t.Parallel()
		codes := markup.Units(src)
		events := markup.NewTokenizer(starExt).Tokenize(codes)
		markup.Build(codes, events, starTree)
	})
}
