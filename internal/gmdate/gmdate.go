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

// Package gmdate provides a goldmark extension that recognizes emoji dates
// like "📅 2024-01-15" in inline text.
package gmdate

import (
	"bytes"
	"unicode/utf16"
	"unicode/utf8"

	gm "github.com/yuin/goldmark"
	gmAst "github.com/yuin/goldmark/ast"
	gmParser "github.com/yuin/goldmark/parser"
	gmRenderer "github.com/yuin/goldmark/renderer"
	gmText "github.com/yuin/goldmark/text"
	gmUtil "github.com/yuin/goldmark/util"

	"zettelstore.de/emojidate/internal/emojidate"
	"zettelstore.de/emojidate/internal/markup"
)

// KindEmojiDate is the goldmark node kind of an emoji date.
var KindEmojiDate = gmAst.NewNodeKind("EmojiDate")

// EmojiDate is an inline node for a recognized date.
type EmojiDate struct {
	gmAst.BaseInline
	Marker  rune
	Date    string
	Segment gmText.Segment // the whole construct
}

// Kind implements gmAst.Node.
func (*EmojiDate) Kind() gmAst.NodeKind { return KindEmojiDate }

// Dump implements gmAst.Node.
func (n *EmojiDate) Dump(source []byte, level int) {
	gmAst.DumpHelper(n, source, level, map[string]string{
		"Marker": string(n.Marker),
		"Date":   n.Date,
	}, nil)
}

type inlineParser struct {
	marker  emojidate.Marker
	prefix  []byte
	trigger []byte
}

// NewParser returns an inline parser for the given marker.
//
// goldmark calls inline parsers only at ASCII punctuation, at whitespace,
// and at the start of a line or after another inline node, which it reports
// as a space. So the marker is recognized at those positions, but not
// directly after a letter.
func NewParser(m emojidate.Marker) gmParser.InlineParser {
	prefix := []byte(m.String())
	trigger := []byte{' '}
	if c := prefix[0]; c != ' ' && gmUtil.IsPunct(c) {
		trigger = append(trigger, c)
	}
	return &inlineParser{marker: m, prefix: prefix, trigger: trigger}
}

func (p *inlineParser) Trigger() []byte { return p.trigger }

func (p *inlineParser) Parse(parent gmAst.Node, block gmText.Reader, _ gmParser.Context) gmAst.Node {
	line, segment := block.PeekLine()
	consumes := 0
	if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') && !bytes.HasPrefix(line, p.prefix) {
		consumes = 1
		line = line[1:]
	}
	if !bytes.HasPrefix(line, p.prefix) {
		return nil
	}
	codes, offsets := lineUnits(line)
	match, ok := p.marker.MatchAt(codes, 0)
	if !ok {
		return nil
	}
	if consumes != 0 {
		gmAst.MergeOrAppendTextSegment(parent, segment.WithStop(segment.Start+consumes))
	}
	start := segment.Start + consumes
	size := offsets[match.End]
	block.Advance(consumes + size)
	return &EmojiDate{
		Marker:  p.marker.Rune(),
		Date:    match.Date,
		Segment: gmText.NewSegment(start, start+size),
	}
}

// lineUnits returns the code units of the line together with the byte
// offset of every code unit. The last offset is the length of the line.
func lineUnits(line []byte) ([]markup.Code, []int) {
	codes := make([]markup.Code, 0, len(line))
	offsets := make([]int, 0, len(line)+1)
	for pos := 0; pos < len(line); {
		r, size := utf8.DecodeRune(line[pos:])
		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError || r2 != utf8.RuneError {
			codes = append(codes, markup.Code(r1), markup.Code(r2))
			offsets = append(offsets, pos, pos)
		} else {
			codes = append(codes, markup.Code(r))
			offsets = append(offsets, pos)
		}
		pos += size
	}
	return codes, append(offsets, len(line))
}

type htmlRenderer struct{}

// NewHTMLRenderer returns a renderer that writes an emoji date as a
// <time> element.
func NewHTMLRenderer() gmRenderer.NodeRenderer { return htmlRenderer{} }

func (r htmlRenderer) RegisterFuncs(reg gmRenderer.NodeRendererFuncRegisterer) {
	reg.Register(KindEmojiDate, r.renderEmojiDate)
}

func (htmlRenderer) renderEmojiDate(w gmUtil.BufWriter, _ []byte, node gmAst.Node, entering bool) (gmAst.WalkStatus, error) {
	if !entering {
		return gmAst.WalkContinue, nil
	}
	n := node.(*EmojiDate)
	date := gmUtil.EscapeHTML([]byte(n.Date))
	_, _ = w.WriteString(`<time class="emoji-date" datetime="`)
	_, _ = w.Write(date)
	_, _ = w.WriteString(`">`)
	_, _ = w.WriteString(string(n.Marker))
	_ = w.WriteByte(' ')
	_, _ = w.Write(date)
	_, _ = w.WriteString("</time>")
	return gmAst.WalkSkipChildren, nil
}

// Extender adds emoji date support to a goldmark.Markdown.
type Extender struct {
	marker emojidate.Marker
}

// New returns an extender for the given marker.
func New(m emojidate.Marker) *Extender { return &Extender{marker: m} }

// Extend implements goldmark.Extender.
func (e *Extender) Extend(m gm.Markdown) {
	m.Parser().AddOptions(gmParser.WithInlineParsers(
		gmUtil.Prioritized(NewParser(e.marker), 500),
	))
	m.Renderer().AddOptions(gmRenderer.WithNodeRenderers(
		gmUtil.Prioritized(NewHTMLRenderer(), 500),
	))
}
