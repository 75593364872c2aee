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

package parser

// markdown provides a parser for markdown.

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/adrg/frontmatter"
	gm "github.com/yuin/goldmark"
	gmAst "github.com/yuin/goldmark/ast"
	gmExtension "github.com/yuin/goldmark/extension"
	gmExtAst "github.com/yuin/goldmark/extension/ast"
	gmParser "github.com/yuin/goldmark/parser"
	gmRenderer "github.com/yuin/goldmark/renderer"
	gmHTML "github.com/yuin/goldmark/renderer/html"
	gmText "github.com/yuin/goldmark/text"

	"t73f.de/r/sx"
	zerostrings "t73f.de/r/zero/strings"
	"t73f.de/r/zsc/domain/meta"
	"t73f.de/r/zsc/sz"
	"t73f.de/r/zsx"
	"t73f.de/r/zsx/input"

	"zettelstore.de/emojidate/internal/collect"
	"zettelstore.de/emojidate/internal/emojidate"
	"zettelstore.de/emojidate/internal/gmdate"
)

func init() {
	register(&Info{
		Name:         meta.ValueSyntaxMarkdown,
		AltNames:     []string{meta.ValueSyntaxMD},
		IsASTParser:  true,
		IsTextFormat: true,
		Parse:        parseMarkdown,
		Dates:        markdownDates,
	})
}

// KeyMarker is the front matter key that overrides the configured marker.
const KeyMarker = "marker"

// mdDocument is a parsed markdown source without its front matter.
type mdDocument struct {
	source []byte // markdown without front matter
	offset int    // byte position of source within the whole input
	marker emojidate.Marker
	node   gmAst.Node
}

func parseMarkdownDocument(src []byte, opts *Options) *mdDocument {
	body, fm := splitFrontMatter(src)
	marker := markerOf(fm, opts)
	engine := newGoldmarkEngine(opts, marker)
	return &mdDocument{
		source: body,
		offset: len(src) - len(body),
		marker: marker,
		node:   engine.Parser().Parse(gmText.NewReader(body)),
	}
}

// splitFrontMatter returns the markdown body and the front matter data. If
// there is no valid front matter, the whole source is returned.
func splitFrontMatter(src []byte) ([]byte, map[string]any) {
	var fm map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm)
	if err != nil || !bytes.HasSuffix(src, body) {
		return src, nil
	}
	return body, fm
}

// markerOf returns the marker of the front matter, or the configured one.
func markerOf(fm map[string]any, opts *Options) emojidate.Marker {
	if val, ok := fm[KeyMarker].(string); ok {
		if m, err := emojidate.ParseMarker(val); err == nil {
			return m
		}
	}
	return opts.Marker
}

func parseMarkdown(inp *input.Input, opts *Options, _ string) *sx.Pair {
	doc := parseMarkdownDocument(inp.Src[inp.Pos:], opts)
	p := mdP{source: doc.source, docNode: doc.node}
	return p.acceptBlockChildren(p.docNode)
}

func markdownDates(src []byte, opts *Options) []Date {
	doc := parseMarkdownDocument(src, opts)
	var result []Date
	for n := range collect.DateSeq(doc.node) {
		result = append(result, Date{
			Value: n.Date,
			Line:  lineOf(src, doc.offset+n.Segment.Start),
		})
	}
	return result
}

var extensionRegistry = map[string]gm.Extender{
	"strikethrough": gmExtension.Strikethrough,
	"linkify":       gmExtension.Linkify,
	"autolink":      gmExtension.Linkify,
	"tasklist":      gmExtension.TaskList,
}

// DefaultExtensions are the markdown extensions used if none are configured.
var DefaultExtensions = []string{"strikethrough", "linkify", "tasklist"}

func collectExtensions(names []string) []gm.Extender {
	if names == nil {
		names = DefaultExtensions
	}
	var extenders []gm.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		if _, ok = seen[key]; ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}
	return extenders
}

// newGoldmarkEngine builds a goldmark.Markdown with the emoji date extension
// and the configured markdown extensions.
func newGoldmarkEngine(opts *Options, marker emojidate.Marker) gm.Markdown {
	exts := append(collectExtensions(opts.Extensions), gmdate.New(marker))

	var rendererOptions []gmRenderer.Option
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, gmHTML.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, gmHTML.WithUnsafe())
	}
	return gm.New(
		gm.WithExtensions(exts...),
		gm.WithParserOptions(gmParser.WithAutoHeadingID()),
		gm.WithRendererOptions(rendererOptions...),
	)
}

type mdP struct {
	source  []byte
	docNode gmAst.Node
}

func (p *mdP) acceptBlockChildren(docNode gmAst.Node) *sx.Pair {
	if docNode.Type() != gmAst.TypeDocument {
		panic(fmt.Sprintf("Expected document, but got node type %v", docNode.Type()))
	}
	var result sx.ListBuilder
	for child := docNode.FirstChild(); child != nil; child = child.NextSibling() {
		if block := p.acceptBlock(child); block != nil {
			result.Add(block)
		}
	}
	return zsx.MakeBlockList(result.List())
}

func (p *mdP) acceptBlock(node gmAst.Node) *sx.Pair {
	if node.Type() != gmAst.TypeBlock {
		panic(fmt.Sprintf("Expected block node, but got node type %v", node.Type()))
	}
	switch n := node.(type) {
	case *gmAst.Paragraph:
		return p.acceptParagraph(n)
	case *gmAst.TextBlock:
		return p.acceptParagraph(n)
	case *gmAst.Heading:
		return p.acceptHeading(n)
	case *gmAst.ThematicBreak:
		return zsx.MakeThematic(nil)
	case *gmAst.CodeBlock:
		return zsx.MakeVerbatim(zsx.SymVerbatimCode, nil, string(p.acceptRawText(n)))
	case *gmAst.FencedCodeBlock:
		return p.acceptFencedCodeBlock(n)
	case *gmAst.Blockquote:
		return zsx.MakeList(zsx.SymListQuote, nil, sx.MakeList(p.acceptItemSlice(n)))
	case *gmAst.List:
		return p.acceptList(n)
	case *gmAst.HTMLBlock:
		return p.acceptHTMLBlock(n)
	}
	panic(fmt.Sprintf("Unhandled block node of kind %v", node.Kind()))
}

func (p *mdP) acceptParagraph(node gmAst.Node) *sx.Pair {
	if is := p.acceptInlineChildren(node); is != nil {
		return zsx.MakeParaList(is)
	}
	return nil
}

func (p *mdP) acceptHeading(node *gmAst.Heading) *sx.Pair {
	var sb strings.Builder
	p.writePlainText(&sb, node)
	slug := zerostrings.Slugify(sb.String())
	return zsx.MakeHeading(node.Level, nil, p.acceptInlineChildren(node), slug, slug)
}

// writePlainText writes the text of all descendants.
func (p *mdP) writePlainText(sb *strings.Builder, node gmAst.Node) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *gmAst.Text:
			sb.Write(n.Segment.Value(p.source))
		case *gmdate.EmojiDate:
			sb.WriteString(n.Date)
		default:
			p.writePlainText(sb, child)
		}
	}
}

func (p *mdP) acceptFencedCodeBlock(node *gmAst.FencedCodeBlock) *sx.Pair {
	var a sx.ListBuilder
	if language := node.Language(p.source); len(language) > 0 {
		a.Add(sx.Cons(sx.MakeString("class"), sx.MakeString("language-"+cleanText(language, true))))
	}
	return zsx.MakeVerbatim(zsx.SymVerbatimCode, a.List(), string(p.acceptRawText(node)))
}

func (p *mdP) acceptRawText(node gmAst.Node) []byte {
	lines := node.Lines()
	result := make([]byte, 0, 512)
	for i := range lines.Len() {
		s := lines.At(i)
		line := s.Value(p.source)
		if l := len(line); l > 0 {
			if l > 1 && line[l-2] == '\r' && line[l-1] == '\n' {
				line = line[0 : l-2]
			} else if line[l-1] == '\n' || line[l-1] == '\r' {
				line = line[0 : l-1]
			}
		}
		if i > 0 {
			result = append(result, '\n')
		}
		result = append(result, line...)
	}
	return result
}

func (p *mdP) acceptList(node *gmAst.List) *sx.Pair {
	kind := zsx.SymListUnordered
	var a sx.ListBuilder
	if node.IsOrdered() {
		kind = zsx.SymListOrdered
		if node.Start != 1 {
			a.Add(sx.Cons(sx.MakeString("start"), sx.MakeString(strconv.Itoa(node.Start))))
		}
	}
	var items sx.ListBuilder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		item, ok := child.(*gmAst.ListItem)
		if !ok {
			panic(fmt.Sprintf("Expected list item node, but got %v", child.Kind()))
		}
		items.Add(p.acceptItemSlice(item))
	}
	return zsx.MakeList(kind, a.List(), items.List())
}

func (p *mdP) acceptItemSlice(node gmAst.Node) *sx.Pair {
	var result sx.ListBuilder
	for elem := node.FirstChild(); elem != nil; elem = elem.NextSibling() {
		if item := p.acceptBlock(elem); item != nil {
			result.Add(item)
		}
	}
	return zsx.MakeBlockList(result.List())
}

func (p *mdP) acceptHTMLBlock(node *gmAst.HTMLBlock) *sx.Pair {
	content := p.acceptRawText(node)
	if node.HasClosure() {
		closure := node.ClosureLine.Value(p.source)
		if l := len(closure); l > 1 && closure[l-1] == '\n' {
			closure = closure[:l-1]
		}
		if len(content) > 1 {
			content = append(content, '\n')
		}
		content = append(content, closure...)
	}
	return zsx.MakeVerbatim(zsx.SymVerbatimHTML, nil, string(content))
}

func (p *mdP) acceptInlineChildren(node gmAst.Node) *sx.Pair {
	var result sx.ListBuilder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		n1, n2 := p.acceptInline(child)
		if n1 != nil {
			result.Add(n1)
		}
		if n2 != nil {
			result.Add(n2)
		}
	}
	return result.List()
}

func (p *mdP) acceptInline(node gmAst.Node) (*sx.Pair, *sx.Pair) {
	if node.Type() != gmAst.TypeInline {
		panic(fmt.Sprintf("Expected inline node, but got %v", node.Type()))
	}
	switch n := node.(type) {
	case *gmAst.Text:
		return p.acceptText(n)
	case *gmAst.String:
		return zsx.MakeText(string(n.Value)), nil
	case *gmAst.CodeSpan:
		return p.acceptCodeSpan(n)
	case *gmAst.Emphasis:
		return p.acceptEmphasis(n)
	case *gmAst.Link:
		return p.acceptLink(n)
	case *gmAst.Image:
		return p.acceptImage(n)
	case *gmAst.AutoLink:
		return p.acceptAutoLink(n)
	case *gmAst.RawHTML:
		return p.acceptRawHTML(n)
	case *gmExtAst.Strikethrough:
		return zsx.MakeFormat(zsx.SymFormatDelete, nil, p.acceptInlineChildren(n)), nil
	case *gmExtAst.TaskCheckBox:
		if n.IsChecked {
			return zsx.MakeText("[x]"), nil
		}
		return zsx.MakeText("[ ]"), nil
	case *gmdate.EmojiDate:
		return p.acceptEmojiDate(n)
	}
	panic(fmt.Sprintf("Unhandled inline node %v", node.Kind()))
}

// acceptEmojiDate returns a span with a "date" attribute.
func (*mdP) acceptEmojiDate(node *gmdate.EmojiDate) (*sx.Pair, *sx.Pair) {
	attrs := sx.MakeList(sx.Cons(sx.MakeString(emojidate.AttrDate), sx.MakeString(node.Date)))
	text := zsx.MakeText(string(node.Marker) + " " + node.Date)
	return zsx.MakeFormat(zsx.SymFormatSpan, attrs, sx.MakeList(text)), nil
}

func (p *mdP) acceptText(node *gmAst.Text) (*sx.Pair, *sx.Pair) {
	segment := node.Segment
	text := segment.Value(p.source)
	if text == nil {
		return nil, nil
	}
	if node.IsRaw() {
		return zsx.MakeText(string(text)), nil
	}
	in := zsx.MakeText(cleanText(text, true))
	if node.HardLineBreak() {
		return in, zsx.MakeHard()
	}
	if node.SoftLineBreak() {
		return in, zsx.MakeSoft()
	}
	return in, nil
}

var ignoreAfterBS = map[byte]struct{}{
	'!': {}, '"': {}, '#': {}, '$': {}, '%': {}, '&': {}, '\'': {}, '(': {},
	')': {}, '*': {}, '+': {}, ',': {}, '-': {}, '.': {}, '/': {}, ':': {},
	';': {}, '<': {}, '=': {}, '>': {}, '?': {}, '@': {}, '[': {}, '\\': {},
	']': {}, '^': {}, '_': {}, '`': {}, '{': {}, '|': {}, '}': {}, '~': {},
}

// cleanText removes backslashes from TextNodes and expands entities
func cleanText(text []byte, cleanBS bool) string {
	lastPos := 0
	var sb strings.Builder
	for pos, ch := range text {
		if pos < lastPos {
			continue
		}
		if ch == '&' {
			inp := input.NewInput([]byte(text[pos:]))
			if s, ok := inp.ScanEntity(); ok {
				sb.Write(text[lastPos:pos])
				sb.WriteString(s)
				lastPos = pos + inp.Pos
			}
			continue
		}
		if cleanBS && ch == '\\' && pos < len(text)-1 {
			if _, found := ignoreAfterBS[text[pos+1]]; found {
				sb.Write(text[lastPos:pos])
				sb.WriteByte(text[pos+1])
				lastPos = pos + 2
			}
		}
	}
	if lastPos < len(text) {
		sb.Write(text[lastPos:])
	}
	return sb.String()
}

func (p *mdP) acceptCodeSpan(node *gmAst.CodeSpan) (*sx.Pair, *sx.Pair) {
	var segBuf strings.Builder
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		segment := c.(*gmAst.Text).Segment
		segBuf.Write(segment.Value(p.source))
	}
	content := segBuf.String()

	// Clean code span
	if len(content) > 0 {
		lastPos := 0
		var buf strings.Builder
		for pos, ch := range content {
			if ch == '\n' {
				buf.WriteString(content[lastPos:pos])
				if pos < len(content)-1 {
					buf.WriteByte(' ')
				}
				lastPos = pos + 1
			}
		}
		buf.WriteString(content[lastPos:])
		content = buf.String()
	}
	return zsx.MakeLiteral(zsx.SymLiteralCode, nil, content), nil
}

func (p *mdP) acceptEmphasis(node *gmAst.Emphasis) (*sx.Pair, *sx.Pair) {
	sym := zsx.SymFormatEmph
	if node.Level == 2 {
		sym = zsx.SymFormatStrong
	}
	return zsx.MakeFormat(sym, nil, p.acceptInlineChildren(node)), nil
}

func (p *mdP) acceptLink(node *gmAst.Link) (*sx.Pair, *sx.Pair) {
	ref := sz.ScanReference(cleanText(node.Destination, true))
	var a sx.ListBuilder
	if title := node.Title; len(title) > 0 {
		a.Add(sx.Cons(sx.MakeString("title"), sx.MakeString(cleanText(title, true))))
	}
	return zsx.MakeLink(a.List(), ref, p.acceptInlineChildren(node)), nil
}

func (p *mdP) acceptImage(node *gmAst.Image) (*sx.Pair, *sx.Pair) {
	ref := sz.ScanReference(cleanText(node.Destination, true))
	var a sx.ListBuilder
	if title := node.Title; len(title) > 0 {
		a.Add(sx.Cons(sx.MakeString("title"), sx.MakeString(cleanText(title, true))))
	}
	return zsx.MakeEmbed(a.List(), ref, "", p.acceptInlineChildren(node)), nil
}

func (p *mdP) acceptAutoLink(node *gmAst.AutoLink) (*sx.Pair, *sx.Pair) {
	u := node.URL(p.source)
	if node.AutoLinkType == gmAst.AutoLinkEmail &&
		!bytes.HasPrefix(bytes.ToLower(u), []byte("mailto:")) {
		u = append([]byte("mailto:"), u...)
	}
	return zsx.MakeLink(nil, sz.ScanReference(cleanText(u, false)), nil), nil
}

func (p *mdP) acceptRawHTML(node *gmAst.RawHTML) (*sx.Pair, *sx.Pair) {
	segs := make([][]byte, 0, node.Segments.Len())
	for i := range node.Segments.Len() {
		segment := node.Segments.At(i)
		segs = append(segs, segment.Value(p.source))
	}
	return zsx.MakeLiteral(
		zsx.SymLiteralCode,
		sx.Cons(sx.Cons(sx.MakeString(""), sx.MakeString("html")), sx.Nil()),
		string(bytes.Join(segs, nil)),
	), nil
}
