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

// plain provides a parser for plain text data.

import (
	"bytes"

	"t73f.de/r/sx"
	"t73f.de/r/sx/sxreader"
	"t73f.de/r/zsc/domain/meta"
	"t73f.de/r/zsx"
	"t73f.de/r/zsx/input"

	"zettelstore.de/emojidate/internal/emojidate"
	"zettelstore.de/emojidate/internal/markup"
)

func init() {
	register(&Info{
		Name:         meta.ValueSyntaxTxt,
		AltNames:     []string{meta.ValueSyntaxPlain, meta.ValueSyntaxText},
		IsASTParser:  false,
		IsTextFormat: true,
		Parse:        parsePlain,
		Dates:        plainDates,
	})
	register(&Info{
		Name:         meta.ValueSyntaxHTML,
		AltNames:     []string{},
		IsASTParser:  false,
		IsTextFormat: true,
		Parse:        parsePlainHTML,
		Dates:        plainDates,
	})
	register(&Info{
		Name:         meta.ValueSyntaxSxn,
		AltNames:     []string{},
		IsASTParser:  false,
		IsTextFormat: true,
		Parse:        parsePlainSxn,
		Dates:        plainDates,
	})
}

func parsePlain(inp *input.Input, _ *Options, syntax string) *sx.Pair {
	return doParsePlain(inp, syntax, zsx.SymVerbatimCode)
}

func parsePlainHTML(inp *input.Input, opts *Options, syntax string) *sx.Pair {
	if opts.SafeMode {
		return doParsePlain(inp, syntax, zsx.SymVerbatimCode)
	}
	return doParsePlain(inp, syntax, zsx.SymVerbatimHTML)
}

func doParsePlain(inp *input.Input, syntax string, kind *sx.Symbol) *sx.Pair {
	return zsx.MakeBlock(zsx.MakeVerbatim(kind, syntaxAttr(syntax), string(inp.Src[inp.Pos:])))
}

func syntaxAttr(syntax string) *sx.Pair {
	return sx.Cons(sx.Cons(sx.MakeString(""), sx.MakeString(syntax)), sx.Nil())
}

func parsePlainSxn(inp *input.Input, _ *Options, syntax string) *sx.Pair {
	rd := sxreader.MakeReader(bytes.NewReader(inp.Src[inp.Pos:]))
	_, err := rd.ReadAll()

	var blocks sx.ListBuilder
	blocks.Add(zsx.MakeVerbatim(zsx.SymVerbatimCode, syntaxAttr(syntax), string(inp.Src[inp.Pos:])))
	if err != nil {
		blocks.Add(zsx.MakePara(zsx.MakeText(err.Error())))
	}
	return zsx.MakeBlockList(blocks.List())
}

// plainDates tokenizes the source as plain text with the emoji date
// construct as the only extension.
func plainDates(src []byte, opts *Options) []Date {
	ext, treeExt := emojidate.NewFromMarker(opts.Marker)
	codes := markup.Units(string(src))
	events := markup.NewTokenizer(ext).Tokenize(codes)
	root := markup.Build(codes, events, treeExt)

	var result []Date
	line, lpos := 1, 0
	root.Walk(func(n *markup.Node) bool {
		if n.Type != emojidate.NodeEmojiDate {
			return true
		}
		date, found := n.Attr(emojidate.AttrDate)
		if !found {
			return true
		}
		line += countLines(codes[lpos:n.Start])
		lpos = n.Start
		result = append(result, Date{Value: date, Line: line})
		return true
	})
	return result
}

// countLines returns the number of line endings. A CR LF pair counts once.
func countLines(codes []markup.Code) int {
	count := 0
	for i, c := range codes {
		switch c {
		case markup.CodeLF:
			count++
		case markup.CodeCR:
			if i+1 >= len(codes) || codes[i+1] != markup.CodeLF {
				count++
			}
		}
	}
	return count
}
