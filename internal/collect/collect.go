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

// Package collect provides functions to collect emoji dates from syntax trees.
package collect

import (
	"iter"

	gmAst "github.com/yuin/goldmark/ast"

	"zettelstore.de/emojidate/internal/emojidate"
	"zettelstore.de/emojidate/internal/gmdate"
	"zettelstore.de/emojidate/internal/markup"
)

// DateSeq returns an iterator of all emoji date nodes of the given goldmark
// document, in document order.
func DateSeq(doc gmAst.Node) iter.Seq[*gmdate.EmojiDate] {
	return func(yield func(*gmdate.EmojiDate) bool) {
		if doc == nil {
			return
		}
		_ = gmAst.Walk(doc, func(node gmAst.Node, entering bool) (gmAst.WalkStatus, error) {
			if !entering {
				return gmAst.WalkContinue, nil
			}
			if n, ok := node.(*gmdate.EmojiDate); ok && !yield(n) {
				return gmAst.WalkStop, nil
			}
			return gmAst.WalkContinue, nil
		})
	}
}

// TreeDateSeq returns an iterator of all date values of the given tree.
func TreeDateSeq(root *markup.Node) iter.Seq[string] {
	return func(yield func(string) bool) {
		yielder := dateYielder{yield: yield}
		root.Walk(yielder.visit)
	}
}

type dateYielder struct {
	yield func(string) bool
	stop  bool
}

func (y *dateYielder) visit(n *markup.Node) bool {
	if y.stop {
		return false
	}
	if n.Type == emojidate.NodeEmojiDate {
		if date, found := n.Attr(emojidate.AttrDate); found && !y.yield(date) {
			y.stop = true
			return false
		}
	}
	return true
}
