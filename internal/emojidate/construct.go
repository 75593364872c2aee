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

package emojidate

import (
	"strings"

	"zettelstore.de/emojidate/internal/markup"
)

// NodeEmojiDate is the type of the tree node created for a recognized date.
const NodeEmojiDate = "emojiDate"

// AttrDate is the attribute of the node that holds the date text.
const AttrDate = "date"

// Construct recognizes the marker/date sequence for one configured marker.
type Construct struct {
	marker Marker
}

// NewConstruct creates a construct for the given marker.
func NewConstruct(m Marker) *Construct { return &Construct{marker: m} }

// Marker returns the configured marker.
func (con *Construct) Marker() Marker { return con.marker }

// Name returns the name of the construct.
func (*Construct) Name() string { return string(TypeEmojiDate) }

// Start begins a new attempt.
func (con *Construct) Start(fx markup.Effects) markup.Attempt {
	return &attempt{marker: con.marker, fx: fx}
}

type attempt struct {
	marker Marker
	fx     markup.Effects
	state  ScanState
}

func (a *attempt) Feed(c markup.Code) markup.Status {
	next, tr := Step(a.marker, a.state, c)
	a.state = next
	if next.Stage == StageRejected {
		return markup.Rejected
	}
	for _, typ := range tr.Enter {
		a.fx.Enter(typ)
	}
	if tr.Consume {
		a.fx.Consume(c)
	}
	for _, typ := range tr.Exit {
		a.fx.Exit(typ)
	}
	if next.Stage == StageAccepted {
		return markup.Accepted
	}
	return markup.Continue
}

// Extension returns the tokenizer plugin for the construct.
func (con *Construct) Extension() markup.Extension {
	return markup.Extension{
		Text: map[markup.Code][]markup.Construct{con.marker.lead: {con}},
	}
}

// TreeExtension returns the tree builder hooks that bind a recognized date to
// a node.
func TreeExtension() markup.TreeExtension {
	return markup.TreeExtension{
		Enter: map[markup.TokenType]markup.Handler{
			TypeEmojiDate: enterEmojiDate,
		},
		Exit: map[markup.TokenType]markup.Handler{
			TypeEmojiDateTarget: exitEmojiDateTarget,
			TypeEmojiDate:       exitEmojiDate,
		},
	}
}

func enterEmojiDate(ctx markup.Context, tok *markup.Token) {
	ctx.Push(&markup.Node{Type: NodeEmojiDate, Start: tok.Start, End: -1})
}

func exitEmojiDateTarget(ctx markup.Context, tok *markup.Token) {
	ctx.Top().SetAttr(AttrDate, strings.TrimSpace(ctx.SliceSerialize(tok)))
}

func exitEmojiDate(ctx markup.Context, tok *markup.Token) {
	n := ctx.Pop()
	n.End = tok.End
}

// New creates the tokenizer plugin and the tree builder extension for the
// first scalar value of the given marker specification.
func New(spec string) (markup.Extension, markup.TreeExtension, error) {
	m, err := ParseMarker(spec)
	if err != nil {
		return markup.Extension{}, markup.TreeExtension{}, err
	}
	ext, treeExt := NewFromMarker(m)
	return ext, treeExt, nil
}

// NewFromMarker creates the tokenizer plugin and the tree builder extension
// for the given marker.
func NewFromMarker(m Marker) (markup.Extension, markup.TreeExtension) {
	return NewConstruct(m).Extension(), TreeExtension()
}
