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

package markup

import (
	"fmt"
	"slices"

	"t73f.de/r/sx"
)

// Node types produced by the tree builder itself.
const (
	NodeRoot = "root"
	NodeText = "text"
)

// Node is an element of the tree built from tokenizer events.
type Node struct {
	Type     string
	Value    string
	Attrs    map[string]string
	Children []*Node
	Start    int
	End      int
}

// Attr returns the value of the given attribute and whether it is present.
func (n *Node) Attr(key string) (string, bool) {
	if n == nil || n.Attrs == nil {
		return "", false
	}
	val, found := n.Attrs[key]
	return val, found
}

// SetAttr sets the given attribute.
func (n *Node) SetAttr(key, val string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = val
}

// Walk calls fn for the node and all its descendants in document order.
// If fn returns false, the children of that node are skipped.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Sx returns the node as a list: (TYPE ((key . val) ...) children...) for
// element nodes and (text "value") for text nodes.
func (n *Node) Sx() *sx.Pair {
	if n.Type == NodeText {
		return sx.MakeList(sx.MakeSymbol(NodeText), sx.MakeString(n.Value))
	}
	var attrs sx.ListBuilder
	keys := make([]string, 0, len(n.Attrs))
	for key := range n.Attrs {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		attrs.Add(sx.Cons(sx.MakeString(key), sx.MakeString(n.Attrs[key])))
	}
	var lb sx.ListBuilder
	lb.Add(sx.MakeSymbol(n.Type))
	lb.Add(attrs.List())
	for _, child := range n.Children {
		lb.Add(child.Sx())
	}
	return lb.List()
}

func (n *Node) String() string { return n.Sx().String() }

// NodeStack is the capability a tree extension gets to access the nodes
// currently open.
type NodeStack interface {
	// Top returns the innermost open node.
	Top() *Node

	// Push adds the node as the last child of the top node and makes it the
	// new top.
	Push(*Node)

	// Pop closes the top node and returns it. The root node cannot be popped.
	Pop() *Node
}

// Context is given to tree handlers.
type Context interface {
	NodeStack

	// SliceSerialize returns the source text of the given token.
	SliceSerialize(*Token) string
}

// Handler is called when a token is entered or exited.
type Handler func(Context, *Token)

// TreeExtension maps token types to handlers.
type TreeExtension struct {
	Enter map[TokenType]Handler
	Exit  map[TokenType]Handler
}

// Build replays the events and returns the root node of the resulting tree.
func Build(src []Code, events []Event, exts ...TreeExtension) *Node {
	enter := map[TokenType]Handler{}
	exit := map[TokenType]Handler{
		TypeData:       exitText,
		TypeLineEnding: exitText,
	}
	for _, ext := range exts {
		for typ, h := range ext.Enter {
			enter[typ] = h
		}
		for typ, h := range ext.Exit {
			exit[typ] = h
		}
	}

	root := &Node{Type: NodeRoot, Start: 0, End: len(src)}
	b := builder{src: src, stack: []*Node{root}}
	for _, ev := range events {
		handlers := enter
		if ev.Kind == EventExit {
			handlers = exit
		}
		if h, found := handlers[ev.Token.Type]; found {
			h(&b, ev.Token)
		}
	}
	if len(b.stack) != 1 {
		panic(fmt.Sprintf("%d node(s) left open", len(b.stack)-1))
	}
	return root
}

// Parse tokenizes the source and builds a tree.
func Parse(src string, exts []Extension, treeExts []TreeExtension) *Node {
	codes := Units(src)
	return Build(codes, NewTokenizer(exts...).Tokenize(codes), treeExts...)
}

type builder struct {
	src   []Code
	stack []*Node
}

func (b *builder) Top() *Node { return b.stack[len(b.stack)-1] }

func (b *builder) Push(n *Node) {
	top := b.Top()
	top.Children = append(top.Children, n)
	b.stack = append(b.stack, n)
}

func (b *builder) Pop() *Node {
	last := len(b.stack) - 1
	if last < 1 {
		panic("pop of root node")
	}
	n := b.stack[last]
	b.stack = b.stack[:last]
	return n
}

func (b *builder) SliceSerialize(tok *Token) string { return String(b.src[tok.Start:tok.End]) }

func exitText(ctx Context, tok *Token) {
	top := ctx.Top()
	text := ctx.SliceSerialize(tok)
	if l := len(top.Children); l > 0 {
		if last := top.Children[l-1]; last.Type == NodeText && last.End == tok.Start {
			last.Value += text
			last.End = tok.End
			return
		}
	}
	top.Children = append(top.Children, &Node{Type: NodeText, Value: text, Start: tok.Start, End: tok.End})
}
