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

import "fmt"

// Tokenizer turns a sequence of code units into events.
//
// A tokenizer holds only its dispatch table, so it can be used concurrently.
type Tokenizer struct {
	text map[Code][]Construct
}

// NewTokenizer creates a tokenizer with all given extensions merged.
// Constructs registered for the same code unit are tried in the order of the
// extensions.
func NewTokenizer(exts ...Extension) *Tokenizer {
	text := map[Code][]Construct{}
	for _, ext := range exts {
		for code, cs := range ext.Text {
			text[code] = append(text[code], cs...)
		}
	}
	return &Tokenizer{text: text}
}

// Tokenize returns the events for the given input.
func (t *Tokenizer) Tokenize(src []Code) []Event {
	st := tokenizeState{tz: t, src: src, events: make([]Event, 0, 16)}
	for st.pos < len(src) {
		c := src[st.pos]
		if IsLineEnding(c) {
			st.lineEnding(c)
			continue
		}
		if cs := t.text[c]; len(cs) > 0 {
			if st.attemptAll(cs) {
				continue
			}
		}
		st.data()
	}
	return st.events
}

// TryAt tries the given construct at position pos and reports the position
// after the construct. If the construct is not recognized, pos is returned.
// Events of a rejected attempt are discarded.
func (t *Tokenizer) TryAt(src []Code, pos int, con Construct) (int, []Event, bool) {
	st := tokenizeState{tz: t, src: src, pos: pos}
	if st.attempt(con) {
		return st.pos, st.events, true
	}
	return st.pos, nil, false
}

type tokenizeState struct {
	tz     *Tokenizer
	src    []Code
	pos    int
	events []Event
	open   []*Token
}

func (st *tokenizeState) current() Code {
	if st.pos < len(st.src) {
		return st.src[st.pos]
	}
	return EOF
}

func (st *tokenizeState) Enter(typ TokenType) {
	tok := &Token{Type: typ, Start: st.pos, End: -1}
	st.open = append(st.open, tok)
	st.events = append(st.events, Event{Kind: EventEnter, Token: tok})
}

func (st *tokenizeState) Exit(typ TokenType) {
	last := len(st.open) - 1
	if last < 0 {
		panic(fmt.Sprintf("exit %q without open token", typ))
	}
	tok := st.open[last]
	if tok.Type != typ {
		panic(fmt.Sprintf("exit %q, but %q is open", typ, tok.Type))
	}
	st.open = st.open[:last]
	tok.End = st.pos
	st.events = append(st.events, Event{Kind: EventExit, Token: tok})
}

func (st *tokenizeState) Consume(c Code) {
	if cur := st.current(); cur != c || c == EOF {
		panic(fmt.Sprintf("consume %d at position %d, but current is %d", c, st.pos, cur))
	}
	st.pos++
}

func (st *tokenizeState) attemptAll(cs []Construct) bool {
	for _, con := range cs {
		if st.attempt(con) {
			return true
		}
	}
	return false
}

// attempt runs one construct. On rejection, the position and all events are
// restored to the state before.
func (st *tokenizeState) attempt(con Construct) bool {
	startPos, numEvents, numOpen := st.pos, len(st.events), len(st.open)
	a := con.Start(st)
	for {
		c := st.current()
		before := st.pos
		switch a.Feed(c) {
		case Continue:
			if st.pos == before {
				panic(fmt.Sprintf("construct %q did not consume %d at position %d", con.Name(), c, before))
			}
			continue
		case Accepted:
			if len(st.open) != numOpen {
				panic(fmt.Sprintf("construct %q left %d token(s) open", con.Name(), len(st.open)-numOpen))
			}
			if st.pos > startPos {
				return true
			}
		}
		st.pos = startPos
		st.events = st.events[:numEvents]
		st.open = st.open[:numOpen]
		return false
	}
}

func (st *tokenizeState) lineEnding(c Code) {
	st.Enter(TypeLineEnding)
	st.Consume(c)
	if c == CodeCR && st.current() == CodeLF {
		st.Consume(CodeLF)
	}
	st.Exit(TypeLineEnding)
}

func (st *tokenizeState) data() {
	st.Enter(TypeData)
	for {
		st.Consume(st.current())
		c := st.current()
		if c == EOF || IsLineEnding(c) || len(st.tz.text[c]) > 0 {
			break
		}
	}
	st.Exit(TypeData)
}
