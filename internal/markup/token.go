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

// TokenType names the kind of a marked region of the input.
type TokenType string

// Token types produced by the tokenizer itself.
const (
	TypeData       TokenType = "data"
	TypeLineEnding TokenType = "lineEnding"
)

// Token is a region of the input, measured in code units.
type Token struct {
	Type  TokenType
	Start int
	End   int
}

// Len returns the number of code units of the token.
func (tok *Token) Len() int { return tok.End - tok.Start }

// EventKind states whether a token is entered or exited.
type EventKind uint8

// Values for EventKind
const (
	EventEnter EventKind = iota
	EventExit
)

func (k EventKind) String() string {
	if k == EventEnter {
		return "enter"
	}
	return "exit"
}

// Event is produced by the tokenizer and replayed by the tree builder.
type Event struct {
	Kind  EventKind
	Token *Token
}

// Effects are the primitives a construct uses to mark boundaries and to
// advance the input.
type Effects interface {
	// Enter opens a new token at the current position.
	Enter(TokenType)

	// Exit closes the innermost open token, which must be of the given type.
	Exit(TokenType)

	// Consume advances the input by one code unit. The code unit must be the
	// current one.
	Consume(Code)
}

// Status reports the outcome of feeding a code unit to an attempt.
type Status uint8

// Values for Status
const (
	Continue Status = iota // more input is needed
	Accepted               // construct recognized; the fed code unit was not consumed
	Rejected               // construct not recognized
)

func (s Status) String() string {
	switch s {
	case Continue:
		return "continue"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

// Attempt is one in-flight try to recognize a construct.
//
// Feed is called with the current code unit, or EOF. Returning Continue
// requires that the code unit was consumed.
type Attempt interface {
	Feed(Code) Status
}

// Construct describes something the tokenizer can recognize.
type Construct interface {
	Name() string
	Start(Effects) Attempt
}

// Extension maps triggering code units to constructs. It is merged into the
// dispatch table of a tokenizer.
type Extension struct {
	Text map[Code][]Construct
}
