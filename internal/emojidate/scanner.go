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

import "zettelstore.de/emojidate/internal/markup"

// Token types marked by the construct.
const (
	TypeEmojiDate       markup.TokenType = "emojiDate"
	TypeEmojiDateMarker markup.TokenType = "emojiDateMarker"
	TypeEmojiDateData   markup.TokenType = "emojiDateData"
	TypeEmojiDateTarget markup.TokenType = "emojiDateTarget"
)

// MinDateLen is the minimum number of digits and dashes of a date.
const MinDateLen = 10

// Stage is the state of one attempt to recognize the construct.
type Stage uint8

// Values for Stage
const (
	StageStart          Stage = iota // nothing consumed
	StageMarkerTrail                 // lead unit of a two-unit marker consumed
	StageMarkerConsumed              // marker consumed, white space expected
	StageSeparatorSeen               // at least one space consumed, no date character yet
	StageScanningDate                // at least one date character consumed
	StageAccepted
	StageRejected
)

var stageString = [...]string{
	"start",
	"marker-trail",
	"marker-consumed",
	"separator-seen",
	"scanning-date",
	"accepted",
	"rejected",
}

func (s Stage) String() string {
	if int(s) < len(stageString) {
		return stageString[s]
	}
	return "unknown"
}

// IsTerminal returns true for the accepted and the rejected stage.
func (s Stage) IsTerminal() bool { return s == StageAccepted || s == StageRejected }

// ScanState is the state of one attempt. Its zero value starts a new attempt.
type ScanState struct {
	Stage Stage
	Count int // number of date characters consumed
}

// Transition lists the side effects of a step. They must be applied in the
// order: all Enter boundaries, Consume, all Exit boundaries.
type Transition struct {
	Enter   []markup.TokenType
	Consume bool
	Exit    []markup.TokenType
}

var (
	enterMarker   = []markup.TokenType{TypeEmojiDate, TypeEmojiDateMarker}
	exitMarker    = []markup.TokenType{TypeEmojiDateMarker}
	enterData     = []markup.TokenType{TypeEmojiDateData, TypeEmojiDateTarget}
	exitConstruct = []markup.TokenType{TypeEmojiDateTarget, TypeEmojiDateData, TypeEmojiDate}
)

// Step computes the next state for the given code unit.
func Step(m Marker, st ScanState, c markup.Code) (ScanState, Transition) {
	switch st.Stage {
	case StageStart:
		if c != m.lead {
			return reject(st)
		}
		if m.pair {
			return ScanState{Stage: StageMarkerTrail}, Transition{Enter: enterMarker, Consume: true}
		}
		return ScanState{Stage: StageMarkerConsumed}, Transition{Enter: enterMarker, Consume: true, Exit: exitMarker}

	case StageMarkerTrail:
		if c != m.trail {
			return reject(st)
		}
		return ScanState{Stage: StageMarkerConsumed}, Transition{Consume: true, Exit: exitMarker}

	case StageMarkerConsumed:
		if !markup.IsMarkdownSpace(c) {
			return reject(st)
		}
		return ScanState{Stage: StageSeparatorSeen}, Transition{Enter: enterData, Consume: true}

	case StageSeparatorSeen:
		if markup.IsMarkdownSpace(c) {
			return st, Transition{Consume: true}
		}
		if isDateChar(c) {
			return ScanState{Stage: StageScanningDate, Count: 1}, Transition{Consume: true}
		}
		return reject(st)

	case StageScanningDate:
		if isDateChar(c) {
			return ScanState{Stage: StageScanningDate, Count: st.Count + 1}, Transition{Consume: true}
		}
		if st.Count < MinDateLen {
			return reject(st)
		}
		if !markup.IsMarkdownSpace(c) && !markup.IsLineEnding(c) && c != markup.EOF {
			return reject(st)
		}
		return ScanState{Stage: StageAccepted, Count: st.Count}, Transition{Exit: exitConstruct}
	}
	return st, Transition{}
}

func reject(st ScanState) (ScanState, Transition) {
	return ScanState{Stage: StageRejected, Count: st.Count}, Transition{}
}

func isDateChar(c markup.Code) bool { return markup.IsASCIIDigit(c) || c == markup.CodeDash }
