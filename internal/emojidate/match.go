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

// Match describes a recognized construct. Positions are code unit offsets
// relative to the start of the attempt.
type Match struct {
	End         int // end of the whole construct
	TargetStart int
	TargetEnd   int
	Date        string
}

// MatchAt runs one attempt on src, starting at pos. It is meant for hosts
// that do not use the markup tokenizer.
func (m Marker) MatchAt(src []markup.Code, pos int) (Match, bool) {
	var st ScanState
	var result Match
	for i := pos; ; i++ {
		c := markup.EOF
		if i < len(src) {
			c = src[i]
		}
		next, tr := Step(m, st, c)
		st = next
		switch next.Stage {
		case StageRejected:
			return Match{}, false
		case StageAccepted:
			result.End = i - pos
			result.TargetEnd = i - pos
			result.Date = strings.TrimSpace(markup.String(src[pos+result.TargetStart : i]))
			return result, true
		}
		for _, typ := range tr.Enter {
			if typ == TypeEmojiDateTarget {
				result.TargetStart = i - pos
			}
		}
	}
}
