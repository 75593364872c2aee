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

import (
	"fmt"
	"io"

	gmUtil "github.com/yuin/goldmark/util"
)

// RenderHTML writes the source as HTML. Markdown is rendered by goldmark with
// emoji dates as <time> elements, every other syntax as preformatted text.
func RenderHTML(w io.Writer, src []byte, syntax string, opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}
	pi := Get(syntax)
	if !pi.IsASTParser {
		if _, err := fmt.Fprintf(w, "<pre>%s</pre>\n", gmUtil.EscapeHTML(src)); err != nil {
			return fmt.Errorf("render %s: %w", pi.Name, err)
		}
		return nil
	}
	body, fm := splitFrontMatter(src)
	engine := newGoldmarkEngine(opts, markerOf(fm, opts))
	if err := engine.Convert(body, w); err != nil {
		return fmt.Errorf("render %s: %w", pi.Name, err)
	}
	return nil
}
