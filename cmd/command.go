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

package cmd

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"zettelstore.de/emojidate/internal/parser"
)

// Environment is given to every command.
type Environment struct {
	Logger  *slog.Logger
	Options *parser.Options
	Syntax  string // configured syntax, empty if not configured
	Stdout  io.Writer
	Version string
}

// Command stores information about commands / sub-commands.
type Command struct {
	Name     string                                         // command name as it appears on the command line
	Func     func(*Environment, *flag.FlagSet) (int, error) // function that executes a command
	Header   bool                                           // Print a heading on startup, if output is a terminal
	SetFlags func(*flag.FlagSet)                            // function to set up flag.FlagSet
	flags    *flag.FlagSet                                  // flags that belong to the command
}

var commands = make(map[string]Command)

// RegisterCommand registers the given command.
func RegisterCommand(cmd Command) {
	if cmd.Name == "" || cmd.Func == nil {
		panic("Required command values missing")
	}
	if _, ok := commands[cmd.Name]; ok {
		panic(fmt.Sprintf("Command %q already registered", cmd.Name))
	}
	cmd.flags = flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
	cmd.flags.String("c", "", "configuration file")
	cmd.flags.String("l", "", "log level (trace, debug, info, warn, error)")
	cmd.flags.String("m", "", "marker of emoji dates")
	if cmd.SetFlags != nil {
		cmd.SetFlags(cmd.flags)
	}
	commands[cmd.Name] = cmd
}

// GetFlags returns the flag set of the command.
func (cmd *Command) GetFlags() *flag.FlagSet { return cmd.flags }

// Get returns the command identified by the given name and a bool to signal success.
func Get(name string) (Command, bool) {
	cmd, ok := commands[name]
	return cmd, ok
}

// List returns a sorted list of all registered command names.
func List() []string {
	return slices.Sorted(maps.Keys(commands))
}
