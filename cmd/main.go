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

// Package cmd provides the commands to call emojidate from the command line.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"golang.org/x/term"
	"t73f.de/r/zsc/domain/id"
	"t73f.de/r/zsc/domain/meta"
	"t73f.de/r/zsx/input"

	"zettelstore.de/emojidate/internal/emojidate"
	"zettelstore.de/emojidate/internal/logging"
	"zettelstore.de/emojidate/internal/parser"
)

func init() {
	RegisterCommand(Command{
		Name: "help",
		Func: func(env *Environment, _ *flag.FlagSet) (int, error) {
			fmt.Fprintln(env.Stdout, "Available commands:")
			for _, name := range List() {
				fmt.Fprintf(env.Stdout, "- %q\n", name)
			}
			return 0, nil
		},
	})
	RegisterCommand(Command{
		Name: "version",
		Func: func(env *Environment, _ *flag.FlagSet) (int, error) {
			fmt.Fprintln(env.Stdout, env.Version)
			return 0, nil
		},
	})
	RegisterCommand(Command{
		Name:     "file",
		Func:     cmdFile,
		SetFlags: flgFile,
	})
	RegisterCommand(Command{
		Name:     "dates",
		Func:     cmdDates,
		Header:   true,
		SetFlags: flgSyntax,
	})
	RegisterCommand(Command{
		Name:     "watch",
		Func:     cmdWatch,
		Header:   true,
		SetFlags: flgSyntax,
	})
}

func fetchStartupConfiguration(fs *flag.FlagSet) (string, *meta.Meta) {
	if configFlag := fs.Lookup("c"); configFlag != nil {
		if filename := configFlag.Value.String(); filename != "" {
			content, err := readConfiguration(filename)
			return filename, createConfiguration(content, err)
		}
	}
	filename, content, err := searchAndReadConfiguration()
	return filename, createConfiguration(content, err)
}

func createConfiguration(content []byte, err error) *meta.Meta {
	if err != nil {
		return meta.New(id.Invalid)
	}
	return meta.NewFromInput(id.Invalid, input.NewInput(content))
}

func readConfiguration(filename string) ([]byte, error) { return os.ReadFile(filename) }

func searchAndReadConfiguration() (string, []byte, error) {
	for _, filename := range []string{"emojidate.cfg", ".emojidate"} {
		if content, err := readConfiguration(filename); err == nil {
			return filename, content, nil
		}
	}
	return "", nil, os.ErrNotExist
}

func getConfig(fs *flag.FlagSet) (string, *meta.Meta) {
	filename, cfg := fetchStartupConfiguration(fs)
	fs.Visit(func(flg *flag.Flag) {
		switch flg.Name {
		case "l":
			cfg.Set(keyLogLevel, meta.Value(flg.Value.String()))
		case "m":
			cfg.Set(keyMarker, meta.Value(flg.Value.String()))
		case "s":
			cfg.Set(keySyntax, meta.Value(flg.Value.String()))
		case "hard-wraps":
			cfg.Set(keyHardWraps, meta.Value(flg.Value.String()))
		case "safe":
			cfg.Set(keySafeMode, meta.Value(flg.Value.String()))
		}
	})
	return filename, cfg
}

const (
	keyExtensions = "extensions"
	keyHardWraps  = "hard-wraps"
	keyLogLevel   = "log-level"
	keyMarker     = "marker"
	keySafeMode   = "safe-mode"
	keySyntax     = "syntax"
)

// newEnvironment creates the environment of a command from the configuration.
func newEnvironment(cfg *meta.Meta, stdout, stderr io.Writer) (*Environment, error) {
	level := slog.LevelInfo
	if val, found := cfg.Get(keyLogLevel); found {
		if l := logging.ParseLevel(string(val)); l != logging.LevelMissing {
			level = l
		} else {
			return nil, fmt.Errorf("invalid log level %q", val)
		}
	}

	opts := parser.DefaultOptions()
	if val, found := cfg.Get(keyMarker); found {
		m, err := emojidate.ParseMarker(string(val))
		if err != nil {
			return nil, fmt.Errorf("marker %q: %w", val, err)
		}
		opts.Marker = m
	}
	if val, found := cfg.Get(keyExtensions); found {
		opts.Extensions = strings.Fields(strings.ReplaceAll(string(val), ",", " "))
	}
	opts.HardWraps = cfg.GetBool(keyHardWraps)
	opts.SafeMode = cfg.GetBool(keySafeMode)

	syntax := string(cfg.GetDefault(keySyntax, ""))
	if syntax != "" {
		if _, err := parser.Lookup(syntax); err != nil {
			return nil, err
		}
	}
	return &Environment{
		Logger:  logging.New(stderr, level),
		Options: opts,
		Syntax:  syntax,
		Stdout:  stdout,
	}, nil
}

func executeCommand(version, name string, args ...string) int {
	command, ok := Get(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", name)
		return 1
	}
	fs := command.GetFlags()
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: unable to parse flags: %v %v\n", name, args, err)
		return 1
	}
	filename, cfg := getConfig(fs)
	env, err := newEnvironment(cfg, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		fs.Usage()
		return 2
	}
	env.Version = version
	if filename != "" {
		env.Logger.Debug("Configuration read", "file", filename)
	}
	if command.Header && term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintf(env.Stdout, "emojidate %s (marker %s)\n", version, env.Options.Marker)
	}

	exitCode, err := command.Func(env, fs)
	if err != nil {
		env.Logger.Error("Command failed", "cmd", name, logging.Err(err))
	}
	return exitCode
}

// Main is the real entrypoint of the emojidate command.
func Main(progName, buildVersion string) int {
	info := retrieveVCSInfo(buildVersion)
	fullVersion := info.revision
	if info.dirty {
		fullVersion += "-dirty"
	}
	fullVersion += " " + info.time.Format(time.DateOnly)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s <command> [flags] [args]\n", progName)
		fmt.Fprintf(flag.CommandLine.Output(), "Commands: %s\n", strings.Join(List(), ", "))
	}
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		return executeCommand(fullVersion, "help")
	}
	return executeCommand(fullVersion, args[0], args[1:]...)
}

type vcsInfo struct {
	revision string
	dirty    bool
	time     time.Time
}

func retrieveVCSInfo(version string) vcsInfo {
	buildTime := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return vcsInfo{revision: version, dirty: false, time: buildTime}
	}
	result := vcsInfo{revision: version, time: buildTime}
	for _, kv := range info.Settings {
		switch kv.Key {
		case "vcs.revision":
			revision := "+" + kv.Value
			if len(revision) > 11 {
				revision = revision[:11]
			}
			result.revision = version + revision
		case "vcs.modified":
			if kv.Value == "true" {
				result.dirty = true
			}
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, kv.Value); err == nil {
				result.time = t
			}
		}
	}
	return result
}
