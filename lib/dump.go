// Copyright 2025 The CCProxy Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ccproxy // import "modernc.org/ccproxy/lib"

import (
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Pipeline is the list of commands a compiler driver runs for one invocation,
// as printed by its -### option.
type Pipeline struct {
	Steps []string // Compile and assemble commands in execution order.
	Link  string   // The link command or "".
}

// ParseDump parses the standard error output of a GCC or Clang driver run
// with -###. Every command is a single line, quoted for a POSIX shell.
func ParseDump(text string) (*Pipeline, error) {
	lines := strings.Split(text, "\n")
	var banner string
	for i, v := range lines {
		if v = strings.TrimSpace(v); v != "" {
			banner = v
			lines = lines[i+1:]
			break
		}
	}
	var cmds []string
	var isLink func(stem string) bool
	switch {
	case banner == "":
		return nil, errorf("no commands produced")
	case strings.Contains(banner, "clang version"):
		cmds = clangCommands(lines)
		isLink = func(stem string) bool { return !strings.HasPrefix(stem, "clang") }
	case isGCCBanner(banner):
		var err error
		if cmds, err = gccCommands(lines); err != nil {
			return nil, err
		}

		isLink = func(stem string) bool { return stem == "collect2" }
	default:
		return nil, errorf("unrecognized dump banner: %q", banner)
	}
	if len(cmds) == 0 {
		return nil, errorf("no commands produced")
	}

	r := &Pipeline{}
	last := cmds[len(cmds)-1]
	stem, err := programStem(last)
	if err != nil {
		return nil, err
	}

	if isLink(stem) {
		r.Link = last
		cmds = cmds[:len(cmds)-1]
	}
	if len(cmds) != 0 {
		r.Steps = cmds
	}
	return r, nil
}

func isGCCBanner(s string) bool {
	return strings.HasPrefix(s, "Using built-in specs.") ||
		strings.HasPrefix(s, "COLLECT_GCC") ||
		strings.HasPrefix(s, "Target:") ||
		strings.Contains(s, "gcc version")
}

// Clang prints commands indented by one space. Commands it runs in process
// are announced by a " (in-process)" line, which is not a command.
func clangCommands(lines []string) (r []string) {
	for _, v := range lines {
		v = strings.TrimRight(v, "\r")
		if !strings.HasPrefix(v, " ") || strings.HasSuffix(v, "(in-process)") {
			continue
		}

		if v = strings.TrimSpace(v); v != "" {
			r = append(r, v)
		}
	}
	return r
}

// GCC prints commands indented by one space, interleaved with environment
// settings. GCC may report a diagnostic and still exit successfully.
func gccCommands(lines []string) (r []string, err error) {
	for _, v := range lines {
		v = strings.TrimRight(v, "\r")
		if !strings.HasPrefix(v, " ") {
			if strings.Contains(v, "error: ") {
				return nil, &CompilerError{Line: v}
			}

			continue
		}

		if v = strings.TrimSpace(v); v != "" {
			r = append(r, v)
		}
	}
	return r, nil
}

// programStem returns the base name of the program cmd executes, without
// extension.
func programStem(cmd string) (string, error) {
	words, err := shellquote.Split(cmd)
	if err != nil {
		return "", errorf("%q: %v", cmd, err)
	}

	if len(words) == 0 {
		return "", errorf("empty command")
	}

	base := filepath.Base(words[0])
	return strings.TrimSuffix(base, filepath.Ext(base)), nil
}
