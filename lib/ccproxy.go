// Copyright 2025 The CCProxy Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ccproxy implements the ccproxy command.
package ccproxy // import "modernc.org/ccproxy/lib"

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Task represents a driver invocation.
type Task struct {
	args   []string // command name in args[0]
	cc     string   // Real compiler name.
	ccPath string   // Real compiler executable.
	cfg    *Config
	cxx    bool
	execve func(path string, argv []string) error
	linker Linker
	stderr io.Writer
	stdin  io.Reader
	stdout io.Writer
	triple string // Inferred from args[0].
}

// NewTask returns a newly created Task. args[0] is the command name.
func NewTask(args []string, stdout, stderr io.Writer) *Task {
	return &Task{
		args:   args,
		execve: execve,
		stderr: stderr,
		stdin:  os.Stdin,
		stdout: stdout,
	}
}

// Main executes task. A failing child process is reported as *ExitError or
// *SignalError. On success of a compile only invocation Main does not return,
// the process becomes the real compiler.
func (t *Task) Main() (err error) {
	if len(t.args) == 0 {
		return errorf("invalid arguments %v", t.args)
	}

	if t.cfg == nil {
		if t.cfg, err = LoadConfig(); err != nil {
			return err
		}
	}

	d, err := parseDriverName(filepath.Base(t.args[0]))
	if err != nil {
		return err
	}

	t.cxx = d.cxx()
	t.triple = d.triple
	t.cc = d.compiler()
	if t.cfg.CC != "" {
		t.cc = t.cfg.CC
	}
	if t.linker == nil {
		t.linker = &execLinker{name: t.cfg.Linker, t: t}
	}
	logf("%q", t.args)
	if t.cfg.Fallback {
		t.trace("fallback forced by $CCPROXY_FALLBACK")
		return t.fallback()
	}

	a, err := ParseArgs(t.args[1:], t.triple)
	if err != nil {
		return err
	}

	if len(a.Unknown) != 0 {
		logf("unknown arguments: %q", a.Unknown)
	}
	t.trace("mode %v, output %v, arch %v", a.Mode, a.OutputKind, a.Arch)
	switch {
	case a.Help, a.Mode == ModeNone, a.Mode == CompileOnly:
		return t.exec()
	case a.Mode == CompileAndLink:
		return t.fallback()
	case a.Mode == LinkOnly:
		if ok, reason := a.Direct(); !ok {
			t.trace("fallback: %s", reason)
			return t.fallback()
		}

		args, err := t.cfg.LinkArgs(a, t.cxx)
		if err != nil {
			return err
		}

		return t.link(args)
	}
	panic(todo("%v", a.Mode))
}

// compilerPath returns the real compiler executable.
func (t *Task) compilerPath() (r string, err error) {
	if t.ccPath == "" {
		t.ccPath, err = lookPath(t.cc)
	}
	return t.ccPath, err
}

// exec replaces the process by the real compiler.
func (t *Task) exec() error {
	path, err := t.compilerPath()
	if err != nil {
		return err
	}

	t.trace("exec %s", join(" ", path, t.args[1:]))
	if err := t.execve(path, append([]string{t.cc}, t.args[1:]...)); err != nil {
		return errorf("%s: %v", path, err)
	}

	return nil
}

var tools = []string{"clang++", "clang", "g++", "gcc", "c++", "cc"}

// driverName is a decomposed compiler driver name, eg.
// "x86_64-linux-gnu-gcc-14".
type driverName struct {
	prefix  string // Target triple or wrapper name.
	tool    string
	triple  string // prefix if it names a target.
	version string // Including the leading dash, eg. "-14".
}

func parseDriverName(name string) (r driverName, err error) {
	s := name
	if x := strings.LastIndexByte(s, '-'); x > 0 && isVersion(s[x+1:]) {
		s, r.version = s[:x], s[x:]
	}
	for _, v := range tools {
		switch {
		case s == v:
			r.tool = v
		case strings.HasSuffix(s, "-"+v):
			r.tool = v
			r.prefix = s[:len(s)-len(v)-1]
		default:
			continue
		}

		if strings.Contains(r.prefix, "-linux-") {
			r.triple = r.prefix
		}
		return r, nil
	}
	return r, errorf("cannot determine the compiler from the program name %q", name)
}

func isVersion(s string) bool {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return false
	}

	for _, c := range s {
		if c != '.' && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

func (d driverName) cxx() bool { return strings.HasSuffix(d.tool, "++") }

// compiler returns the name of the real compiler. Wrapper names are dropped.
func (d driverName) compiler() string {
	if d.triple != "" {
		return d.triple + "-" + d.tool + d.version
	}

	return d.tool + d.version
}
