// Copyright 2025 The CCProxy Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ccproxy // import "modernc.org/ccproxy/lib"

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/xyproto/env/v2"
	"golang.org/x/sys/unix"
)

// Linker consumes linker command lines.
type Linker interface {
	// Link links according to args. args do not include a program name.
	Link(args []string) error
}

// execLinker runs a linker program with the standard streams of the task.
type execLinker struct {
	name string
	t    *Task
}

// Link implements Linker.
func (l *execLinker) Link(args []string) error {
	path, err := lookPath(l.name)
	if err != nil {
		return err
	}

	return l.t.run(path, args...)
}

// run executes name and waits for it to finish.
func (t *Task) run(name string, args ...string) error {
	t.trace("run %s", join(" ", name, args))
	cmd := exec.Command(name, args...)
	cmd.Stdin = t.stdin
	cmd.Stdout = t.stdout
	cmd.Stderr = t.stderr
	return processError(name, cmd.Run())
}

// output executes name and returns its standard error output. Standard output
// is passed through.
func (t *Task) output(name string, args ...string) (stderr []byte, err error) {
	t.trace("run %s", join(" ", name, args))
	var b bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdin = t.stdin
	cmd.Stdout = t.stdout
	cmd.Stderr = &b
	err = cmd.Run()
	return b.Bytes(), processError(name, err)
}

// processError maps the error of a finished child process to *ExitError or
// *SignalError.
func processError(name string, err error) error {
	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		if err != nil {
			return errorf("%s: %v", name, err)
		}

		return nil
	}

	if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return &SignalError{Cmd: name, Signal: ws.Signal()}
	}

	return &ExitError{Cmd: name, Code: ee.ExitCode()}
}

// execve replaces the current process image by path. It returns only on
// failure.
func execve(path string, argv []string) error {
	return unix.Exec(path, argv, os.Environ())
}

// lookPath searches $PATH for an executable file named name like the shell
// does, except it ignores the running executable, possibly reached through
// a symbolic link. Names containing a slash are not searched.
func lookPath(name string) (string, error) {
	if strings.Contains(name, "/") {
		if !isExecutable(name) {
			return "", errorf("%s: not an executable file", name)
		}

		return name, nil
	}

	var self unix.Stat_t
	haveSelf := false
	if fn, err := os.Executable(); err == nil {
		haveSelf = unix.Stat(fn, &self) == nil
	}
	for _, dir := range filepath.SplitList(env.Str("PATH")) {
		if dir == "" {
			dir = "."
		}
		path := filepath.Join(dir, name)
		var st unix.Stat_t
		if err := unix.Stat(path, &st); err != nil {
			continue
		}

		if st.Mode&unix.S_IFMT != unix.S_IFREG || st.Mode&0111 == 0 {
			continue
		}

		if haveSelf && st.Dev == self.Dev && st.Ino == self.Ino {
			logf("skipping %s, it is this executable", path)
			continue
		}

		return path, nil
	}
	return "", errorf("%s: executable file not found in $PATH", name)
}

func isExecutable(path string) bool {
	var st unix.Stat_t
	return unix.Stat(path, &st) == nil && st.Mode&unix.S_IFMT == unix.S_IFREG && st.Mode&0111 != 0
}
