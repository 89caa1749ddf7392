// Copyright 2025 The CCProxy Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ccproxy // import "modernc.org/ccproxy/lib"

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/xyproto/env/v2"
)

var (
	extendedErrors bool // true: Errors will include origin info.

	logOnce sync.Once
	logw    io.Writer
)

// logf appends a line to the file named by $CCPROXYLOG, if any.
func logf(s string, args ...interface{}) {
	logOnce.Do(func() {
		fn := env.Str("CCPROXYLOG")
		if fn == "" {
			return
		}

		f, err := os.OpenFile(fn, os.O_APPEND|os.O_CREATE|os.O_WRONLY|os.O_SYNC, 0644)
		if err != nil {
			return
		}

		logw = f
	})
	if logw == nil {
		return
	}

	if s == "" {
		s = strings.Repeat("%v ", len(args))
	}
	_, fn, fl, _ := runtime.Caller(1)
	s = fmt.Sprintf("[pid %v] %s:%d: "+s, append([]interface{}{os.Getpid(), filepath.Base(fn), fl}, args...)...)
	switch {
	case len(s) != 0 && s[len(s)-1] == '\n':
		fmt.Fprint(logw, s)
	default:
		fmt.Fprintln(logw, s)
	}
}

// origin returns caller's short position, skipping skip frames.
func origin(skip int) string {
	pc, fn, fl, _ := runtime.Caller(skip)
	f := runtime.FuncForPC(pc)
	var fns string
	if f != nil {
		fns = f.Name()
		if x := strings.LastIndex(fns, "."); x > 0 {
			fns = fns[x+1:]
		}
		if strings.HasPrefix(fns, "func") {
			num := true
			for _, c := range fns[len("func"):] {
				if c < '0' || c > '9' {
					num = false
					break
				}
			}
			if num {
				return origin(skip + 2)
			}
		}
	}
	return fmt.Sprintf("%s:%d:%s", filepath.Base(fn), fl, fns)
}

// todo returns caller's position and an optional message tagged with TODO.
func todo(s string, args ...interface{}) string {
	switch {
	case s == "":
		s = fmt.Sprintf(strings.Repeat("%v ", len(args)), args...)
	default:
		s = fmt.Sprintf(s, args...)
	}
	return fmt.Sprintf("%s\n\tTODO %s", origin(2), s)
}

// errorf constructs an error value. If extendedErrors is true, the error will
// contain its origin.
func errorf(s string, args ...interface{}) error {
	switch {
	case s == "":
		s = fmt.Sprintf(strings.Repeat("%v ", len(args)), args...)
	default:
		s = fmt.Sprintf(s, args...)
	}
	switch {
	case extendedErrors:
		return fmt.Errorf("%s (%v:)", s, origin(2))
	default:
		return fmt.Errorf("%s", s)
	}
}

// ExitError reports a child process that exited with a non-zero status. The
// driver exits with the same status.
type ExitError struct {
	Cmd  string
	Code int
}

// Error implements error.
func (e *ExitError) Error() string { return fmt.Sprintf("%s: exit status %d", e.Cmd, e.Code) }

// SignalError reports a child process terminated by a signal.
type SignalError struct {
	Cmd    string
	Signal os.Signal
}

// Error implements error.
func (e *SignalError) Error() string { return fmt.Sprintf("%s: %v", e.Cmd, e.Signal) }

// CompilerError is a diagnostic the real compiler printed in its command dump
// while still exiting successfully.
type CompilerError struct {
	Line string
}

// Error implements error.
func (e *CompilerError) Error() string { return e.Line }

func (t *Task) warn(s string, args ...interface{}) {
	s = fmt.Sprintf(s, args...)
	logf("warning: %s", s)
	fmt.Fprintf(t.stderr, "ccproxy: warning: %s\n", s)
}

func (t *Task) trace(s string, args ...interface{}) {
	s = fmt.Sprintf(s, args...)
	logf("%s", s)
	if t.cfg.Trace {
		fmt.Fprintf(t.stderr, "ccproxy: %s\n", s)
	}
}

func join(sep string, a ...interface{}) string {
	var b []string
	for _, v := range a {
		switch x := v.(type) {
		case string:
			b = append(b, x)
		case []string:
			b = append(b, x...)
		default:
			panic(fmt.Sprintf("%s: internal error: %T", origin(2), x))
		}
	}
	return strings.Join(b, sep)
}
