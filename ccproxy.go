// Copyright 2025 The CCProxy Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main // import "modernc.org/ccproxy"

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
	ccproxy "modernc.org/ccproxy/lib"
)

func main() {
	err := ccproxy.NewTask(os.Args, os.Stdout, os.Stderr).Main()
	if err == nil {
		return
	}

	var ee *ccproxy.ExitError
	var se *ccproxy.SignalError
	switch {
	case errors.As(err, &ee):
		os.Exit(ee.Code)
	case errors.As(err, &se):
		raise(se.Signal)
	default:
		fmt.Fprintf(os.Stderr, "ccproxy: %v\n", err)
		os.Exit(1)
	}
}

// raise terminates the process by sig, where the runtime allows that.
//
// Only signals whose default action the Go runtime leaves to the kernel once
// their handler is reset are re-raised. The runtime owns the synchronous
// signals (SIGSEGV, SIGBUS, SIGFPE, SIGILL) and SIGABRT, converting them into
// a Go panic or crash report of its own, so for those and the rest the exit
// status follows the shell convention 128+n instead.
func raise(sig os.Signal) {
	s, ok := sig.(syscall.Signal)
	if !ok {
		os.Exit(1)
	}

	switch s {
	case unix.SIGHUP, unix.SIGINT, unix.SIGKILL, unix.SIGPIPE, unix.SIGTERM:
		signal.Reset(s)
		unix.Kill(unix.Getpid(), s)
	}
	os.Exit(128 + int(s))
}
