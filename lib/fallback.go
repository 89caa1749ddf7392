// Copyright 2025 The CCProxy Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ccproxy // import "modernc.org/ccproxy/lib"

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/kballard/go-shellquote"
	"modernc.org/opt"
)

// fallback lets the real compiler decide what to run. The commands it prints
// under -### are executed one by one, except the link command which is
// handed to the linker.
func (t *Task) fallback() error {
	cc, err := t.compilerPath()
	if err != nil {
		return err
	}

	args := t.args[1:]
	for _, v := range args {
		switch v {
		case "--help", "--version", "-###":
			return t.run(cc, args...)
		}
	}

	b, err := t.output(cc, append(args[:len(args):len(args)], "-###")...)
	if err != nil {
		var ee *ExitError
		if errors.As(err, &ee) {
			for _, v := range strings.Split(string(b), "\n") {
				if strings.Contains(v, "error: ") {
					fmt.Fprintln(t.stderr, v)
				}
			}
		}
		return err
	}

	p, err := ParseDump(string(b))
	if err != nil {
		return err
	}

	t.trace("fallback: %d steps, link %v", len(p.Steps), p.Link != "")
	tmp := newTempFiles(t)

	defer tmp.remove()

	for i, v := range p.Steps {
		argv, err := shellquote.Split(v)
		if err != nil {
			return errorf("%q: %v", v, err)
		}

		if len(argv) == 0 {
			continue
		}

		if i < len(p.Steps)-1 || p.Link != "" {
			if out := stepOutput(argv[1:]); out != "" && out != "-" {
				tmp.add(out)
			}
		}
		if err := t.run(argv[0], argv[1:]...); err != nil {
			return err
		}
	}
	if p.Link == "" {
		return nil
	}

	argv, err := shellquote.Split(p.Link)
	if err != nil {
		return errorf("%q: %v", p.Link, err)
	}

	if len(argv) == 0 {
		return errorf("empty link command")
	}

	return t.link(argv[1:])
}

// link hands args to the linker.
func (t *Task) link(args []string) error {
	t.trace("link: %s", join(" ", args))
	if err := t.linker.Link(args); err != nil {
		return err
	}

	if out := stepOutput(args); out != "" && t.cfg.Trace {
		if fi, err := os.Stat(out); err == nil {
			t.trace("link: wrote %s, %s", out, humanize.Bytes(uint64(fi.Size())))
		}
	}
	return nil
}

// stepOutput returns the argument of the -o option in args, if any. The dump
// always separates -o from its value, so -opt-record-file is not an output.
func stepOutput(args []string) (r string) {
	set := opt.NewSet()
	set.Arg("o", false, func(opt, val string) error { r = val; return nil })
	if err := set.Parse(args, func(string) error { return nil }); err != nil {
		return ""
	}

	return r
}
