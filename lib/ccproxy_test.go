// Copyright 2025 The CCProxy Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ccproxy // import "modernc.org/ccproxy/lib"

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDriverName(t *testing.T) {
	for _, test := range []struct {
		name     string
		compiler string
		triple   string
		cxx      bool
	}{
		{"cc", "cc", "", false},
		{"c++", "c++", "", true},
		{"gcc", "gcc", "", false},
		{"g++", "g++", "", true},
		{"clang", "clang", "", false},
		{"clang++", "clang++", "", true},
		{"clang-19", "clang-19", "", false},
		{"clang++-19.1", "clang++-19.1", "", true},
		{"gcc-14", "gcc-14", "", false},
		{"x86_64-linux-gnu-gcc-13", "x86_64-linux-gnu-gcc-13", "x86_64-linux-gnu", false},
		{"aarch64-linux-gnu-c++", "aarch64-linux-gnu-c++", "aarch64-linux-gnu", true},
		{"riscv64-unknown-linux-gnu-clang", "riscv64-unknown-linux-gnu-clang", "riscv64-unknown-linux-gnu", false},
		{"ccache-g++", "g++", "", true},
		{"ccproxy-gcc", "gcc", "", false},
	} {
		d, err := parseDriverName(test.name)
		if err != nil {
			t.Errorf("%s: %v", test.name, err)
			continue
		}

		if g, e := d.compiler(), test.compiler; g != e {
			t.Errorf("%s: compiler %q, expected %q", test.name, g, e)
		}
		if g, e := d.triple, test.triple; g != e {
			t.Errorf("%s: triple %q, expected %q", test.name, g, e)
		}
		if g, e := d.cxx(), test.cxx; g != e {
			t.Errorf("%s: cxx %v, expected %v", test.name, g, e)
		}
	}
}

func TestParseDriverNameErrors(t *testing.T) {
	for _, v := range []string{"", "ccproxy", "ld", "gccx", "-14", "clang-"} {
		if d, err := parseDriverName(v); err == nil {
			t.Errorf("%q: unexpected success %+v", v, d)
		}
	}
}

// newFakeCC returns an executable file usable as a compiler path.
func newFakeCC(t *testing.T) string {
	fn := filepath.Join(t.TempDir(), "cc")
	if err := os.WriteFile(fn, []byte("#!/bin/sh\nexit 99\n"), 0755); err != nil {
		t.Fatal(err)
	}

	return fn
}

func TestMainExec(t *testing.T) {
	cc := newFakeCC(t)
	for _, args := range [][]string{
		{"gcc"},
		{"gcc", "-c", "a.c"},
		{"gcc", "-S", "a.c", "-o", "a.s"},
		{"gcc", "-E", "a.c"},
		{"gcc", "--help"},
		{"gcc", "--help", "a.o"},
		{"x86_64-linux-gnu-gcc", "-c", "a.c", "-Wall", "-O2"},
	} {
		task, l, _, _ := newTestTask(cc, args...)
		var path string
		var argv []string
		task.execve = func(p string, a []string) error {
			path, argv = p, a
			return nil
		}
		if err := task.Main(); err != nil {
			t.Errorf("%q: %v", args, err)
			continue
		}

		if g, e := path, cc; g != e {
			t.Errorf("%q: exec path %q, expected %q", args, g, e)
		}
		if diff := cmp.Diff(append([]string{cc}, args[1:]...), argv); diff != "" {
			t.Errorf("%q: argv (-want +got)\n%s", args, diff)
		}
		if len(l.calls) != 0 {
			t.Errorf("%q: unexpected link %q", args, l.calls)
		}
	}
}

func TestMainExecError(t *testing.T) {
	task, _, _, _ := newTestTask(filepath.Join(t.TempDir(), "missing"), "gcc", "-c", "a.c")
	if err := task.Main(); err == nil {
		t.Fatal("unexpected success")
	}
}

func TestMainLink(t *testing.T) {
	root := newSysroot(t)
	for _, test := range []struct {
		args []string
		cxx  bool
	}{
		{[]string{"x86_64-linux-gnu-gcc", "a.o", "-o", "prog"}, false},
		{[]string{"x86_64-linux-gnu-g++", "a.o", "b.o", "-lz"}, true},
		{[]string{"gcc", "--target=x86_64-linux-gnu", "-shared", "a.o", "-o", "liba.so"}, false},
		{[]string{"clang", "-target", "x86_64-linux-gnu", "-static", "a.o", "-Wl,--gc-sections"}, false},
	} {
		args := append(test.args[:len(test.args):len(test.args)], "--sysroot="+root)
		task, l, _, stderr := newTestTask(newFakeCC(t), args...)
		if err := task.Main(); err != nil {
			t.Errorf("%q: %v\n%s", test.args, err, stderr)
			continue
		}

		if len(l.calls) != 1 {
			t.Errorf("%q: got %d links, expected 1", test.args, len(l.calls))
			continue
		}

		if diff := argvDiff(l.calls[0], linkArgs(t, root, test.cxx, test.args[1:]...)); diff != "" {
			t.Errorf("%q:\n%s", test.args, diff)
		}
	}
}

func TestMainLinkDiscoveryError(t *testing.T) {
	task, l, _, _ := newTestTask(newFakeCC(t), "x86_64-linux-gnu-gcc", "a.o", "--sysroot="+t.TempDir())
	err := task.Main()
	if err == nil || !strings.Contains(err.Error(), "crti.o not found") {
		t.Fatalf("got %v", err)
	}

	if len(l.calls) != 0 {
		t.Errorf("unexpected link %q", l.calls)
	}
}

func TestMainIndirectLink(t *testing.T) {
	for _, args := range [][]string{
		{"gcc", "a.o", "-flto"},
		{"gcc", "a.o", "-fsanitize=address"},
		{"gcc", "a.o", "-pg"},
		{"gcc", "-B", "/opt/bin", "a.o"},
		{"gcc", "a.o", "-fuse-ld=bfd"},
	} {
		fc := newFakeToolchain(t, 0, "")
		task, l, _, stderr := newTestTask(fc.gcc, args...)
		if err := task.Main(); err != nil {
			t.Errorf("%q: %v\n%s", args, err, stderr)
			continue
		}

		// The canned dump compiles a.c, proving -### was consulted.
		if !strings.Contains(fc.log(t), "cc1 ") {
			t.Errorf("%q: no fallback", args)
		}
		if len(l.calls) != 1 || !strings.Contains(strings.Join(l.calls[0], " "), "-m elf_x86_64") {
			t.Errorf("%q: links %q", args, l.calls)
		}
	}
}

func TestMainForcedFallback(t *testing.T) {
	fc := newFakeToolchain(t, 0, "")
	task, l, _, stderr := newTestTask(fc.gcc, "gcc", "-c", "a.c")
	task.cfg.Fallback = true
	if err := task.Main(); err != nil {
		t.Fatalf("%v\n%s", err, stderr)
	}

	if len(l.calls) != 1 {
		t.Errorf("got %d links, expected 1", len(l.calls))
	}
}

func TestMainTrace(t *testing.T) {
	cc := newFakeCC(t)
	task, _, _, stderr := newTestTask(cc, "gcc", "-c", "a.c")
	task.cfg.Trace = true
	task.execve = func(string, []string) error { return nil }
	if err := task.Main(); err != nil {
		t.Fatal(err)
	}

	for _, v := range []string{"mode compile-only", "exec " + cc + " -c a.c"} {
		if !strings.Contains(stderr.String(), v) {
			t.Errorf("missing %q in\n%s", v, stderr)
		}
	}
}

func TestMainBadName(t *testing.T) {
	task, _, _, _ := newTestTask(newFakeCC(t), "/usr/bin/ccproxy", "-c", "a.c")
	if err := task.Main(); err == nil {
		t.Fatal("unexpected success")
	}
}

func TestLoadConfig(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "ccproxy.yaml")
	if err := os.WriteFile(fn, []byte("linker: ld.lld\ngcc-roots: [/opt/gcc]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	setenv(t, "CCPROXY_CONFIG", fn)
	setenv(t, "CCPROXY_LD", "")
	setenv(t, "CCPROXY_CC", "/opt/bin/gcc")
	setenv(t, "CCPROXY_FALLBACK", "1")
	setenv(t, "CCPROXY_TRACE", "")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	want.Linker = "ld.lld"
	want.GCCRoots = []string{"/opt/gcc"}
	want.CC = "/opt/bin/gcc"
	want.Fallback = true
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}

	setenv(t, "CCPROXY_LD", "mold")
	if cfg, err = LoadConfig(); err != nil {
		t.Fatal(err)
	}

	if g, e := cfg.Linker, "mold"; g != e {
		t.Errorf("got %q, expected %q", g, e)
	}

	setenv(t, "CCPROXY_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := LoadConfig(); err == nil {
		t.Error("unexpected success")
	}
}
