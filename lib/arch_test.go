// Copyright 2025 The CCProxy Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ccproxy // import "modernc.org/ccproxy/lib"

import (
	"strings"
	"testing"
)

func TestTargetArch(t *testing.T) {
	for _, test := range []struct {
		triple string
		arch   Arch
		err    string
	}{
		{"aarch64-linux-gnu", Aarch64, ""},
		{"aarch64-unknown-linux-gnu", Aarch64, ""},
		{"riscv64-linux-gnu", Riscv64, ""},
		{"riscv64-unknown-linux-gnu", Riscv64, ""},
		{"x86_64-linux-gnu", X86_64, ""},
		{"x86_64-pc-linux-gnu", X86_64, ""},

		{"arm-linux-gnu", 0, "while parsing triple"},
		{"i686-pc-linux-gnu", 0, "while parsing triple"},
		{"x86_64", 0, "unknown target triple"},
		{"x86_64-a-b-linux-gnu", 0, "unsupported target triple"},
		{"x86_64-apple-darwin", 0, "unsupported target triple"},
		{"x86_64-linux-musl", 0, "unsupported target triple"},
		{"x86_64-pc-linux-gnux32", 0, "unsupported target triple"},
	} {
		a, err := TargetArch(test.triple)
		if test.err != "" {
			if err == nil || !strings.Contains(err.Error(), test.err) || !strings.Contains(err.Error(), test.triple) {
				t.Errorf("%s: got error %v, expected %q", test.triple, err, test.err)
			}
			continue
		}

		if err != nil {
			t.Errorf("%s: %v", test.triple, err)
			continue
		}

		if a != test.arch {
			t.Errorf("%s: got %v, expected %v", test.triple, a, test.arch)
		}
	}
}

func TestArchTables(t *testing.T) {
	for _, test := range []struct {
		arch      Arch
		emulation string
		ld        string
	}{
		{Aarch64, "aarch64linux", "/lib/ld-linux-aarch64.so.1"},
		{Riscv64, "elf64lriscv", "/lib/ld-linux-riscv64-lp64d.so.1"},
		{X86_64, "elf_x86_64", "/lib64/ld-linux-x86-64.so.2"},
	} {
		if g, e := test.arch.Emulation(), test.emulation; g != e {
			t.Errorf("%v: got %q, expected %q", test.arch, g, e)
		}
		if g, e := test.arch.DynamicLinker(), test.ld; g != e {
			t.Errorf("%v: got %q, expected %q", test.arch, g, e)
		}

		// Multiarch names are valid triples of the same architecture.
		a, err := TargetArch(test.arch.Multiarch())
		if err != nil {
			t.Errorf("%v: %v", test.arch, err)
			continue
		}

		if a != test.arch {
			t.Errorf("%v: round trip produced %v", test.arch, a)
		}
	}
}
