// Copyright 2025 The CCProxy Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ccproxy // import "modernc.org/ccproxy/lib"

import (
	"runtime"
	"strings"
)

// Arch is a supported target architecture.
type Arch int

// Supported architectures.
const (
	X86_64 Arch = iota
	Aarch64
	Riscv64
)

var archNames = [...]string{
	X86_64:  "x86_64",
	Aarch64: "aarch64",
	Riscv64: "riscv64",
}

// String implements fmt.Stringer.
func (a Arch) String() string {
	if a >= 0 && int(a) < len(archNames) {
		return archNames[a]
	}

	return "Arch(?)"
}

// Emulation returns the linker -m value for a.
func (a Arch) Emulation() string {
	switch a {
	case X86_64:
		return "elf_x86_64"
	case Aarch64:
		return "aarch64linux"
	case Riscv64:
		return "elf64lriscv"
	}
	panic(todo("%v", a))
}

// DynamicLinker returns the absolute path of the glibc program interpreter.
func (a Arch) DynamicLinker() string {
	switch a {
	case X86_64:
		return "/lib64/ld-linux-x86-64.so.2"
	case Aarch64:
		return "/lib/ld-linux-aarch64.so.1"
	case Riscv64:
		return "/lib/ld-linux-riscv64-lp64d.so.1"
	}
	panic(todo("%v", a))
}

// Multiarch returns the Debian multiarch tuple of a, eg. "x86_64-linux-gnu".
func (a Arch) Multiarch() string { return a.String() + "-linux-gnu" }

func parseArch(s string) (Arch, error) {
	for i, v := range archNames {
		if v == s {
			return Arch(i), nil
		}
	}
	return 0, errorf("unsupported target architecture: %s", s)
}

// TargetArch parses the architecture of a target triple and verifies the
// triple is a supported target. Both "arch-linux-gnu" and
// "arch-vendor-linux-gnu" are accepted.
func TargetArch(triple string) (Arch, error) {
	x := strings.IndexByte(triple, '-')
	if x < 0 {
		return 0, errorf("unknown target triple: %s", triple)
	}

	arch, rest := triple[:x], triple[x+1:]
	if rest != "linux-gnu" {
		y := strings.IndexByte(rest, '-')
		if y <= 0 || rest[y+1:] != "linux-gnu" {
			return 0, errorf("unsupported target triple: %s", triple)
		}
	}

	a, err := parseArch(arch)
	if err != nil {
		return 0, errorf("while parsing triple %s: %v", triple, err)
	}

	return a, nil
}

// HostArch returns the architecture the driver was built for.
func HostArch() (Arch, error) {
	switch runtime.GOARCH {
	case "amd64":
		return X86_64, nil
	case "arm64":
		return Aarch64, nil
	case "riscv64":
		return Riscv64, nil
	}
	return 0, errorf("unsupported host architecture: %s", runtime.GOARCH)
}
