// Copyright 2025 The CCProxy Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ccproxy is a C/C++ compiler driver forwarding links to a fast
// linker.
//
// Usage
//
// Install ccproxy, or a symbolic link to it, under the name of the compiler
// it stands in for, eg. cc, c++, gcc, g++, clang or clang++, and put it in
// $PATH before the real compiler. The name may have a target triple prefix,
// eg. aarch64-linux-gnu-gcc, and a version suffix, eg. clang-19.
//
//	cc { option | input-file }
//
// Invocations that only compile run the real compiler, found in $PATH by the
// same name. Invocations that only link are linked directly: ccproxy builds
// the command line GCC would pass to its linker and runs the configured
// linker. Everything else, and links using options ccproxy does not model,
// runs the commands the real compiler prints under -###, except for the link
// command, which goes to the configured linker.
//
// Environment variables
//
// CCPROXY_CC names the real compiler. Defaults to the name ccproxy was
// invoked as.
//
// CCPROXY_CONFIG names a YAML file describing the toolchain layout, for
// example
//
//	linker: wild
//	library-dirs: [/usr/lib/{multiarch}, /usr/lib64, /usr/lib]
//	gcc-roots: [/usr/lib/gcc]
//	gcc-triples: ["{arch}-pc-linux-gnu", "{multiarch}"]
//
// CCPROXY_FALLBACK, when true, makes every invocation use the commands
// printed by the real compiler.
//
// CCPROXY_LD names the linker. Defaults to `wild`.
//
// CCPROXY_TRACE, when true, reports decisions and executed commands on
// stderr.
//
// CCPROXYLOG names a file to which a log of invocations is appended.
//
// Exit status
//
// The exit status is that of the last tool run. If it was terminated by a
// signal, so is ccproxy.
package main // import "modernc.org/ccproxy"
