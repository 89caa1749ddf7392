// Copyright 2025 The CCProxy Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ccproxy // import "modernc.org/ccproxy/lib"

import (
	"fmt"
	"strings"

	"modernc.org/ccproxy/lib/argp"
)

// Mode is what an invocation does with its inputs.
type Mode int

// Values of Mode.
const (
	ModeNone       Mode = iota // Neither sources nor objects.
	CompileOnly                // -c, -S or -E.
	LinkOnly                   // Objects only.
	CompileAndLink             // Sources, maybe objects.
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case CompileOnly:
		return "compile-only"
	case LinkOnly:
		return "link-only"
	case CompileAndLink:
		return "compile-and-link"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// OutputKind is the kind of ELF file a link produces.
type OutputKind int

// Values of OutputKind.
const (
	DynamicPIE OutputKind = iota
	StaticPIE
	Dynamic
	Static
	SharedObject
)

// String implements fmt.Stringer.
func (k OutputKind) String() string {
	switch k {
	case DynamicPIE:
		return "dynamic-pie"
	case StaticPIE:
		return "static-pie"
	case Dynamic:
		return "dynamic"
	case Static:
		return "static"
	case SharedObject:
		return "shared"
	}
	return fmt.Sprintf("OutputKind(%d)", int(k))
}

// IsStatic reports whether k links without the dynamic libgcc.
func (k OutputKind) IsStatic() bool { return k == Static || k == StaticPIE }

// Args is the parsed command line of a compiler driver invocation.
type Args struct {
	Coverage       bool // --coverage
	DontAssemble   bool // -S
	DontLink       bool // -c
	Help           bool // --help, -help
	NoDefaultLibs  bool // -nodefaultlibs
	NoStartFiles   bool // -nostartfiles
	NoStdLib       bool // -nostdlib
	PIE            bool // -pie, -no-pie. Defaults to true.
	PThread        bool // -pthread, -no-pthread
	PreprocessOnly bool // -E
	Profile        bool // -pg, --profile
	RDynamic       bool // -rdynamic
	Shared         bool // -shared
	StaticExe      bool // -static
	StaticPIE      bool // -static-pie
	Strip          bool // -s

	Language string // -x
	Output   string // -o. Defaults to "a.out".
	Sysroot  string // --sysroot
	Target   string // --target, -target

	BArgs       []string // -B
	Ignored     []string // Preprocessor options and their values, eg. "-I", "include".
	Inputs      []string // Objects and -l<name> in command line order.
	Libs        []string // -l
	LinkerArgs  []string // -Wl, -Xlinker, -z, -u, -e
	Objects     []string
	Scripts     []string // -T
	SearchPaths []string // -L
	Sources     []string
	Unknown     []string

	Arch       Arch
	Mode       Mode
	OutputKind OutputKind
}

// ParseArgs parses the arguments of a driver invocation, without argv[0].
// inferred is the target triple implied by the name the driver was invoked
// as, if any. An explicit --target overrides it. Without either the host
// architecture is used.
func ParseArgs(tokens []string, inferred string) (*Args, error) {
	a := &Args{PIE: true, Output: "a.out"}
	p := argp.New()
	p.BindSources(&a.Sources)
	p.BindObjects(&a.Objects)
	p.BindUnknown(&a.Unknown)
	p.OnObject(func(s string) { a.Inputs = append(a.Inputs, s) })
	for _, err := range []error{
		p.Flag().Long("coverage").Bind(&a.Coverage).Build(),
		p.Flag().Long("help").Short("help").Bind(&a.Help).Build(),
		p.Flag().Long("nodefaultlibs").Short("nodefaultlibs").Bind(&a.NoDefaultLibs).Build(),
		p.Flag().Long("nostartfiles").Short("nostartfiles").Bind(&a.NoStartFiles).Build(),
		p.Flag().Long("nostdlib").Short("nostdlib").Bind(&a.NoStdLib).Build(),
		p.Flag().Long("profile").Short("pg").Bind(&a.Profile).Build(),
		p.Flag().Short("E").Bind(&a.PreprocessOnly).Build(),
		p.Flag().Short("S").Bind(&a.DontAssemble).Build(),
		p.Flag().Short("c").Bind(&a.DontLink).Build(),
		p.Flag().Short("pie").Negatable().Bind(&a.PIE).Build(),
		p.Flag().Short("pthread").Negatable().Bind(&a.PThread).Build(),
		p.Flag().Short("rdynamic").Bind(&a.RDynamic).Build(),
		p.Flag().Short("s").Bind(&a.Strip).Build(),
		p.Flag().Short("shared").Bind(&a.Shared).Build(),
		p.Flag().Short("static").Bind(&a.StaticExe).Build(),
		p.Flag().Short("static-pie").Bind(&a.StaticPIE).Build(),

		p.Arg().Long("sysroot").Single(&a.Sysroot).Build(),
		p.Arg().Long("target").Short("target").Single(&a.Target).Build(),
		p.Arg().Short("B").Multi(&a.BArgs).Build(),
		p.Arg().Short("L").Multi(&a.SearchPaths).Build(),
		p.Arg().Short("T").Func(a.script).Build(),
		p.Arg().Short("Wl").Lead(",").Separator(',').Multi(&a.LinkerArgs).Build(),
		p.Arg().Short("Xlinker").Multi(&a.LinkerArgs).Build(),
		p.Arg().Short("l").Func(a.lib).Build(),
		p.Arg().Short("o").Single(&a.Output).Build(),
		p.Arg().Short("x").Single(&a.Language).Build(),
		p.Arg().Short("z").Func(a.linker("-z")).Build(),
		p.Arg().Long("entry").Short("e").Detached().Func(a.linker("-e")).Build(),
		p.Arg().Short("u").Detached().Func(a.linker("-u")).Build(),

		// Ignored
		p.Arg().Short("D").Func(a.ignore("-D")).Build(),
		p.Arg().Short("I").Func(a.ignore("-I")).Build(),
		p.Arg().Short("MF").Func(a.ignore("-MF")).Build(),
		p.Arg().Short("MQ").Func(a.ignore("-MQ")).Build(),
		p.Arg().Short("MT").Func(a.ignore("-MT")).Build(),
		p.Arg().Short("U").Func(a.ignore("-U")).Build(),
		p.Arg().Short("idirafter").Func(a.ignore("-idirafter")).Build(),
		p.Arg().Short("include").Func(a.ignore("-include")).Build(),
		p.Arg().Short("iquote").Func(a.ignore("-iquote")).Build(),
		p.Arg().Short("isystem").Func(a.ignore("-isystem")).Build(),
	} {
		if err != nil {
			panic(todo("", err))
		}
	}

	if err := p.Parse(tokens); err != nil {
		return nil, errorf("%v", err)
	}

	var err error
	switch triple := a.Target; {
	case triple != "":
		a.Arch, err = TargetArch(triple)
	case inferred != "":
		a.Arch, err = TargetArch(inferred)
	default:
		a.Arch, err = HostArch()
	}
	if err != nil {
		return nil, err
	}

	a.finalize()
	return a, nil
}

// linker returns a handler forwarding opt and its value to the linker.
func (a *Args) linker(opt string) func(string) {
	return func(s string) { a.LinkerArgs = append(a.LinkerArgs, opt, s) }
}

// ignore returns a handler recording opt and its value, which only matter
// when compiling.
func (a *Args) ignore(opt string) func(string) {
	return func(s string) { a.Ignored = append(a.Ignored, opt, s) }
}

func (a *Args) lib(s string) {
	a.Libs = append(a.Libs, s)
	a.Inputs = append(a.Inputs, "-l"+s)
}

// script handles -T. The section placement forms -Ttext=, -Tdata= and -Tbss=
// are linker options, not scripts.
func (a *Args) script(s string) {
	for _, v := range []string{"bss=", "data=", "text="} {
		if strings.HasPrefix(s, v) {
			a.LinkerArgs = append(a.LinkerArgs, "-T"+s)
			return
		}
	}

	a.Scripts = append(a.Scripts, s)
}

func (a *Args) finalize() {
	switch {
	case a.DontAssemble, a.DontLink, a.PreprocessOnly:
		a.Mode = CompileOnly
	case len(a.Sources) != 0:
		a.Mode = CompileAndLink
	case len(a.Objects) != 0:
		a.Mode = LinkOnly
	default:
		a.Mode = ModeNone
	}
	a.OutputKind = outputKind(a.StaticPIE, a.StaticExe, a.Shared, a.PIE)
}

func outputKind(staticPIE, static, shared, pie bool) OutputKind {
	switch {
	case staticPIE:
		return StaticPIE
	case static:
		return Static
	case shared:
		return SharedObject
	case pie:
		return DynamicPIE
	default:
		return Dynamic
	}
}

// Argv returns arguments that ParseArgs turns into a record equal to a.
func (a *Args) Argv() (r []string) {
	for _, v := range []struct {
		b bool
		s string
	}{
		{a.Coverage, "--coverage"},
		{a.DontAssemble, "-S"},
		{a.DontLink, "-c"},
		{a.Help, "--help"},
		{a.NoDefaultLibs, "-nodefaultlibs"},
		{a.NoStartFiles, "-nostartfiles"},
		{a.NoStdLib, "-nostdlib"},
		{!a.PIE, "-no-pie"},
		{a.PThread, "-pthread"},
		{a.PreprocessOnly, "-E"},
		{a.Profile, "-pg"},
		{a.RDynamic, "-rdynamic"},
		{a.Shared, "-shared"},
		{a.StaticExe, "-static"},
		{a.StaticPIE, "-static-pie"},
		{a.Strip, "-s"},
	} {
		if v.b {
			r = append(r, v.s)
		}
	}
	if a.Sysroot != "" {
		r = append(r, "--sysroot="+a.Sysroot)
	}
	if a.Target != "" {
		r = append(r, "--target="+a.Target)
	}
	if a.Language != "" {
		r = append(r, "-x", a.Language)
	}
	for _, v := range a.Scripts {
		r = append(r, "-T", v)
	}
	for _, v := range a.LinkerArgs {
		r = append(r, "-Xlinker", v)
	}
	for _, v := range a.BArgs {
		r = append(r, "-B", v)
	}
	for _, v := range a.SearchPaths {
		r = append(r, "-L", v)
	}
	r = append(r, a.Ignored...)
	r = append(r, a.Unknown...)
	r = append(r, a.Inputs...)
	r = append(r, a.Sources...)
	return append(r, "-o", a.Output)
}

var (
	// Unrecognized options making the driver link differently than the
	// synthesized command line does.
	indirectPrefixes = []string{
		"--rtlib",
		"--specs",
		"-dump",
		"-flto",
		"-fopenmp",
		"-fprofile",
		"-fsanitize",
		"-fuse-ld",
		"-print-",
		"-rtlib",
		"-specs",
		"-static-lib",
		"-stdlib",
	}
	indirectOptions = map[string]struct{}{
		"--version":      {},
		"-###":           {},
		"-m32":           {},
		"-mx32":          {},
		"-nolibc":        {},
		"-r":             {},
		"-shared-libgcc": {},
	}
)

// Direct reports whether a link can use the synthesized linker command line.
// If not, reason names the option preventing it.
func (a *Args) Direct() (ok bool, reason string) {
	switch {
	case a.Profile:
		return false, "-pg"
	case a.Coverage:
		return false, "--coverage"
	case len(a.BArgs) != 0:
		return false, "-B"
	case a.Language != "" && a.Language != "none":
		return false, "-x " + a.Language
	}

	for _, v := range a.Unknown {
		if _, ok := indirectOptions[v]; ok {
			return false, v
		}

		for _, w := range indirectPrefixes {
			if strings.HasPrefix(v, w) {
				return false, v
			}
		}
	}
	return true, ""
}
