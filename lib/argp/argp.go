// Copyright 2025 The CCProxy Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argp parses GCC/Clang style command lines.
//
// Options are declared before parsing, each bound to the storage it
// populates. The same option is accepted in all the shapes compiler drivers
// accept: -ofoo, -o foo, --output=foo. Flags may support a no- negation.
// Arguments may be single valued (last one wins) or multi valued, optionally
// splitting every value on a separator, so -Wl,-z,now yields "-z", "now".
//
// Tokens starting with - that match no declaration are collected, not
// rejected. Tokens without a - prefix are input files, classified by IsSource.
package argp // import "modernc.org/ccproxy/lib/argp"

import (
	"fmt"
	"path/filepath"
	"strings"
)

var sourceExts = map[string]struct{}{
	".C":   {},
	".S":   {},
	".c":   {},
	".c++": {},
	".cc":  {},
	".cpp": {},
	".cxx": {},
	".i":   {},
	".ii":  {},
	".s":   {},
}

// IsSource reports whether a free token names a file the compiler must
// translate, as opposed to an object, archive or shared library handed to the
// linker.
func IsSource(name string) bool {
	_, ok := sourceExts[filepath.Ext(name)]
	return ok
}

type flag struct {
	dst       *bool
	negatable bool
}

type arg struct {
	detached bool
	lead     string
	set      func(string)
}

// joins reports whether the rest of a token following the short name of a
// can be its value.
func (a *arg) joins(rest string) bool {
	switch {
	case a.detached:
		return false
	case a.lead != "":
		return rest != "" && strings.IndexByte(a.lead, rest[0]) >= 0
	}
	return true
}

// Parser is a set of flag and argument declarations. A Parser is populated
// by Flag and Arg before the first call to Parse.
type Parser struct {
	longArgs   map[string]*arg
	longFlags  map[string]*flag
	shortArgs  map[string]*arg
	shortFlags map[string]*flag

	objects  *[]string
	onObject func(string)
	sources  *[]string
	unknown  *[]string

	own struct {
		objects []string
		sources []string
		unknown []string
	}
}

// New returns a Parser with no declarations.
func New() *Parser {
	p := &Parser{
		longArgs:   map[string]*arg{},
		longFlags:  map[string]*flag{},
		shortArgs:  map[string]*arg{},
		shortFlags: map[string]*flag{},
	}
	p.objects = &p.own.objects
	p.sources = &p.own.sources
	p.unknown = &p.own.unknown
	return p
}

// BindSources directs free tokens for which IsSource reports true to dst.
func (p *Parser) BindSources(dst *[]string) { p.sources = dst }

// BindObjects directs the remaining free tokens to dst.
func (p *Parser) BindObjects(dst *[]string) { p.objects = dst }

// BindUnknown directs prefixed tokens matching no declaration to dst.
func (p *Parser) BindUnknown(dst *[]string) { p.unknown = dst }

// OnObject registers f to be called for every object token, after it was
// stored.
func (p *Parser) OnObject(f func(string)) { p.onObject = f }

// Sources returns the source files seen so far.
func (p *Parser) Sources() []string { return *p.sources }

// Objects returns the object files seen so far.
func (p *Parser) Objects() []string { return *p.objects }

// Unknown returns the unrecognized options seen so far.
func (p *Parser) Unknown() []string { return *p.unknown }

// FlagBuilder declares a boolean flag.
type FlagBuilder struct {
	dst       *bool
	long      string
	negatable bool
	p         *Parser
	short     string
}

// Flag starts a flag declaration.
func (p *Parser) Flag() *FlagBuilder { return &FlagBuilder{p: p} }

// Long sets the name matched after a -- prefix.
func (b *FlagBuilder) Long(name string) *FlagBuilder { b.long = name; return b }

// Short sets the name matched after a single - prefix.
func (b *FlagBuilder) Short(name string) *FlagBuilder { b.short = name; return b }

// Negatable makes no-<name> set the flag to false.
func (b *FlagBuilder) Negatable() *FlagBuilder { b.negatable = true; return b }

// Bind sets the storage of the flag.
func (b *FlagBuilder) Bind(dst *bool) *FlagBuilder { b.dst = dst; return b }

// Build adds the flag to the parser.
func (b *FlagBuilder) Build() error {
	if b.long == "" && b.short == "" {
		return fmt.Errorf("argp: flag name is missing")
	}

	if b.dst == nil {
		return fmt.Errorf("argp: flag %s: a field must be bound to the flag using Bind", b.name())
	}

	f := &flag{dst: b.dst, negatable: b.negatable}
	if err := declare(b.p.longFlags, b.long, "--", f); err != nil {
		return err
	}

	return declare(b.p.shortFlags, b.short, "-", f)
}

func (b *FlagBuilder) name() string {
	if b.long != "" {
		return "--" + b.long
	}

	return "-" + b.short
}

// ArgBuilder declares an option taking a value.
type ArgBuilder struct {
	detached bool
	fn       func(string)
	lead     string
	long     string
	multi    *[]string
	one      *string
	p        *Parser
	sep      rune
	short    string

	kinds int
}

// Arg starts an argument declaration.
func (p *Parser) Arg() *ArgBuilder { return &ArgBuilder{p: p} }

// Long sets the name matched after a -- prefix.
func (b *ArgBuilder) Long(name string) *ArgBuilder { b.long = name; return b }

// Short sets the name matched after a single - prefix. Short names also
// match as a prefix of a token, the rest of the token being the value.
func (b *ArgBuilder) Short(name string) *ArgBuilder { b.short = name; return b }

// Lead restricts the prefix form of the short name to tokens whose value
// starts with one of the bytes in chars, so -Wl,-z matches while -Wlogical-op
// does not.
func (b *ArgBuilder) Lead(chars string) *ArgBuilder { b.lead = chars; return b }

// Detached disables the prefix form of the short name. The value must follow
// as the next token or after =.
func (b *ArgBuilder) Detached() *ArgBuilder { b.detached = true; return b }

// Separator makes every value split on sep, empty pieces dropped. Only valid
// for Multi and Func bindings.
func (b *ArgBuilder) Separator(sep rune) *ArgBuilder { b.sep = sep; return b }

// Single binds the argument to dst. Every occurrence overwrites the previous
// value.
func (b *ArgBuilder) Single(dst *string) *ArgBuilder { b.one = dst; b.kinds++; return b }

// Multi binds the argument to dst. Every occurrence appends.
func (b *ArgBuilder) Multi(dst *[]string) *ArgBuilder { b.multi = dst; b.kinds++; return b }

// Func binds the argument to f, called once per value.
func (b *ArgBuilder) Func(f func(value string)) *ArgBuilder { b.fn = f; b.kinds++; return b }

// Build adds the argument to the parser.
func (b *ArgBuilder) Build() error {
	if b.long == "" && b.short == "" {
		return fmt.Errorf("argp: argument name is missing")
	}

	switch {
	case b.kinds == 0 || b.one == nil && b.multi == nil && b.fn == nil:
		return fmt.Errorf("argp: argument %s: a field must be bound to the argument", b.name())
	case b.kinds > 1:
		return fmt.Errorf("argp: argument %s: multiple bindings", b.name())
	case b.one != nil && b.sep != 0:
		return fmt.Errorf("argp: argument %s: separator requires a multi valued binding", b.name())
	case b.detached && b.lead != "":
		return fmt.Errorf("argp: argument %s: Lead and Detached are exclusive", b.name())
	}

	a := &arg{detached: b.detached, lead: b.lead}
	switch {
	case b.one != nil:
		dst := b.one
		a.set = func(v string) { *dst = v }
	case b.multi != nil:
		dst := b.multi
		a.set = b.split(func(v string) { *dst = append(*dst, v) })
	default:
		a.set = b.split(b.fn)
	}
	if err := declare(b.p.longArgs, b.long, "--", a); err != nil {
		return err
	}

	return declare(b.p.shortArgs, b.short, "-", a)
}

func (b *ArgBuilder) split(f func(string)) func(string) {
	if b.sep == 0 {
		return f
	}

	sep := string(b.sep)
	return func(v string) {
		for _, s := range strings.Split(v, sep) {
			if s != "" {
				f(s)
			}
		}
	}
}

func (b *ArgBuilder) name() string {
	if b.long != "" {
		return "--" + b.long
	}

	return "-" + b.short
}

func declare[T any](m map[string]T, name, prefix string, v T) error {
	if name == "" {
		return nil
	}

	if _, ok := m[name]; ok {
		return fmt.Errorf("argp: %s%s declared twice", prefix, name)
	}

	m[name] = v
	return nil
}

// Parse processes tokens left to right. Parse may be called more than once,
// later calls continue to update the bound storage.
//
// The only error is an argument declared to take a value appearing as the
// last token.
func (p *Parser) Parse(tokens []string) error {
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		var name string
		var long bool
		switch {
		case strings.HasPrefix(tok, "--"):
			name, long = tok[2:], true
		case strings.HasPrefix(tok, "-"):
			name = tok[1:]
		default:
			p.free(tok)
			continue
		}

		if p.flag(name, long) {
			continue
		}

		n, ok, err := p.arg(tok, name, long, tokens[i+1:])
		if err != nil {
			return err
		}

		if ok {
			i += n
			continue
		}

		*p.unknown = append(*p.unknown, tok)
	}
	return nil
}

func (p *Parser) flag(name string, long bool) bool {
	m := p.shortFlags
	if long {
		m = p.longFlags
	}
	if s := strings.TrimPrefix(name, "no-"); s != name {
		if f := m[s]; f != nil && f.negatable {
			*f.dst = false
			return true
		}
	}

	if f := m[name]; f != nil {
		*f.dst = true
		return true
	}

	return false
}

func (p *Parser) arg(tok, name string, long bool, rest []string) (consumed int, ok bool, err error) {
	m := p.shortArgs
	if long {
		m = p.longArgs
	}
	if x := strings.IndexByte(name, '='); x > 0 {
		if a := m[name[:x]]; a != nil {
			a.set(name[x+1:])
			return 0, true, nil
		}
	}

	if a := m[name]; a != nil {
		if len(rest) == 0 {
			return 0, false, fmt.Errorf("argp: missing value after %s", tok)
		}

		a.set(rest[0])
		return 1, true, nil
	}

	if long {
		return 0, false, nil
	}

	var best string
	for k, a := range m {
		if len(k) > len(best) && strings.HasPrefix(name, k) && a.joins(name[len(k):]) {
			best = k
		}
	}
	if best == "" {
		return 0, false, nil
	}

	m[best].set(name[len(best):])
	return 0, true, nil
}

func (p *Parser) free(tok string) {
	if IsSource(tok) {
		*p.sources = append(*p.sources, tok)
		return
	}

	*p.objects = append(*p.objects, tok)
	if p.onObject != nil {
		p.onObject(tok)
	}
}
