// Copyright 2025 The CCProxy Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ccproxy // import "modernc.org/ccproxy/lib"

import (
	"io"
	"os"
	"strings"

	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"
)

// Config describes the toolchain layout of the system and the driver
// settings taken from the environment.
//
// Directory and triple templates may use {arch}, eg. "x86_64", and
// {multiarch}, eg. "x86_64-linux-gnu".
type Config struct {
	// Linker is the program receiving link command lines. $CCPROXY_LD
	// overrides it.
	Linker string `yaml:"linker"`
	// LibraryDirs are probed in order for the C runtime startup files. The
	// existing ones become linker search directories.
	LibraryDirs []string `yaml:"library-dirs"`
	// GCCRoots are the directories holding <triple>/<version> directories of
	// installed GCC versions.
	GCCRoots []string `yaml:"gcc-roots"`
	// GCCTriples are the triple directory names tried below every root.
	GCCTriples []string `yaml:"gcc-triples"`

	CC       string `yaml:"-"` // $CCPROXY_CC
	Fallback bool   `yaml:"-"` // $CCPROXY_FALLBACK
	Trace    bool   `yaml:"-"` // $CCPROXY_TRACE
}

// DefaultConfig returns the layout of common Linux distributions.
func DefaultConfig() *Config {
	return &Config{
		Linker: "wild",
		LibraryDirs: []string{
			"/usr/lib/{multiarch}",
			"/lib/{multiarch}",
			"/usr/lib64",
			"/lib64",
			"/lib",
			"/usr/lib",
		},
		GCCRoots: []string{
			"/usr/lib64/gcc",
			"/usr/lib/gcc",
		},
		GCCTriples: []string{
			"{arch}-pc-linux-gnu",
			"{multiarch}",
			"{arch}-redhat-linux",
			"{arch}-suse-linux",
		},
	}
}

// LoadConfig returns the default configuration updated from the YAML file
// named by $CCPROXY_CONFIG, if any, and from the environment.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()
	if fn := env.Str("CCPROXY_CONFIG"); fn != "" {
		f, err := os.Open(fn)
		if err != nil {
			return nil, errorf("%v", err)
		}

		defer f.Close()

		if err := cfg.decode(f); err != nil {
			return nil, errorf("%s: %v", fn, err)
		}
	}

	cfg.Linker = env.Str("CCPROXY_LD", cfg.Linker)
	cfg.CC = env.Str("CCPROXY_CC")
	cfg.Fallback = env.Bool("CCPROXY_FALLBACK")
	cfg.Trace = env.Bool("CCPROXY_TRACE")
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	switch err := d.Decode(c); err {
	case nil, io.EOF:
		// ok
	default:
		return err
	}

	if c.Linker == "" {
		return errorf("linker must not be empty")
	}

	return nil
}

func expand(s string, a Arch) string {
	return strings.NewReplacer("{arch}", a.String(), "{multiarch}", a.Multiarch()).Replace(s)
}

func expandAll(a []string, arch Arch) (r []string) {
	for _, v := range a {
		r = append(r, expand(v, arch))
	}
	return r
}
