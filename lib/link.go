// Copyright 2025 The CCProxy Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ccproxy // import "modernc.org/ccproxy/lib"

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
)

// systemPaths are the C library startup files and the library directories of
// the target.
type systemPaths struct {
	crt1 string // Empty for shared objects.
	crti string
	crtn string
	dirs []string // Existing library directories in probing order.
}

// gccObjects are the GCC startup files of the target.
type gccObjects struct {
	begin string
	end   string
	dir   string // The GCC version directory.
}

// LinkArgs returns the linker command line, without the program name, GCC
// would use to link a.
func (c *Config) LinkArgs(a *Args, cxx bool) ([]string, error) {
	sys, err := c.systemPaths(a)
	if err != nil {
		return nil, err
	}

	gcc, err := c.gccObjects(a)
	if err != nil {
		return nil, err
	}

	startFiles := !a.NoStartFiles && !a.NoStdLib
	defaultLibs := !a.NoDefaultLibs && !a.NoStdLib
	r := []string{"--hash-style=gnu", "--build-id", "--eh-frame-hdr", "-m", a.Arch.Emulation()}
	switch a.OutputKind {
	case DynamicPIE:
		r = append(r, "-pie", "-dynamic-linker", a.Arch.DynamicLinker())
	case StaticPIE:
		r = append(r, "-static", "-pie")
	case Dynamic:
		r = append(r, "-dynamic-linker", a.Arch.DynamicLinker())
	case Static:
		r = append(r, "-static")
	case SharedObject:
		r = append(r, "-shared")
	default:
		panic(todo("%v", a.OutputKind))
	}
	r = append(r, "-o", a.Output)
	if startFiles {
		if sys.crt1 != "" {
			r = append(r, sys.crt1)
		}
		r = append(r, sys.crti, gcc.begin)
	}
	for _, v := range a.SearchPaths {
		r = append(r, "-L"+v)
	}
	r = append(r, "-L"+gcc.dir)
	for _, v := range sys.dirs {
		r = append(r, "-L"+v)
	}
	r = append(r, a.Inputs...)
	for _, v := range a.Scripts {
		r = append(r, "-T", v)
	}
	if a.RDynamic {
		r = append(r, "--export-dynamic")
	}
	if a.Strip {
		r = append(r, "-s")
	}
	r = append(r, a.LinkerArgs...)
	if defaultLibs {
		if cxx {
			r = append(r, "-lstdc++", "-lm")
		}
		if a.PThread {
			r = append(r, "-lpthread")
		}
		switch {
		case a.OutputKind.IsStatic():
			r = append(r, "-lgcc", "-lgcc_eh", "-lc")
		default:
			r = append(r, "-lgcc", "--as-needed", "-lgcc_s", "--no-as-needed", "-lc")
		}
	}
	if startFiles {
		r = append(r, gcc.end, sys.crtn)
	}
	return r, nil
}

// systemPaths probes the configured library directories. The first one
// containing crti.o provides the C library startup files.
func (c *Config) systemPaths(a *Args) (*systemPaths, error) {
	var crt1 string
	switch a.OutputKind {
	case DynamicPIE:
		crt1 = "Scrt1.o"
	case StaticPIE:
		crt1 = "rcrt1.o"
	case Dynamic, Static:
		crt1 = "crt1.o"
	}
	r := &systemPaths{}
	var probed []string
	for _, v := range expandAll(c.LibraryDirs, a.Arch) {
		dir := filepath.Join(a.Sysroot, v)
		probed = append(probed, dir)
		if !isDir(dir) {
			continue
		}

		r.dirs = append(r.dirs, dir)
		if r.crti != "" || !isFile(filepath.Join(dir, "crti.o")) {
			continue
		}

		r.crti = filepath.Join(dir, "crti.o")
		r.crtn = filepath.Join(dir, "crtn.o")
		if crt1 != "" {
			r.crt1 = filepath.Join(dir, crt1)
		}
	}
	if r.crti == "" {
		return nil, errorf("crti.o not found, searched: %s", strings.Join(probed, " "))
	}

	return r, nil
}

// gccObjects looks for the GCC version directory of the target. Below the
// first root/triple directory having any, the highest version wins.
//
// The end object pairs with the begin object as GCC's own link spec does:
// crtendS.o with crtbeginS.o, crtend.o otherwise, rather than always crtend.o.
func (c *Config) gccObjects(a *Args) (*gccObjects, error) {
	begin, end := "crtbeginS.o", "crtendS.o"
	switch a.OutputKind {
	case Dynamic:
		begin, end = "crtbegin.o", "crtend.o"
	case Static:
		begin, end = "crtbeginT.o", "crtend.o"
	}
	var probed []string
	for _, root := range expandAll(c.GCCRoots, a.Arch) {
		for _, triple := range expandAll(c.GCCTriples, a.Arch) {
			dir := filepath.Join(a.Sysroot, root, triple)
			probed = append(probed, dir)
			if v := highestVersion(dir, begin); v != "" {
				dir = filepath.Join(dir, v)
				return &gccObjects{
					begin: filepath.Join(dir, begin),
					end:   filepath.Join(dir, end),
					dir:   dir,
				}, nil
			}
		}
	}
	return nil, errorf("no GCC version directory found, searched: %s", strings.Join(probed, " "))
}

// highestVersion returns the name of the subdirectory of dir with the highest
// version number containing the file begin. Names like "14", "14.2" and
// "14.2.1" are recognized.
func highestVersion(dir, begin string) (r string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var best string
	for _, v := range entries {
		nm := v.Name()
		ver := "v" + nm
		if !semver.IsValid(ver) || semver.Prerelease(ver) != "" || semver.Build(ver) != "" {
			continue
		}

		if !isFile(filepath.Join(dir, nm, begin)) {
			continue
		}

		if best == "" || semver.Compare(ver, best) > 0 || semver.Compare(ver, best) == 0 && nm > r {
			best, r = ver, nm
		}
	}
	return r
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
