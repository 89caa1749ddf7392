// Copyright 2025 The CCProxy Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ccproxy // import "modernc.org/ccproxy/lib"

import (
	"os"
)

// tempFiles are intermediate files of a pipeline. They are removed once the
// pipeline finishes, successfully or not.
type tempFiles struct {
	paths []string
	t     *Task
}

func newTempFiles(t *Task) *tempFiles { return &tempFiles{t: t} }

func (f *tempFiles) add(path string) { f.paths = append(f.paths, path) }

// remove deletes all tracked files. Failures are reported, not returned.
func (f *tempFiles) remove() {
	for _, v := range f.paths {
		if err := os.Remove(v); err != nil && !os.IsNotExist(err) {
			f.t.warn("failed to remove temporary file: %v", err)
		}
	}
	f.paths = nil
}
