// Package paths provides path canonicalization and relativization for the
// configuration layer. Canonical paths are the identity of board files, so
// two spellings of the same file must canonicalize to the same string.
package paths

import (
	"os"
	"path/filepath"
)

// Canonical returns the unique, resolved absolute form of path: absolute,
// cleaned, with symlinks evaluated. If the final element (or a parent) does
// not exist yet, the longest existing ancestor is resolved and the remaining
// elements are appended unchanged, matching the behavior callers expect when
// a file is about to be created.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return resolve(filepath.Clean(abs))
}

func resolve(abs string) (string, error) {
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	dir := filepath.Dir(abs)
	if dir == abs {
		// Hit the root without finding an existing ancestor.
		return abs, nil
	}
	resolvedDir, err := resolve(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedDir, filepath.Base(abs)), nil
}
