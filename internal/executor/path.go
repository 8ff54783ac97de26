package executor

import "path/filepath"

// resolve implements spec.md §4.1.a: an absolute path is returned verbatim,
// a relative path is joined with cwd. No ".." escape restriction is
// imposed — callers are trusted.
func resolve(path, cwd string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cwd, path)
}
