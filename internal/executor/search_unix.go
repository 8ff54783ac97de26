//go:build !windows

package executor

import "fmt"

// searchCommand builds the POSIX recursive-grep invocation for search_files
// (spec.md §4.1): grep -r <pattern> -l <path>.
func searchCommand(pattern, path string) string {
	return fmt.Sprintf("grep -r %q -l %q", pattern, path)
}
