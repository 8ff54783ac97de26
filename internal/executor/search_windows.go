//go:build windows

package executor

import "fmt"

// searchCommand builds the Windows recursive-search invocation for
// search_files (spec.md §4.1): findstr /s /i /m <pattern> <path>.
func searchCommand(pattern, path string) string {
	return fmt.Sprintf("findstr /s /i /m %q %q\\*", pattern, path)
}
