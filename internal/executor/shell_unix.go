//go:build !windows

package executor

// shellCommand builds the POSIX invocation for run_command (spec.md §4.1).
func shellCommand(command string) (string, []string) {
	return "/bin/bash", []string{"-c", command}
}
