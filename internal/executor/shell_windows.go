//go:build windows

package executor

// shellCommand builds the Windows invocation for run_command (spec.md §4.1).
func shellCommand(command string) (string, []string) {
	return "cmd.exe", []string{"/c", command}
}
