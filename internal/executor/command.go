package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// commandTimeout is spec.md §4.1's 120s run_command wall-clock limit.
const commandTimeout = 120 * time.Second

// runCommand implements spec.md §4.1's run_command tool: invoked via the
// host shell with cwd as the working directory, killed at the timeout,
// with stdout/stderr/placeholder output selection and exit-code surfacing.
// Grounded on internal/tools/bash.go's exec.CommandContext + captured
// output shape, split into separate stdout/stderr streams so the "non-empty
// stdout, else non-empty stderr, else placeholder" rule can be applied.
func (e *Executor) runCommand(ctx context.Context, input map[string]any, cwd string) ToolResult {
	command, ok := input["command"].(string)
	if !ok || command == "" {
		return ToolResult{Error: "missing required field: command"}
	}

	timeout := e.CommandTimeout
	if timeout <= 0 {
		timeout = commandTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	name, args := shellCommand(command)
	cmd := exec.CommandContext(cmdCtx, name, args...)
	cmd.Dir = cwd

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	metrics := &ProcessMetrics{DurationMS: time.Since(start).Milliseconds()}

	if cmdCtx.Err() == context.DeadlineExceeded {
		return ToolResult{Error: "Command timed out", Metrics: metrics}
	}

	result := ToolResult{Result: selectOutput(stdout.String(), stderr.String()), Metrics: metrics}
	if exitErr, ok := err.(*exec.ExitError); ok {
		result.Error = fmt.Sprintf("Exit code: %d", exitErr.ExitCode())
	} else if err != nil {
		result.Error = err.Error()
	}
	return result
}

// selectOutput implements spec.md §4.1's output-selection rule: non-empty
// stdout, else non-empty stderr, else a literal placeholder.
func selectOutput(stdout, stderr string) string {
	if out := strings.TrimSpace(stdout); out != "" {
		return out
	}
	if out := strings.TrimSpace(stderr); out != "" {
		return out
	}
	return "(command completed with no output)"
}
