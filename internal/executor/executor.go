// Package executor is the Tool Executor (spec.md §4.1): it runs one tool
// invocation against the local host and enforces the timeout and
// path-resolution rules. It is grounded on internal/tools/{bash,edit}.go's
// map[string]any-params, *Result-return shape, generalized from the
// teacher's open-ended Runner registry to the five tools spec.md pins.
package executor

import (
	"context"
	"os"
	"time"
)

// ProcessMetrics accompanies a run_command result (spec.md §3 SystemMetrics
// is host-wide; this is per-invocation). cpuPercent/memoryMB are reserved
// placeholders per spec.md §9 Design Notes — an implementation is free to
// populate them, tests must not assert on their values.
type ProcessMetrics struct {
	DurationMS int64   `json:"durationMs"`
	CPUPercent float64 `json:"cpuPercent"`
	MemoryMB   float64 `json:"memoryMB"`
}

// ToolResult is the outcome of one Execute call (spec.md §4.1).
type ToolResult struct {
	Result  string          `json:"result"`
	Metrics *ProcessMetrics `json:"metrics,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Executor runs the five tools spec.md §4.1 defines: read_file, write_file,
// list_files, run_command, search_files.
type Executor struct {
	// CommandTimeout overrides the 120s default run_command timeout; zero
	// means use the default. Exposed for tests.
	CommandTimeout time.Duration
}

// Execute runs tool against input, resolving relative paths against cwd.
// cwd must exist (invariant 5) or every tool fails without side effects.
func (e *Executor) Execute(ctx context.Context, tool string, input map[string]any, cwd string) ToolResult {
	if info, err := os.Stat(cwd); err != nil || !info.IsDir() {
		return ToolResult{Error: "Working directory not found"}
	}

	switch tool {
	case "read_file":
		return e.readFile(input, cwd)
	case "write_file":
		return e.writeFile(input, cwd)
	case "list_files":
		return e.listFiles(input, cwd)
	case "run_command":
		return e.runCommand(ctx, input, cwd)
	case "search_files":
		return e.searchFiles(ctx, input, cwd)
	default:
		return ToolResult{Error: "Unknown tool: " + tool}
	}
}
