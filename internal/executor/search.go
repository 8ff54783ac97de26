package executor

import (
	"context"
	"strings"
)

// searchFiles implements spec.md §4.1's search_files tool: builds a
// platform-appropriate recursive-grep command and dispatches it through
// runCommand, same as the teacher composes tools out of exec.Command
// rather than reimplementing directory walks.
func (e *Executor) searchFiles(ctx context.Context, input map[string]any, cwd string) ToolResult {
	pattern, ok := input["pattern"].(string)
	if !ok || pattern == "" {
		return ToolResult{Error: "missing required field: pattern"}
	}
	path, _ := input["path"].(string)
	if path == "" {
		path = "."
	}

	result := e.runCommand(ctx, map[string]any{"command": searchCommand(pattern, path)}, cwd)
	if result.Error != "" && result.Error != "Exit code: 1" {
		// grep/findstr exit 1 just means "no matches" — not a real error.
		return result
	}
	if strings.TrimSpace(result.Result) == "" || result.Error == "Exit code: 1" {
		return ToolResult{Result: "No matches found", Metrics: result.Metrics}
	}
	return ToolResult{Result: result.Result, Metrics: result.Metrics}
}
