package executor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// readFile implements spec.md §4.1's read_file tool.
func (e *Executor) readFile(input map[string]any, cwd string) ToolResult {
	path, ok := input["path"].(string)
	if !ok || path == "" {
		return ToolResult{Error: "missing required field: path"}
	}

	full := resolve(path, cwd)
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return ToolResult{Error: "File not found"}
		}
		return ToolResult{Error: err.Error()}
	}
	return ToolResult{Result: string(data)}
}

// writeFile implements spec.md §4.1's write_file tool, creating missing
// parent directories before writing.
func (e *Executor) writeFile(input map[string]any, cwd string) ToolResult {
	path, ok := input["path"].(string)
	if !ok || path == "" {
		return ToolResult{Error: "missing required field: path"}
	}
	content, ok := input["content"].(string)
	if !ok {
		return ToolResult{Error: "missing required field: content"}
	}

	full := resolve(path, cwd)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return ToolResult{Error: err.Error()}
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		return ToolResult{Error: err.Error()}
	}
	return ToolResult{Result: fmt.Sprintf("Successfully wrote to %s", full)}
}

// listFiles implements spec.md §4.1's list_files tool: joins the resolved
// directory with a glob pattern and returns newline-joined matches.
func (e *Executor) listFiles(input map[string]any, cwd string) ToolResult {
	path, _ := input["path"].(string)
	if path == "" {
		path = "."
	}
	pattern, _ := input["pattern"].(string)
	if pattern == "" {
		pattern = "*"
	}

	dir := resolve(path, cwd)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return ToolResult{Error: "directory not found: " + dir}
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return ToolResult{Error: err.Error()}
	}
	if len(matches) == 0 {
		return ToolResult{Result: "(no files found)"}
	}
	return ToolResult{Result: strings.Join(matches, "\n")}
}
