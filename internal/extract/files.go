package extract

import (
	"regexp"

	"github.com/cctrack/cctrack/internal/transcript"
)

// toolPathFields lists, per tool, the input fields that hold a file
// path or glob worth recording.
var toolPathFields = map[string][]string{
	"Read":         {"file_path"},
	"Write":        {"file_path"},
	"Edit":         {"file_path"},
	"MultiEdit":    {"file_path"},
	"NotebookEdit": {"notebook_path"},
	"Grep":         {"path", "pattern"},
	"Glob":         {"path", "pattern"},
}

// pathShapedRe finds path-looking tokens in free text: at least one
// slash and a plausible trailing segment. Length is bounded separately.
var pathShapedRe = regexp.MustCompile(`(?:^|[\s"'=(])((?:/|\./|~/)?[\w.@-]+(?:/[\w.@-]+)+\.\w{1,8})`)

const (
	minPathLen = 3
	maxPathLen = 500
)

// FilesFromToolCall extracts the file paths a single tool call touches:
// the tool-specific input fields plus a path-shaped scan of free-text
// command strings.
func FilesFromToolCall(call transcript.ToolCall) []string {
	var files []string
	seen := make(map[string]bool)

	add := func(p string) {
		if len(p) < minPathLen || len(p) > maxPathLen || seen[p] {
			return
		}
		seen[p] = true
		files = append(files, p)
	}

	for _, field := range toolPathFields[call.Name] {
		if v, ok := call.Input[field].(string); ok && v != "" {
			add(v)
		}
	}

	if call.Name == "Bash" {
		if cmd, ok := call.Input["command"].(string); ok {
			for _, m := range pathShapedRe.FindAllStringSubmatch(cmd, -1) {
				add(m[1])
			}
		}
	}

	return files
}

// FilesFromText runs the bounded path-shaped scan over arbitrary tool
// output text.
func FilesFromText(text string) []string {
	var files []string
	seen := make(map[string]bool)
	for _, m := range pathShapedRe.FindAllStringSubmatch(text, -1) {
		p := m[1]
		if len(p) < minPathLen || len(p) > maxPathLen || seen[p] {
			continue
		}
		seen[p] = true
		files = append(files, p)
	}
	return files
}
