package transcript

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"

	"github.com/cctrack/cctrack/internal/logging"
)

var log = logging.NewLogger("transcript")

// ForEach streams the transcript at path, invoking fn for every record
// in file order. A malformed line is skipped with a warning, never an
// error. fn returning a non-nil error stops the stream and is returned
// as-is. The reader is not restartable mid-stream; call ForEach again
// to re-read from the start.
func ForEach(path string, fn func(Record) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		rec, ok := parseLine(line, lineNum)
		if !ok {
			log.WithField("file", path).Warnf("skipping malformed line %d", lineNum)
			continue
		}
		if rec == nil {
			continue
		}
		if err := fn(*rec); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// parseLine returns (nil, true) for well-formed lines that carry no
// record of interest, and (nil, false) for unparseable ones.
func parseLine(line []byte, lineNum int) (*Record, bool) {
	var raw rawRecord
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, false
	}

	if raw.Type == "summary" {
		if raw.Summary == "" {
			return nil, true
		}
		return &Record{Type: RecordSummary, Summary: raw.Summary, Line: lineNum}, true
	}

	if raw.Type != "user" && raw.Type != "assistant" {
		return nil, true
	}

	rec := &Record{
		Type:      RecordType(raw.Type),
		Timestamp: parseTimestamp(raw.Timestamp),
		Cwd:       raw.Cwd,
		IsMeta:    raw.IsMeta,
		Line:      lineNum,
	}

	var msg rawMessage
	if err := json.Unmarshal(raw.Message, &msg); err != nil {
		return nil, false
	}

	// Content is either a plain string or an array of typed blocks.
	var s string
	if err := json.Unmarshal(msg.Content, &s); err == nil {
		rec.Text = strings.TrimSpace(s)
		return rec, true
	}

	var blocks []rawBlock
	if err := json.Unmarshal(msg.Content, &blocks); err != nil {
		return nil, false
	}

	var textParts, thinkParts []string
	for _, b := range blocks {
		switch b.Type {
		case "text":
			if b.Text != "" {
				textParts = append(textParts, b.Text)
			}
		case "thinking":
			if b.Thinking != "" {
				thinkParts = append(thinkParts, b.Thinking)
			} else if b.Text != "" {
				thinkParts = append(thinkParts, b.Text)
			}
		case "tool_use":
			call := ToolCall{ID: b.ID, Name: b.Name}
			if len(b.Input) > 0 {
				call.RawInput = capSnippet(string(b.Input))
				var input map[string]any
				if err := json.Unmarshal(b.Input, &input); err == nil {
					call.Input = input
				}
			}
			rec.ToolCalls = append(rec.ToolCalls, call)
		case "tool_result":
			rec.ToolResults = append(rec.ToolResults, ToolResult{
				ToolUseID: b.ToolUseID,
				Content:   capSnippet(flattenResult(b.Content)),
			})
		}
	}

	rec.Text = strings.TrimSpace(strings.Join(textParts, "\n"))
	rec.Thinking = strings.TrimSpace(strings.Join(thinkParts, "\n"))
	return rec, true
}

// flattenResult extracts readable text from a tool_result content
// value, which can be a string or a nested block array.
func flattenResult(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var blocks []rawBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}
	var parts []string
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}
