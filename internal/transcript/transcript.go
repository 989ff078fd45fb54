// Package transcript streams Claude Code JSONL transcript files into
// typed records. Reading is single-pass and line-by-line; files in the
// tens-of-megabytes range are never held in memory whole.
package transcript

import (
	"encoding/json"
	"time"
)

const (
	// maxLineSize bounds a single JSONL line; tool outputs can be huge.
	maxLineSize = 10 * 1024 * 1024
	// maxSnippetSize caps serialized tool input/output stored per event.
	maxSnippetSize = 4 * 1024
)

type RecordType string

const (
	RecordUser      RecordType = "user"
	RecordAssistant RecordType = "assistant"
	RecordSummary   RecordType = "summary"
)

// ToolCall is one tool invocation found in an assistant record.
type ToolCall struct {
	ID    string
	Name  string
	Input map[string]any
	// Raw serialized input, capped at maxSnippetSize.
	RawInput string
}

// ToolResult is the output for an earlier tool call, carried in a
// subsequent user record.
type ToolResult struct {
	ToolUseID string
	Content   string
}

// Record is one parsed transcript line.
type Record struct {
	Type      RecordType
	Timestamp time.Time
	Cwd       string
	IsMeta    bool
	Line      int

	// Text content: the user prompt or the assistant reply.
	Text     string
	Thinking string

	ToolCalls   []ToolCall
	ToolResults []ToolResult

	// For summary records.
	Summary string
}

// rawRecord mirrors the on-disk JSONL shape.
type rawRecord struct {
	Type      string          `json:"type"`
	IsMeta    bool            `json:"isMeta"`
	Timestamp string          `json:"timestamp"`
	Cwd       string          `json:"cwd"`
	Message   json.RawMessage `json:"message"`
	Summary   string          `json:"summary"`
}

type rawMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type rawBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text"`
	Thinking  string          `json:"thinking"`
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Input     json.RawMessage `json:"input"`
	ToolUseID string          `json:"tool_use_id"`
	Content   json.RawMessage `json:"content"`
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}

func capSnippet(s string) string {
	if len(s) > maxSnippetSize {
		return s[:maxSnippetSize]
	}
	return s
}
