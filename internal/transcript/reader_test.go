package transcript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTranscript(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	var data []byte
	for _, l := range lines {
		data = append(data, []byte(l+"\n")...)
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func collect(t *testing.T, path string) []Record {
	t.Helper()
	var recs []Record
	require.NoError(t, ForEach(path, func(r Record) error {
		recs = append(recs, r)
		return nil
	}))
	return recs
}

func TestForEach_PlainStringContent(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"user","timestamp":"2026-08-30T10:00:00Z","cwd":"/repo","message":{"role":"user","content":"fix the bug"}}`,
	)

	recs := collect(t, path)
	require.Len(t, recs, 1)
	assert.Equal(t, RecordUser, recs[0].Type)
	assert.Equal(t, "fix the bug", recs[0].Text)
	assert.Equal(t, "/repo", recs[0].Cwd)
	assert.Equal(t, 1, recs[0].Line)
	assert.False(t, recs[0].Timestamp.IsZero())
}

func TestForEach_BlockContent(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"assistant","timestamp":"2026-08-30T10:01:00Z","message":{"role":"assistant","content":[{"type":"thinking","thinking":"hmm"},{"type":"text","text":"On it."},{"type":"tool_use","id":"t1","name":"Edit","input":{"file_path":"/repo/main.go"}}]}}`,
	)

	recs := collect(t, path)
	require.Len(t, recs, 1)
	r := recs[0]
	assert.Equal(t, RecordAssistant, r.Type)
	assert.Equal(t, "On it.", r.Text)
	assert.Equal(t, "hmm", r.Thinking)
	require.Len(t, r.ToolCalls, 1)
	assert.Equal(t, "t1", r.ToolCalls[0].ID)
	assert.Equal(t, "Edit", r.ToolCalls[0].Name)
	assert.Equal(t, "/repo/main.go", r.ToolCalls[0].Input["file_path"])
	assert.NotEmpty(t, r.ToolCalls[0].RawInput)
}

func TestForEach_ToolResult(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"user","timestamp":"2026-08-30T10:02:00Z","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"t1","content":"ok"}]}}`,
		`{"type":"user","timestamp":"2026-08-30T10:03:00Z","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"t2","content":[{"type":"text","text":"line one"},{"type":"text","text":"line two"}]}]}}`,
	)

	recs := collect(t, path)
	require.Len(t, recs, 2)
	require.Len(t, recs[0].ToolResults, 1)
	assert.Equal(t, "t1", recs[0].ToolResults[0].ToolUseID)
	assert.Equal(t, "ok", recs[0].ToolResults[0].Content)
	require.Len(t, recs[1].ToolResults, 1)
	assert.Equal(t, "line one\nline two", recs[1].ToolResults[0].Content)
}

func TestForEach_SummaryRecord(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"summary","summary":"Refactored the billing module"}`,
	)

	recs := collect(t, path)
	require.Len(t, recs, 1)
	assert.Equal(t, RecordSummary, recs[0].Type)
	assert.Equal(t, "Refactored the billing module", recs[0].Summary)
}

func TestForEach_SkipsMalformedLines(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"user","timestamp":"2026-08-30T10:00:00Z","message":{"role":"user","content":"first"}}`,
		`{this is not json`,
		``,
		`{"type":"user","timestamp":"2026-08-30T10:05:00Z","message":{"role":"user","content":"second"}}`,
	)

	recs := collect(t, path)
	require.Len(t, recs, 2)
	assert.Equal(t, "first", recs[0].Text)
	assert.Equal(t, "second", recs[1].Text)
	assert.Equal(t, 4, recs[1].Line)
}

func TestForEach_IgnoresUnknownRecordTypes(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"system","message":{"role":"system","content":"noise"}}`,
		`{"type":"user","timestamp":"2026-08-30T10:00:00Z","message":{"role":"user","content":"real"}}`,
	)

	recs := collect(t, path)
	require.Len(t, recs, 1)
	assert.Equal(t, "real", recs[0].Text)
}

func TestForEach_MetaFlagCarried(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"user","isMeta":true,"timestamp":"2026-08-30T10:00:00Z","message":{"role":"user","content":"<command-name>clear</command-name>"}}`,
	)

	recs := collect(t, path)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].IsMeta)
}

func TestForEach_MissingFile(t *testing.T) {
	err := ForEach(filepath.Join(t.TempDir(), "absent.jsonl"), func(Record) error { return nil })
	assert.Error(t, err)
}
