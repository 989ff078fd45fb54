package extract

import (
	"testing"

	"github.com/cctrack/cctrack/internal/transcript"
	"github.com/stretchr/testify/assert"
)

func TestFilesFromToolCall_PathFields(t *testing.T) {
	call := transcript.ToolCall{
		Name:  "Edit",
		Input: map[string]any{"file_path": "/repo/src/foo.ts", "old_string": "a", "new_string": "b"},
	}
	assert.Equal(t, []string{"/repo/src/foo.ts"}, FilesFromToolCall(call))
}

func TestFilesFromToolCall_BashCommandScan(t *testing.T) {
	call := transcript.ToolCall{
		Name:  "Bash",
		Input: map[string]any{"command": "go test ./internal/store && cat internal/store/store.go"},
	}
	files := FilesFromToolCall(call)
	assert.Contains(t, files, "internal/store/store.go")
}

func TestFilesFromToolCall_UnknownToolYieldsNothing(t *testing.T) {
	call := transcript.ToolCall{
		Name:  "WebFetch",
		Input: map[string]any{"url": "https://example.com/a/b.html"},
	}
	assert.Empty(t, FilesFromToolCall(call))
}

func TestFilesFromToolCall_Dedupes(t *testing.T) {
	call := transcript.ToolCall{
		Name:  "Bash",
		Input: map[string]any{"command": "diff src/a/x.go src/a/x.go"},
	}
	assert.Equal(t, []string{"src/a/x.go"}, FilesFromToolCall(call))
}

func TestFilesFromText(t *testing.T) {
	text := "Updated src/billing/invoice.go and added tests in src/billing/invoice_test.go."
	files := FilesFromText(text)
	assert.Equal(t, []string{"src/billing/invoice.go", "src/billing/invoice_test.go"}, files)
}

func TestFilesFromText_IgnoresNonPaths(t *testing.T) {
	assert.Empty(t, FilesFromText("nothing to see here, just words"))
	assert.Empty(t, FilesFromText(""))
}
