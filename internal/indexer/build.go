package indexer

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/cctrack/cctrack/internal/extract"
	"github.com/cctrack/cctrack/internal/session"
	"github.com/cctrack/cctrack/internal/store"
	"github.com/cctrack/cctrack/internal/transcript"
)

// buildResult is everything one transcript parse yields: the derived
// session fields, the event list and the full-text document.
type buildResult struct {
	WorkingDirectory string
	StartedAt        time.Time
	LastActivity     time.Time
	MessageCount     int
	ToolCallCount    int
	Task             string
	Activity         string
	Area             string
	Summary          string

	Events []session.Event
	Doc    store.SearchDoc
}

// buildFromFile runs the transcript reader and the extractors over one
// file. Only reader I/O can fail; extraction itself never does.
func buildFromFile(path, sessionID string) (*buildResult, error) {
	var (
		res          buildResult
		firstUserMsg string
		toolNames    []string
		toolNameSet  = map[string]bool{}
		bashCommands []string
		filesTouched []string
		fileSet      = map[string]bool{}
		contentParts []string
		pendingTool  = map[string]int{} // tool_use id -> event index
	)

	touch := func(paths []string) {
		for _, p := range paths {
			if !fileSet[p] {
				fileSet[p] = true
				filesTouched = append(filesTouched, p)
			}
		}
	}

	err := transcript.ForEach(path, func(rec transcript.Record) error {
		if rec.Type == transcript.RecordSummary {
			if res.Summary == "" {
				res.Summary = rec.Summary
			}
			return nil
		}

		if rec.Cwd != "" && res.WorkingDirectory == "" {
			res.WorkingDirectory = rec.Cwd
		}
		if !rec.Timestamp.IsZero() {
			if res.StartedAt.IsZero() || rec.Timestamp.Before(res.StartedAt) {
				res.StartedAt = rec.Timestamp
			}
			if rec.Timestamp.After(res.LastActivity) {
				res.LastActivity = rec.Timestamp
			}
		}

		// Tool results arrive in later user records; attach the
		// output snippet to the event that made the call.
		for _, tr := range rec.ToolResults {
			if idx, ok := pendingTool[tr.ToolUseID]; ok {
				res.Events[idx].ToolOut = tr.Content
				touch(extract.FilesFromText(tr.Content))
				delete(pendingTool, tr.ToolUseID)
			}
		}

		if rec.IsMeta {
			return nil
		}

		if rec.Text != "" {
			kind := string(rec.Type)
			if rec.Type == transcript.RecordUser && firstUserMsg == "" {
				firstUserMsg = rec.Text
			}
			res.Events = append(res.Events, session.Event{
				SessionID: sessionID,
				Timestamp: rec.Timestamp,
				Kind:      kind,
				Content:   rec.Text,
			})
			res.MessageCount++
			contentParts = append(contentParts, rec.Text)
		}

		for _, call := range rec.ToolCalls {
			if !toolNameSet[call.Name] {
				toolNameSet[call.Name] = true
				toolNames = append(toolNames, call.Name)
			}
			if call.Name == "Bash" {
				if cmd, ok := call.Input["command"].(string); ok {
					bashCommands = append(bashCommands, cmd)
				}
			}
			touch(extract.FilesFromToolCall(call))

			// files_touched is the snapshot at this point in the
			// stream, not the session's final set.
			res.Events = append(res.Events, session.Event{
				SessionID:    sessionID,
				Timestamp:    rec.Timestamp,
				Kind:         "tool",
				ToolName:     call.Name,
				ToolInput:    call.RawInput,
				FilesTouched: strings.Join(filesTouched, ","),
			})
			res.ToolCallCount++
			if call.ID != "" {
				pendingTool[call.ID] = len(res.Events) - 1
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Task = res.Summary
	if res.Task == "" {
		res.Task = extract.DetectTask(firstUserMsg)
	}
	res.Activity = extract.DetectActivity(toolNames, bashCommands)
	res.Area = extract.DetectArea(filesTouched)

	res.Doc = store.SearchDoc{
		Content:      strings.Join(contentParts, "\n"),
		ToolNames:    strings.Join(toolNames, " "),
		FilesTouched: strings.Join(filesTouched, " "),
	}
	return &res, nil
}

// sessionIDFor derives the stable session id from the transcript file
// name: Claude Code names transcripts <uuid>.jsonl.
func sessionIDFor(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
