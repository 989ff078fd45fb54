package store

import (
	"fmt"
	"strings"

	"github.com/cctrack/cctrack/internal/session"
)

// SearchDoc is the full-text entry for one session: all message text
// joined, the distinct tool names, and the touched file set.
type SearchDoc struct {
	Content      string
	ToolNames    string
	FilesTouched string
}

// ReplaceEvents deletes a session's prior events and inserts the new
// list, then rebuilds the session's FTS entry, all in one transaction
// so a crash mid-write cannot leave the row store and the search index
// inconsistent. There is no event-level diffing.
func (s *Store) ReplaceEvents(sessionID string, events []session.Event, doc SearchDoc) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace events: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM session_events WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("delete events: %w", err)
	}

	for start := 0; start < len(events); start += eventBatchSize {
		end := start + eventBatchSize
		if end > len(events) {
			end = len(events)
		}
		batch := events[start:end]

		placeholders := make([]string, len(batch))
		args := make([]any, 0, len(batch)*8)
		for i, ev := range batch {
			placeholders[i] = "(?, ?, ?, ?, ?, ?, ?, ?)"
			args = append(args, sessionID, fmtTime(ev.Timestamp), ev.Kind, ev.Content,
				ev.ToolName, ev.ToolInput, ev.ToolOut, ev.FilesTouched)
		}
		_, err := tx.Exec(
			`INSERT INTO session_events (session_id, ts, kind, content, tool_name, tool_input, tool_output, files_touched)
			 VALUES `+strings.Join(placeholders, ", "),
			args...)
		if err != nil {
			return fmt.Errorf("insert events: %w", err)
		}
	}

	// Full-text entry is replaced whole, never partially updated.
	if _, err := tx.Exec("DELETE FROM sessions_fts WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("delete fts entry: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO sessions_fts (session_id, content, tool_names, files_touched) VALUES (?, ?, ?, ?)",
		sessionID, doc.Content, doc.ToolNames, doc.FilesTouched); err != nil {
		return fmt.Errorf("insert fts entry: %w", err)
	}

	return tx.Commit()
}

// ListEvents returns a session's events with id greater than afterID,
// in insertion order. Pass afterID 0 for everything.
func (s *Store) ListEvents(sessionID string, afterID int64, limit int) ([]session.Event, error) {
	query := `SELECT id, session_id, ts, kind, content, tool_name, tool_input, tool_output, files_touched
		FROM session_events WHERE session_id = ? AND id > ? ORDER BY id`
	args := []any{sessionID, afterID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []session.Event
	for rows.Next() {
		var ev session.Event
		var ts string
		if err := rows.Scan(&ev.ID, &ev.SessionID, &ts, &ev.Kind, &ev.Content,
			&ev.ToolName, &ev.ToolInput, &ev.ToolOut, &ev.FilesTouched); err != nil {
			return nil, err
		}
		ev.Timestamp = parseStoredTime(ts)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// EventCount returns the number of stored events for a session.
func (s *Store) EventCount(sessionID string) (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM session_events WHERE session_id = ?", sessionID).Scan(&n)
	return n, err
}
