package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cctrack/cctrack/internal/session"
)

const sessionColumns = `session_id, slug, project_path, project_name, working_directory,
	file_path, file_size_bytes, started_at, last_activity, message_count, tool_call_count,
	detected_task, detected_activity, detected_area,
	tmux_session, tmux_pane, tmux_pane_pid, tmux_alive, status, name, tags, ledger_link`

// GetSession returns the session with the given id, or nil when absent.
func (s *Store) GetSession(id string) (*session.Session, error) {
	row := s.db.QueryRow(
		"SELECT "+sessionColumns+" FROM sessions WHERE session_id = ?", id)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// UpsertSession merges the patch into the stored session (creating it
// if new) and writes the result back. The merged session is returned.
func (s *Store) UpsertSession(p session.Patch) (*session.Session, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("upsert session: empty id")
	}

	existing, err := s.GetSession(p.ID)
	if err != nil {
		return nil, err
	}
	sess := existing
	if sess == nil {
		sess = &session.Session{
			ID:        p.ID,
			Status:    session.StatusActive,
			TmuxAlive: session.LivenessUnknown,
		}
	}
	p.Apply(sess)

	_, err = s.db.Exec(`INSERT OR REPLACE INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Slug, sess.ProjectPath, sess.ProjectName, sess.WorkingDirectory,
		sess.FilePath, sess.FileSizeBytes, fmtTime(sess.StartedAt), fmtTime(sess.LastActivity),
		sess.MessageCount, sess.ToolCallCount,
		sess.DetectedTask, sess.DetectedActivity, sess.DetectedArea,
		sess.TmuxSession, sess.TmuxPane, sess.TmuxPanePID, livenessValue(sess.TmuxAlive),
		string(sess.Status), sess.Name, sess.Tags, sess.LedgerLink,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert session %s: %w", sess.ID, err)
	}
	return sess, nil
}

// Filter selects sessions for listing. The zero value lists everything
// ordered by recency.
type Filter struct {
	Statuses []session.Status
	Project  string
	// ActiveOrSince implements the default listing window: sessions
	// that are active OR were updated after this time.
	ActiveOrSince time.Time
	Limit         int
}

func (s *Store) ListSessions(f Filter) ([]session.Session, error) {
	var conditions []string
	var args []any

	if len(f.Statuses) > 0 {
		placeholders := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			placeholders[i] = "?"
			args = append(args, string(st))
		}
		conditions = append(conditions, "status IN ("+strings.Join(placeholders, ",")+")")
	}
	if f.Project != "" {
		conditions = append(conditions, "project_path = ?")
		args = append(args, f.Project)
	}
	if !f.ActiveOrSince.IsZero() {
		conditions = append(conditions, "(status = 'active' OR last_activity >= ?)")
		args = append(args, fmtTime(f.ActiveOrSince))
	}

	query := "SELECT " + sessionColumns + " FROM sessions"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY last_activity DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

// ProjectInfo is one distinct project with its session count.
type ProjectInfo struct {
	ProjectPath  string
	ProjectName  string
	SessionCount int
}

func (s *Store) Projects() ([]ProjectInfo, error) {
	rows, err := s.db.Query(`
		SELECT project_path, project_name, COUNT(*)
		FROM sessions
		WHERE project_path != ''
		GROUP BY project_path
		ORDER BY MAX(last_activity) DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []ProjectInfo
	for rows.Next() {
		var p ProjectInfo
		if err := rows.Scan(&p.ProjectPath, &p.ProjectName, &p.SessionCount); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Stats aggregates session counts by status.
type Stats struct {
	Total    int
	ByStatus map[session.Status]int
	Events   int
}

func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{ByStatus: make(map[session.Status]int)}

	rows, err := s.db.Query("SELECT status, COUNT(*) FROM sessions GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		stats.ByStatus[session.Status(st)] = n
		stats.Total += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM session_events").Scan(&stats.Events); err != nil {
		return nil, fmt.Errorf("stats events: %w", err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(r rowScanner) (*session.Session, error) {
	var sess session.Session
	var startedAt, lastActivity, status string
	var alive sql.NullInt64
	err := r.Scan(
		&sess.ID, &sess.Slug, &sess.ProjectPath, &sess.ProjectName, &sess.WorkingDirectory,
		&sess.FilePath, &sess.FileSizeBytes, &startedAt, &lastActivity,
		&sess.MessageCount, &sess.ToolCallCount,
		&sess.DetectedTask, &sess.DetectedActivity, &sess.DetectedArea,
		&sess.TmuxSession, &sess.TmuxPane, &sess.TmuxPanePID, &alive,
		&status, &sess.Name, &sess.Tags, &sess.LedgerLink,
	)
	if err != nil {
		return nil, err
	}
	sess.StartedAt = parseStoredTime(startedAt)
	sess.LastActivity = parseStoredTime(lastActivity)
	sess.Status = session.Status(status)
	sess.TmuxAlive = livenessFromValue(alive)
	return &sess, nil
}

// Liveness is stored as a nullable integer: NULL unknown, 0 dead, 1 alive.
func livenessValue(l session.Liveness) any {
	switch l {
	case session.LivenessAlive:
		return 1
	case session.LivenessDead:
		return 0
	default:
		return nil
	}
}

func livenessFromValue(v sql.NullInt64) session.Liveness {
	if !v.Valid {
		return session.LivenessUnknown
	}
	if v.Int64 == 1 {
		return session.LivenessAlive
	}
	return session.LivenessDead
}
