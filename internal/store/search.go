package store

import (
	"fmt"
	"strings"
)

// SearchHit is one full-text match, resolved back to its session.
type SearchHit struct {
	SessionID    string
	Slug         string
	ProjectName  string
	DetectedTask string
	Status       string
	LastActivity string
	Snippet      string
	Rank         float64
}

// Search runs a relevance-ranked FTS5 query. A query containing syntax
// the FTS parser rejects falls back to a substring match across the
// content, tool-name and files-touched columns, ordered by recency.
func (s *Store) Search(query string, limit int) ([]SearchHit, error) {
	if limit <= 0 {
		limit = 50
	}

	hits, err := s.searchFTS(query, limit)
	if err == nil {
		return hits, nil
	}
	// FTS5 reports operator/quote misuse as a query error; substring
	// search still gives useful results for those.
	return s.searchLike(query, limit)
}

func (s *Store) searchFTS(query string, limit int) ([]SearchHit, error) {
	rows, err := s.db.Query(`
		SELECT f.session_id, s.slug, s.project_name, s.detected_task, s.status, s.last_activity,
			snippet(sessions_fts, 1, '>>>', '<<<', '...', 40),
			bm25(sessions_fts)
		FROM sessions_fts f
		JOIN sessions s ON f.session_id = s.session_id
		WHERE sessions_fts MATCH ?
		ORDER BY bm25(sessions_fts)
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fts query: %w", err)
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.SessionID, &h.Slug, &h.ProjectName, &h.DetectedTask,
			&h.Status, &h.LastActivity, &h.Snippet, &h.Rank); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (s *Store) searchLike(query string, limit int) ([]SearchHit, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT f.session_id, s.slug, s.project_name, s.detected_task, s.status, s.last_activity,
			substr(f.content, 1, 200)
		FROM sessions_fts f
		JOIN sessions s ON f.session_id = s.session_id
		WHERE f.content LIKE ? OR f.tool_names LIKE ? OR f.files_touched LIKE ?
		ORDER BY s.last_activity DESC
		LIMIT ?`, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("substring query: %w", err)
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.SessionID, &h.Slug, &h.ProjectName, &h.DetectedTask,
			&h.Status, &h.LastActivity, &h.Snippet); err != nil {
			return nil, err
		}
		h.Snippet = strings.ReplaceAll(h.Snippet, "\n", " ")
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
