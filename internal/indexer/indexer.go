// Package indexer turns transcript files into Session records. It owns
// the reindex policy: an unchanged file (same size on disk as last
// seen) is skipped except for a time-based status recompute; a changed
// file gets its events deleted and rebuilt whole.
package indexer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cctrack/cctrack/internal/logging"
	"github.com/cctrack/cctrack/internal/session"
	"github.com/cctrack/cctrack/internal/store"
)

// Notify is invoked with the full updated session whenever indexing
// mutates it. Collaborators subscribe to this instead of polling.
type Notify func(session.Session)

type Indexer struct {
	store      *store.Store
	root       string
	thresholds session.Thresholds
	onUpdate   Notify
	log        *logrus.Entry

	now func() time.Time
}

func New(st *store.Store, root string, th session.Thresholds, onUpdate Notify) *Indexer {
	return &Indexer{
		store:      st,
		root:       root,
		thresholds: th,
		onUpdate:   onUpdate,
		log:        logging.NewLogger("indexer"),
		now:        time.Now,
	}
}

// IndexAll sweeps the transcripts root and indexes every log file
// found, sequentially. Per-file failures are logged and skipped; the
// count of successfully indexed files is returned. A missing root is
// zero sessions, not an error.
func (ix *Indexer) IndexAll() (int, error) {
	files, err := listTranscripts(ix.root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("scan transcripts root: %w", err)
	}

	count := 0
	for _, path := range files {
		if _, err := ix.IndexFile(path); err != nil {
			ix.log.WithError(err).Warnf("index %s failed", path)
			continue
		}
		count++
	}
	return count, nil
}

// IndexFile indexes one transcript file. When the stored session's
// file size matches the on-disk size the full reindex is skipped, but
// status is still recomputed from last_activity (time may have moved
// on even if the file has not).
func (ix *Indexer) IndexFile(path string) (*session.Session, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat transcript: %w", err)
	}

	id := sessionIDFor(path)
	existing, err := ix.store.GetSession(id)
	if err != nil {
		return nil, err
	}

	if existing != nil && existing.FileSizeBytes == info.Size() {
		return ix.refreshStatus(existing)
	}

	built, err := buildFromFile(path, id)
	if err != nil {
		return nil, fmt.Errorf("parse transcript: %w", err)
	}

	patch := session.Patch{
		ID:               id,
		Slug:             session.String(session.SlugFor(id)),
		FilePath:         session.String(path),
		FileSizeBytes:    session.Int64(info.Size()),
		WorkingDirectory: session.String(built.WorkingDirectory),
		MessageCount:     session.Int(built.MessageCount),
		ToolCallCount:    session.Int(built.ToolCallCount),
		DetectedTask:     session.String(built.Task),
		DetectedActivity: session.String(built.Activity),
		DetectedArea:     session.String(built.Area),
	}
	if !built.StartedAt.IsZero() {
		patch.StartedAt = session.Time(built.StartedAt)
	}
	if !built.LastActivity.IsZero() {
		patch.LastActivity = session.Time(built.LastActivity)
		st := session.StatusFromActivity(ix.now().Sub(built.LastActivity), ix.thresholds)
		patch.Status = session.StatusP(st)
	}
	if built.WorkingDirectory != "" {
		patch.ProjectPath = session.String(built.WorkingDirectory)
		patch.ProjectName = session.String(filepath.Base(built.WorkingDirectory))
	} else {
		patch.ProjectName = session.String(session.ProjectNameFor(filepath.Dir(path)))
	}

	sess, err := ix.store.UpsertSession(patch)
	if err != nil {
		return nil, err
	}
	if err := ix.store.ReplaceEvents(id, built.Events, built.Doc); err != nil {
		return nil, err
	}

	ix.notify(*sess)
	return sess, nil
}

// refreshStatus applies the time-only status derivation to an
// unchanged session. The liveness override belongs to the mapper.
func (ix *Indexer) refreshStatus(sess *session.Session) (*session.Session, error) {
	if sess.LastActivity.IsZero() {
		return sess, nil
	}
	st := session.StatusFromActivity(ix.now().Sub(sess.LastActivity), ix.thresholds)
	if st == sess.Status {
		return sess, nil
	}
	updated, err := ix.store.UpsertSession(session.Patch{ID: sess.ID, Status: session.StatusP(st)})
	if err != nil {
		return nil, err
	}
	ix.notify(*updated)
	return updated, nil
}

func (ix *Indexer) notify(sess session.Session) {
	if ix.onUpdate != nil {
		ix.onUpdate(sess)
	}
}

// listTranscripts walks the root for .jsonl transcripts, skipping
// subagent logs and index artifacts.
func listTranscripts(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // skip unreadable entries
		}
		if info.IsDir() {
			if filepath.Base(path) == "subagents" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".jsonl" {
			return nil
		}
		if strings.Contains(filepath.Base(path), "sessions-index") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}
