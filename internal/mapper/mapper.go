// Package mapper matches live tmux panes to indexed sessions and
// reconciles each session's liveness with its time-based status. It is
// the only writer of the tmux_* fields.
package mapper

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/cctrack/cctrack/internal/logging"
	"github.com/cctrack/cctrack/internal/proc"
	"github.com/cctrack/cctrack/internal/session"
	"github.com/cctrack/cctrack/internal/store"
	"github.com/cctrack/cctrack/internal/tmux"
)

// Notify is invoked with the full updated session whenever mapping
// mutates it.
type Notify func(session.Session)

const cacheSize = 256

type Mapper struct {
	store      *store.Store
	enum       tmux.Enumerator
	resolver   *proc.Resolver
	thresholds session.Thresholds
	ttl        time.Duration
	onUpdate   Notify
	log        *logrus.Entry

	now func() time.Time

	group singleflight.Group

	// paneCache is the ephemeral pane_id -> session_id mapping. It is
	// not a source of truth; the Session row's tmux_* fields are.
	paneCache *lru.LRU[string, string]

	mu         sync.Mutex
	snapshot   map[string]string
	snapshotAt time.Time

	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(st *store.Store, enum tmux.Enumerator, resolver *proc.Resolver, th session.Thresholds, ttl time.Duration, onUpdate Notify) *Mapper {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Mapper{
		store:      st,
		enum:       enum,
		resolver:   resolver,
		thresholds: th,
		ttl:        ttl,
		onUpdate:   onUpdate,
		log:        logging.NewLogger("mapper"),
		now:        time.Now,
		paneCache:  lru.NewLRU[string, string](cacheSize, nil, ttl),
		done:       make(chan struct{}),
	}
}

// MapAllPanes runs one mapping cycle and returns the pane -> session
// mapping. A cycle completed within the cache TTL is returned as-is
// without touching OS state; concurrent callers share one cycle.
func (m *Mapper) MapAllPanes(ctx context.Context) (map[string]string, error) {
	m.mu.Lock()
	if m.snapshot != nil && m.now().Sub(m.snapshotAt) < m.ttl {
		cached := copyMapping(m.snapshot)
		m.mu.Unlock()
		return cached, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do("cycle", func() (any, error) {
		return m.runCycle(ctx)
	})
	if err != nil {
		return nil, err
	}
	return copyMapping(v.(map[string]string)), nil
}

// GetSessionForPane returns the session currently mapped to a pane id,
// from the short-TTL cache.
func (m *Mapper) GetSessionForPane(paneID string) (string, bool) {
	return m.paneCache.Get(paneID)
}

// GetPaneForSession returns the pane a session was mapped to in the
// last completed cycle.
func (m *Mapper) GetPaneForSession(sessionID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for pane, sess := range m.snapshot {
		if sess == sessionID {
			return pane, true
		}
	}
	return "", false
}

// InvalidateCache forces the next MapAllPanes to re-enumerate OS
// state. Call after spawning a session: the new pane is not visible
// under the old snapshot.
func (m *Mapper) InvalidateCache() {
	m.mu.Lock()
	m.snapshot = nil
	m.snapshotAt = time.Time{}
	m.mu.Unlock()
	m.paneCache.Purge()
}

// StartPeriodic runs mapping cycles on a fixed interval until Stop.
// A tick that fires while a cycle is still running joins it via the
// in-flight guard instead of stacking a second one.
func (m *Mapper) StartPeriodic(interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := m.MapAllPanes(context.Background()); err != nil {
					m.log.WithError(err).Warn("mapping cycle failed")
				}
			case <-m.done:
				return
			}
		}
	}()
}

// Stop halts periodic mapping. Idempotent; an in-flight cycle is left
// to finish.
func (m *Mapper) Stop() {
	m.stopOnce.Do(func() {
		close(m.done)
	})
	m.wg.Wait()
}

func (m *Mapper) runCycle(ctx context.Context) (map[string]string, error) {
	panes, err := m.enum.ListPanes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list panes: %w", err)
	}

	all, err := m.store.ListSessions(store.Filter{})
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	// Candidates for new mappings, most-recently-active first (the
	// store lists by recency), keyed by working directory.
	byWorkdir := make(map[string][]*session.Session)
	// Sessions currently carrying a pane mapping, keyed by pane id.
	byPane := make(map[string]*session.Session)
	for i := range all {
		sess := &all[i]
		if sess.TmuxPane != "" {
			byPane[sess.TmuxPane] = sess
		}
		if sess.Status == session.StatusActive || sess.Status == session.StatusIdle {
			if sess.WorkingDirectory != "" {
				byWorkdir[sess.WorkingDirectory] = append(byWorkdir[sess.WorkingDirectory], sess)
			}
		}
	}

	mapping := make(map[string]string)
	claimed := make(map[string]bool)
	livePanes := make(map[string]bool)
	reconfirmed := make(map[string]bool)

	for _, pane := range panes {
		livePanes[pane.ID] = true

		agent, err := m.resolver.FindAgent(ctx, pane.PID)
		if err != nil {
			// Transient inspection failure: leave this pane's state
			// alone, the next cycle retries.
			m.log.WithError(err).Debugf("inspect pane %s failed", pane.ID)
			reconfirmed[pane.ID] = true
			continue
		}

		if agent == nil {
			// Pane exists, agent does not.
			if prev, ok := byPane[pane.ID]; ok {
				m.markLiveness(prev, session.LivenessDead, false)
				reconfirmed[pane.ID] = true
			}
			continue
		}

		cwd := agent.Cwd
		if cwd == "" {
			cwd = pane.CurrentPath
		}
		if cwd == "" {
			continue
		}

		var winner *session.Session
		for _, cand := range byWorkdir[cwd] {
			if !claimed[cand.ID] {
				winner = cand
				break
			}
		}
		if winner == nil {
			continue
		}

		claimed[winner.ID] = true
		mapping[pane.ID] = winner.ID
		reconfirmed[pane.ID] = true
		m.recordMapping(winner, pane, agent.PID)
	}

	// Sessions still pointing at a pane that no longer exists lose
	// their mapping entirely.
	for paneID, sess := range byPane {
		if reconfirmed[paneID] || livePanes[paneID] {
			continue
		}
		m.markLiveness(sess, session.LivenessDead, true)
	}

	m.mu.Lock()
	m.snapshot = mapping
	m.snapshotAt = m.now()
	m.mu.Unlock()

	m.paneCache.Purge()
	for paneID, sessID := range mapping {
		m.paneCache.Add(paneID, sessID)
	}

	return mapping, nil
}

// recordMapping writes the pane coordinates and forces the session
// active: a live agent process always means active.
func (m *Mapper) recordMapping(sess *session.Session, pane tmux.Pane, agentPID int) {
	status := session.DeriveStatus(sess.Status, session.LivenessAlive, m.now().Sub(sess.LastActivity), m.thresholds)

	changed := sess.TmuxAlive != session.LivenessAlive ||
		sess.TmuxSession != pane.Session ||
		sess.TmuxPane != pane.ID ||
		sess.TmuxPanePID != agentPID ||
		sess.Status != status
	if !changed {
		return
	}

	m.persist(session.Patch{
		ID:          sess.ID,
		TmuxSession: session.String(pane.Session),
		TmuxPane:    session.String(pane.ID),
		TmuxPanePID: session.Int(agentPID),
		TmuxAlive:   session.LivenessP(session.LivenessAlive),
		Status:      session.StatusP(status),
	})
}

// markLiveness flips a session to dead and reruns the status
// derivation; clearPane additionally drops the stored coordinates when
// the pane itself is gone.
func (m *Mapper) markLiveness(sess *session.Session, alive session.Liveness, clearPane bool) {
	status := session.DeriveStatus(sess.Status, alive, m.now().Sub(sess.LastActivity), m.thresholds)

	changed := sess.TmuxAlive != alive || sess.Status != status || (clearPane && sess.TmuxPane != "")
	if !changed {
		return
	}

	patch := session.Patch{
		ID:        sess.ID,
		TmuxAlive: session.LivenessP(alive),
		Status:    session.StatusP(status),
	}
	if clearPane {
		patch.TmuxSession = session.String("")
		patch.TmuxPane = session.String("")
		patch.TmuxPanePID = session.Int(0)
	}
	m.persist(patch)
}

func (m *Mapper) persist(p session.Patch) {
	updated, err := m.store.UpsertSession(p)
	if err != nil {
		m.log.WithError(err).Warnf("update session %s failed", p.ID)
		return
	}
	if m.onUpdate != nil {
		m.onUpdate(*updated)
	}
}

func copyMapping(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
