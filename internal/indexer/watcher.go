package indexer

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/cctrack/cctrack/internal/logging"
)

// Watcher feeds the indexer from filesystem events under the
// transcripts root. The agent writes logs incrementally, so a file is
// only indexed after a quiet period with no further writes. Existing
// files are not replayed on startup; the startup full index does that.
type Watcher struct {
	ix       *Indexer
	debounce time.Duration
	log      *logrus.Entry

	fs       *fsnotify.Watcher
	mu       sync.Mutex
	timers   map[string]*time.Timer
	stopOnce sync.Once
	done     chan struct{}
}

func NewWatcher(ix *Indexer, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		ix:       ix,
		debounce: debounce,
		log:      logging.NewLogger("watcher"),
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
}

// Start begins watching and returns immediately. Watches are added for
// the root and every existing subdirectory; directories created later
// are picked up from their create events.
func (w *Watcher) Start() error {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fs = fs

	err = filepath.Walk(w.ix.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if filepath.Base(path) == "subagents" {
				return filepath.SkipDir
			}
			if err := fs.Add(path); err != nil {
				w.log.WithError(err).Warnf("watch %s failed", path)
			}
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		fs.Close()
		return err
	}

	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("watch error")
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	// New project directories appear after startup; watch them too.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if filepath.Base(event.Name) != "subagents" {
				if err := w.fs.Add(event.Name); err != nil {
					w.log.WithError(err).Warnf("watch %s failed", event.Name)
				}
			}
			return
		}
	}

	if filepath.Ext(event.Name) != ".jsonl" {
		return
	}
	if strings.Contains(filepath.Base(event.Name), "sessions-index") {
		return
	}
	w.scheduleIndex(event.Name)
}

// scheduleIndex resets the per-file stabilize timer: the file is
// indexed only after debounce elapses with no further writes.
func (w *Watcher) scheduleIndex(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case <-w.done:
			return
		default:
		}

		if _, err := w.ix.IndexFile(path); err != nil {
			w.log.WithError(err).Warnf("index %s failed", path)
		}
	})
}

// Stop shuts the watcher down. Safe to call more than once; pending
// stabilize timers are cancelled, an in-flight index is left to finish.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		if w.fs != nil {
			w.fs.Close()
		}
		w.mu.Lock()
		for path, timer := range w.timers {
			timer.Stop()
			delete(w.timers, path)
		}
		w.mu.Unlock()
	})
}
