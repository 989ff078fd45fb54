package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cctrack/cctrack/internal/config"
	"github.com/cctrack/cctrack/internal/indexer"
	"github.com/cctrack/cctrack/internal/logging"
	"github.com/cctrack/cctrack/internal/mapper"
	"github.com/cctrack/cctrack/internal/proc"
	"github.com/cctrack/cctrack/internal/session"
	"github.com/cctrack/cctrack/internal/store"
	"github.com/cctrack/cctrack/internal/tmux"
	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the tracker: startup full index, then watch logs and map panes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer st.Close()

			log := logging.NewLogger("run")
			th := thresholdsFrom(cfg)

			onUpdate := func(sess session.Session) {
				log.WithFields(map[string]any{
					"session": sess.Slug,
					"status":  string(sess.Status),
					"alive":   sess.TmuxAlive.String(),
				}).Debug("session updated")
			}

			ix := indexer.New(st, cfg.TranscriptsRoot, th, onUpdate)

			// Initial catch-up happens here, not in the watcher, so
			// files present at startup are processed exactly once.
			count, err := ix.IndexAll()
			if err != nil {
				return fmt.Errorf("startup index: %w", err)
			}
			log.Infof("startup index complete: %d sessions", count)

			watcher := indexer.NewWatcher(ix, cfg.WatchDebounce())
			if err := watcher.Start(); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer watcher.Stop()

			enum := tmux.NewEnumerator(cfg.CommandTimeout())
			inspector := proc.NewInspector(cfg.CommandTimeout())
			resolver := proc.NewResolver(inspector, cfg.AgentNames)

			mp := mapper.New(st, enum, resolver, th, cfg.PaneCacheTTL(), mapper.Notify(onUpdate))
			mp.StartPeriodic(cfg.MapInterval())
			defer mp.Stop()

			log.Infof("watching %s, mapping panes every %s", cfg.TranscriptsRoot, cfg.MapInterval())

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig
			log.Info("shutting down")
			return nil
		},
	}
}
