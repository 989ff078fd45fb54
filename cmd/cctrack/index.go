package main

import (
	"fmt"
	"os"

	"github.com/cctrack/cctrack/internal/config"
	"github.com/cctrack/cctrack/internal/indexer"
	"github.com/cctrack/cctrack/internal/session"
	"github.com/cctrack/cctrack/internal/store"
	"github.com/spf13/cobra"
)

func thresholdsFrom(cfg *config.Config) session.Thresholds {
	return session.Thresholds{Idle: cfg.IdleAfter(), Complete: cfg.CompleteAfter()}
}

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Scan the transcripts root and index every session log",
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

			fmt.Fprintf(os.Stderr, "Indexing %s\n", cfg.TranscriptsRoot)

			ix := indexer.New(st, cfg.TranscriptsRoot, thresholdsFrom(cfg), nil)
			count, err := ix.IndexAll()
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Done. %d sessions indexed.\n", count)
			return nil
		},
	}
}
