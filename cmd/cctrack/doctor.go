package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cctrack/cctrack/internal/config"
	"github.com/cctrack/cctrack/internal/store"
	"github.com/cctrack/cctrack/internal/tmux"
	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify transcripts root, DB, FTS5 and tmux",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Transcripts ===")
			checkDir("Root", cfg.TranscriptsRoot)

			fmt.Println("\n=== Database ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'cctrack index' first)")
			} else {
				st, err := store.Open(cfg.DBPath)
				if err != nil {
					return fmt.Errorf("open db: %w", err)
				}
				defer st.Close()

				stats, err := st.Stats()
				if err != nil {
					return fmt.Errorf("stats: %w", err)
				}
				fmt.Printf("  Sessions: %d\n", stats.Total)
				fmt.Printf("  Events:   %d\n", stats.Events)

				var ftsCount int
				if err := st.Raw().QueryRow("SELECT COUNT(*) FROM sessions_fts").Scan(&ftsCount); err != nil {
					fmt.Printf("  FTS5 error: %v\n", err)
				} else if ftsCount == stats.Total {
					fmt.Printf("  FTS5: OK (%d entries, synced)\n", ftsCount)
				} else {
					fmt.Printf("  FTS5: MISMATCH (sessions=%d, fts=%d)\n", stats.Total, ftsCount)
				}

				if info, err := os.Stat(cfg.DBPath); err == nil {
					fmt.Printf("  Size: %.1f MB\n", float64(info.Size())/1024/1024)
				}
			}

			fmt.Println("\n=== tmux ===")
			enum := tmux.NewEnumerator(cfg.CommandTimeout())
			panes, err := enum.ListPanes(context.Background())
			if err != nil {
				fmt.Printf("  Error: %v\n", err)
			} else if panes == nil {
				fmt.Println("  Not running (panes will map once tmux is up)")
			} else {
				fmt.Printf("  Live panes: %d\n", len(panes))
			}

			return nil
		},
	}
}

func checkDir(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
