package main

import (
	"fmt"

	"github.com/cctrack/cctrack/internal/config"
	"github.com/cctrack/cctrack/internal/session"
	"github.com/cctrack/cctrack/internal/store"
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Aggregate session counts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			stats, err := st.Stats()
			if err != nil {
				return err
			}

			fmt.Printf("Sessions: %d\n", stats.Total)
			for _, s := range []session.Status{session.StatusActive, session.StatusIdle, session.StatusCompleted} {
				fmt.Printf("  %-10s %d\n", string(s), stats.ByStatus[s])
			}
			fmt.Printf("Events:   %d\n", stats.Events)

			projects, err := st.Projects()
			if err != nil {
				return err
			}
			if len(projects) > 0 {
				fmt.Println("\nProjects:")
				for _, p := range projects {
					fmt.Printf("  %-30s %d\n", p.ProjectName, p.SessionCount)
				}
			}
			return nil
		},
	}
}
