package main

import (
	"fmt"
	"os"
	"time"

	"github.com/cctrack/cctrack/internal/config"
	"github.com/cctrack/cctrack/internal/session"
	"github.com/cctrack/cctrack/internal/store"
	"github.com/cctrack/cctrack/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func listCmd() *cobra.Command {
	var status, project string
	var limit int
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions (default: active plus recently updated)",
		Args:  cobra.NoArgs,
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

			filter := store.Filter{Project: project, Limit: limit}
			if status != "" {
				filter.Statuses = []session.Status{session.Status(status)}
			} else if !all {
				filter.ActiveOrSince = time.Now().AddDate(0, 0, -cfg.RecentDays)
			}

			sessions, err := st.ListSessions(filter)
			if err != nil {
				return err
			}

			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(sessions)
			}

			for _, s := range sessions {
				fmt.Printf("%s\t%s\t%s\t%s\t%s\t%s\n",
					s.Slug, string(s.Status), s.TmuxAlive.String(),
					s.ProjectName, s.DetectedActivity, oneLine(s.DetectedTask))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (active/idle/completed)")
	cmd.Flags().StringVar(&project, "project", "", "Filter by project path")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (0 = no limit)")
	cmd.Flags().BoolVar(&all, "all", false, "List every session, not just recent ones")

	return cmd
}
