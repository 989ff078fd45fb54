package main

import (
	"fmt"

	"github.com/cctrack/cctrack/internal/config"
	"github.com/cctrack/cctrack/internal/store"
	"github.com/spf13/cobra"
)

func showCmd() *cobra.Command {
	var afterID int64
	var limit int

	cmd := &cobra.Command{
		Use:   "show <sessionId>",
		Short: "Show one session and its event stream",
		Args:  cobra.ExactArgs(1),
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

			sess, err := st.GetSession(args[0])
			if err != nil {
				return err
			}
			if sess == nil {
				return fmt.Errorf("session not found: %s", args[0])
			}

			fmt.Printf("Session %s (%s)\n", sess.Slug, sess.ID)
			fmt.Printf("  project:   %s\n", sess.ProjectName)
			fmt.Printf("  workdir:   %s\n", sess.WorkingDirectory)
			fmt.Printf("  status:    %s (agent %s)\n", sess.Status, sess.TmuxAlive)
			if sess.TmuxPane != "" {
				fmt.Printf("  pane:      %s in %s\n", sess.TmuxPane, sess.TmuxSession)
			}
			fmt.Printf("  task:      %s\n", sess.DetectedTask)
			fmt.Printf("  activity:  %s", sess.DetectedActivity)
			if sess.DetectedArea != "" {
				fmt.Printf(" (%s)", sess.DetectedArea)
			}
			fmt.Println()
			fmt.Printf("  messages:  %d, tool calls: %d\n\n", sess.MessageCount, sess.ToolCallCount)

			events, err := st.ListEvents(sess.ID, afterID, limit)
			if err != nil {
				return err
			}
			for _, ev := range events {
				switch ev.Kind {
				case "tool":
					fmt.Printf("[%d] %s %s %s\n", ev.ID, ev.Timestamp.Format("15:04:05"), ev.Kind, ev.ToolName)
				default:
					text := ev.Content
					if len(text) > 120 {
						text = text[:120] + "..."
					}
					fmt.Printf("[%d] %s %s: %s\n", ev.ID, ev.Timestamp.Format("15:04:05"), ev.Kind, oneLine(text))
				}
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&afterID, "after", 0, "Only events with id greater than this")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max events (0 = all)")

	return cmd
}
