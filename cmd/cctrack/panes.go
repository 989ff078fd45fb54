package main

import (
	"context"
	"fmt"

	"github.com/cctrack/cctrack/internal/config"
	"github.com/cctrack/cctrack/internal/mapper"
	"github.com/cctrack/cctrack/internal/proc"
	"github.com/cctrack/cctrack/internal/store"
	"github.com/cctrack/cctrack/internal/tmux"
	"github.com/spf13/cobra"
)

func panesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "panes",
		Short: "Run one mapping cycle and print the pane-to-session mapping",
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

			enum := tmux.NewEnumerator(cfg.CommandTimeout())
			inspector := proc.NewInspector(cfg.CommandTimeout())
			resolver := proc.NewResolver(inspector, cfg.AgentNames)
			mp := mapper.New(st, enum, resolver, thresholdsFrom(cfg), cfg.PaneCacheTTL(), nil)

			mapping, err := mp.MapAllPanes(context.Background())
			if err != nil {
				return err
			}

			if len(mapping) == 0 {
				fmt.Println("No panes with a live agent.")
				return nil
			}
			for paneID, sessionID := range mapping {
				sess, err := st.GetSession(sessionID)
				if err != nil || sess == nil {
					fmt.Printf("%s\t%s\n", paneID, sessionID)
					continue
				}
				fmt.Printf("%s\t%s\t%s\t%s\n", paneID, sess.Slug, sess.ProjectName, string(sess.Status))
			}
			return nil
		},
	}
}
