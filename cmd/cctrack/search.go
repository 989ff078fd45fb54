package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/cctrack/cctrack/internal/config"
	"github.com/cctrack/cctrack/internal/store"
	"github.com/spf13/cobra"
)

const (
	sColorReset = "\033[0m"
	sColorBold  = "\033[1;31m"
	sColorDim   = "\033[2m"
)

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\t", " ")
}

func searchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across indexed sessions",
		Long: `Search session content, tool names and touched files using FTS5.
Output is TSV for piping into fzf: sessionId, slug, status, updatedAt, project, task, snippet.
Queries the FTS parser rejects fall back to a plain substring match.`,
		Args: cobra.ExactArgs(1),
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

			hits, err := st.Search(args[0], limit)
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}

			for _, h := range hits {
				snippet := oneLine(h.Snippet)
				snippet = strings.ReplaceAll(snippet, ">>>", sColorBold)
				snippet = strings.ReplaceAll(snippet, "<<<", sColorReset)
				fmt.Printf("%s\t%s\t%s\t%s%s%s\t%s\t%s\t%s\n",
					h.SessionID, h.Slug, h.Status,
					sColorDim, h.LastActivity, sColorReset,
					h.ProjectName, oneLine(h.DetectedTask), snippet)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Max results")

	return cmd
}
