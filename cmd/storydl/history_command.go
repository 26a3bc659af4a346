package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"storydl/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var storyID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded download attempts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openHistory(cfg)
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("download history is disabled (history.enabled = false)")
			}
			defer store.Close()

			var entries []history.Entry
			if storyID != "" {
				entries, err = store.ForStory(cmd.Context(), storyID)
			} else {
				entries, err = store.List(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No downloads recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable(historyColumns, historyRows(entries)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "Maximum number of entries to show")
	cmd.Flags().StringVar(&storyID, "story", "", "Only show attempts for this story id")
	return cmd
}

func historyRows(entries []history.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		result := entry.OutputPath
		if entry.Status == history.StatusFailed {
			result = entry.ErrorKind
			if entry.ErrorMessage != "" {
				result += ": " + entry.ErrorMessage
			}
		}
		storyID := entry.StoryID
		if storyID == "" {
			storyID = "-"
		}
		rows = append(rows, []string{
			entry.FinishedAt.Local().Format(time.DateTime),
			string(entry.Status),
			storyID,
			entry.Title,
			entry.Format,
			strconv.Itoa(entry.Chapters),
			result,
		})
	}
	return rows
}
