package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"storydl/internal/categories"
)

func newCategoriesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the platform's category codes and labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}
			client, err := ctx.platformClient(cfg)
			if err != nil {
				return err
			}
			lookup, err := categories.Load(cmd.Context(), client, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if lookup.Len() == 0 {
				fmt.Fprintln(out, "No categories returned")
				return nil
			}
			entries := lookup.Entries()
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{strconv.Itoa(entry.Code), entry.Label})
			}
			fmt.Fprintln(out, renderTable(categoryColumns, rows))
			return nil
		},
	}
}
