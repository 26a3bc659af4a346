package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storydl/internal/resolver"
	"storydl/internal/services"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [reference...]",
		Short: "Print the story id each reference resolves to",
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := collectReferences(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
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

			res := resolver.New(client, logger)
			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()
			failed := 0
			for _, ref := range refs {
				id, err := res.Resolve(cmd.Context(), ref)
				if err != nil {
					if cmd.Context().Err() != nil {
						return cmd.Context().Err()
					}
					failed++
					fmt.Fprintf(errOut, "%s: %s: %v\n", ref, services.Kind(err), err)
					continue
				}
				fmt.Fprintln(out, id)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d references could not be resolved", failed, len(refs))
			}
			return nil
		},
	}
}
