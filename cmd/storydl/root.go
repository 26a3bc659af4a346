package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var logFormatFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag, &logFormatFlag)
	fetch := &fetchOptions{}

	rootCmd := &cobra.Command{
		Use:   "storydl [reference...]",
		Short: "Download stories as text or EPUB documents",
		Long: "storydl resolves story or chapter references to a story, downloads every\n" +
			"published chapter in order and writes a single text or EPUB document.\n\n" +
			"References are read from the arguments, or one per line from stdin when\n" +
			"stdin is not a terminal.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && stdinIsTerminal(cmd) {
				return cmd.Help()
			}
			return runFetch(cmd, ctx, fetch, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format override (console, json)")
	fetch.bindFlags(rootCmd)

	rootCmd.AddCommand(newFetchCommand(ctx))
	rootCmd.AddCommand(newResolveCommand(ctx))
	rootCmd.AddCommand(newCategoriesCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
