package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"storydl/internal/assembler"
	"storydl/internal/batch"
	"storydl/internal/categories"
	"storydl/internal/config"
	"storydl/internal/document"
	"storydl/internal/fileutil"
	"storydl/internal/logging"
	"storydl/internal/resolver"
	"storydl/internal/services"
)

type fetchOptions struct {
	format string
	output string
}

func (o *fetchOptions) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "Output format (txt or epub); defaults to output.format")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Output directory; defaults to output.dir")
}

func newFetchCommand(ctx *commandContext) *cobra.Command {
	opts := &fetchOptions{}
	cmd := &cobra.Command{
		Use:   "fetch [reference...]",
		Short: "Download stories by URL or id",
		Long: "Download each referenced story into one document. A reference may be a\n" +
			"story URL, a chapter URL or a bare id. With no arguments references are read\n" +
			"from stdin, one per line; blank lines and lines starting with # are ignored.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, ctx, opts, args)
		},
	}
	opts.bindFlags(cmd)
	return cmd
}

func runFetch(cmd *cobra.Command, ctx *commandContext, opts *fetchOptions, args []string) error {
	refs, err := collectReferences(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return errors.New("no references given")
	}

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger(cmd)
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	if opts.format != "" {
		format = opts.format
	}
	serializer, err := document.ForFormat(format, cfg.EPUB)
	if err != nil {
		return err
	}
	outputDir := cfg.Output.Dir
	if strings.TrimSpace(opts.output) != "" {
		if outputDir, err = config.ExpandPath(strings.TrimSpace(opts.output)); err != nil {
			return services.Wrap(services.ErrConfiguration, "fetch", "output dir", opts.output, err)
		}
	}

	lock, err := fileutil.LockDir(outputDir)
	if err != nil {
		return services.Wrap(services.ErrStorage, "fetch", "lock output dir", outputDir, err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Debug("release output lock failed", logging.Error(err))
		}
	}()

	client, err := ctx.platformClient(cfg)
	if err != nil {
		return err
	}
	runCtx := cmd.Context()
	lookup, err := categories.Load(runCtx, client, logger)
	if err != nil {
		return err
	}

	runnerOpts := []batch.Option{}
	store, err := ctx.openHistory(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "download history unavailable", "history_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "downloads in this run are not recorded"),
			logging.String(logging.FieldErrorHint, "check history.path or set history.enabled = false"),
		)
	}
	if store != nil {
		defer store.Close()
		runnerOpts = append(runnerOpts, batch.WithRecorder(store))
	}

	runner := batch.New(
		resolver.New(client, logger),
		assembler.New(client, lookup, serializer, outputDir, logger),
		logger,
		runnerOpts...,
	)
	summary, runErr := runner.Run(runCtx, refs)

	out := cmd.OutOrStdout()
	printSummary(out, summary, shouldColorize(out))

	if runErr != nil {
		return runErr
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d of %d references failed", summary.Failed, len(summary.Outcomes))
	}
	return nil
}

func collectReferences(stdin io.Reader, args []string) ([]string, error) {
	if refs := batch.CleanReferences(args); len(refs) > 0 {
		return refs, nil
	}
	return batch.ReadReferences(stdin)
}

func printSummary(out io.Writer, summary batch.Summary, colorize bool) {
	for _, line := range renderSectionHeader("Summary", colorize) {
		fmt.Fprintln(out, line)
	}
	for _, outcome := range summary.Outcomes {
		label := outcome.Reference
		if outcome.StoryID != "" {
			label = outcome.StoryID.String()
		}
		if outcome.OK() {
			message := fmt.Sprintf("%s (%d chapters", outcome.Result.Path, outcome.Result.Chapters)
			if outcome.Result.Skipped > 0 {
				message += fmt.Sprintf(", %d skipped", outcome.Result.Skipped)
			}
			fmt.Fprintln(out, renderStatusLine(label, statusOK, message+")", colorize))
			continue
		}
		message := fmt.Sprintf("%s: %v", outcome.Kind, outcome.Err)
		if outcome.StoryID != "" {
			message = outcome.Reference + ": " + message
		}
		fmt.Fprintln(out, renderStatusLine(label, statusError, message, colorize))
	}
	kind := statusOK
	if summary.HasFailures() {
		kind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("Total", kind,
		fmt.Sprintf("%d succeeded, %d failed", summary.Succeeded, summary.Failed), colorize))
}
