package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storydl/internal/config"
	"storydl/internal/fileutil"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := config.DefaultConfigPath()
			if path := strings.TrimSpace(targetPath); path != "" {
				target, err = config.ExpandPath(path)
			}
			if err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}

			if err := config.CreateSample(target, overwrite); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return fmt.Errorf("%w (use --overwrite to replace it)", err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set output.dir and output.format, then run storydl with a story URL.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(flagValue(ctx.configFlag))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			if err := fileutil.CheckWritable(cfg.Output.Dir); err != nil {
				return fmt.Errorf("output dir: %w", err)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Configuration", colorize) {
				fmt.Fprintln(out, line)
			}
			if exists {
				fmt.Fprintln(out, renderStatusLine("Config", statusOK, path, colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Config", statusWarn, path+" (missing, defaults used)", colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Output", statusInfo,
				fmt.Sprintf("%s (%s)", cfg.Output.Dir, cfg.Output.Format), colorize))
			if cfg.History.Enabled {
				fmt.Fprintln(out, renderStatusLine("History", statusInfo, cfg.History.Path, colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("History", statusInfo, "disabled", colorize))
			}
			if cfg.Platform.Proxy != "" {
				fmt.Fprintln(out, renderStatusLine("Proxy", statusInfo, cfg.Platform.Proxy, colorize))
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			encoded, err := cfg.Encode()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), encoded)
			return nil
		},
	}
}
