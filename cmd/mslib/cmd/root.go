// Package cmd provides CLI command implementations
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/mslib/pkg/config"
	"github.com/ChrisMcGann/mslib/pkg/core"
)

// app carries the state shared by every command of one invocation.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

// NewRootCmd builds the mslib command tree. Each call returns independent
// flag state.
func NewRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), logger: slog.Default()}

	root := &cobra.Command{
		Use:   "mslib",
		Short: "mslib - Spectral library format conversion tool",
		Long: `mslib reads mass spectral libraries in MSP and MoNA JSON format and
writes them as MSP text or SQLite databases.

Inputs may be gzip (.gz) or zstd (.zst) compressed.`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML config file (default $"+config.EnvVar+")")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newConvertCmd(a))
	root.AddCommand(newSummarizeCmd(a))
	root.AddCommand(newValidateCmd(a))
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

// setup loads the config file, applies explicit flags over it and builds
// the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Resolve(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// progress logs reader and writer milestones.
func (a *app) progress(e core.ProgressEvent) {
	verb := "Read"
	if e.Op == core.OpWrote {
		verb = "Wrote"
	}
	a.logger.Info(fmt.Sprintf("%s %s records", verb, humanize.Comma(int64(e.Count))), "format", e.Format, "done", e.Done)
}
