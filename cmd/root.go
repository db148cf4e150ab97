// Package cmd implements the CLI commands for chatscribe using Cobra.
package cmd

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spf13/cobra"
)

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:   "chatscribe",
	Short: "chatscribe — export Gemini conversations to Markdown, CSV, or PDF",
	Long: `chatscribe attaches to a running Chromium showing a Gemini conversation,
forces the lazily-rendered chat history to fully load, and exports the
complete transcript.

Usage:
  chatscribe export [flags]
  chatscribe list [flags]`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the CLI logger. Debug level with --verbose.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if flagVerbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return cfg.Build()
}
