// Package cmd provides the CLI commands for tdpsearch.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/emielsteerneman/tdpsearch/internal/logging"
	"github.com/emielsteerneman/tdpsearch/pkg/version"
)

var (
	configPath string
	debugMode  bool

	loggingCleanup func()
)

// NewRootCmd creates the root command for the tdpsearch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tdpsearch",
		Short: "Hybrid search over RoboCup Team Description Papers",
		Long: `tdpsearch indexes a corpus of Team Description Papers (TDPs) and serves
hybrid (IDF-weighted n-gram + semantic) search over it, as a CLI command, an HTTP endpoint,
or an MCP tool for AI assistants.

Run 'tdpsearch index --config config.toml' first to build an index, then
'tdpsearch search', 'tdpsearch serve' or 'tdpsearch mcp' to query it.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("tdpsearch version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "Path to the TOML config file")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.tdpsearch/logs/")

	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMCPCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startLogging enables file-based debug logging when --debug is set. It
// mirrors the teacher's profiling/logging PersistentPreRunE hook, minus
// the profiling half (no component here benefits from CPU/heap profiles).
func startLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}
	logger, cleanup, err := logging.Setup(logging.DebugConfig())
	if err != nil {
		return fmt.Errorf("failed to set up debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("debug logging enabled", slog.String("log_file", logging.DefaultLogPath()))
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		slog.Info("debug logging stopped")
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tdpsearch:", err)
		return err
	}
	return nil
}
