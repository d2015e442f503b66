package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/emberindex/ember/internal/logging"
	"github.com/emberindex/ember/pkg/version"
)

var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates ember's root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ember",
		Short: "Local, git-aware hybrid code search",
		Long: `ember indexes a git repository's tracked files into a local
hybrid (full-text + semantic) search index and answers queries against
it from the command line.`,
		Version:           version.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: startDebugLogging,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			stopDebugLogging()
			return nil
		},
	}
	cmd.SetVersionTemplate("ember version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.ember/logs/")

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newFindCmd())
	cmd.AddCommand(newCatCmd())
	cmd.AddCommand(newOpenCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

func startDebugLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}
	logger, cleanup, err := logging.Setup(logging.DebugConfig())
	if err != nil {
		return err
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("debug logging enabled", slog.String("log_file", logging.DefaultLogPath()))
	return nil
}

func stopDebugLogging() {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
