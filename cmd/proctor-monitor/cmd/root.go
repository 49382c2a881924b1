package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/proctor-alert/internal/config"
	"github.com/oshokin/proctor-alert/internal/logger"
	"github.com/oshokin/proctor-alert/internal/service/monitor"
	"github.com/oshokin/proctor-alert/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// logLevel overrides the configured log level.
	logLevel string
	// tui switches to the full-screen panel.
	tui bool
	// mute disables every notification channel.
	mute bool
	// dryRun logs notifications instead of playing them.
	dryRun bool

	// rootCmd polls the analytics backend and raises alerts.
	rootCmd = &cobra.Command{
		Use:   version.Name + " [analytics-url]",
		Short: "Watch proctoring analytics and raise audible alerts.",
		Long: `Polls the proctoring analytics backend, shows every snapshot and raises
an alert tone with a spoken message while a violation is reported.

The same violation is repeated at most once per debounce window; a different
violation interrupts the current one immediately. When the backend cannot be
reached the error is shown and any playing alert is silenced.

The analytics URL can be given as an argument or in the configuration file.
Settings can also be overridden with PROCTOR_* environment variables,
e.g. PROCTOR_REFRESH_INTERVAL=2s.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var analyticsURL string
			if len(args) > 0 {
				analyticsURL = args[0]
			}

			logger.InfoKV(ctx, "Starting", version.KV()...)

			return monitor.Run(ctx, &monitor.Options{
				ConfigPath:   configPath,
				AnalyticsURL: analyticsURL,
				LogLevel:     logLevel,
				TUI:          tui,
				Mute:         mute,
				DryRun:       dryRun,
			})
		},
	}
)

// Execute runs the proctor-monitor CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)
	rootCmd.AddCommand(newInitConfigCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default "+config.DefaultConfigFilename+")")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.Flags().BoolVar(&tui, "tui", false, "show a full-screen panel; logs go to log_file")
	rootCmd.Flags().BoolVar(&mute, "mute", false, "disable all notifications")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "log notifications instead of playing them")
	rootCmd.MarkFlagsMutuallyExclusive("mute", "dry-run")
}
