package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	api "github.com/oshokin/proctor-alert/internal/api/grpc/analytics"
	"github.com/oshokin/proctor-alert/internal/config"
	"github.com/oshokin/proctor-alert/internal/domain/alert"
	"github.com/oshokin/proctor-alert/internal/logger"
	"github.com/oshokin/proctor-alert/internal/render"
	"github.com/oshokin/proctor-alert/internal/repository/snapshot"
	"github.com/oshokin/proctor-alert/internal/service/notifier"
	"github.com/oshokin/proctor-alert/internal/service/relay"
)

// DefaultLogFile receives logs in TUI mode when log_file is not configured.
const DefaultLogFile = "proctor-monitor.log"

// Options controls the monitor process.
type Options struct {
	// ConfigPath specifies the settings YAML file.
	ConfigPath string
	// AnalyticsURL overrides the configured analytics endpoint.
	AnalyticsURL string
	// LogLevel overrides the configured log level.
	LogLevel string
	// TUI draws a full-screen panel instead of console lines.
	TUI bool
	// Mute discards every notification.
	Mute bool
	// DryRun records notifications and logs them instead of playing them.
	DryRun bool
	// Output receives console frames; defaults to stdout.
	Output io.Writer
	// Channel replaces the configured notification channels.
	Channel notifier.Channel
	// Renderer replaces the console or TUI renderer.
	Renderer Renderer
}

// Run loads settings, wires the loop and blocks until ctx is canceled or the
// TUI is closed. Only configuration and startup errors are returned.
func Run(ctx context.Context, opts *Options) error {
	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Command line values override the file and environment.
	if err = applyOverrides(cfg, opts); err != nil {
		return err
	}

	tuiMode := opts.TUI && opts.Renderer == nil

	// The TUI owns the terminal, so logs go to a file before any context logger is derived.
	if tuiMode {
		restore, redirectErr := redirectLogs(cfg.LogFile)
		if redirectErr != nil {
			return redirectErr
		}
		defer restore()
	}

	// Identify this run in logs and outgoing requests.
	session := NewSession()
	sessionID := session.ID
	ctx = logger.WithKV(logger.WithName(ctx, "proctor-monitor"), "session_id", sessionID)

	logger.InfoKV(ctx, "Session started", session.KV()...)

	// Build the snapshot source: the backend over HTTP or another monitor's relay.
	source, closeSource, err := newSource(cfg, sessionID)
	if err != nil {
		return err
	}
	defer closeSource()

	// Build the notification fan-out; closing it drains remote channels.
	channel, closeChannel, err := newChannel(ctx, cfg, opts, sessionID)
	if err != nil {
		return err
	}
	defer closeChannel()

	// Cancel shared by the loop and the relay server.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopOpts := []LoopOption{WithInterval(cfg.RefreshInterval)}

	// Probe the video stream only when one is configured.
	if cfg.VideoURL != "" {
		loopOpts = append(loopOpts, WithStreamProbe(NewHTTPProbe(cfg.VideoURL, cfg.Timeout), cfg.ProbeInterval))
	}

	var wg sync.WaitGroup

	// Start the relay so other monitors can read our snapshots.
	if cfg.RelayAddress != "" {
		store := api.NewStore()
		loopOpts = append(loopOpts, WithSink(store))

		srv, listenErr := relay.Listen(ctx, cfg.RelayAddress, store)
		if listenErr != nil {
			return fmt.Errorf("start relay: %w", listenErr)
		}

		wg.Go(func() {
			if serveErr := srv.Serve(ctx); serveErr != nil {
				logger.ErrorKV(ctx, "Relay stopped", "error", serveErr)
			}
		})
	}

	// Catalog overrides from settings extend the built-in messages.
	debouncer := alert.NewDebouncer(alert.DefaultCatalog().Merge(cfg.Messages), cfg.DebounceWindow)

	logger.InfoKV(ctx, "Monitoring analytics",
		"source", cfg.Source,
		"interval", cfg.RefreshInterval.String(),
		"debounce_window", debouncer.Window().String(),
	)

	// Run the loop until ctx is canceled or the TUI is closed.
	if tuiMode {
		err = runTUI(ctx, sessionID, func(r Renderer) *Loop {
			return NewLoop(source, debouncer, channel, r, loopOpts...)
		})
	} else {
		renderer := opts.Renderer
		if renderer == nil {
			renderer = render.NewConsole(outputOrStdout(opts.Output))
		}

		err = NewLoop(source, debouncer, channel, renderer, loopOpts...).Run(ctx)
	}

	// Wait for the relay to stop before returning.
	cancel()
	wg.Wait()

	return err
}

// runTUI runs the loop in the background while the bubbletea program owns
// the terminal. Closing the TUI stops the loop and vice versa.
func runTUI(ctx context.Context, sessionID string, newLoop func(Renderer) *Loop) error {
	tui := render.NewTUI(sessionID, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	// The loop ending on its own (signal) closes the TUI as well.
	wg.Go(func() {
		_ = newLoop(tui).Run(ctx)

		tui.Quit()
	})

	// Blocks until the user quits.
	err := tui.Run()

	cancel()
	wg.Wait()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}

// redirectLogs sends the global logger to path, DefaultLogFile when empty.
// The returned function restores stdout logging and closes the file.
func redirectLogs(path string) (func(), error) {
	if path == "" {
		path = DefaultLogFile
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, config.DefaultFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	logger.SetOutput(f)

	return func() {
		logger.SetOutput(os.Stdout)

		_ = f.Close()
	}, nil
}

// applyOverrides folds command line values into cfg and revalidates it.
func applyOverrides(cfg *config.Config, opts *Options) error {
	if opts.AnalyticsURL != "" {
		cfg.AnalyticsURL = opts.AnalyticsURL
	}

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("validate configuration: %w", err)
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	return nil
}

// newSource builds the configured snapshot source and its cleanup.
func newSource(cfg *config.Config, sessionID string) (snapshot.Source, func(), error) {
	if cfg.Source == config.SourceGRPC {
		source, err := snapshot.DialGRPC(cfg.GRPCAddress, snapshot.WithCallTimeout(cfg.Timeout))
		if err != nil {
			return nil, nil, fmt.Errorf("dial relay: %w", err)
		}

		return source, func() { _ = source.Close() }, nil
	}

	source, err := snapshot.NewHTTPSource(cfg.AnalyticsURL,
		snapshot.WithTimeout(cfg.Timeout),
		snapshot.WithSessionID(sessionID),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create analytics source: %w", err)
	}

	return source, func() {}, nil
}

// newChannel builds the notification fan-out and its cleanup.
func newChannel(
	ctx context.Context,
	cfg *config.Config,
	opts *Options,
	sessionID string,
) (notifier.Channel, func(), error) {
	if opts.Channel != nil {
		return opts.Channel, func() {}, nil
	}

	var (
		channels notifier.Multi
		closers  []func()
	)

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	switch {
	case opts.Mute:
		logger.Info(ctx, "Notifications muted")

		channels = append(channels, notifier.Nop{})
	case opts.DryRun:
		logger.Info(ctx, "Dry run: notifications are logged only")

		channels = append(channels, notifier.Log{})
	default:
		channels = append(channels, newSpeaker(cfg.Notifications))
	}

	// Remote channels run on their own goroutines so a slow endpoint never stalls polling.
	if url := cfg.Notifications.Webhook.URL; url != "" && !opts.Mute {
		webhook := notifier.NewAsync("webhook",
			notifier.NewWebhook(url, cfg.Notifications.Webhook.Secret, sessionID, cfg.Timeout), 0)

		channels = append(channels, webhook)
		closers = append(closers, webhook.Close)
	}

	if url := cfg.Notifications.NATS.URL; url != "" && !opts.Mute {
		n, closeNATS, err := notifier.ConnectNATS(url, cfg.Notifications.NATS.Subject, sessionID, cfg.Timeout)
		if err != nil {
			closeAll()

			return nil, nil, err
		}

		async := notifier.NewAsync("nats", n, 0)

		channels = append(channels, async)
		// Drain the queue before the connection.
		closers = append(closers, async.Close, closeNATS)
	}

	return channels, closeAll, nil
}

// newSpeaker builds the local audible channel from settings.
func newSpeaker(n config.Notifications) *notifier.Speaker {
	var opts []notifier.SpeakerOption

	if len(n.ToneCommand) > 0 {
		opts = append(opts, notifier.WithToneCommand(n.ToneCommand))
	}

	if len(n.SpeechCommand) > 0 {
		opts = append(opts, notifier.WithSpeechCommand(n.SpeechCommand))
	}

	if n.DisableSpeech {
		opts = append(opts, notifier.WithSpeechCommand(nil))
	}

	if !n.Bell {
		opts = append(opts, notifier.WithBell(nil))
	}

	return notifier.NewSpeaker(opts...)
}

func outputOrStdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}

	return w
}
