package monitor

import (
	"context"
	"time"

	"github.com/oshokin/proctor-alert/internal/config"
	"github.com/oshokin/proctor-alert/internal/domain/alert"
	"github.com/oshokin/proctor-alert/internal/domain/analytics"
	"github.com/oshokin/proctor-alert/internal/logger"
	"github.com/oshokin/proctor-alert/internal/render"
	"github.com/oshokin/proctor-alert/internal/repository/snapshot"
	"github.com/oshokin/proctor-alert/internal/service/notifier"
)

// Renderer shows frames and failures to the observer.
type Renderer interface {
	Render(ctx context.Context, frame render.Frame)
	RenderError(ctx context.Context, err error)
	// RenderStreamError reports a video stream failure; nil reports recovery.
	RenderStreamError(ctx context.Context, err error)
}

// Sink receives every successfully fetched snapshot.
type Sink interface {
	Put(snapshot analytics.Snapshot)
	// Invalidate drops the stored snapshot while telemetry is unavailable.
	Invalidate()
}

// StreamProbe checks that the video stream is reachable.
type StreamProbe interface {
	Probe(ctx context.Context) error
}

// Loop polls the source and drives rendering and notifications.
// It is not safe for concurrent use; Run owns it for its whole lifetime.
type Loop struct {
	source    snapshot.Source
	debouncer *alert.Debouncer
	channel   notifier.Channel
	renderer  Renderer

	interval      time.Duration
	now           func() time.Time
	probe         StreamProbe
	probeInterval time.Duration
	sink          Sink

	streamErr error
	// sounding is the type last fired on the channel, alert.None once stopped.
	sounding alert.Type
}

// LoopOption customizes a Loop.
type LoopOption func(*Loop)

// WithInterval sets the poll cadence.
func WithInterval(interval time.Duration) LoopOption {
	return func(l *Loop) {
		if interval > 0 {
			l.interval = interval
		}
	}
}

// WithClock replaces the time source used for debouncing.
func WithClock(now func() time.Time) LoopOption {
	return func(l *Loop) {
		if now != nil {
			l.now = now
		}
	}
}

// WithStreamProbe enables video stream probing every interval.
func WithStreamProbe(probe StreamProbe, interval time.Duration) LoopOption {
	return func(l *Loop) {
		l.probe = probe

		if interval > 0 {
			l.probeInterval = interval
		}
	}
}

// WithSink stores every fetched snapshot in sink.
func WithSink(sink Sink) LoopOption {
	return func(l *Loop) {
		l.sink = sink
	}
}

// NewLoop wires a loop. Without options it polls every second using wall time.
func NewLoop(
	source snapshot.Source,
	debouncer *alert.Debouncer,
	channel notifier.Channel,
	renderer Renderer,
	opts ...LoopOption,
) *Loop {
	l := &Loop{
		source:        source,
		debouncer:     debouncer,
		channel:       channel,
		renderer:      renderer,
		interval:      config.DefaultRefreshInterval,
		now:           time.Now,
		probeInterval: config.DefaultProbeInterval,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Run fetches immediately and then on every tick until ctx is canceled.
// The channel is stopped on return.
func (l *Loop) Run(ctx context.Context) error {
	// Silence the channel on exit even though ctx is already canceled by then.
	defer l.channel.Stop(context.WithoutCancel(ctx))

	// Setup polling ticker with the configured interval.
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	// A nil channel blocks forever, which disables the probe case.
	var probeC <-chan time.Time

	if l.probe != nil {
		probeTicker := time.NewTicker(l.probeInterval)
		defer probeTicker.Stop()

		probeC = probeTicker.C

		l.checkStream(ctx)
	}

	// First poll happens right away instead of after one interval.
	l.poll(ctx)

	// Main polling loop until context cancellation.
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case <-ticker.C:
			l.poll(ctx)
		case <-probeC:
			l.checkStream(ctx)
		}
	}
}

// poll performs one fetch-and-report cycle.
func (l *Loop) poll(ctx context.Context) {
	// Request the current snapshot from the source.
	snap, err := l.source.Fetch(ctx)
	if err != nil {
		// Shutdown races the in-flight request; not worth reporting.
		if ctx.Err() != nil {
			return
		}

		logger.ErrorKV(ctx, "Fetch analytics failed", "error", err)

		// Telemetry is gone: nothing stale may be relayed or left sounding.
		l.invalidate()
		l.renderer.RenderError(ctx, err)
		l.stop(ctx)

		return
	}

	// Publish the snapshot for relay clients.
	if l.sink != nil {
		l.sink.Put(snap)
	}

	// Debounce the reported alert and act on the decision.
	decision := l.debouncer.Observe(snap.AlertType, l.now())
	l.apply(ctx, decision)

	l.renderer.Render(ctx, render.NewFrame(snap, l.sounding))
}

// apply executes a debouncer decision on the channel.
func (l *Loop) apply(ctx context.Context, decision alert.Decision) {
	switch decision.Action {
	case alert.ActionFire:
		logger.InfoKV(ctx, "Alert fired", "alert_type", decision.Type.String())

		l.sounding = decision.Type
		l.channel.Fire(ctx, decision.Message)
	case alert.ActionStopAll:
		logger.Info(ctx, "Alert cleared")
		l.stop(ctx)
	case alert.ActionSuppress:
	}
}

// stop silences the channel.
func (l *Loop) stop(ctx context.Context) {
	l.sounding = alert.None
	l.channel.Stop(ctx)
}

// invalidate clears the relayed snapshot, if any.
func (l *Loop) invalidate() {
	if l.sink != nil {
		l.sink.Invalidate()
	}
}

// checkStream probes the video stream and reports state changes.
func (l *Loop) checkStream(ctx context.Context) {
	err := l.probe.Probe(ctx)

	switch {
	case err != nil && ctx.Err() != nil:
		return
	case err != nil:
		// Log only the transition, the renderer gets every failure.
		if l.streamErr == nil {
			logger.ErrorKV(ctx, "Video stream unavailable", "error", err)
		}

		l.streamErr = err
		l.invalidate()
		l.renderer.RenderStreamError(ctx, err)
		l.stop(ctx)
	case l.streamErr != nil:
		logger.Info(ctx, "Video stream available again")

		l.streamErr = nil
		l.renderer.RenderStreamError(ctx, nil)
	}
}
