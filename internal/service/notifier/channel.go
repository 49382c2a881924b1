package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/proctor-alert/internal/logger"
)

// Channel emits and cancels user-perceptible alert notifications.
type Channel interface {
	// Fire cancels any in-flight notification and starts a new one for message.
	Fire(ctx context.Context, message string)
	// Stop cancels any in-flight notification. Calling it when idle is a no-op.
	Stop(ctx context.Context)
}

// ErrNotification wraps every failure reported by a channel.
var ErrNotification = errors.New("notification failed")

// Nop discards every notification.
type Nop struct{}

// Fire does nothing.
func (Nop) Fire(context.Context, string) {}

// Stop does nothing.
func (Nop) Stop(context.Context) {}

// Multi fans notifications out to several channels in order.
type Multi []Channel

// Fire forwards to every channel.
func (m Multi) Fire(ctx context.Context, message string) {
	for _, channel := range m {
		channel.Fire(ctx, message)
	}
}

// Stop forwards to every channel.
func (m Multi) Stop(ctx context.Context) {
	for _, channel := range m {
		channel.Stop(ctx)
	}
}

// report logs a swallowed channel failure.
func report(ctx context.Context, channel, operation string, err error) {
	logger.ErrorKV(ctx, "Notification failed",
		"channel", channel,
		"operation", operation,
		"error", fmt.Errorf("%w: %w", ErrNotification, err),
	)
}
