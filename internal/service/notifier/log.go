package notifier

import (
	"context"

	"github.com/oshokin/proctor-alert/internal/logger"
)

// Log writes every call to the context logger and keeps nothing. Used for dry runs.
type Log struct{}

// Fire logs the message.
func (Log) Fire(ctx context.Context, message string) {
	logger.InfoKV(ctx, "Dry run: fire", "message", message)
}

// Stop logs the stop at debug level, since failures stop on every tick.
func (Log) Stop(ctx context.Context) {
	logger.Debug(ctx, "Dry run: stop")
}
