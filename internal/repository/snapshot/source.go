package snapshot

import (
	"context"
	"errors"

	"github.com/oshokin/proctor-alert/internal/domain/analytics"
)

// Source retrieves one analytics snapshot per call. Callers must not overlap calls.
type Source interface {
	Fetch(ctx context.Context) (analytics.Snapshot, error)
}

var (
	// ErrTransport marks network failures and non-success responses.
	ErrTransport = errors.New("transport error")
	// ErrFormat marks responses that cannot be decoded into a snapshot.
	ErrFormat = errors.New("format error")
)
