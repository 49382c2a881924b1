package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakePublisher records published messages.
type fakePublisher struct {
	subjects []string
	events   []Event
	err      error
}

// Publish stores the subject and decoded event, returning the configured error.
func (f *fakePublisher) Publish(subject string, data []byte) error {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}

	f.subjects = append(f.subjects, subject)
	f.events = append(f.events, event)

	return f.err
}

// TestNATS_FireAndStop publishes to the fire and stop subjects.
func TestNATS_FireAndStop(t *testing.T) {
	t.Parallel()

	pub := new(fakePublisher)
	n := NewNATS(pub, "proctor.alerts", "session-1")
	ctx := context.Background()

	n.Stop(ctx)
	n.Fire(ctx, "Yawning detected")
	n.Fire(ctx, "Student absent")
	n.Stop(ctx)
	n.Stop(ctx)

	require.Equal(t, []string{"proctor.alerts.fire", "proctor.alerts.fire", "proctor.alerts.stop"}, pub.subjects)
	require.Equal(t, "Student absent", pub.events[1].Message)
	require.Equal(t, "session-1", pub.events[2].SessionID)
}

// TestNATS_PublishErrorIsSwallowed ensures publisher failures only get logged.
func TestNATS_PublishErrorIsSwallowed(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{err: errors.New("connection closed")}
	n := NewNATS(pub, "proctor.alerts", "")

	require.NotPanics(t, func() {
		n.Fire(context.Background(), "x")
		n.Stop(context.Background())
	})
	require.Len(t, pub.subjects, 2)
}

// TestConnectNATS_Unreachable returns an error for a server that is not running.
func TestConnectNATS_Unreachable(t *testing.T) {
	t.Parallel()

	_, closeFn, err := ConnectNATS("nats://127.0.0.1:1", "proctor.alerts", "", 200*time.Millisecond)
	require.Error(t, err)
	require.Nil(t, closeFn)
}
