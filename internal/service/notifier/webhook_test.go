package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// webhookSink collects events posted to a test server.
type webhookSink struct {
	mu         sync.Mutex
	events     []Event
	signatures []string
}

func (s *webhookSink) handler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event Event
		if err := json.NewDecoder(r.Body).Decode(&event); err == nil {
			s.mu.Lock()
			s.events = append(s.events, event)
			s.signatures = append(s.signatures, r.Header.Get(SignatureHeader))
			s.mu.Unlock()
		}

		w.WriteHeader(status)
	}
}

// TestWebhook_FireAndStop posts fire then a single stop.
func TestWebhook_FireAndStop(t *testing.T) {
	t.Parallel()

	sink := new(webhookSink)
	server := httptest.NewServer(sink.handler(http.StatusOK))
	defer server.Close()

	w := NewWebhook(server.URL, "", "session-7", time.Second)
	ctx := context.Background()

	w.Stop(ctx)
	w.Fire(ctx, "Student absent")
	w.Stop(ctx)
	w.Stop(ctx)

	require.Len(t, sink.events, 2)
	require.Equal(t, EventFired, sink.events[0].Event)
	require.Equal(t, "Student absent", sink.events[0].Message)
	require.Equal(t, "session-7", sink.events[0].SessionID)
	require.NotEmpty(t, sink.events[0].Timestamp)
	require.Equal(t, EventStopped, sink.events[1].Event)
	require.Empty(t, sink.signatures[0])
}

// TestWebhook_SignsWithSecret adds an HMAC signature when a secret is set.
func TestWebhook_SignsWithSecret(t *testing.T) {
	t.Parallel()

	sink := new(webhookSink)
	server := httptest.NewServer(sink.handler(http.StatusOK))
	defer server.Close()

	NewWebhook(server.URL, "test-secret", "", time.Second).Fire(context.Background(), "x")

	require.Len(t, sink.signatures, 1)
	require.True(t, strings.HasPrefix(sink.signatures[0], "sha256="))
}

// TestWebhook_ServerErrorIsSwallowed ensures failures do not panic.
func TestWebhook_ServerErrorIsSwallowed(t *testing.T) {
	t.Parallel()

	sink := new(webhookSink)
	server := httptest.NewServer(sink.handler(http.StatusServiceUnavailable))
	defer server.Close()

	w := NewWebhook(server.URL, "", "", time.Second)

	require.NotPanics(t, func() {
		w.Fire(context.Background(), "x")
		w.Stop(context.Background())
	})
	require.Len(t, sink.events, 2)
}
