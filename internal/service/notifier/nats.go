package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// Publisher is the subset of *nats.Conn used by the NATS channel.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATS publishes alert events to <subject>.fire and <subject>.stop.
type NATS struct {
	publisher Publisher
	subject   string
	sessionID string

	// mu guards active.
	mu sync.Mutex
	// active is set after a fire until the matching stop is published.
	active bool
}

// NewNATS creates a channel publishing through publisher.
func NewNATS(publisher Publisher, subject, sessionID string) *NATS {
	return &NATS{
		publisher: publisher,
		subject:   subject,
		sessionID: sessionID,
	}
}

// ConnectNATS dials the server at url and returns the channel with a close
// function that drains the connection.
func ConnectNATS(url, subject, sessionID string, timeout time.Duration) (*NATS, func(), error) {
	nc, err := nats.Connect(url,
		nats.Name("proctor-monitor"),
		nats.Timeout(timeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to nats: %w", err)
	}

	closeFn := func() {
		_ = nc.Drain()
	}

	return NewNATS(nc, subject, sessionID), closeFn, nil
}

// Fire publishes an alert_fired event.
func (n *NATS) Fire(ctx context.Context, message string) {
	n.mu.Lock()
	n.active = true
	n.mu.Unlock()

	if err := n.publish(n.subject+".fire", newEvent(EventFired, message, n.sessionID, time.Now())); err != nil {
		report(ctx, "nats", "fire", err)
	}
}

// Stop publishes an alert_stopped event if a fire is outstanding.
func (n *NATS) Stop(ctx context.Context) {
	n.mu.Lock()
	wasActive := n.active
	n.active = false
	n.mu.Unlock()

	if !wasActive {
		return
	}

	if err := n.publish(n.subject+".stop", newEvent(EventStopped, "", n.sessionID, time.Now())); err != nil {
		report(ctx, "nats", "stop", err)
	}
}

func (n *NATS) publish(subject string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := n.publisher.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	return nil
}
