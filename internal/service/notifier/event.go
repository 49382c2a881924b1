package notifier

import "time"

// Event kinds published by remote channels.
const (
	EventFired   = "alert_fired"
	EventStopped = "alert_stopped"
)

// Event is the JSON payload sent by the webhook and NATS channels.
type Event struct {
	Event     string `json:"event"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

func newEvent(kind, message, sessionID string, now time.Time) Event {
	return Event{
		Event:     kind,
		Timestamp: now.UTC().Format(time.RFC3339),
		Message:   message,
		SessionID: sessionID,
	}
}
