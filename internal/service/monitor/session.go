package monitor

import (
	"os"
	"os/user"

	"github.com/google/uuid"
)

// unknown replaces host or user names that cannot be detected.
const unknown = "unknown"

// Session identifies one monitor run and the observer behind it.
type Session struct {
	ID       string
	Hostname string
	Username string
}

// NewSession creates a session with a random id and the current host and user.
// Detection failures are reported as "unknown" rather than aborting the run.
func NewSession() Session {
	s := Session{
		ID:       uuid.NewString(),
		Hostname: unknown,
		Username: unknown,
	}

	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		s.Hostname = hostname
	}

	if current, err := user.Current(); err == nil && current.Username != "" {
		s.Username = current.Username
	}

	return s
}

// KV returns the session as logger key-value pairs.
func (s Session) KV() []any {
	return []any{"session_id", s.ID, "hostname", s.Hostname, "username", s.Username}
}
