package render

import (
	"fmt"

	"github.com/oshokin/proctor-alert/internal/domain/alert"
	"github.com/oshokin/proctor-alert/internal/domain/analytics"
)

// Frame is what a renderer shows for one successful poll.
type Frame struct {
	// Snapshot holds the display fields.
	Snapshot analytics.Snapshot
	// Severity classifies Snapshot.ProctoringAlert.
	Severity analytics.Severity
	// Active is the alert currently sounding, alert.None when silent or
	// after the channel was stopped by a failure.
	Active alert.Type
}

// NewFrame builds a frame for snapshot with the given active alert.
func NewFrame(snapshot analytics.Snapshot, active alert.Type) Frame {
	return Frame{
		Snapshot: snapshot,
		Severity: snapshot.Severity(),
		Active:   active,
	}
}

// FocusScore formats the focus score with two decimals.
func (f Frame) FocusScore() string {
	return fmt.Sprintf("%.2f", f.Snapshot.FocusScore)
}
