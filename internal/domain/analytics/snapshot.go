package analytics

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/proctor-alert/internal/domain/alert"
)

// Snapshot is one poll cycle's analytics result.
type Snapshot struct {
	// FaceCount is the number of faces seen in the frame.
	FaceCount int
	// SleepingStatus is the attentiveness label, e.g. "Awake".
	SleepingStatus string
	// FocusScore is a 0..100 focus estimate.
	FocusScore float64
	// UnauthorizedActivity describes gaze or system violations.
	UnauthorizedActivity string
	// CopyAttempt describes multi-person detection.
	CopyAttempt string
	// ProctoringAlert is the composite alert label.
	ProctoringAlert string
	// AlertType is the active violation, alert.None when there is none.
	AlertType alert.Type
	// FetchedAt is when the snapshot was received.
	FetchedAt time.Time
}

// wireSnapshot mirrors the backend JSON. Pointers detect missing fields.
type wireSnapshot struct {
	FaceCount            *int     `json:"face_count"`
	SleepingStatus       *string  `json:"sleeping_status"`
	FocusScore           *float64 `json:"focus_score"`
	UnauthorizedActivity *string  `json:"unauthorized_activity"`
	CopyAttempt          *string  `json:"copy_attempt"`
	ProctoringAlert      *string  `json:"proctoring_alert"`
	AlertType            *string  `json:"alert_type"`
}

// errMissingField is wrapped when a required wire field is absent.
var errMissingField = errors.New("missing required field")

// Decode parses a backend JSON body into a Snapshot stamped with fetchedAt.
func Decode(body []byte, fetchedAt time.Time) (Snapshot, error) {
	var wire wireSnapshot

	// Unmarshal rejects trailing data after the object.
	if err := json.Unmarshal(body, &wire); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}

	required := []struct {
		name    string
		present bool
	}{
		{"face_count", wire.FaceCount != nil},
		{"sleeping_status", wire.SleepingStatus != nil},
		{"focus_score", wire.FocusScore != nil},
		{"unauthorized_activity", wire.UnauthorizedActivity != nil},
		{"copy_attempt", wire.CopyAttempt != nil},
		{"proctoring_alert", wire.ProctoringAlert != nil},
	}

	for _, field := range required {
		if !field.present {
			return Snapshot{}, fmt.Errorf("%w: %s", errMissingField, field.name)
		}
	}

	snapshot := Snapshot{
		FaceCount:            *wire.FaceCount,
		SleepingStatus:       *wire.SleepingStatus,
		FocusScore:           *wire.FocusScore,
		UnauthorizedActivity: *wire.UnauthorizedActivity,
		CopyAttempt:          *wire.CopyAttempt,
		ProctoringAlert:      *wire.ProctoringAlert,
		AlertType:            alert.None,
		FetchedAt:            fetchedAt,
	}

	if wire.AlertType != nil {
		snapshot.AlertType = alert.ParseType(*wire.AlertType)
	}

	return snapshot, nil
}

// Encode renders the snapshot in the backend wire format. None is encoded
// as JSON null.
func Encode(s Snapshot) ([]byte, error) {
	return json.Marshal(s.Map())
}

// Map returns the wire representation as a generic map.
func (s Snapshot) Map() map[string]any {
	var alertType any
	if s.AlertType != alert.None {
		alertType = string(s.AlertType)
	}

	return map[string]any{
		"face_count":            s.FaceCount,
		"sleeping_status":       s.SleepingStatus,
		"focus_score":           s.FocusScore,
		"unauthorized_activity": s.UnauthorizedActivity,
		"copy_attempt":          s.CopyAttempt,
		"proctoring_alert":      s.ProctoringAlert,
		"alert_type":            alertType,
	}
}
