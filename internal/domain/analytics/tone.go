package analytics

import "strings"

// Tone is the display styling of a single text field.
type Tone int

const (
	// ToneOK marks a healthy value.
	ToneOK Tone = iota
	// ToneMuted marks a neutral or idle value.
	ToneMuted
	// ToneBad marks a value that needs attention.
	ToneBad
)

// String returns the lower-case tone name.
func (t Tone) String() string {
	switch t {
	case ToneMuted:
		return "muted"
	case ToneBad:
		return "bad"
	default:
		return "ok"
	}
}

// Idle labels reported when nothing suspicious was detected.
const (
	LabelNoneDetected     = "None Detected"
	LabelNoPersonDetected = "No person detected"
	LabelNoViolations     = "No Violations"
)

// SleepingTone styles the attentiveness label.
func SleepingTone(status string) Tone {
	switch {
	case strings.Contains(strings.ToLower(status), "sleeping"):
		return ToneBad
	case strings.Contains(status, "No person"):
		return ToneMuted
	default:
		return ToneOK
	}
}

// ActivityTone styles the unauthorized-activity and copy-attempt labels.
func ActivityTone(label string) Tone {
	if label == LabelNoneDetected || label == LabelNoPersonDetected {
		return ToneMuted
	}

	return ToneBad
}
