package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestClassifySeverity covers the backend labels and keyword precedence.
func TestClassifySeverity(t *testing.T) {
	t.Parallel()

	cases := map[string]Severity{
		"No Violations":                 SeverityNone,
		"Potential Cheating!":           SeverityCritical,
		"Student Absent!":               SeverityCritical,
		"System Violation! (Concept)":   SeverityCritical,
		"Tab Switched! (Concept)":       SeverityNone,
		"Attention Diverted!":           SeverityWarning,
		"Drowsiness Detected!":          SeverityWarning,
		"Yawn Detected - Low Alertness": SeverityCritical,
		"Yawn Detected":                 SeverityWarning,
		"yawn alert lowercase":          SeverityNone,
		"":                              SeverityNone,
	}

	for label, want := range cases {
		require.Equal(t, want, ClassifySeverity(label), label)
	}

	require.Equal(t, SeverityWarning, Snapshot{ProctoringAlert: "Attention Diverted!"}.Severity())
}

// TestSeverity_String checks the severity names.
func TestSeverity_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "none", SeverityNone.String())
	require.Equal(t, "warning", SeverityWarning.String())
	require.Equal(t, "critical", SeverityCritical.String())
}

// TestTones checks field styling of the attentiveness and activity labels.
func TestTones(t *testing.T) {
	t.Parallel()

	require.Equal(t, ToneBad, SleepingTone("Likely Sleeping (Eyes Closed)"))
	require.Equal(t, ToneMuted, SleepingTone("No person detected - (Absent)"))
	require.Equal(t, ToneOK, SleepingTone("Awake"))
	require.Equal(t, ToneOK, SleepingTone("Yawning (AI Detected)"))

	require.Equal(t, ToneMuted, ActivityTone(LabelNoneDetected))
	require.Equal(t, ToneMuted, ActivityTone(LabelNoPersonDetected))
	require.Equal(t, ToneBad, ActivityTone("Multiple Persons Detected (3)!"))
	require.Equal(t, "bad", ToneBad.String())
}
