package analytics

import "strings"

// Severity classifies the composite proctoring alert label.
type Severity int

const (
	// SeverityNone means no styling is needed.
	SeverityNone Severity = iota
	// SeverityWarning covers attention and alertness issues.
	SeverityWarning
	// SeverityCritical covers cheating, absence and violations.
	SeverityCritical
)

// String returns the lower-case severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "none"
	}
}

//nolint:gochecknoglobals // Keyword tables are read-only.
var (
	criticalKeywords = []string{"Alert", "Cheating", "Violation", "Absent"}
	warningKeywords  = []string{"Diverted", "Drowsiness", "Yawn"}
)

// ClassifySeverity maps the backend's free-text label to a severity.
// Matching is case-sensitive and critical keywords take precedence.
func ClassifySeverity(label string) Severity {
	if containsAny(label, criticalKeywords) {
		return SeverityCritical
	}

	if containsAny(label, warningKeywords) {
		return SeverityWarning
	}

	return SeverityNone
}

// Severity classifies the snapshot's proctoring alert label.
func (s Snapshot) Severity() Severity {
	return ClassifySeverity(s.ProctoringAlert)
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}

	return false
}
