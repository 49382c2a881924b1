package alert

import (
	"sort"
	"strings"
)

// Type identifies a category of proctoring violation reported by the backend.
type Type string

// None means no violation is active in the current snapshot.
const None Type = ""

// Known violation types reported by the detection backend.
const (
	CopyAttempt     Type = "copy_attempt"
	GazeViolation   Type = "gaze_violation"
	AbsentViolation Type = "absent_violation"
	Drowsiness      Type = "drowsiness"
	Yawn            Type = "yawn"
	SystemViolation Type = "system_violation"
)

// ParseType normalizes a raw wire value. Unknown values are kept as-is so the
// catalog can decide whether they are recognized.
func ParseType(raw string) Type {
	return Type(strings.TrimSpace(raw))
}

// String returns the wire representation, "none" for None.
func (t Type) String() string {
	if t == None {
		return "none"
	}

	return string(t)
}

// Catalog maps alert types to the message spoken when they fire.
type Catalog map[Type]string

// DefaultCatalog returns the built-in messages for every known type.
func DefaultCatalog() Catalog {
	return Catalog{
		CopyAttempt:     "Multiple persons detected. Possible copy attempt.",
		GazeViolation:   "Attention diverted. Please look at the screen.",
		AbsentViolation: "Student absent. Please return to the camera.",
		Drowsiness:      "Drowsiness detected. Please stay alert.",
		Yawn:            "Yawning detected. Low alertness.",
		SystemViolation: "System violation detected.",
	}
}

// Merge returns a copy of c with the overrides applied. Empty messages in
// overrides are ignored.
func (c Catalog) Merge(overrides map[string]string) Catalog {
	merged := make(Catalog, len(c)+len(overrides))
	for t, msg := range c {
		merged[t] = msg
	}

	for raw, msg := range overrides {
		t := ParseType(raw)
		if t == None || strings.TrimSpace(msg) == "" {
			continue
		}

		merged[t] = msg
	}

	return merged
}

// Message returns the message for t and whether t is a recognized type.
func (c Catalog) Message(t Type) (string, bool) {
	if t == None {
		return "", false
	}

	msg, ok := c[t]

	return msg, ok
}

// Types returns the catalog entries in lexical order.
func (c Catalog) Types() []Type {
	types := make([]Type, 0, len(c))
	for t := range c {
		types = append(types, t)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}
