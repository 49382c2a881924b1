// Package analytics holds the snapshot reported by the detection backend on
// every poll, its JSON wire decoding and the severity classification of the
// composite proctoring alert label.
package analytics
