// Package render draws analytics frames for the human observer.
//
// Console prints one styled line per poll and suits logs and pipes; TUI runs
// a bubbletea program that keeps a single panel up to date. Both style the
// proctoring alert by severity and the remaining labels by tone.
package render
