// Package alert contains the alert catalog and the debouncer that decides
// when a reported violation should produce a notification.
//
// The Debouncer is a pure state machine: callers pass the observed type and
// the current time, and it answers with Fire, Suppress or StopAll.
package alert
