// Package monitor runs the proctoring poll loop.
//
// Every refresh interval the loop fetches one analytics snapshot, renders it,
// feeds the alert type to the debouncer and applies the decision to the
// notification channel. Fetch failures are rendered and silence the channel
// without touching debounce state. An optional probe watches the video stream
// on its own cadence inside the same loop.
package monitor
