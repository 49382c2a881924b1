// Package notifier implements the channels that make an alert perceptible.
//
// Every Channel supports Fire, which supersedes whatever is in flight, and
// Stop, which is idempotent. Channels never return errors: failures of the
// audio, speech or remote subsystem are logged and swallowed so a failed beep
// cannot disturb the poll loop.
package notifier
