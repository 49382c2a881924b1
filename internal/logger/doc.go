// Package logger wraps zap with a global console logger and context helpers.
//
// Services receive a context, derive named or field-enriched loggers from it
// (WithName, WithKV) and log through package-level helpers such as InfoKV and
// ErrorKV, so the poll loop, the notification channels and the relay share one
// scoped, structured output.
package logger
