// Package version holds build metadata for proctor-monitor.
//
// Version, Commit and BuildTime are set through -ldflags -X at release time.
package version
