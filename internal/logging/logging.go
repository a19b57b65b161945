// Package logging builds the go-kit/log logger shared by the meta-index
// binaries, mirroring the teacher's cmd/*-otlp-forwarder setup: logfmt to
// stderr, a UTC timestamp and caller field attached once at construction,
// and a level filter driven by a string flag.
package logging

import (
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// New builds a logfmt logger writing to stderr with "ts" and "caller"
// fields, filtered to the given level name ("debug", "info", "warn",
// "error"; unrecognized names fall back to "info").
func New(levelName string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	return level.NewFilter(logger, parseLevel(levelName))
}

func parseLevel(name string) level.Option {
	switch name {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}
