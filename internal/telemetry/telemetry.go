// Package telemetry provides the structured logger shared by the store
// retry decorator, solvent, and sync, matching the teacher's key-value logging
// convention (erigon-lib/log) but backed by go.uber.org/zap's
// SugaredLogger, the logging library the wider example pack uses.
package telemetry

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once   sync.Once
	global *zap.SugaredLogger
)

// L returns the package-wide logger. init installs a no-op logger, so
// this is silent until SetLogger installs another; only if SetLogger(nil)
// clears it before the first call does L build a production default
// (JSON, info level). Call SetLogger in a main package to override it
// before any oxide-package code runs.
func L() *zap.SugaredLogger {
	once.Do(func() {
		if global == nil {
			logger, err := zap.NewProduction()
			if err != nil {
				logger = zap.NewNop()
			}
			global = logger.Sugar()
		}
	})
	return global
}

// SetLogger installs a caller-provided logger, e.g. zap.NewDevelopment()
// for CLI/test use, or a no-op logger to silence output entirely.
func SetLogger(l *zap.SugaredLogger) {
	global = l
}

// Nop returns a logger that discards everything, used as the default in
// package-level tests that don't want production JSON on stderr.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func init() {
	// Tests and library embedding both want quiet-by-default; callers that
	// want the production logger call SetLogger explicitly in main().
	SetLogger(Nop())
}
