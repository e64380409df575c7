package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across stages.
// Use these constants instead of raw strings.
const (
	// Identity and context
	FieldRunID     = "run_id"
	FieldComponent = "component"
	FieldStage     = "stage"

	// Records
	FieldRepo    = "repo"
	FieldURL     = "url"
	FieldCommit  = "commit"
	FieldKeyword = "keyword"
	FieldLine    = "line"
	FieldReason  = "reason"

	// Files and paths
	FieldPath   = "path"
	FieldInput  = "input"
	FieldOutput = "output"

	// Counts
	FieldCount    = "count"
	FieldAccepted = "accepted"
	FieldSkipped  = "skipped"
	FieldFailed   = "failed"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"
)

// ComponentLogger returns a named child of the global logger.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	extractor := harvest.NewExtractor(cfg.Extract, fetcher, logger.ComponentLogger("harvest"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// OrNop returns l, or a no-op logger when l is nil. Constructors use it so
// callers may pass nil in tests.
func OrNop(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return zap.NewNop().Sugar()
	}
	return l
}
