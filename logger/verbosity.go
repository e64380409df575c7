package logger

import "go.uber.org/zap/zapcore"

// Verbosity level constants for CLI flag counts.
const (
	VerbosityUser  = 0 // No flags: stage summaries, warnings and errors
	VerbosityInfo  = 1 // -v: + per-repository progress
	VerbosityDebug = 2 // -vv: + per-record skip reasons, config details
)

// VerbosityToLevel maps verbosity flags (-v, -vv) to zap log levels
//
// Mapping:
//
//	0 (none)  -> InfoLevel  (stage summaries and per-repository failures)
//	1 (-v)    -> InfoLevel
//	2+ (-vv)  -> DebugLevel (+ every skipped record)
func VerbosityToLevel(verbosity int) zapcore.Level {
	if verbosity >= VerbosityDebug {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// LevelName returns a human-readable name for verbosity level
func LevelName(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "User"
	case VerbosityInfo:
		return "Info (-v)"
	default:
		return "Debug (-vv)"
	}
}
