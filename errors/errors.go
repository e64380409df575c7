// Package errors provides error handling for the curation pipeline.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints
//
// Usage:
//
//	// Wrap with context
//	if err := repo.Fetch(ctx); err != nil {
//	    return errors.Wrapf(err, "fetch %s", name)
//	}
//
//	// Add hints for users
//	return errors.WithHint(errors.ErrMissingToken, "export GITHUB_TOKEN or add it to .env")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// GetStack returns the reportable stack trace attached to err, if any.
var GetStack = crdb.GetReportableStackTrace

// Sentinel errors shared across pipeline stages.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrMissingToken indicates the GitHub access token is not configured
	ErrMissingToken = New("github token not configured")

	// ErrInvalidConfig indicates the configuration file failed validation
	ErrInvalidConfig = New("invalid configuration")

	// ErrNotRepository indicates a path is not a git repository
	ErrNotRepository = New("not a git repository")

	// ErrCloneFailed indicates a remote repository could not be cloned
	ErrCloneFailed = New("clone failed")
)

// IsMissingToken reports whether err is or wraps ErrMissingToken.
func IsMissingToken(err error) bool {
	return err != nil && Is(err, ErrMissingToken)
}

// IsNotRepository reports whether err is or wraps ErrNotRepository.
func IsNotRepository(err error) bool {
	return err != nil && Is(err, ErrNotRepository)
}
