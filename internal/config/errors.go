package config

import "errors"

// Configuration validation errors.
// These are package-level sentinel errors so callers can use errors.Is()
// for programmatic handling while still getting a readable message.
var (
	// ErrNoListName is returned when the shopping list name is empty.
	ErrNoListName = errors.New("no shopping list name: provide one via --list or the config file")

	// ErrInvalidItemRange is returned when --limit or --skip is negative.
	ErrInvalidItemRange = errors.New("invalid item range: --limit and --skip must be non-negative")

	// ErrInvalidSearchLimit is returned when the search result cap is not positive.
	ErrInvalidSearchLimit = errors.New("invalid search limit: must be positive")

	// ErrInvalidItemDelay is returned when the inter-item delay is negative.
	ErrInvalidItemDelay = errors.New("invalid item delay: must be non-negative")

	// ErrInvalidBlockTiming is returned when the block poll interval or
	// block timeout is not positive.
	ErrInvalidBlockTiming = errors.New("invalid block timing: poll interval and timeout must be positive")

	// ErrInvalidNavigationTimeout is returned when the per-navigation
	// timeout is not positive.
	ErrInvalidNavigationTimeout = errors.New("invalid navigation timeout: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
