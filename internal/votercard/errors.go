package votercard

import "errors"

// ErrNotFound is returned by RecordStore implementations when no application
// matches the given VIN. Verification treats it as a normal outcome, the HTTP
// layer maps it to 404 elsewhere.
var ErrNotFound = errors.New("voter application not found")

// ErrGenerationInProgress is returned when the advisory lock for an
// application is already held by another generation attempt.
var ErrGenerationInProgress = errors.New("card generation already in progress")

// ConfigurationError means a required deployment value (public base URL,
// storage credentials) is missing. Generation must abort before any artifact
// is produced or uploaded.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return "missing required configuration: " + e.Missing
}

// RenderError wraps a failure while composing or serializing the card
// document. The attempt is fatal but safe to retry.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return "card render failed: " + e.Err.Error() }
func (e *RenderError) Unwrap() error { return e.Err }

// StorageError wraps an artifact upload failure.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return "card upload failed: " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }
