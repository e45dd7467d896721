package atlas

import (
	"errors"
	"fmt"
)

// Sentinel errors for the atlas package.
var (
	// ErrInvalidSize is returned when a requested width or height is not positive.
	ErrInvalidSize = errors.New("atlas: invalid size")

	// ErrOversizedRequest is returned when the quantized size of a request
	// does not fit in an empty page.
	ErrOversizedRequest = errors.New("atlas: request exceeds page size")

	// ErrEntryNotFound is returned by Destroy and Locate for unknown or
	// already destroyed ids.
	ErrEntryNotFound = errors.New("atlas: entry not found")

	// ErrNilImage is returned when CreateFromImage is called with a nil image.
	ErrNilImage = errors.New("atlas: image is nil")

	// ErrNoProvider is returned by CreateFromImage when the allocator has no
	// surface provider to upload into.
	ErrNoProvider = errors.New("atlas: no surface provider")

	// ErrPageLimit is returned when a new page is needed but Config.MaxPages
	// pages already exist.
	ErrPageLimit = errors.New("atlas: page limit reached")

	// ErrUntracked is returned by Destroy when a live entry's footprint is
	// not reserved on its page. It means the page bookkeeping is corrupted.
	ErrUntracked = errors.New("atlas: footprint not tracked by page")
)

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}

// UploadError is returned by CreateFromImage when the surface provider fails
// to upload pixels. The allocation itself is committed: ID stays valid until
// it is passed to Destroy.
type UploadError struct {
	ID   ID
	Page int
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("atlas: upload of entry %d to page %d failed: %v", e.ID, e.Page, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// SurfaceError is returned when the surface provider cannot create the
// backing surface of a new page. The page is discarded.
type SurfaceError struct {
	Page int
	Err  error
}

func (e *SurfaceError) Error() string {
	return fmt.Sprintf("atlas: create surface for page %d: %v", e.Page, e.Err)
}

func (e *SurfaceError) Unwrap() error {
	return e.Err
}
