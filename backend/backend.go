package backend

import (
	"errors"

	"github.com/gogpu/atlas"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when a surface is requested before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// Backend name constants.
const (
	// BackendSoftware is the name of the in-memory image.RGBA provider.
	BackendSoftware = "software"

	// BackendNative is the name of the wgpu HAL texture provider.
	BackendNative = "native"
)

// Backend is a named atlas.SurfaceProvider with a lifecycle.
//
// Backends are registered via Register() and created with Open() or
// OpenDefault(), which also initialize them. A backend is closed once every
// allocator using it is gone.
type Backend interface {
	atlas.SurfaceProvider

	// Name returns the backend identifier (e.g., "software", "native").
	Name() string

	// Init prepares the backend. Calling Init twice is a no-op.
	Init() error

	// Close releases every surface the backend created.
	// The backend should not be used after Close is called.
	Close()
}
