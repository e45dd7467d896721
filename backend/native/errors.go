package native

import "errors"

// Package errors for the native provider.
var (
	// ErrNilDevice is returned when the provider is created without a device.
	ErrNilDevice = errors.New("native: device is nil")

	// ErrNilQueue is returned when the provider is created without a queue.
	ErrNilQueue = errors.New("native: queue is nil")

	// ErrNoHALDevice is returned when a gpucontext.DeviceProvider exposes
	// neither hal.Device/hal.Queue nor HalDevice()/HalQueue().
	ErrNoHALDevice = errors.New("native: device provider does not expose HAL types")

	// ErrClosed is returned for operations on a closed provider.
	ErrClosed = errors.New("native: provider closed")

	// ErrForeignSurface is returned when Upload receives a handle that this
	// provider did not create.
	ErrForeignSurface = errors.New("native: surface not created by this provider")

	// ErrSizeMismatch is returned when the upload rectangle and the image
	// bounds differ in size.
	ErrSizeMismatch = errors.New("native: rect size does not match image")

	// ErrOutOfBounds is returned when the upload rectangle leaves the texture.
	ErrOutOfBounds = errors.New("native: rect outside texture")
)
