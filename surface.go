// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package atlas

import "image"

// SurfaceHandle is an opaque reference to the backing storage of a page.
// Its concrete type belongs to the SurfaceProvider that created it.
type SurfaceHandle any

// SurfaceDescriptor describes the backing surface of a new page.
type SurfaceDescriptor struct {
	// Page is the index the page will have in the allocator.
	Page int

	// Size is the page size.
	Size Size

	// Sampling is the sampling mode shared by every resource on the page.
	Sampling SamplingMode

	// Label is a debug name, e.g. "atlas_page_3_linear".
	Label string
}

// SurfaceProvider creates page-sized backing surfaces and uploads pixels
// into them. It is implemented outside the packing layer by
// backend/software, backend/native or an application texture manager.
//
// The allocator never asks a provider to destroy, resize or read back a
// surface; surfaces live as long as the provider that owns them.
type SurfaceProvider interface {
	// CreateSurface returns the backing surface for a new page.
	CreateSurface(desc SurfaceDescriptor) (SurfaceHandle, error)

	// Upload copies img into rect of the surface. rect has the size of
	// img.Bounds() and lies inside the page.
	Upload(surface SurfaceHandle, rect Rect, img image.Image) error
}
