// Package atlas packs many small rectangular resources into a few large
// fixed-size pages.
//
// # Overview
//
// Glyph bitmaps, emoji sprites, image tiles and UI icons are tiny compared
// to a GPU texture. atlas places them into shared pages so a renderer binds
// a handful of textures instead of one per resource. It tracks free and used
// space per page, reuses released space before opening new pages, keeps
// resources with different sampling modes on separate pages and fails with a
// typed error when a resource cannot fit.
//
// # Quick Start
//
//	a, err := atlas.New(atlas.DefaultConfig(), atlas.WithProvider(provider))
//	if err != nil {
//	    return err
//	}
//
//	id, err := a.CreateFromImage(icon, atlas.SamplingLinear)
//	if err != nil {
//	    return err
//	}
//
//	page, rect, _ := a.Locate(id)
//	u0, v0, u1, v1 := rect.UV(page.Size())
//
//	_ = a.Destroy(id)
//
// # Placement
//
// Every request is quantized before placement: each dimension is padded by
// Config.Border, rounded up to the next power of two and raised to
// Config.MinSize. Pages whose sampling mode matches are tried in creation
// order; inside a page the packer picks the smallest free rectangle that
// fits (see internal/guillotine). When no page accepts the request a new
// page is created. A request whose quantized size is larger than a page
// fails with ErrOversizedRequest.
//
// # Backing Surfaces
//
// The allocator performs no GPU calls. A SurfaceProvider injected with
// WithProvider creates one surface per page and uploads the pixels passed to
// CreateFromImage. backend/software keeps pages as image.RGBA in memory;
// backend/native creates wgpu HAL textures.
//
// # Errors
//
// ErrInvalidSize, ErrOversizedRequest and ErrEntryNotFound are expected,
// testable outcomes and are returned, never logged. Upload failures surface
// as *UploadError while the reservation stays valid.
//
// # Concurrency
//
// Allocator is meant for a single owner, typically the render thread. Use
// SyncAllocator to share one across goroutines.
package atlas
