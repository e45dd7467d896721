// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software provides an in-memory atlas surface provider.
//
// Every page is an *image.RGBA. The provider is useful for tests, for
// tools that bake atlases to disk and as a fallback when no GPU is present.
//
// Importing the package registers it as backend "software":
//
//	import _ "github.com/gogpu/atlas/backend/software"
package software

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/gogpu/atlas"
	"github.com/gogpu/atlas/backend"
	"golang.org/x/image/draw"
)

// Software provider errors.
var (
	// ErrForeignSurface is returned when Upload receives a handle that this
	// provider did not create.
	ErrForeignSurface = errors.New("software: surface not created by this provider")

	// ErrSizeMismatch is returned when the upload rectangle and the image
	// bounds differ in size.
	ErrSizeMismatch = errors.New("software: rect size does not match image")

	// ErrOutOfBounds is returned when the upload rectangle leaves the page.
	ErrOutOfBounds = errors.New("software: rect outside surface")

	// ErrPageIndex is returned by WritePNG for an unknown page.
	ErrPageIndex = errors.New("software: page index out of range")
)

// Surface is the handle returned by CreateSurface.
type Surface struct {
	Desc  atlas.SurfaceDescriptor
	Image *image.RGBA
}

// Provider keeps atlas pages as image.RGBA in memory.
//
// Provider is safe for concurrent use.
type Provider struct {
	mu          sync.Mutex
	initialized bool
	surfaces    []*Surface
}

// init registers the software backend on package import.
func init() {
	backend.Register(backend.BackendSoftware, backend.PrioritySoftware, func() (backend.Backend, error) {
		return New(), nil
	})
}

// New creates a software provider. It must be initialized with Init before
// the allocator asks it for surfaces.
func New() *Provider {
	return &Provider{}
}

// Name returns the backend identifier.
func (p *Provider) Name() string {
	return backend.BackendSoftware
}

// Init initializes the provider.
func (p *Provider) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initialized = true
	return nil
}

// Close drops every page image.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.surfaces = nil
	p.initialized = false
}

// CreateSurface allocates a transparent page image.
func (p *Provider) CreateSurface(desc atlas.SurfaceDescriptor) (atlas.SurfaceHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil, backend.ErrNotInitialized
	}
	if !desc.Size.Valid() {
		return nil, fmt.Errorf("software: invalid surface size %s", desc.Size)
	}

	s := &Surface{
		Desc:  desc,
		Image: image.NewRGBA(image.Rect(0, 0, desc.Size.W, desc.Size.H)),
	}
	p.surfaces = append(p.surfaces, s)

	atlas.Logger().Debug("software: surface created",
		"label", desc.Label,
		"size", desc.Size.String())
	return s, nil
}

// Upload copies img into rect of the surface, replacing what was there.
func (p *Provider) Upload(surface atlas.SurfaceHandle, rect atlas.Rect, img image.Image) error {
	s, ok := surface.(*Surface)
	if !ok || s == nil {
		return ErrForeignSurface
	}

	b := img.Bounds()
	if b.Dx() != rect.W || b.Dy() != rect.H {
		return fmt.Errorf("%w: rect %s, image %dx%d", ErrSizeMismatch, rect, b.Dx(), b.Dy())
	}
	if !rect.In(s.Desc.Size) {
		return fmt.Errorf("%w: %s on %s page", ErrOutOfBounds, rect, s.Desc.Size)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	draw.Draw(s.Image, rect.Image(), img, b.Min, draw.Src)
	return nil
}

// Surfaces returns the surfaces in creation order.
func (p *Provider) Surfaces() []*Surface {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Surface, len(p.surfaces))
	copy(out, p.surfaces)
	return out
}

// Pages returns the page images in creation order.
func (p *Provider) Pages() []*image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*image.RGBA, len(p.surfaces))
	for i, s := range p.surfaces {
		out[i] = s.Image
	}
	return out
}

// WritePNG encodes page i to w.
func (p *Provider) WritePNG(i int, w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i < 0 || i >= len(p.surfaces) {
		return fmt.Errorf("%w: %d", ErrPageIndex, i)
	}
	return png.Encode(w, p.surfaces[i].Image)
}

// SavePNGs writes every page to dir as <label>.png and returns the paths.
func (p *Provider) SavePNGs(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	surfaces := p.Surfaces()
	paths := make([]string, 0, len(surfaces))
	for i, s := range surfaces {
		name := s.Desc.Label
		if name == "" {
			name = fmt.Sprintf("page_%d", i)
		}
		path := filepath.Join(dir, name+".png")
		if err := savePNG(path, s.Image); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path is built from the caller's directory
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, img)
}
