// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native provides an atlas surface provider backed by wgpu HAL
// textures.
//
// Every page becomes an RGBA8 texture with a default view and a sampler
// derived from the page sampling mode. Mipmapped pages carry a full mip
// chain; uploads write every level, downscaling on the CPU.
//
// The provider shares a device with the application, either directly:
//
//	p, err := native.NewProvider(device, queue)
//
// or through a gpucontext.DeviceProvider such as a gogpu window:
//
//	p, err := native.NewProviderFromContext(app)
package native

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/atlas"
	"github.com/gogpu/atlas/backend"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/draw"
)

// Provider creates page textures on a HAL device.
//
// Provider is safe for concurrent use. The device and queue are borrowed:
// Close destroys the textures, views and samplers the provider created but
// never the device itself.
type Provider struct {
	mu       sync.Mutex
	device   hal.Device
	queue    hal.Queue
	surfaces []*Surface
	closed   bool
}

// NewProvider creates a provider on device and queue.
func NewProvider(device hal.Device, queue hal.Queue) (*Provider, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if queue == nil {
		return nil, ErrNilQueue
	}
	return &Provider{device: device, queue: queue}, nil
}

// NewProviderFromContext creates a provider on the device shared by dp.
//
// dp.Device() and dp.Queue() must be a hal.Device and hal.Queue, or dp must
// implement HalDevice() any and HalQueue() any returning them.
func NewProviderFromContext(dp gpucontext.DeviceProvider) (*Provider, error) {
	if dp == nil {
		return nil, ErrNoHALDevice
	}

	device, queue := halFromContext(dp)
	if device == nil || queue == nil {
		return nil, ErrNoHALDevice
	}

	info := dp.AdapterInfo()
	atlas.Logger().Info("native: using shared device",
		"adapter", info.Name,
		"type", info.Type.String())
	return NewProvider(device, queue)
}

func halFromContext(dp gpucontext.DeviceProvider) (hal.Device, hal.Queue) {
	device, _ := dp.Device().(hal.Device)
	queue, _ := dp.Queue().(hal.Queue)
	if device != nil && queue != nil {
		return device, queue
	}

	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := dp.(halProvider)
	if !ok {
		return nil, nil
	}
	device, _ = hp.HalDevice().(hal.Device)
	queue, _ = hp.HalQueue().(hal.Queue)
	return device, queue
}

// Register registers a factory for backend "native" that creates providers
// on device and queue.
func Register(device hal.Device, queue hal.Queue) {
	backend.Register(backend.BackendNative, backend.PriorityNative, func() (backend.Backend, error) {
		p, err := NewProvider(device, queue)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}

// Name returns the backend identifier.
func (p *Provider) Name() string {
	return backend.BackendNative
}

// Init checks that the provider is usable.
func (p *Provider) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	return nil
}

// Close destroys every texture, view and sampler the provider created.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	for _, s := range p.surfaces {
		p.destroy(s)
	}
	atlas.Logger().Info("native: provider closed", "surfaces", len(p.surfaces))
	p.surfaces = nil
	p.closed = true
}

func (p *Provider) destroy(s *Surface) {
	if s.Sampler != nil {
		p.device.DestroySampler(s.Sampler)
	}
	if s.View != nil {
		p.device.DestroyTextureView(s.View)
	}
	if s.Texture != nil {
		p.device.DestroyTexture(s.Texture)
	}
}

// CreateSurface creates the page texture, its view and its sampler.
func (p *Provider) CreateSurface(desc atlas.SurfaceDescriptor) (atlas.SurfaceHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	if !desc.Size.Valid() {
		return nil, fmt.Errorf("native: invalid texture size %s", desc.Size)
	}

	mips := uint32(1)
	if desc.Sampling.Mipmapped() {
		mips = mipLevelCount(desc.Size.W, desc.Size.H)
	}

	s := &Surface{
		Size:      desc.Size,
		Sampling:  desc.Sampling,
		MipLevels: mips,
		Label:     desc.Label,
	}

	var err error
	s.Texture, err = p.device.CreateTexture(textureDescriptor(desc, mips))
	if err != nil {
		return nil, fmt.Errorf("native: create texture %q: %w", desc.Label, err)
	}

	s.View, err = p.device.CreateTextureView(s.Texture, viewDescriptor(desc, mips))
	if err != nil {
		p.destroy(s)
		return nil, fmt.Errorf("native: create view %q: %w", desc.Label, err)
	}

	s.Sampler, err = p.device.CreateSampler(samplerDescriptor(desc, mips))
	if err != nil {
		p.destroy(s)
		return nil, fmt.Errorf("native: create sampler %q: %w", desc.Label, err)
	}

	p.surfaces = append(p.surfaces, s)
	atlas.Logger().Debug("native: surface created",
		"label", desc.Label,
		"size", desc.Size.String(),
		"mips", mips)
	return s, nil
}

// Upload writes img into rect of the page texture. On mipmapped pages the
// image is downscaled into rect of every further level until a dimension
// reaches zero.
func (p *Provider) Upload(surface atlas.SurfaceHandle, rect atlas.Rect, img image.Image) error {
	s, ok := surface.(*Surface)
	if !ok || s == nil {
		return ErrForeignSurface
	}

	b := img.Bounds()
	if b.Dx() != rect.W || b.Dy() != rect.H {
		return fmt.Errorf("%w: rect %s, image %dx%d", ErrSizeMismatch, rect, b.Dx(), b.Dy())
	}
	if !rect.In(s.Size) {
		return fmt.Errorf("%w: %s on %s texture", ErrOutOfBounds, rect, s.Size)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}

	base := toRGBA(img)
	if err := p.writeLevel(s, 0, rect.X, rect.Y, base); err != nil {
		return err
	}

	for level := uint32(1); level < s.MipLevels; level++ {
		w, h := rect.W>>level, rect.H>>level
		if w == 0 || h == 0 {
			break
		}
		scaled := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.BiLinear.Scale(scaled, scaled.Bounds(), base, base.Bounds(), draw.Src, nil)
		if err := p.writeLevel(s, level, rect.X>>level, rect.Y>>level, scaled); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provider) writeLevel(s *Surface, level uint32, x, y int, img *image.RGBA) error {
	w, h := img.Rect.Dx(), img.Rect.Dy()

	dst := &hal.ImageCopyTexture{
		Texture:  s.Texture,
		MipLevel: level,
		Origin:   hal.Origin3D{X: uint32(x), Y: uint32(y), Z: 0},
		Aspect:   gputypes.TextureAspectAll,
	}
	layout := &hal.ImageDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(img.Stride),
		RowsPerImage: uint32(h),
	}
	size := &hal.Extent3D{
		Width:              uint32(w),
		Height:             uint32(h),
		DepthOrArrayLayers: 1,
	}

	if err := p.queue.WriteTexture(dst, img.Pix, layout, size); err != nil {
		return fmt.Errorf("native: write %q level %d: %w", s.Label, level, err)
	}
	return nil
}

// toRGBA returns img as a tightly packed *image.RGBA with origin (0, 0).
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Surfaces returns the live surfaces in creation order.
func (p *Provider) Surfaces() []*Surface {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Surface, len(p.surfaces))
	copy(out, p.surfaces)
	return out
}
