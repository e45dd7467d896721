// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/atlas"
	"github.com/gogpu/atlas/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAllocator(t *testing.T, p *Provider) *atlas.Allocator {
	t.Helper()
	require.NoError(t, p.Init())

	cfg := atlas.DefaultConfig()
	cfg.PageWidth, cfg.PageHeight = 64, 64
	a, err := atlas.New(cfg, atlas.WithProvider(p))
	require.NoError(t, err)
	return a
}

func filled(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, backend.Available(), backend.BackendSoftware)

	b, err := backend.Open(backend.BackendSoftware)
	require.NoError(t, err)
	defer b.Close()
	assert.IsType(t, &Provider{}, b)
	assert.Equal(t, "software", b.Name())
}

func TestCreateSurface_RequiresInit(t *testing.T) {
	p := New()

	_, err := p.CreateSurface(atlas.SurfaceDescriptor{Size: atlas.Size{W: 8, H: 8}})
	require.ErrorIs(t, err, backend.ErrNotInitialized)

	require.NoError(t, p.Init())
	_, err = p.CreateSurface(atlas.SurfaceDescriptor{Size: atlas.Size{W: 0, H: 8}})
	require.Error(t, err)
}

func TestUpload_PixelsLandInContentRect(t *testing.T) {
	p := New()
	a := newAllocator(t, p)
	red := color.RGBA{R: 255, A: 255}

	id, err := a.CreateFromImage(filled(30, 20, red), atlas.SamplingLinear)
	require.NoError(t, err)

	e, ok := a.Entry(id)
	require.True(t, ok)

	pages := p.Pages()
	require.Len(t, pages, 1)
	page := pages[0]

	assert.Equal(t, red, page.RGBAAt(e.Content.X, e.Content.Y))
	assert.Equal(t, red, page.RGBAAt(e.Content.X+29, e.Content.Y+19))
	// Border pixels around the content stay transparent.
	assert.Equal(t, color.RGBA{}, page.RGBAAt(e.Rect.X, e.Rect.Y))
	assert.Equal(t, color.RGBA{}, page.RGBAAt(e.Content.X+30, e.Content.Y))
}

func TestUpload_NonZeroImageOrigin(t *testing.T) {
	p := New()
	a := newAllocator(t, p)

	src := filled(40, 40, color.RGBA{G: 255, A: 255})
	sub := src.SubImage(image.Rect(10, 10, 20, 20))

	id, err := a.CreateFromImage(sub, atlas.SamplingNearest)
	require.NoError(t, err)

	e, _ := a.Entry(id)
	assert.Equal(t, atlas.Size{W: 10, H: 10}, e.Content.Size())
	assert.Equal(t, uint8(255), p.Pages()[0].RGBAAt(e.Content.X+9, e.Content.Y+9).G)
}

func TestUpload_Errors(t *testing.T) {
	p := New()
	require.NoError(t, p.Init())

	h, err := p.CreateSurface(atlas.SurfaceDescriptor{Size: atlas.Size{W: 16, H: 16}})
	require.NoError(t, err)

	img := filled(4, 4, color.RGBA{A: 255})

	err = p.Upload("not a surface", atlas.Rect{W: 4, H: 4}, img)
	require.ErrorIs(t, err, ErrForeignSurface)

	err = p.Upload(h, atlas.Rect{W: 5, H: 4}, img)
	require.ErrorIs(t, err, ErrSizeMismatch)

	err = p.Upload(h, atlas.Rect{X: 14, Y: 0, W: 4, H: 4}, img)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestWritePNG(t *testing.T) {
	p := New()
	a := newAllocator(t, p)

	_, err := a.CreateFromImage(filled(8, 8, color.RGBA{B: 255, A: 255}), atlas.SamplingLinear)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.WritePNG(0, &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())

	require.ErrorIs(t, p.WritePNG(1, &buf), ErrPageIndex)
}

func TestSavePNGs(t *testing.T) {
	p := New()
	a := newAllocator(t, p)

	_, err := a.Create(atlas.Size{W: 8, H: 8}, atlas.SamplingLinear)
	require.NoError(t, err)
	_, err = a.Create(atlas.Size{W: 8, H: 8}, atlas.SamplingNearest)
	require.NoError(t, err)

	dir := t.TempDir()
	paths, err := p.SavePNGs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "atlas_page_0_linear.png"),
		filepath.Join(dir, "atlas_page_1_nearest.png"),
	}, paths)

	for _, path := range paths {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestClose(t *testing.T) {
	p := New()
	a := newAllocator(t, p)

	_, err := a.Create(atlas.Size{W: 8, H: 8}, atlas.SamplingLinear)
	require.NoError(t, err)
	require.Len(t, p.Pages(), 1)

	p.Close()
	assert.Empty(t, p.Pages())

	_, err = p.CreateSurface(atlas.SurfaceDescriptor{Size: atlas.Size{W: 8, H: 8}})
	assert.ErrorIs(t, err, backend.ErrNotInitialized)
}
