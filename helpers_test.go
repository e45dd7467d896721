package atlas

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func testConfig(w, h int) Config {
	c := DefaultConfig()
	c.PageWidth = w
	c.PageHeight = h
	return c
}

func newTestAllocator(t *testing.T, w, h int, opts ...Option) *Allocator {
	t.Helper()
	a, err := New(testConfig(w, h), opts...)
	require.NoError(t, err)
	return a
}

// fakeSurface is the handle returned by fakeProvider.
type fakeSurface struct {
	desc SurfaceDescriptor
}

type fakeUpload struct {
	surface *fakeSurface
	rect    Rect
	img     image.Image
}

// fakeProvider records surface creation and uploads.
type fakeProvider struct {
	surfaces  []*fakeSurface
	uploads   []fakeUpload
	createErr error
	uploadErr error
}

func (p *fakeProvider) CreateSurface(desc SurfaceDescriptor) (SurfaceHandle, error) {
	if p.createErr != nil {
		return nil, p.createErr
	}
	s := &fakeSurface{desc: desc}
	p.surfaces = append(p.surfaces, s)
	return s, nil
}

func (p *fakeProvider) Upload(surface SurfaceHandle, rect Rect, img image.Image) error {
	if p.uploadErr != nil {
		return p.uploadErr
	}
	p.uploads = append(p.uploads, fakeUpload{surface: surface.(*fakeSurface), rect: rect, img: img})
	return nil
}

func solidImage(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}
