// Package glyphatlas rasterizes the glyphs of one font face at one size into
// an atlas.Allocator.
//
// Glyphs are keyed by glyph id, so runes that map to the same glyph share a
// single atlas entry. Glyphs without ink (spaces) are measured but never
// allocated. With WithCapacity, or when the allocator reports
// atlas.ErrPageLimit, the least recently used glyphs are evicted.
//
//	c, err := glyphatlas.New(a, goregular.TTF, 18)
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	g, err := c.Glyph('A')
//	page, rect, _ := a.Locate(g.ID)
package glyphatlas

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	gotext "github.com/go-text/typesetting/font"
	"github.com/gogpu/atlas"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// Errors returned by the cache.
var (
	// ErrNoGlyph is returned when the font has no glyph for a rune.
	ErrNoGlyph = errors.New("glyphatlas: font has no glyph for rune")

	// ErrNotCached is returned by Release for a rune that is not cached.
	ErrNotCached = errors.New("glyphatlas: rune not cached")

	// ErrInvalidSize is returned by New for a non-positive font size.
	ErrInvalidSize = errors.New("glyphatlas: font size must be positive")
)

// Glyph is a cached glyph.
type Glyph struct {
	// GID is the glyph id in the font.
	GID gotext.GID

	// ID is the atlas entry holding the glyph mask. Zero for empty glyphs.
	ID atlas.ID

	// Bounds is the mask rectangle relative to the pen position on the
	// baseline, in pixels.
	Bounds image.Rectangle

	// Advance is the horizontal advance in pixels.
	Advance float64
}

// Empty reports whether the glyph has no ink and no atlas entry.
func (g Glyph) Empty() bool {
	return g.ID == 0
}

// Option configures a Cache.
type Option func(*Cache)

// WithSampling sets the sampling mode of glyph pages.
// Default: atlas.SamplingLinear.
func WithSampling(m atlas.SamplingMode) Option {
	return func(c *Cache) {
		c.sampling = m
	}
}

// WithCapacity bounds the number of glyphs holding atlas entries. Zero
// means unlimited.
// Default: 0.
func WithCapacity(n int) Option {
	return func(c *Cache) {
		c.capacity = n
	}
}

// WithHinting sets the rasterizer hinting.
// Default: font.HintingFull.
func WithHinting(h font.Hinting) Option {
	return func(c *Cache) {
		c.hinting = h
	}
}

// Cache maps runes to glyph masks stored in an atlas.
//
// Cache is not safe for concurrent use; it shares the single-owner
// contract of the allocator it writes into.
type Cache struct {
	alloc    *atlas.Allocator
	sampling atlas.SamplingMode
	hinting  font.Hinting
	size     float64
	capacity int

	evictions int

	face   *gotext.Face
	raster font.Face

	runes  map[rune]gotext.GID
	glyphs map[gotext.GID]*cached
	lru    lruList[gotext.GID]
}

type cached struct {
	glyph Glyph
	refs  int
	node  *lruNode[gotext.GID] // nil for empty glyphs
}

// New parses ttf and creates a cache rendering it at size pixels per em.
// The allocator must have a surface provider.
func New(alloc *atlas.Allocator, ttf []byte, size float64, opts ...Option) (*Cache, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidSize, size)
	}

	c := &Cache{
		alloc:    alloc,
		sampling: atlas.SamplingLinear,
		hinting:  font.HintingFull,
		size:     size,
		runes:    make(map[rune]gotext.GID),
		glyphs:   make(map[gotext.GID]*cached),
	}
	for _, opt := range opts {
		opt(c)
	}

	face, err := gotext.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("glyphatlas: parse font: %w", err)
	}
	c.face = face

	otFont, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("glyphatlas: parse font: %w", err)
	}
	c.raster, err = opentype.NewFace(otFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: c.hinting,
	})
	if err != nil {
		return nil, fmt.Errorf("glyphatlas: create face: %w", err)
	}
	return c, nil
}

// Size returns the font size in pixels per em.
func (c *Cache) Size() float64 {
	return c.size
}

// Len returns the number of cached glyphs, empty ones included.
func (c *Cache) Len() int {
	return len(c.glyphs)
}

// Evictions returns how many glyphs were evicted so far.
func (c *Cache) Evictions() int {
	return c.evictions
}

// Glyph returns the cached glyph for r, rasterizing and uploading it on
// first use. The returned ID stays valid until r is released or evicted.
func (c *Cache) Glyph(r rune) (Glyph, error) {
	if gid, ok := c.runes[r]; ok {
		e := c.glyphs[gid]
		c.lru.Touch(e.node)
		return e.glyph, nil
	}

	gid, ok := c.face.NominalGlyph(r)
	if !ok {
		return Glyph{}, fmt.Errorf("%w: %U", ErrNoGlyph, r)
	}
	if e, ok := c.glyphs[gid]; ok {
		e.refs++
		c.runes[r] = gid
		c.lru.Touch(e.node)
		return e.glyph, nil
	}

	g, err := c.rasterize(r, gid)
	if err != nil {
		return Glyph{}, err
	}

	e := &cached{glyph: g, refs: 1}
	if !g.Empty() {
		e.node = c.lru.PushFront(gid)
	}
	c.glyphs[gid] = e
	c.runes[r] = gid

	for c.capacity > 0 && c.lru.Len() > c.capacity {
		if err := c.evictOldest(); err != nil {
			return g, err
		}
	}
	return g, nil
}

// evictOldest destroys the least recently used glyph and forgets every rune
// mapping to it.
func (c *Cache) evictOldest() error {
	gid, ok := c.lru.RemoveOldest()
	if !ok {
		return nil
	}
	e := c.glyphs[gid]
	delete(c.glyphs, gid)
	for r, g := range c.runes {
		if g == gid {
			delete(c.runes, r)
		}
	}
	c.evictions++

	atlas.Logger().Debug("glyphatlas: glyph evicted",
		"gid", uint32(gid),
		"id", uint64(e.glyph.ID))
	return c.alloc.Destroy(e.glyph.ID)
}

// store uploads mask, evicting old glyphs while the allocator is out of
// pages.
func (c *Cache) store(mask *image.Alpha) (atlas.ID, error) {
	for {
		id, err := c.alloc.CreateFromImage(mask, c.sampling)
		if err == nil {
			return id, nil
		}

		var upErr *atlas.UploadError
		if errors.As(err, &upErr) {
			_ = c.alloc.Destroy(id)
			return 0, err
		}
		if !errors.Is(err, atlas.ErrPageLimit) || c.lru.Len() == 0 {
			return 0, err
		}
		if err := c.evictOldest(); err != nil {
			return 0, err
		}
	}
}

func (c *Cache) rasterize(r rune, gid gotext.GID) (Glyph, error) {
	bounds, advance, ok := c.raster.GlyphBounds(r)
	if !ok {
		return Glyph{}, fmt.Errorf("%w: %U", ErrNoGlyph, r)
	}

	g := Glyph{
		GID:     gid,
		Advance: fixedToFloat64(advance),
		Bounds: image.Rect(
			bounds.Min.X.Floor(),
			bounds.Min.Y.Floor(),
			bounds.Max.X.Ceil(),
			bounds.Max.Y.Ceil(),
		),
	}
	if g.Bounds.Empty() {
		g.Bounds = image.Rectangle{}
		return g, nil
	}

	mask := image.NewAlpha(g.Bounds)
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.White,
		Face: c.raster,
		Dot:  fixed.Point26_6{},
	}
	d.DrawString(string(r))

	id, err := c.store(mask)
	if err != nil {
		return Glyph{}, fmt.Errorf("glyphatlas: store %U: %w", r, err)
	}
	g.ID = id

	atlas.Logger().Debug("glyphatlas: glyph cached",
		"rune", string(r),
		"gid", uint32(gid),
		"id", uint64(id))
	return g, nil
}

// Preload caches every rune of s after NFC normalization. It stops at the
// first error.
func (c *Cache) Preload(s string) error {
	for _, r := range norm.NFC.String(s) {
		if _, err := c.Glyph(r); err != nil {
			return err
		}
	}
	return nil
}

// Release forgets r. The atlas entry is destroyed once no cached rune maps
// to its glyph.
func (c *Cache) Release(r rune) error {
	gid, ok := c.runes[r]
	if !ok {
		return fmt.Errorf("%w: %U", ErrNotCached, r)
	}
	delete(c.runes, r)

	e := c.glyphs[gid]
	e.refs--
	if e.refs > 0 {
		return nil
	}
	delete(c.glyphs, gid)
	c.lru.Remove(e.node)

	if e.glyph.Empty() {
		return nil
	}
	return c.alloc.Destroy(e.glyph.ID)
}

// Close releases every cached glyph and the rasterizer face.
func (c *Cache) Close() error {
	var errs []error
	for gid, e := range c.glyphs {
		if !e.glyph.Empty() {
			if err := c.alloc.Destroy(e.glyph.ID); err != nil {
				errs = append(errs, err)
			}
		}
		delete(c.glyphs, gid)
	}
	clear(c.runes)
	c.lru.Clear()

	if err := c.raster.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func fixedToFloat64(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
