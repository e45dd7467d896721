package atlas

import (
	"fmt"

	"github.com/gogpu/atlas/internal/guillotine"
)

// Page is one fixed-size backing surface and the free-space index that
// tracks its allocations. Pages are owned by an Allocator and are never
// destroyed once populated.
type Page struct {
	index    int
	size     Size
	sampling SamplingMode
	packer   *guillotine.Packer
	surface  SurfaceHandle
	entries  int
}

func newPage(index int, size Size, sampling SamplingMode) *Page {
	return &Page{
		index:    index,
		size:     size,
		sampling: sampling,
		packer:   guillotine.New(size.W, size.H),
	}
}

// Index returns the position of the page in creation order.
func (p *Page) Index() int {
	return p.index
}

// Size returns the page size.
func (p *Page) Size() Size {
	return p.size
}

// Sampling returns the sampling mode of every resource on the page.
func (p *Page) Sampling() SamplingMode {
	return p.sampling
}

// Surface returns the opaque backing surface handle, or nil when the
// allocator has no provider.
func (p *Page) Surface() SurfaceHandle {
	return p.surface
}

// EntryCount returns the number of live entries on the page.
func (p *Page) EntryCount() int {
	return p.entries
}

// Utilization returns the fraction of the page reserved by live entries.
func (p *Page) Utilization() float64 {
	return p.packer.Utilization()
}

// UsedArea returns the area reserved by live entries.
func (p *Page) UsedArea() int {
	return p.packer.UsedArea()
}

// FreeRects returns the free rectangles of the page.
func (p *Page) FreeRects() []Rect {
	free := p.packer.FreeRects()
	out := make([]Rect, len(free))
	for i, r := range free {
		out[i] = RectFromImage(r)
	}
	return out
}

// label returns the debug label used for the page surface.
func (p *Page) label() string {
	return fmt.Sprintf("atlas_page_%d_%s", p.index, p.sampling)
}

// insert reserves size on the page.
func (p *Page) insert(size Size) (Rect, bool) {
	r, ok := p.packer.Insert(size.Point())
	if !ok {
		return Rect{}, false
	}
	p.entries++
	return RectFromImage(r), true
}

// release returns r to the page.
func (p *Page) release(r Rect) bool {
	if !p.packer.Release(r.Image()) {
		return false
	}
	p.entries--
	return true
}

// PageInfo contains information about a single page.
type PageInfo struct {
	Index       int
	Size        Size
	Sampling    SamplingMode
	EntryCount  int
	UsedArea    int
	FreeRects   int
	Utilization float64
}

func (p *Page) info() PageInfo {
	return PageInfo{
		Index:       p.index,
		Size:        p.size,
		Sampling:    p.sampling,
		EntryCount:  p.entries,
		UsedArea:    p.packer.UsedArea(),
		FreeRects:   len(p.packer.FreeRects()),
		Utilization: p.packer.Utilization(),
	}
}
