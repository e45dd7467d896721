// Package guillotine implements the free-space index of a single atlas page.
//
// A Packer tracks free and used rectangles inside one fixed-size area.
// Insert picks the free rectangle with the smallest area that can hold the
// request (best area fit), places the request in its top-left corner and
// splits the L-shaped leftover with one straight guillotine cut. Release
// returns a used rectangle to the free set and merges free rectangles that
// share a full edge.
//
// The free and used sets are always disjoint and both lie inside the
// packer bounds. Release does not compact: a page can stay fragmented when
// freed space is not edge-adjacent.
//
// Packer is not safe for concurrent use.
package guillotine

import (
	"image"
	"sort"
)

// freeRect is a free rectangle plus the sequence number of its creation.
// The sequence number makes best-fit selection stable when two candidates
// have the same area and width.
type freeRect struct {
	r   image.Rectangle
	seq uint64
}

// Packer is a guillotine rectangle packer for one page.
type Packer struct {
	bounds image.Rectangle
	free   []freeRect
	used   map[image.Rectangle]struct{}

	nextSeq  uint64
	usedArea int
}

// New creates a packer covering a width x height area whose origin is (0, 0).
// Non-positive dimensions produce a packer that accepts nothing.
func New(width, height int) *Packer {
	p := &Packer{
		bounds: image.Rect(0, 0, max(width, 0), max(height, 0)),
		used:   make(map[image.Rectangle]struct{}),
	}
	p.Reset()
	return p
}

// Reset drops every allocation, leaving one free rectangle equal to the bounds.
func (p *Packer) Reset() {
	p.free = p.free[:0]
	clear(p.used)
	p.usedArea = 0
	if !p.bounds.Empty() {
		p.addFree(p.bounds)
	}
}

// Bounds returns the area managed by the packer.
func (p *Packer) Bounds() image.Rectangle {
	return p.bounds
}

// Insert reserves a size.X x size.Y rectangle.
// It returns false when no free rectangle is large enough.
func (p *Packer) Insert(size image.Point) (image.Rectangle, bool) {
	if size.X <= 0 || size.Y <= 0 {
		return image.Rectangle{}, false
	}

	best := p.bestFit(size)
	if best < 0 {
		return image.Rectangle{}, false
	}

	chosen := p.free[best].r
	p.removeFree(best)

	placed := image.Rectangle{Min: chosen.Min, Max: chosen.Min.Add(size)}
	right, bottom := split(chosen, size)
	if !right.Empty() {
		p.addFree(right)
	}
	if !bottom.Empty() {
		p.addFree(bottom)
	}

	p.used[placed] = struct{}{}
	p.usedArea += area(placed)
	return placed, true
}

// bestFit returns the index of the free rectangle with the smallest area
// that can contain size, or -1. Ties go to the narrower rectangle, then to
// the one created first.
func (p *Packer) bestFit(size image.Point) int {
	best := -1
	for i, f := range p.free {
		if f.r.Dx() < size.X || f.r.Dy() < size.Y {
			continue
		}
		if best < 0 || less(f, p.free[best]) {
			best = i
		}
	}
	return best
}

func less(a, b freeRect) bool {
	if aa, ba := area(a.r), area(b.r); aa != ba {
		return aa < ba
	}
	if a.r.Dx() != b.r.Dx() {
		return a.r.Dx() < b.r.Dx()
	}
	return a.seq < b.seq
}

// split cuts the leftover of placing size at the top-left of space.
//
// A horizontal cut keeps the bottom strip at full width:
//
//	+------+-------+
//	|placed| right |
//	+------+-------+
//	|    bottom    |
//	+--------------+
//
// A vertical cut keeps the right strip at full height. The cut whose
// largest leftover is bigger wins; ties go to the horizontal cut.
func split(space image.Rectangle, size image.Point) (right, bottom image.Rectangle) {
	x0, y0 := space.Min.X, space.Min.Y
	px, py := x0+size.X, y0+size.Y

	hRight := image.Rect(px, y0, space.Max.X, py)
	hBottom := image.Rect(x0, py, space.Max.X, space.Max.Y)

	vRight := image.Rect(px, y0, space.Max.X, space.Max.Y)
	vBottom := image.Rect(x0, py, px, space.Max.Y)

	if max(area(vRight), area(vBottom)) > max(area(hRight), area(hBottom)) {
		return vRight, vBottom
	}
	return hRight, hBottom
}

// Release returns a previously inserted rectangle to the free set and
// coalesces adjacent free rectangles. It returns false if r is not a live
// allocation of this packer.
func (p *Packer) Release(r image.Rectangle) bool {
	if _, ok := p.used[r]; !ok {
		return false
	}
	delete(p.used, r)
	p.usedArea -= area(r)

	p.addFree(r)
	p.coalesce()
	return true
}

// coalesce merges pairs of free rectangles that share a full edge until no
// pair qualifies. The merged rectangle keeps the older sequence number.
func (p *Packer) coalesce() {
	for merged := true; merged; {
		merged = false
		for i := 0; i < len(p.free) && !merged; i++ {
			for j := i + 1; j < len(p.free); j++ {
				u, ok := join(p.free[i].r, p.free[j].r)
				if !ok {
					continue
				}
				p.free[i] = freeRect{r: u, seq: min(p.free[i].seq, p.free[j].seq)}
				p.removeFree(j)
				merged = true
				break
			}
		}
	}
}

// join returns the union of a and b when they share a full edge.
func join(a, b image.Rectangle) (image.Rectangle, bool) {
	sameRows := a.Min.Y == b.Min.Y && a.Max.Y == b.Max.Y
	if sameRows && (a.Max.X == b.Min.X || b.Max.X == a.Min.X) {
		return a.Union(b), true
	}
	sameCols := a.Min.X == b.Min.X && a.Max.X == b.Max.X
	if sameCols && (a.Max.Y == b.Min.Y || b.Max.Y == a.Min.Y) {
		return a.Union(b), true
	}
	return image.Rectangle{}, false
}

func (p *Packer) addFree(r image.Rectangle) {
	p.free = append(p.free, freeRect{r: r, seq: p.nextSeq})
	p.nextSeq++
}

// removeFree deletes free[i] preserving the order of the rest.
func (p *Packer) removeFree(i int) {
	p.free = append(p.free[:i], p.free[i+1:]...)
}

// CanFit reports whether Insert(size) would succeed without reserving space.
func (p *Packer) CanFit(size image.Point) bool {
	if size.X <= 0 || size.Y <= 0 {
		return false
	}
	return p.bestFit(size) >= 0
}

// IsUsed reports whether r is a live allocation.
func (p *Packer) IsUsed(r image.Rectangle) bool {
	_, ok := p.used[r]
	return ok
}

// Len returns the number of live allocations.
func (p *Packer) Len() int {
	return len(p.used)
}

// Empty reports whether nothing is allocated.
func (p *Packer) Empty() bool {
	return len(p.used) == 0
}

// UsedArea returns the total area of live allocations.
func (p *Packer) UsedArea() int {
	return p.usedArea
}

// FreeArea returns the total area of the free rectangles.
func (p *Packer) FreeArea() int {
	total := 0
	for _, f := range p.free {
		total += area(f.r)
	}
	return total
}

// TotalArea returns the area of the packer bounds.
func (p *Packer) TotalArea() int {
	return area(p.bounds)
}

// Utilization returns the fraction of the bounds in use (0.0 to 1.0).
func (p *Packer) Utilization() float64 {
	total := p.TotalArea()
	if total == 0 {
		return 0
	}
	return float64(p.usedArea) / float64(total)
}

// FreeRects returns a copy of the free rectangles in creation order.
func (p *Packer) FreeRects() []image.Rectangle {
	out := make([]image.Rectangle, len(p.free))
	for i, f := range p.free {
		out[i] = f.r
	}
	return out
}

// UsedRects returns the live allocations sorted top-to-bottom, left-to-right.
func (p *Packer) UsedRects() []image.Rectangle {
	out := make([]image.Rectangle, 0, len(p.used))
	for r := range p.used {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Min.Y != out[j].Min.Y {
			return out[i].Min.Y < out[j].Min.Y
		}
		return out[i].Min.X < out[j].Min.X
	})
	return out
}

func area(r image.Rectangle) int {
	return r.Dx() * r.Dy()
}
