package atlas

import (
	"fmt"
	"image"
)

// Size is a width/height pair in pixels.
type Size struct {
	W, H int
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool {
	return s.W > 0 && s.H > 0
}

// Area returns W*H.
func (s Size) Area() int {
	return s.W * s.H
}

// Fits reports whether s fits inside other.
func (s Size) Fits(other Size) bool {
	return s.W <= other.W && s.H <= other.H
}

// String returns a string representation of the size.
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

// Point converts the size to an image.Point.
func (s Size) Point() image.Point {
	return image.Pt(s.W, s.H)
}

// Rect is an axis-aligned rectangle within a page, in pixels.
type Rect struct {
	X, Y int
	W, H int
}

// RectFromImage converts an image.Rectangle to a Rect.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Image converts the rectangle to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Size returns the rectangle dimensions.
func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

// Area returns W*H.
func (r Rect) Area() int {
	return r.W * r.H
}

// IsValid returns true if the rectangle has positive dimensions.
func (r Rect) IsValid() bool {
	return r.W > 0 && r.H > 0
}

// Contains returns true if the point (x, y) is inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// In reports whether r lies entirely inside a page of the given size.
func (r Rect) In(page Size) bool {
	return r.X >= 0 && r.Y >= 0 && r.X+r.W <= page.W && r.Y+r.H <= page.H
}

// Overlaps reports whether r and o share a non-empty area.
func (r Rect) Overlaps(o Rect) bool {
	return r.Image().Overlaps(o.Image())
}

// Inset shrinks the rectangle by n pixels on every side.
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, W: r.W - 2*n, H: r.H - 2*n}
}

// UV returns normalized texture coordinates of r within a page of the given size.
func (r Rect) UV(page Size) (u0, v0, u1, v1 float32) {
	if !page.Valid() {
		return 0, 0, 0, 0
	}
	w, h := float32(page.W), float32(page.H)
	return float32(r.X) / w, float32(r.Y) / h, float32(r.X+r.W) / w, float32(r.Y+r.H) / h
}

// String returns a string representation of the rectangle.
func (r Rect) String() string {
	return fmt.Sprintf("Rect(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}
