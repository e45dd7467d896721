package atlas

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// SamplingMode tags how the pixels of a resource are meant to be filtered.
// Resources with different modes never share a page. The predefined modes
// cover the common cases; callers may define additional values.
type SamplingMode uint8

const (
	// SamplingLinear is bilinear filtering without mipmaps (glyphs, UI icons).
	SamplingLinear SamplingMode = iota

	// SamplingNearest is point sampling (pixel art, bitmap fonts).
	SamplingNearest

	// SamplingMipmapped is trilinear filtering over a mip chain (image tiles).
	SamplingMipmapped
)

// String returns a human-readable name for the mode.
func (m SamplingMode) String() string {
	switch m {
	case SamplingLinear:
		return "linear"
	case SamplingNearest:
		return "nearest"
	case SamplingMipmapped:
		return "mipmapped"
	default:
		return fmt.Sprintf("SamplingMode(%d)", uint8(m))
	}
}

// FilterMode returns the texture filter for magnification and minification.
// Unknown modes map to linear filtering.
func (m SamplingMode) FilterMode() gputypes.FilterMode {
	if m == SamplingNearest {
		return gputypes.FilterModeNearest
	}
	return gputypes.FilterModeLinear
}

// Mipmapped reports whether pages of this mode carry a mip chain.
func (m SamplingMode) Mipmapped() bool {
	return m == SamplingMipmapped
}
