package atlas

import "math/bits"

// Default configuration constants.
const (
	// DefaultPageSize is the default page dimension (1024x1024).
	DefaultPageSize = 1024

	// DefaultBorder is the padding added to each requested dimension before
	// rounding, so that filtering never samples a neighbouring resource.
	DefaultBorder = 2

	// DefaultMinSize is the smallest footprint dimension handed to the packer.
	DefaultMinSize = 16

	// MaxPageDimension is the largest accepted page width or height.
	MaxPageDimension = 16384
)

// Config holds allocator configuration. It is fixed at construction and
// shared by every page the allocator creates.
type Config struct {
	// PageWidth is the width of every page in pixels.
	// Default: 1024
	PageWidth int

	// PageHeight is the height of every page in pixels.
	// Default: 1024
	PageHeight int

	// Border is added to each requested dimension before rounding up to a
	// power of two. Uploaded pixels are inset by Border/2.
	// Default: 2
	Border int

	// MinSize is the floor applied to each quantized dimension.
	// Default: 16
	MinSize int

	// MaxPages limits the number of pages. Zero means unlimited.
	// Default: 0
	MaxPages int
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		PageWidth:  DefaultPageSize,
		PageHeight: DefaultPageSize,
		Border:     DefaultBorder,
		MinSize:    DefaultMinSize,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.PageWidth < 1 {
		return &ConfigError{Field: "PageWidth", Reason: "must be positive"}
	}
	if c.PageWidth > MaxPageDimension {
		return &ConfigError{Field: "PageWidth", Reason: "must be at most 16384"}
	}
	if c.PageHeight < 1 {
		return &ConfigError{Field: "PageHeight", Reason: "must be positive"}
	}
	if c.PageHeight > MaxPageDimension {
		return &ConfigError{Field: "PageHeight", Reason: "must be at most 16384"}
	}
	if c.Border < 0 {
		return &ConfigError{Field: "Border", Reason: "must be non-negative"}
	}
	if c.Border >= min(c.PageWidth, c.PageHeight) {
		return &ConfigError{Field: "Border", Reason: "must be smaller than the page"}
	}
	if c.MinSize < 1 {
		return &ConfigError{Field: "MinSize", Reason: "must be at least 1"}
	}
	if c.MinSize > min(c.PageWidth, c.PageHeight) {
		return &ConfigError{Field: "MinSize", Reason: "must not exceed the page"}
	}
	if c.MaxPages < 0 {
		return &ConfigError{Field: "MaxPages", Reason: "must be non-negative"}
	}
	return nil
}

// PageSize returns the size shared by all pages.
func (c Config) PageSize() Size {
	return Size{W: c.PageWidth, H: c.PageHeight}
}

// Quantize returns the footprint reserved for a request of size s: each
// dimension is padded by Border, rounded up to the next power of two and
// raised to at least MinSize. Dimensions above MaxPageDimension are returned
// unpadded, so they never fit a page.
func (c Config) Quantize(s Size) Size {
	return Size{W: c.quantizeDim(s.W), H: c.quantizeDim(s.H)}
}

func (c Config) quantizeDim(d int) int {
	if d > MaxPageDimension {
		return d
	}
	return max(nextPow2(d+c.Border), c.MinSize)
}

// contentInset is the offset of uploaded pixels inside a footprint.
func (c Config) contentInset() int {
	return c.Border / 2
}

// nextPow2 returns the smallest power of two >= v. Values too large to
// round are returned unchanged; they exceed any valid page anyway.
func nextPow2(v int) int {
	if v <= 1 {
		return 1
	}
	if v > 1<<30 {
		return v
	}
	return 1 << bits.Len(uint(v-1))
}
