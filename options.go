package atlas

// Option configures an Allocator during creation.
//
// Example:
//
//	// Geometry only, no backing surfaces
//	a, err := atlas.New(atlas.DefaultConfig())
//
//	// GPU pages through an injected provider
//	a, err := atlas.New(cfg, atlas.WithProvider(provider))
type Option func(*options)

// options holds optional dependencies for Allocator creation.
type options struct {
	provider SurfaceProvider
	pageSize Size
	maxPages int
	limited  bool
}

// WithProvider sets the backing surface provider. The allocator asks it for
// one surface per page and uploads CreateFromImage pixels through it.
//
// Without a provider pages carry a nil SurfaceHandle and CreateFromImage
// returns ErrNoProvider.
func WithProvider(p SurfaceProvider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithPageSize overrides Config.PageWidth and Config.PageHeight.
func WithPageSize(width, height int) Option {
	return func(o *options) {
		o.pageSize = Size{W: width, H: height}
	}
}

// WithMaxPages overrides Config.MaxPages. Zero means unlimited.
func WithMaxPages(n int) Option {
	return func(o *options) {
		o.maxPages = n
		o.limited = true
	}
}

// apply copies the overrides carried by o into c.
func (o *options) apply(c *Config) {
	if o.pageSize != (Size{}) {
		c.PageWidth = o.pageSize.W
		c.PageHeight = o.pageSize.H
	}
	if o.limited {
		c.MaxPages = o.maxPages
	}
}
