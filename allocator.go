package atlas

import (
	"fmt"
	"image"
	"slices"
)

// ID identifies an allocation. IDs are issued from a monotonically
// increasing counter and never reused; zero is never issued.
type ID uint64

// Entry records one live allocation.
type Entry struct {
	// ID is the allocation id.
	ID ID

	// Page is the index of the owning page.
	Page int

	// Rect is the reserved footprint (the quantized size).
	Rect Rect

	// Content is where the resource pixels go: Requested size, inset by
	// Border/2 inside Rect.
	Content Rect

	// Requested is the size the caller asked for.
	Requested Size

	// Sampling is the sampling mode of the owning page.
	Sampling SamplingMode
}

// Allocator places rectangular resources into fixed-size pages.
//
// Pages are kept in creation order and matched by sampling mode; placement is
// first-fit over pages and best-area-fit inside a page. Space is reclaimed
// only by Destroy.
//
// Allocator is not safe for concurrent use. Wrap it in a SyncAllocator when
// several goroutines share it.
type Allocator struct {
	config   Config
	provider SurfaceProvider

	pages   []*Page
	entries map[ID]Entry
	nextID  ID
}

// New creates an allocator. Options are applied on top of config, then the
// result is validated and fixed for the allocator's lifetime.
func New(config Config, opts ...Option) (*Allocator, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	o.apply(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Allocator{
		config:   config,
		provider: o.provider,
		pages:    make([]*Page, 0, 4),
		entries:  make(map[ID]Entry),
	}, nil
}

// Config returns the allocator configuration.
func (a *Allocator) Config() Config {
	return a.config
}

// Provider returns the surface provider, or nil.
func (a *Allocator) Provider() SurfaceProvider {
	return a.provider
}

// Create reserves space for a size resource sampled with the given mode.
//
// It returns ErrInvalidSize for non-positive dimensions, ErrOversizedRequest
// when the quantized size does not fit in an empty page, ErrPageLimit when
// a new page is needed but Config.MaxPages is reached, and a *SurfaceError
// when the provider cannot back a new page.
func (a *Allocator) Create(size Size, sampling SamplingMode) (ID, error) {
	e, err := a.place(size, sampling)
	if err != nil {
		return 0, err
	}
	return e.ID, nil
}

// CreateFromImage reserves space for img and uploads its pixels into the
// entry's content rectangle through the surface provider.
//
// Placement errors are the same as for Create. If the upload fails the
// allocation stays committed: the returned ID is valid and the error is an
// *UploadError wrapping the provider's error. Call Destroy to roll back.
func (a *Allocator) CreateFromImage(img image.Image, sampling SamplingMode) (ID, error) {
	if img == nil {
		return 0, ErrNilImage
	}
	if a.provider == nil {
		return 0, ErrNoProvider
	}

	b := img.Bounds()
	e, err := a.place(Size{W: b.Dx(), H: b.Dy()}, sampling)
	if err != nil {
		return 0, err
	}

	page := a.pages[e.Page]
	if err := a.provider.Upload(page.surface, e.Content, img); err != nil {
		return e.ID, &UploadError{ID: e.ID, Page: e.Page, Err: err}
	}
	return e.ID, nil
}

// place runs quantization, page selection and bookkeeping.
func (a *Allocator) place(size Size, sampling SamplingMode) (Entry, error) {
	if !size.Valid() {
		return Entry{}, fmt.Errorf("%w: %s", ErrInvalidSize, size)
	}

	pageSize := a.config.PageSize()
	footprint := a.config.Quantize(size)
	if !footprint.Fits(pageSize) {
		return Entry{}, fmt.Errorf("%w: %s quantized to %s, page is %s",
			ErrOversizedRequest, size, footprint, pageSize)
	}

	for _, p := range a.pages {
		if p.sampling != sampling {
			continue
		}
		if r, ok := p.insert(footprint); ok {
			return a.commit(p, r, size), nil
		}
	}

	p, r, err := a.addPage(footprint, sampling)
	if err != nil {
		return Entry{}, err
	}
	return a.commit(p, r, size), nil
}

// addPage creates a page and reserves footprint on it. The provider is asked
// for a surface only after that first insert succeeds; a page that rejects
// it is discarded.
func (a *Allocator) addPage(footprint Size, sampling SamplingMode) (*Page, Rect, error) {
	if a.config.MaxPages > 0 && len(a.pages) >= a.config.MaxPages {
		return nil, Rect{}, fmt.Errorf("%w: %d pages", ErrPageLimit, a.config.MaxPages)
	}

	p := newPage(len(a.pages), a.config.PageSize(), sampling)
	r, ok := p.insert(footprint)
	if !ok {
		return nil, Rect{}, fmt.Errorf("%w: %s, page is %s", ErrOversizedRequest, footprint, p.size)
	}

	if a.provider != nil {
		surface, err := a.provider.CreateSurface(SurfaceDescriptor{
			Page:     p.index,
			Size:     p.size,
			Sampling: sampling,
			Label:    p.label(),
		})
		if err != nil {
			return nil, Rect{}, &SurfaceError{Page: p.index, Err: err}
		}
		p.surface = surface
	}

	a.pages = append(a.pages, p)
	Logger().Debug("atlas: page created",
		"page", p.index,
		"size", p.size.String(),
		"sampling", sampling.String())
	return p, r, nil
}

func (a *Allocator) commit(p *Page, r Rect, requested Size) Entry {
	a.nextID++
	inset := a.config.contentInset()
	e := Entry{
		ID:        a.nextID,
		Page:      p.index,
		Rect:      r,
		Content:   Rect{X: r.X + inset, Y: r.Y + inset, W: requested.W, H: requested.H},
		Requested: requested,
		Sampling:  p.sampling,
	}
	a.entries[e.ID] = e
	return e
}

// Destroy releases the space of id back to its page.
//
// It returns ErrEntryNotFound if id is unknown or already destroyed, and
// ErrUntracked if the page does not hold the entry's footprint. The entry is
// forgotten in both cases.
func (a *Allocator) Destroy(id ID) error {
	e, ok := a.entries[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrEntryNotFound, id)
	}

	delete(a.entries, id)
	if !a.pages[e.Page].release(e.Rect) {
		return fmt.Errorf("%w: entry %d at %s on page %d", ErrUntracked, id, e.Rect, e.Page)
	}
	return nil
}

// Locate returns the page and the reserved footprint of id.
func (a *Allocator) Locate(id ID) (*Page, Rect, error) {
	e, ok := a.entries[id]
	if !ok {
		return nil, Rect{}, fmt.Errorf("%w: %d", ErrEntryNotFound, id)
	}
	return a.pages[e.Page], e.Rect, nil
}

// Entry returns the bookkeeping record of id.
func (a *Allocator) Entry(id ID) (Entry, bool) {
	e, ok := a.entries[id]
	return e, ok
}

// Len returns the number of live entries.
func (a *Allocator) Len() int {
	return len(a.entries)
}

// Each calls fn for every live entry in ascending ID order until fn
// returns false. fn must not create or destroy entries.
func (a *Allocator) Each(fn func(Entry) bool) {
	ids := make([]ID, 0, len(a.entries))
	for id := range a.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		if !fn(a.entries[id]) {
			return
		}
	}
}

// PageCount returns the number of pages created so far.
func (a *Allocator) PageCount() int {
	return len(a.pages)
}

// Page returns the page at index i, or nil if i is out of range.
func (a *Allocator) Page(i int) *Page {
	if i < 0 || i >= len(a.pages) {
		return nil
	}
	return a.pages[i]
}

// Pages returns the pages in creation order.
func (a *Allocator) Pages() []*Page {
	return slices.Clone(a.pages)
}

// PageInfos returns information about all pages.
func (a *Allocator) PageInfos() []PageInfo {
	infos := make([]PageInfo, len(a.pages))
	for i, p := range a.pages {
		infos[i] = p.info()
	}
	return infos
}

// Stats summarizes allocator usage.
type Stats struct {
	Pages       int
	Entries     int
	UsedArea    int
	TotalArea   int
	Utilization float64
}

// Stats returns usage statistics across all pages.
func (a *Allocator) Stats() Stats {
	s := Stats{
		Pages:   len(a.pages),
		Entries: len(a.entries),
	}
	for _, p := range a.pages {
		s.UsedArea += p.packer.UsedArea()
		s.TotalArea += p.packer.TotalArea()
	}
	if s.TotalArea > 0 {
		s.Utilization = float64(s.UsedArea) / float64(s.TotalArea)
	}
	return s
}
