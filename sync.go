package atlas

import (
	"image"
	"sync"
)

// SyncAllocator serializes access to an Allocator with a single mutex.
//
// Pages returned by Locate may be inspected concurrently only through their
// immutable accessors (Index, Size, Sampling, Surface).
type SyncAllocator struct {
	mu sync.Mutex
	a  *Allocator
}

// NewSync wraps a for concurrent use. a must not be used directly afterwards.
func NewSync(a *Allocator) *SyncAllocator {
	return &SyncAllocator{a: a}
}

// Create is Allocator.Create under the lock.
func (s *SyncAllocator) Create(size Size, sampling SamplingMode) (ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Create(size, sampling)
}

// CreateFromImage is Allocator.CreateFromImage under the lock.
// The provider upload runs while the lock is held.
func (s *SyncAllocator) CreateFromImage(img image.Image, sampling SamplingMode) (ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.CreateFromImage(img, sampling)
}

// Destroy is Allocator.Destroy under the lock.
func (s *SyncAllocator) Destroy(id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Destroy(id)
}

// Locate is Allocator.Locate under the lock.
func (s *SyncAllocator) Locate(id ID) (*Page, Rect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Locate(id)
}

// Entry is Allocator.Entry under the lock.
func (s *SyncAllocator) Entry(id ID) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Entry(id)
}

// Len is Allocator.Len under the lock.
func (s *SyncAllocator) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Len()
}

// Stats is Allocator.Stats under the lock.
func (s *SyncAllocator) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Stats()
}

// PageInfos is Allocator.PageInfos under the lock.
func (s *SyncAllocator) PageInfos() []PageInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.PageInfos()
}

// Do runs fn with exclusive access to the wrapped allocator, for batches of
// operations that must not interleave with other goroutines.
func (s *SyncAllocator) Do(fn func(a *Allocator)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.a)
}
