package guillotine

import (
	"image"
	"math/rand/v2"
	"testing"
)

func TestPacker_New(t *testing.T) {
	p := New(64, 64)

	free := p.FreeRects()
	if len(free) != 1 {
		t.Fatalf("expected 1 free rect, got %d", len(free))
	}
	if free[0] != image.Rect(0, 0, 64, 64) {
		t.Errorf("expected full-page free rect, got %v", free[0])
	}
	if !p.Empty() {
		t.Error("new packer should be empty")
	}
	if p.TotalArea() != 4096 {
		t.Errorf("TotalArea() = %d, want 4096", p.TotalArea())
	}
}

func TestPacker_InsertTopLeft(t *testing.T) {
	p := New(64, 64)

	r, ok := p.Insert(image.Pt(32, 32))
	if !ok {
		t.Fatal("failed to insert first rect")
	}
	if r != image.Rect(0, 0, 32, 32) {
		t.Errorf("expected (0,0)-(32,32), got %v", r)
	}
	if p.UsedArea() != 1024 {
		t.Errorf("UsedArea() = %d, want 1024", p.UsedArea())
	}
}

func TestPacker_SplitPrefersLargerLeftover(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		size       image.Point
		wantRight  image.Rectangle
		wantBottom image.Rectangle
	}{
		{
			// Tie: both cuts leave a 2048 strip, horizontal wins.
			name:       "square tie",
			w:          64,
			h:          64,
			size:       image.Pt(32, 32),
			wantRight:  image.Rect(32, 0, 64, 32),
			wantBottom: image.Rect(0, 32, 64, 64),
		},
		{
			// Narrow tall item: the vertical cut keeps a 48x64 strip.
			name:       "narrow item",
			w:          64,
			h:          64,
			size:       image.Pt(16, 48),
			wantRight:  image.Rect(16, 0, 64, 64),
			wantBottom: image.Rect(0, 48, 16, 64),
		},
		{
			// Wide short item: the horizontal cut keeps a 64x48 strip.
			name:       "wide item",
			w:          64,
			h:          64,
			size:       image.Pt(48, 16),
			wantRight:  image.Rect(48, 0, 64, 16),
			wantBottom: image.Rect(0, 16, 64, 64),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.w, tt.h)
			if _, ok := p.Insert(tt.size); !ok {
				t.Fatal("insert failed")
			}
			free := p.FreeRects()
			if len(free) != 2 {
				t.Fatalf("expected 2 free rects, got %v", free)
			}
			if free[0] != tt.wantRight {
				t.Errorf("right leftover = %v, want %v", free[0], tt.wantRight)
			}
			if free[1] != tt.wantBottom {
				t.Errorf("bottom leftover = %v, want %v", free[1], tt.wantBottom)
			}
		})
	}
}

func TestPacker_ExactFitLeavesNoFreeRects(t *testing.T) {
	p := New(32, 32)

	if _, ok := p.Insert(image.Pt(32, 32)); !ok {
		t.Fatal("exact fit failed")
	}
	if n := len(p.FreeRects()); n != 0 {
		t.Errorf("expected no free rects, got %d", n)
	}
	if _, ok := p.Insert(image.Pt(1, 1)); ok {
		t.Error("insert into a full packer should fail")
	}
}

func TestPacker_BestAreaFit(t *testing.T) {
	p := New(64, 64)

	// Leaves right (32,0)-(64,32) [1024] and bottom (0,32)-(64,64) [2048].
	if _, ok := p.Insert(image.Pt(32, 32)); !ok {
		t.Fatal("first insert failed")
	}

	r, ok := p.Insert(image.Pt(16, 16))
	if !ok {
		t.Fatal("second insert failed")
	}
	if r.Min != image.Pt(32, 0) {
		t.Errorf("expected smallest free rect at (32,0), got %v", r.Min)
	}
}

func TestPacker_TieBreakByWidthThenAge(t *testing.T) {
	p := New(64, 64)

	// Three free rects of equal area: one 32x16 and two 16x32.
	p.free = p.free[:0]
	p.addFree(image.Rect(0, 0, 32, 16))  // seq 1, wider
	p.addFree(image.Rect(32, 0, 48, 32)) // seq 2, narrower
	p.addFree(image.Rect(48, 0, 64, 32)) // seq 3, same as seq 2

	r, ok := p.Insert(image.Pt(8, 8))
	if !ok {
		t.Fatal("insert failed")
	}
	if r.Min != image.Pt(32, 0) {
		t.Errorf("expected narrower and older rect at (32,0), got %v", r.Min)
	}
}

func TestPacker_InsertTooLarge(t *testing.T) {
	p := New(64, 64)

	if _, ok := p.Insert(image.Pt(65, 10)); ok {
		t.Error("expected failure for width > bounds")
	}
	if _, ok := p.Insert(image.Pt(10, 65)); ok {
		t.Error("expected failure for height > bounds")
	}
	if p.CanFit(image.Pt(65, 65)) {
		t.Error("CanFit should be false for oversized request")
	}
}

func TestPacker_InsertInvalid(t *testing.T) {
	p := New(64, 64)

	for _, size := range []image.Point{{0, 10}, {10, 0}, {-1, 5}} {
		if _, ok := p.Insert(size); ok {
			t.Errorf("Insert(%v) should fail", size)
		}
	}
	if !p.Empty() {
		t.Error("failed inserts must not allocate")
	}
}

func TestPacker_ReleaseCoalescesToFullPage(t *testing.T) {
	p := New(64, 64)

	r, _ := p.Insert(image.Pt(32, 32))
	if !p.Release(r) {
		t.Fatal("release failed")
	}

	free := p.FreeRects()
	if len(free) != 1 || free[0] != image.Rect(0, 0, 64, 64) {
		t.Errorf("expected one full-page free rect, got %v", free)
	}
	if p.UsedArea() != 0 {
		t.Errorf("UsedArea() = %d, want 0", p.UsedArea())
	}
}

func TestPacker_ReleaseUnknown(t *testing.T) {
	p := New(64, 64)

	r, _ := p.Insert(image.Pt(16, 16))
	if p.Release(image.Rect(1, 1, 17, 17)) {
		t.Error("release of unknown rect should fail")
	}
	if !p.Release(r) {
		t.Error("release of live rect should succeed")
	}
	if p.Release(r) {
		t.Error("double release should fail")
	}
}

func TestPacker_ReuseAfterRelease(t *testing.T) {
	p := New(64, 64)

	var placed []image.Rectangle
	for {
		r, ok := p.Insert(image.Pt(16, 16))
		if !ok {
			break
		}
		placed = append(placed, r)
	}
	if len(placed) != 16 {
		t.Fatalf("expected 16 cells, got %d", len(placed))
	}

	p.Release(placed[5])
	r, ok := p.Insert(image.Pt(16, 16))
	if !ok {
		t.Fatal("expected freed cell to be reused")
	}
	if r != placed[5] {
		t.Errorf("expected reuse of %v, got %v", placed[5], r)
	}
}

func TestPacker_Reset(t *testing.T) {
	p := New(64, 64)

	p.Insert(image.Pt(20, 20))
	p.Insert(image.Pt(10, 30))
	p.Reset()

	if !p.Empty() {
		t.Error("expected empty packer after reset")
	}
	if p.Utilization() != 0 {
		t.Errorf("Utilization() = %f after reset, want 0", p.Utilization())
	}
	if len(p.FreeRects()) != 1 {
		t.Errorf("expected one free rect after reset, got %d", len(p.FreeRects()))
	}
}

func TestPacker_UsedRectsSorted(t *testing.T) {
	p := New(64, 64)

	a, _ := p.Insert(image.Pt(32, 32))
	b, _ := p.Insert(image.Pt(32, 32))
	c, _ := p.Insert(image.Pt(64, 32))

	got := p.UsedRects()
	want := []image.Rectangle{a, b, c}
	if len(got) != len(want) {
		t.Fatalf("UsedRects() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("UsedRects()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

// TestPacker_Churn runs random insert/release cycles and checks that the
// free and used sets stay disjoint and inside the bounds.
func TestPacker_Churn(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	p := New(256, 256)

	var live []image.Rectangle
	for step := 0; step < 2000; step++ {
		if len(live) > 0 && rng.IntN(3) == 0 {
			i := rng.IntN(len(live))
			if !p.Release(live[i]) {
				t.Fatalf("step %d: release of %v failed", step, live[i])
			}
			live = append(live[:i], live[i+1:]...)
		} else {
			size := image.Pt(1+rng.IntN(64), 1+rng.IntN(64))
			if r, ok := p.Insert(size); ok {
				if r.Size() != size {
					t.Fatalf("step %d: got size %v, want %v", step, r.Size(), size)
				}
				live = append(live, r)
			}
		}
		checkInvariants(t, p)
	}

	for _, r := range live {
		p.Release(r)
	}
	if p.FreeArea() != p.TotalArea() {
		t.Errorf("FreeArea() = %d after releasing everything, want %d", p.FreeArea(), p.TotalArea())
	}
}

func checkInvariants(t *testing.T, p *Packer) {
	t.Helper()

	all := append(p.FreeRects(), p.UsedRects()...)
	for i, a := range all {
		if a.Empty() {
			t.Fatalf("degenerate rect %v", a)
		}
		if !a.In(p.Bounds()) {
			t.Fatalf("rect %v outside bounds %v", a, p.Bounds())
		}
		for _, b := range all[i+1:] {
			if a.Overlaps(b) {
				t.Fatalf("rects overlap: %v and %v", a, b)
			}
		}
	}
	if p.UsedArea()+p.FreeArea() > p.TotalArea() {
		t.Fatalf("used %d + free %d exceeds total %d", p.UsedArea(), p.FreeArea(), p.TotalArea())
	}
}
