package pool

import "testing"

func TestSizeClass(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{1, 256},
		{256, 256},
		{257, 512},
		{720 * 576 * 2, 1 << 20},
		{1 << 20, 1 << 20},
	}

	for _, tt := range tests {
		if got := sizeClass(tt.size); got != tt.want {
			t.Errorf("sizeClass(%d) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestAllocRelease(t *testing.T) {
	p := NewPool(4)

	buf := p.Alloc(1000)
	if len(buf) != 1000 {
		t.Fatalf("Alloc length = %d, want 1000", len(buf))
	}
	if cap(buf) != 1024 {
		t.Fatalf("Alloc capacity = %d, want 1024", cap(buf))
	}

	p.Release(buf)

	// Same size class comes back from the free list.
	again := p.Alloc(900)
	if len(again) != 900 {
		t.Fatalf("Alloc length = %d, want 900", len(again))
	}
	if &again[0] != &buf[0] {
		t.Error("buffer was not reused from the free list")
	}

	stats := p.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Stats = %+v, want 1 hit and 1 miss", stats)
	}
}

func TestAllocZero(t *testing.T) {
	p := NewPool(4)
	if got := p.Alloc(0); got != nil {
		t.Errorf("Alloc(0) = %v, want nil", got)
	}
	if got := p.Alloc(-5); got != nil {
		t.Errorf("Alloc(-5) = %v, want nil", got)
	}
	// Releasing nil or foreign buffers must not panic or pollute buckets.
	p.Release(nil)
	p.Release(make([]byte, 10))
	if got := p.Stats(); got.Hits != 0 {
		t.Errorf("foreign release produced a hit: %+v", got)
	}
}

func TestBucketCap(t *testing.T) {
	p := NewPool(2)

	bufs := make([][]byte, 3)
	for i := range bufs {
		bufs[i] = p.Alloc(300)
	}
	for _, b := range bufs {
		p.Release(b)
	}

	p.mu.Lock()
	retained := len(p.buckets[512])
	p.mu.Unlock()
	if retained != 2 {
		t.Errorf("bucket retained %d buffers, want 2", retained)
	}
}

func TestDefaultPool(t *testing.T) {
	buf := Alloc(64)
	if len(buf) != 64 {
		t.Fatalf("Alloc length = %d, want 64", len(buf))
	}
	Release(buf)
}
