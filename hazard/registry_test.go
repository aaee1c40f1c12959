package hazard

import (
	"sync"
	"testing"
	"unsafe"
)

func countCells(r *Registry) int {
	n := 0
	it := r.Iter()
	for {
		_, ok := it.Next()
		if !ok {
			break
		}
		n++
	}
	return n
}

func TestAcquireReleaseRoundTrip(t *testing.T) {
	r := NewRegistry()
	before := countCells(r)

	c := r.Acquire()
	if _, ok := c.LoadProtected(); ok {
		t.Fatal("freshly acquired cell must not report a protected address")
	}

	r.Release(c)
	if countCells(r) != before {
		t.Fatalf("registry cell count changed across acquire/release: before=%d after=%d", before, countCells(r))
	}
}

func TestCellReuseNoDataRace(t *testing.T) {
	r := NewRegistry()
	c := r.Acquire()
	r.Release(c)

	var wg sync.WaitGroup
	seen := make([]*Cell, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seen[i] = r.Acquire()
		}(i)
	}
	wg.Wait()

	claimed := map[*Cell]int{}
	for _, cell := range seen {
		claimed[cell]++
	}
	for cell, n := range claimed {
		if n != 1 {
			t.Fatalf("cell %p claimed by %d goroutines concurrently", cell, n)
		}
	}
}

func TestRegistryGrowsOnSaturation(t *testing.T) {
	r := NewRegistry()

	cells := make([]*Cell, SegmentSize+1)
	for i := range cells {
		cells[i] = r.Acquire()
	}

	if n := countCells(r); n < SegmentSize+1 {
		t.Fatalf("expected at least %d cells after saturating first segment, got %d", SegmentSize+1, n)
	}

	unique := map[*Cell]bool{}
	for _, c := range cells {
		unique[c] = true
	}
	if len(unique) != len(cells) {
		t.Fatalf("expected %d distinct cells, got %d", len(cells), len(unique))
	}
}

func TestConcurrentGrowthLinksExactlyOnce(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	results := make(chan *Cell, SegmentSize*4)
	for i := 0; i < SegmentSize*4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- r.Acquire()
		}()
	}
	wg.Wait()
	close(results)

	seen := map[*Cell]bool{}
	for c := range results {
		if seen[c] {
			t.Fatalf("cell %p returned to two different acquirers", c)
		}
		seen[c] = true
	}
}

func TestProtectLoadRoundTrip(t *testing.T) {
	r := NewRegistry()
	c := r.Acquire()
	defer r.Release(c)

	var x int
	p := unsafe.Pointer(&x)
	c.SetProtected(p)

	got, ok := c.LoadProtected()
	if !ok || got != p {
		t.Fatalf("expected protected=%p, got %p ok=%v", p, got, ok)
	}

	c.SetReserved()
	if _, ok := c.LoadProtected(); ok {
		t.Fatal("expected no protected address after SetReserved")
	}
}
