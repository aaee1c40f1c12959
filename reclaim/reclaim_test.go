package reclaim

import (
	"testing"
	"unsafe"

	"hazptr/hazard"
)

func ptrOf(p *int) unsafe.Pointer { return unsafe.Pointer(p) }
func uintptrOf(p *int) uintptr    { return uintptr(unsafe.Pointer(p)) }

func TestScanNoOpOnEmptyBuffer(t *testing.T) {
	var buf Buffer
	var live LiveSet
	if n := buf.Scan(&live); n != 0 {
		t.Fatalf("expected 0 reclaimed for an empty buffer, got %d", n)
	}
}

func TestScanReclaimsUnprotected(t *testing.T) {
	var buf Buffer
	reclaimed := map[uintptr]bool{}

	var xs [3]int
	for i := range xs {
		addr := uintptrOf(&xs[i])
		buf.Add(Record{Addr: addr, Delete: func() { reclaimed[addr] = true }})
	}

	var live LiveSet
	live.addrs = []uintptr{uintptrOf(&xs[1])} // protect only xs[1]

	n := buf.Scan(&live)
	if n != 2 {
		t.Fatalf("expected 2 reclaimed, got %d", n)
	}
	if buf.Len() != 1 {
		t.Fatalf("expected 1 record still pending, got %d", buf.Len())
	}
	if reclaimed[uintptrOf(&xs[1])] {
		t.Fatal("protected record must not be reclaimed")
	}
	if !reclaimed[uintptrOf(&xs[0])] || !reclaimed[uintptrOf(&xs[2])] {
		t.Fatal("unprotected records must be reclaimed exactly once")
	}
}

func TestScanEachRecordReclaimedAtMostOnce(t *testing.T) {
	var buf Buffer
	count := 0

	var x int
	buf.Add(Record{Addr: uintptrOf(&x), Delete: func() { count++ }})

	var live LiveSet
	buf.Scan(&live)
	buf.Scan(&live) // buffer is already empty; must not re-invoke Delete

	if count != 1 {
		t.Fatalf("expected exactly 1 deletion, got %d", count)
	}
}

func TestLiveSetCollectFromRegistry(t *testing.T) {
	reg := hazard.NewRegistry()
	c1 := reg.Acquire()
	c2 := reg.Acquire()
	defer reg.Release(c1)
	defer reg.Release(c2)

	var x, y int
	c1.SetProtected(ptrOf(&x))
	// c2 left Reserved, not Protected.

	var live LiveSet
	live.CollectFrom(reg)

	if !live.Contains(uintptrOf(&x)) {
		t.Fatal("expected protected address to be in the live set")
	}
	if live.Contains(uintptrOf(&y)) {
		t.Fatal("unprotected address must not be in the live set")
	}
}

func TestAbandonedListPushDrain(t *testing.T) {
	var list AbandonedList

	deleted := 0
	records := make([]Record, 10)
	for i := range records {
		records[i] = Record{Addr: uintptr(i + 1), Delete: func() { deleted++ }}
	}
	list.Push(records)

	var dst Buffer
	moved := list.DrainInto(&dst, 1)
	if moved != 10 {
		t.Fatalf("expected 10 records moved, got %d", moved)
	}
	if dst.Len() != 10 {
		t.Fatalf("expected 10 records in destination buffer, got %d", dst.Len())
	}

	// List is now empty; draining again moves nothing.
	var empty Buffer
	if moved := list.DrainInto(&empty, 4); moved != 0 {
		t.Fatalf("expected 0 records moved from an empty list, got %d", moved)
	}
}

func TestAbandonedListPushEmptyIsNoOp(t *testing.T) {
	var list AbandonedList
	list.Push(nil)

	var dst Buffer
	if moved := list.DrainInto(&dst, 4); moved != 0 {
		t.Fatalf("expected 0 records moved, got %d", moved)
	}
}
