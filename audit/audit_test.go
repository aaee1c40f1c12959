package audit

import (
	"testing"
	"time"
)

func TestAppendAndScanKind(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer log.Close()

	now := time.Unix(0, 1700000000000000000)
	if _, err := log.Append(Retired, 0x1000, now); err != nil {
		t.Fatalf("Append Retired: %v", err)
	}
	if _, err := log.Append(Reclaimed, 0x1000, now); err != nil {
		t.Fatalf("Append Reclaimed: %v", err)
	}
	if _, err := log.Append(Retired, 0x2000, now); err != nil {
		t.Fatalf("Append Retired: %v", err)
	}

	var retired []uintptr
	if err := log.ScanKind(Retired, func(seq uint64, ev Event) error {
		retired = append(retired, ev.Addr)
		return nil
	}); err != nil {
		t.Fatalf("ScanKind: %v", err)
	}
	if len(retired) != 2 || retired[0] != 0x1000 || retired[1] != 0x2000 {
		t.Fatalf("unexpected retired addresses: %v", retired)
	}

	var reclaimed []uintptr
	if err := log.ScanKind(Reclaimed, func(seq uint64, ev Event) error {
		reclaimed = append(reclaimed, ev.Addr)
		return nil
	}); err != nil {
		t.Fatalf("ScanKind: %v", err)
	}
	if len(reclaimed) != 1 || reclaimed[0] != 0x1000 {
		t.Fatalf("unexpected reclaimed addresses: %v", reclaimed)
	}
}

func TestEventQueueEnqueueDequeueOrder(t *testing.T) {
	q := NewEventQueue(4)

	for i := 0; i < 4; i++ {
		if !q.Enqueue(Event{Kind: Retired, Addr: uintptr(i)}) {
			t.Fatalf("expected enqueue %d to succeed", i)
		}
	}
	if q.Enqueue(Event{Kind: Retired, Addr: 99}) {
		t.Fatal("expected enqueue to fail once the queue is full")
	}

	for i := 0; i < 4; i++ {
		ev, ok := q.Dequeue()
		if !ok || ev.Addr != uintptr(i) {
			t.Fatalf("expected addr %d, got %v (ok=%v)", i, ev.Addr, ok)
		}
	}
	if _, ok := q.Dequeue(); ok {
		t.Fatal("expected dequeue to fail once the queue is empty")
	}
}
