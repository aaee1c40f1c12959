package audit

import "sync/atomic"

// EventQueue is a lock-free SPSC ring buffer of pending audit events: the
// single producer is whichever goroutine path calls Enqueue (typically a
// thin wrapper installed around Retire/Close/Scan), and the single
// consumer is the goroutine that periodically drains it into a Log via
// Append, keeping pebble writes off the reclamation hot path.
type EventQueue struct {
	head  uint64
	_pad1 [56]byte
	tail  uint64
	_pad2 [56]byte
	buf   []Event
	mask  uint64
}

// NewEventQueue builds a queue of the given size, which must be a power
// of two.
func NewEventQueue(size uint64) *EventQueue {
	if size&(size-1) != 0 {
		panic("audit: EventQueue size must be a power of two")
	}
	return &EventQueue{
		buf:  make([]Event, size),
		mask: size - 1,
	}
}

// Enqueue appends ev, returning false if the queue is full. Only the
// single producer goroutine may call Enqueue.
func (q *EventQueue) Enqueue(ev Event) bool {
	h := q.head
	t := atomic.LoadUint64(&q.tail)
	if h-t == uint64(len(q.buf)) {
		return false
	}
	q.buf[h&q.mask] = ev
	atomic.StoreUint64(&q.head, h+1)
	return true
}

// Dequeue removes and returns the oldest pending event, or false if the
// queue is empty. Only the single consumer goroutine may call Dequeue.
func (q *EventQueue) Dequeue() (Event, bool) {
	t := q.tail
	h := atomic.LoadUint64(&q.head)
	if t == h {
		return Event{}, false
	}
	ev := q.buf[t&q.mask]
	atomic.StoreUint64(&q.tail, t+1)
	return ev, true
}
