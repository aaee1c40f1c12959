package reclaim

// Buffer is a goroutine-local, bounded-growth list of retired records
// pending reclamation. It is never touched by any goroutine other than
// its owner while that goroutine is alive; ownership only ever transfers
// as a whole, via Drain, to the process-wide AbandonedList.
type Buffer struct {
	records []Record
}

// Add appends a retired record. The caller is responsible for never
// retiring the same address twice and for having already unlinked it from
// every shared location another goroutine could still observe.
func (b *Buffer) Add(r Record) {
	b.records = append(b.records, r)
}

// Len reports the number of records currently pending reclamation.
func (b *Buffer) Len() int {
	return len(b.records)
}

// Scan partitions the buffer against live, invoking Delete exactly once
// for every record whose address is absent from live and dropping it,
// then keeps the rest. It returns the number reclaimed.
func (b *Buffer) Scan(live *LiveSet) int {
	if len(b.records) == 0 {
		return 0
	}

	kept := b.records[:0]
	reclaimed := 0
	for _, rec := range b.records {
		if live.Contains(rec.Addr) {
			kept = append(kept, rec)
		} else {
			rec.Delete()
			reclaimed++
		}
	}
	b.records = kept
	return reclaimed
}

// Drain empties the buffer and returns its contents, for handoff to the
// process-wide AbandonedList on goroutine exit.
func (b *Buffer) Drain() []Record {
	if len(b.records) == 0 {
		return nil
	}
	out := b.records
	b.records = nil
	return out
}

// Merge appends externally-sourced records, e.g. residue adopted from the
// AbandonedList, into this buffer.
func (b *Buffer) Merge(records []Record) {
	b.records = append(b.records, records...)
}
