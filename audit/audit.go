// Package audit is an optional, off-hot-path durable log of reclamation
// events, adapted from the pebble-backed exit outbox: every retire,
// abandon, and reclaim is an append to an embedded pebble.DB keyed by a
// monotonically increasing sequence number, so a process that crashes
// mid-reclamation leaves behind a durable record of exactly how far it
// got. Nothing in the reclamation engine depends on this package; a Log
// is wired in by a caller that wants a record of scheme activity, never
// by hazard.Registry, reclaim, local, or global themselves.
package audit

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
)

// EventKind classifies one audit.Event.
type EventKind uint8

const (
	// Retired records a Record being added to a goroutine's Buffer.
	Retired EventKind = iota
	// Abandoned records a Buffer's residue being deposited on the
	// process-wide AbandonedList at exit.
	Abandoned
	// Reclaimed records a Delete call actually firing.
	Reclaimed
)

func (k EventKind) String() string {
	switch k {
	case Retired:
		return "RETIRED"
	case Abandoned:
		return "ABANDONED"
	case Reclaimed:
		return "RECLAIMED"
	default:
		return "UNKNOWN"
	}
}

// Event is one durable audit record.
type Event struct {
	Kind      EventKind
	Addr      uintptr
	Timestamp int64
}

// binary encoding: [kind:1][addr:8][timestamp:8]
func encodeEvent(e Event) []byte {
	buf := make([]byte, 1+8+8)
	buf[0] = byte(e.Kind)
	binary.BigEndian.PutUint64(buf[1:9], uint64(e.Addr))
	binary.BigEndian.PutUint64(buf[9:17], uint64(e.Timestamp))
	return buf
}

func decodeEvent(b []byte) (Event, error) {
	if len(b) != 17 {
		return Event{}, errors.New("audit: invalid event record length")
	}
	return Event{
		Kind:      EventKind(b[0]),
		Addr:      uintptr(binary.BigEndian.Uint64(b[1:9])),
		Timestamp: int64(binary.BigEndian.Uint64(b[9:17])),
	}, nil
}

// Log is a durable, append-only sequence of reclamation events.
type Log struct {
	db   *pebble.DB
	next uint64
}

// Open opens or creates a Log backed by an embedded pebble database at
// dir, with the write-ahead log enabled for crash durability.
func Open(dir string) (*Log, error) {
	db, err := pebble.Open(dir, &pebble.Options{
		DisableWAL: false,
	})
	if err != nil {
		return nil, err
	}
	l := &Log{db: db}
	iter, err := db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("seq/"),
		UpperBound: []byte("seq/~"),
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	if iter.Last() {
		if seq, err := parseSeqKey(iter.Key()); err == nil {
			l.next = seq + 1
		}
	}
	iter.Close()
	return l, nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Append durably records one event and returns its assigned sequence
// number.
func (l *Log) Append(kind EventKind, addr uintptr, at time.Time) (uint64, error) {
	seq := l.next
	l.next++

	ev := Event{Kind: kind, Addr: addr, Timestamp: at.UnixNano()}
	if err := l.db.Set(seqKey(seq), encodeEvent(ev), pebble.Sync); err != nil {
		return 0, err
	}
	return seq, nil
}

// ScanKind iterates every logged event of the given kind, in sequence
// order, invoking fn for each.
func (l *Log) ScanKind(kind EventKind, fn func(seq uint64, ev Event) error) error {
	iter, err := l.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("seq/"),
		UpperBound: []byte("seq/~"),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		ev, err := decodeEvent(iter.Value())
		if err != nil {
			return err
		}
		if ev.Kind != kind {
			continue
		}
		seq, err := parseSeqKey(iter.Key())
		if err != nil {
			return err
		}
		if err := fn(seq, ev); err != nil {
			return err
		}
	}
	return iter.Error()
}

func seqKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("seq/%020d", seq))
}

func parseSeqKey(b []byte) (uint64, error) {
	var seq uint64
	_, err := fmt.Sscanf(string(bytes.TrimPrefix(b, []byte("seq/"))), "%d", &seq)
	return seq, err
}
