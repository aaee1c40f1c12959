// Package local provides the per-goroutine state a hazptr scheme needs:
// a goroutine-local retired Buffer, scan-scratch LiveSet, and the
// counters that decide when a scan runs. A State keeps no cache of
// hazard cells: every State.Acquire claims a cell from the Registry, and
// Guard.Release frees it back to the Registry. Go gives no native thread-local storage, so State is never
// reached implicitly — a goroutine obtains one through an Access value
// (see access.go) and must route every Protect/Retire/Scan call through
// it explicitly.
package local

import (
	"hazptr/config"
	"hazptr/global"
	"hazptr/reclaim"
)

// State is one goroutine's working set against a Global scheme.
type State struct {
	global *global.Global

	buffer reclaim.Buffer
	live   reclaim.LiveSet

	retiresSinceScan  uint32
	releasesSinceScan uint32
}

// NewState builds a State bound to g. Most callers should not call this
// directly; obtain a State through an Access value instead, so that exit
// and reuse semantics are handled uniformly.
func NewState(g *global.Global) *State {
	return &State{global: g}
}

// Acquire reserves a hazard.Cell from the bound Global's Registry and
// returns a Guard wrapping it. The Guard must be released exactly once.
func (s *State) Acquire() *Guard {
	cell := s.global.Registry.Acquire()
	return &Guard{state: s, cell: cell}
}

// Retire hands off addr for reclamation once no Guard protects it. del is
// invoked at most once, the first time a Scan finds addr absent from
// every live hazard; it is responsible for returning the underlying
// object to whatever pool or GC path is appropriate for its type, never
// for a raw free of addr itself.
func (s *State) Retire(addr uintptr, del func()) {
	s.buffer.Add(reclaim.Record{Addr: addr, Delete: del})
	s.retiresSinceScan++
	if s.global.Config.CountMode == config.ByRetire && s.retiresSinceScan >= s.global.Config.Threshold {
		s.Scan()
	}
}

// Scan first adopts one node of residue from the Global's AbandonedList,
// so abandoned work is drained incrementally rather than all at once by
// whichever goroutine happens to scan after a burst of exits. It then
// rebuilds the live set from the bound Global's Registry and reclaims
// every retired record, its own or adopted, absent from it.
func (s *State) Scan() {
	s.global.Abandoned.DrainInto(&s.buffer, 1)
	s.live.CollectFrom(s.global.Registry)
	s.buffer.Scan(&s.live)
	s.retiresSinceScan = 0
	s.releasesSinceScan = 0
}

// noteRelease is called by Guard.Release under ByRelease count mode.
func (s *State) noteRelease() {
	if s.global.Config.CountMode != config.ByRelease {
		return
	}
	s.releasesSinceScan++
	if s.releasesSinceScan >= s.global.Config.Threshold {
		s.Scan()
	}
}

// Close implements the abandon path: a final Scan to reclaim everything
// reachable, then, under GlobalAbandon, deposits whatever remains — work
// that was still protected by some other goroutine's hazard at the
// moment of exit — onto the bound Global's AbandonedList, where a future
// Scan by any goroutine will adopt and retry it. Under LocalGarbageOnly
// the residue is dropped instead: the caller has asserted every State is
// guaranteed to drain itself before exit, so nothing is deposited for
// another goroutine to adopt. A State must not be used after Close.
func (s *State) Close() {
	s.Scan()
	residue := s.buffer.Drain()
	if len(residue) == 0 {
		return
	}
	if s.global.Config.Policy == config.GlobalAbandon {
		s.global.Abandoned.Push(residue)
	}
}
