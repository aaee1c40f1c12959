// Package hazard implements the publication primitive of hazard-pointer
// reclamation: a single aligned Cell that a goroutine uses to announce "do
// not reclaim this address", and a Registry — a segmented, append-only,
// lock-free collection of Cells that grows as goroutines need more slots
// and is iterated by a scanner without taking a lock.
//
// Cells are never individually freed; the Registry frees its segments only
// when the Registry itself is discarded. A Cell released by one goroutine
// is immediately eligible for another goroutine to claim — no coordination
// beyond the CAS on its word is required.
package hazard
