// Package reclaim provides the per-goroutine retired-record buffer, the
// scan algorithm that reclaims the subset of it no longer hazarded, and
// the process-wide abandoned list that residue from an exited goroutine
// is deposited onto for another goroutine to finish draining.
//
// Nothing in this package is safe for concurrent use from more than one
// goroutine except AbandonedList, which is explicitly a shared, lock-free
// structure; Buffer and LiveSet are thread-local by contract.
package reclaim
