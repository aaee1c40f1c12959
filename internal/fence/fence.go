// Package fence provides the mandatory full fence the protection protocol
// issues between publishing a hazard and re-validating the pointer it
// guards.
//
// Go's memory model gives sync/atomic operations a total, sequentially
// consistent order: the store that publishes a hazard and the load that
// re-reads the guarded source are both atomic operations, so the runtime
// may not reorder the store past a later load the way a relaxed-model
// language would without an explicit fence. There is consequently no
// separate fence instruction to emit — SeqCst exists to make that
// reliance explicit and non-elidable at the one call site load-and-verify
// depends on, rather than leaving a bare atomic store looking like it
// could be downgraded to a relaxed operation by a future edit.
package fence

import "sync/atomic"

// counter is touched only by SeqCst; its value is never read back. The
// RMW on it is what the compiler cannot reorder around or eliminate,
// unlike a pure load or store to a variable nothing else observes.
var counter atomic.Uint64

// SeqCst issues the fence the protection protocol requires between
// publishing a hazard and re-validating the source pointer it protects.
func SeqCst() {
	counter.Add(1)
}
