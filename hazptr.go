// Package hazptr is a lock-free, hazard-pointer based memory reclamation
// scheme: goroutines that read concurrent lock-free structures protect
// the pointers they are about to dereference, and goroutines that remove
// nodes from those structures retire them instead of freeing them
// outright, so that a retired node is only reclaimed once no goroutine's
// hazard still protects it.
//
// This package exposes the implicit, process-wide convenience API: a
// goroutine calls Acquire to obtain a Guard and a release function, calls
// Protect to safely dereference a shared atomic.Pointer, then calls the
// release function when done. A goroutine that retires nodes calls
// Retire. States are drawn from and returned to a process-wide
// free-list rather than owned per-goroutine, so there is no exit call to
// make.
//
// Programs that want more than one independent scheme, or explicit
// control over a goroutine's State rather than the implicit free-list,
// should construct their own global.Global and local.Access directly;
// see those packages.
package hazptr

import (
	"sync/atomic"
	"unsafe"

	"hazptr/config"
	"hazptr/global"
	"hazptr/local"
)

var defaultAccess = local.NewImplicit(global.Process())

// Guard is a single reserved hazard slot, held open for the span of one
// protected access.
type Guard = local.Guard

// Acquire obtains a goroutine-local State from the process-wide implicit
// pool and reserves a Guard against it. The returned release function
// must be called exactly once, typically via defer, and returns the
// State to the pool for reuse by whatever goroutine acquires next.
func Acquire() (*Guard, func()) {
	state := defaultAccess.Acquire()
	guard := state.Acquire()
	return guard, func() {
		guard.Release()
		defaultAccess.Release(state)
	}
}

// Protect safely dereferences source under g's hazard, retrying the
// load-and-verify protocol until it observes a stable value.
func Protect[T any](g *Guard, source *atomic.Pointer[T]) *T {
	return local.Protect(g, source)
}

// Retire hands off obj for reclamation once no Guard protects its
// address. del is invoked at most once, the first time a Scan finds the
// address unprotected.
func Retire[T any](obj *T, del func()) {
	state := defaultAccess.Acquire()
	defer defaultAccess.Release(state)
	state.Retire(addrOf(obj), del)
}

// Config reports the process-wide scheme's resolved configuration,
// honoring HAZPTR_SCAN_THRESHOLD.
func Config() config.Config {
	return global.Process().Config
}

func addrOf[T any](p *T) uintptr {
	return uintptr(unsafe.Pointer(p))
}
