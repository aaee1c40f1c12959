// Package pool provides a typed object pool for nodes that survive a
// retire-then-reclaim cycle: a freshly reclaimed node's storage can be
// returned here instead of left for the garbage collector, the same
// sync.Pool-backed shape the teacher used to recycle objects across its
// own reclamation epochs.
package pool

import "sync"

// Pool recycles *T values. Handing a value to Put after it has been
// retired and reclaimed — never before — lets a later Get reuse its
// storage instead of allocating.
type Pool[T any] struct {
	p *sync.Pool
}

// New builds a Pool whose New function is ctor.
func New[T any](ctor func() *T) *Pool[T] {
	return &Pool[T]{
		p: &sync.Pool{
			New: func() any { return ctor() },
		},
	}
}

// Get returns a recycled value or, if none is available, a freshly
// constructed one.
func (p *Pool[T]) Get() *T {
	return p.p.Get().(*T)
}

// Put returns v to the pool. The caller must not retain v or let any
// hazard still reference it.
func (p *Pool[T]) Put(v *T) {
	p.p.Put(v)
}
