// Package global owns the process-wide (or scope-wide) shared state a
// hazptr scheme reclaims against: the hazard.Registry every State
// publishes into, the reclaim.AbandonedList exited goroutines deposit
// residue onto, and the config.Config every State was constructed under.
//
// A Global is created once and never freed — the same "initialized once,
// never torn down" shape as the teacher's process-wide epoch counter —
// and is safe to share across every goroutine that participates in the
// same reclamation scheme. Two Globals are entirely independent schemes:
// a hazard published against one is invisible to the other's scans.
package global

import (
	"hazptr/config"
	"hazptr/hazard"
	"hazptr/reclaim"
)

// Global is the shared state one reclamation scheme reclaims against.
type Global struct {
	Registry  *hazard.Registry
	Abandoned *reclaim.AbandonedList
	Config    config.Config
}

// New constructs an independent Global under cfg. Most programs need only
// the implicit, process-wide instance returned by Process; New exists for
// the explicit-reference mode (spec's "no-automatic-thread-local"), where
// the caller owns the Global and bounds every local.State's lifetime by
// it.
func New(cfg config.Config) *Global {
	return &Global{
		Registry:  hazard.NewRegistry(),
		Abandoned: &reclaim.AbandonedList{},
		Config:    cfg,
	}
}

var process = New(config.FromEnv())

// Process returns the single process-wide Global used by the package-level
// convenience API in the root hazptr package (the implicit LocalAccess
// mode). Its Config is resolved once, from HAZPTR_SCAN_THRESHOLD, at
// package initialization.
func Process() *Global {
	return process
}
