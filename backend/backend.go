// Package backend implements the ASP backend capability of spec.md §6:
// a process or library that consumes a ground program over registry
// handles and yields a stream of distinct answer sets, plus the
// built-in CDNL solver wired as the "internal" backend.
package backend

import "github.com/hexhex/core/registry"

// ModelStream yields successive answer sets. Next reports ok=false once
// the backend's model stream is exhausted (spec.md §6 "the backend's
// model-stream termination is indicated by a None on the next request");
// a non-nil error always means a hard failure, never normal exhaustion.
type ModelStream interface {
	Next() (model *registry.Interpretation, ok bool, err error)
}

// Backend opens a model stream over reg's current ground rules. A
// backend must not produce duplicate models (spec.md §6).
type Backend interface {
	Solve(reg *registry.Registry) (ModelStream, error)
}
