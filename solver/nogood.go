// Package solver implements the conflict-driven nogood learning (CDNL)
// solver of spec.md §4.3: propagation, 1-UIP clause learning, backjumping,
// and the activity-driven decision heuristic. It operates purely over
// ground-atom addresses and truth polarities; it uses the registry package
// only for the Address type and, in GetNextModel, to return each model as
// a registry.Interpretation. Nogoods are a solving-level concept that
// applies equally to atoms produced by the internal grounder (package
// ground) or by any other nogood source.
package solver

import "github.com/hexhex/core/registry"

// Lit is a nogood literal: the address of a ground atom plus the truth
// value this literal requires of it to contribute to the forbidden
// conjunction (spec.md §4.3 "a nogood is a set of literals (atom-handle
// plus polarity)").
type Lit struct {
	Addr registry.Address
	Pos  bool
}

// Neg returns the complementary literal (same address, opposite
// polarity).
func (l Lit) Neg() Lit { return Lit{Addr: l.Addr, Pos: !l.Pos} }

// Nogood is a conjunction of literals whose simultaneous truth is
// forbidden.
type Nogood []Lit

// NogoodID is an insertion-order handle into a NogoodSet (spec.md §4.3
// "A nogood set is an array of nogoods with insertion-order handles").
type NogoodID int

// NogoodSet is an append-only array of nogoods addressed by insertion
// order.
type NogoodSet struct {
	rows []Nogood
}

// Add appends ng and returns its handle.
func (s *NogoodSet) Add(ng Nogood) NogoodID {
	id := NogoodID(len(s.rows))
	s.rows = append(s.rows, ng)
	return id
}

// Get returns the nogood at id.
func (s *NogoodSet) Get(id NogoodID) Nogood { return s.rows[id] }

// Len returns the number of nogoods in the set.
func (s *NogoodSet) Len() int { return len(s.rows) }
