// Package mlp implements the MLP driver of spec.md §4.10 (component J):
// the module-instantiation loop that evaluates a set of main modules by
// iteratively calling nested module atoms `@p[q1,...,qk]::r(args)`,
// interning each distinct formal-input interpretation once and
// instantiating the callee at most once per distinct interpretation.
package mlp

import (
	"github.com/hexhex/core/registry"
	"github.com/mitchellh/hashstructure"
)

// SIndex is a dense handle into the S-table: an interned formal-input
// interpretation.
type SIndex int

// STable interns formal-input interpretations so two calls with the same
// input predicates map to the same S-index (spec.md §4.10 "the driver
// ... instantiates at most one enumeration of p[S] per distinct S").
type STable struct {
	entries []*registry.Interpretation
	byHash  map[uint64][]SIndex
}

func newSTable() *STable {
	return &STable{byHash: make(map[uint64][]SIndex)}
}

// Intern returns s's S-index, reusing an existing entry whose address
// set is bit-identical to s if one exists.
func (t *STable) Intern(s *registry.Interpretation) SIndex {
	h, err := hashstructure.Hash(s.Addresses(), nil)
	if err != nil {
		// Addresses() is a plain []registry.Address slice; hashstructure
		// only fails on unsupported types, which this is not.
		panic(err)
	}
	for _, idx := range t.byHash[h] {
		if t.entries[idx].Equal(s) {
			return idx
		}
	}
	idx := SIndex(len(t.entries))
	t.entries = append(t.entries, s)
	t.byHash[h] = append(t.byHash[h], idx)
	return idx
}

// Get returns the interpretation interned at idx.
func (t *STable) Get(idx SIndex) *registry.Interpretation {
	return t.entries[idx]
}
