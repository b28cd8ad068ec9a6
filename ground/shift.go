// Package ground implements the internal grounder of spec.md §4.4: Clark's
// completion of a ground program into CDNL nogoods, plus the unfounded-set
// check that feeds loop nogoods back to the solver (package solver) when a
// candidate model is not founded.
package ground

import "github.com/hexhex/core/registry"

// ShiftedRule is one disjunction-free rule obtained from shifting a
// (possibly disjunctive) ground rule: a1 | ... | ak :- B shifts into k
// rules a_i :- B, not a_1, ..., not a_{i-1}, not a_{i+1}, ..., not a_k
// (spec.md §3.2 supplemented per SPEC_FULL §3 from the original's shifted-
// program technique, used internally for completion and unfounded-set
// checking; it never replaces the disjunctive rule stored in the
// registry).
type ShiftedRule struct {
	// Head is the single head atom, or registry.FAIL for a constraint.
	Head registry.ID
	// Body is the literal tuple: the rule's own body plus, for a
	// shifted disjunct, one extra "not a_j" per sibling head atom.
	Body []registry.ID
}

// Shift expands row into its shifted rules. A non-disjunctive rule
// shifts to exactly itself; a constraint (empty head) shifts to itself
// with Head set to registry.FAIL.
func Shift(row registry.Rule) []ShiftedRule {
	if len(row.Head) <= 1 {
		head := registry.FAIL
		if len(row.Head) == 1 {
			head = row.Head[0]
		}
		return []ShiftedRule{{Head: head, Body: row.Body}}
	}

	out := make([]ShiftedRule, 0, len(row.Head))
	for i, hi := range row.Head {
		body := make([]registry.ID, 0, len(row.Body)+len(row.Head)-1)
		body = append(body, row.Body...)
		for j, hj := range row.Head {
			if j == i {
				continue
			}
			body = append(body, hj.Literal(true))
		}
		out = append(out, ShiftedRule{Head: hi, Body: body})
	}
	return out
}
