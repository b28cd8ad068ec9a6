package ground

import (
	"github.com/hexhex/core/registry"
	"github.com/hexhex/core/solver"
)

// Completion is the result of Clark-completing a ground program: the rule
// and support nogoods plus enough bookkeeping (per shifted-rule body
// address, head atom) for the unfounded-set checker to reuse without
// recomputing the shift.
type Completion struct {
	Nogoods []solver.Nogood

	// Shifted holds every shifted rule produced and BodyAddr[i] the
	// auxiliary "body true" address of Shifted[i] (beyond the registry's
	// real ground-atom addresses); the head atom is Shifted[i].Head,
	// registry.FAIL for a constraint.
	Shifted  []ShiftedRule
	BodyAddr []registry.Address

	// NextAddress is the first address past every real ground atom and
	// every auxiliary body variable allocated here; callers building a
	// solver universe extend up to this bound.
	NextAddress registry.Address
}

// literalToLit converts a body literal ID into the solver literal that
// represents "this literal holds" (true for an unnegated atom, false for
// a naf atom), i.e. the polarity a satisfied body element requires.
func literalToLit(l registry.ID) solver.Lit {
	return solver.Lit{Addr: l.Atom().Address(), Pos: !l.IsNaf()}
}

// BuildCompletion shifts every rule in reg and emits, for each shifted
// rule, its rule nogood (forbidding body-true-head-false) plus the nogoods
// tying a fresh auxiliary "body true" variable to the conjunction of the
// rule's body (one per body literal for "body true implies literal true",
// and one for "every literal true implies body true"); it then emits one completion nogood per head atom
// forbidding that atom from being true while every one of its supporting
// bodies is false (spec.md §4.4 "Clark completion").
func BuildCompletion(reg *registry.Registry) *Completion {
	c := &Completion{}
	nextAux := registry.Address(reg.GroundAtomCount())
	supportersOf := make(map[registry.Address][]int)

	for i := 0; i < reg.RuleCount(); i++ {
		row, err := reg.Rule(reg.RuleIDAt(registry.Address(i)))
		if err != nil {
			continue
		}
		for _, sr := range Shift(row) {
			idx := len(c.Shifted)
			c.Shifted = append(c.Shifted, sr)
			bodyAux := nextAux
			nextAux++
			c.BodyAddr = append(c.BodyAddr, bodyAux)

			for _, litID := range sr.Body {
				l := literalToLit(litID)
				// forward: bodyAux true -> l true.
				c.Nogoods = append(c.Nogoods, solver.Nogood{
					{Addr: bodyAux, Pos: true},
					{Addr: l.Addr, Pos: !l.Pos},
				})
			}
			// backward: every body literal true -> bodyAux true.
			backward := solver.Nogood{{Addr: bodyAux, Pos: false}}
			for _, litID := range sr.Body {
				backward = append(backward, literalToLit(litID))
			}
			c.Nogoods = append(c.Nogoods, backward)

			// Rule nogood Δ_r: forbid body-true with head-false (or, for
			// a constraint, just forbid body-true).
			ruleNogood := solver.Nogood{}
			if !sr.Head.IsFail() {
				ruleNogood = append(ruleNogood, solver.Lit{Addr: sr.Head.Address(), Pos: false})
			}
			for _, litID := range sr.Body {
				ruleNogood = append(ruleNogood, literalToLit(litID))
			}
			c.Nogoods = append(c.Nogoods, ruleNogood)

			if !sr.Head.IsFail() {
				supportersOf[sr.Head.Address()] = append(supportersOf[sr.Head.Address()], idx)
			}
		}
	}

	for head, idxs := range supportersOf {
		ng := solver.Nogood{{Addr: head, Pos: true}}
		for _, idx := range idxs {
			ng = append(ng, solver.Lit{Addr: c.BodyAddr[idx], Pos: false})
		}
		c.Nogoods = append(c.Nogoods, ng)
	}

	c.NextAddress = nextAux
	return c
}
