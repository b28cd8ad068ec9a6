package ground

import "github.com/hexhex/core/registry"

// Grounder is the internal grounder of spec.md §4.4: it Clark-completes a
// registry's ground rules into a nogood set and a solving universe, and
// exposes the unfounded-set check a model generator runs before accepting
// a CDNL model as an answer set.
type Grounder struct {
	Completion *Completion
	checker    *UnfoundedChecker
}

// Ground completes reg's ground rules and builds the unfounded-set
// checker over the resulting dependency structure.
func Ground(reg *registry.Registry) *Grounder {
	comp := BuildCompletion(reg)
	return &Grounder{
		Completion: comp,
		checker:    NewUnfoundedChecker(reg, comp),
	}
}

// Universe returns every address a solver built over this grounding must
// cover: every real ground atom plus every auxiliary body variable
// allocated during completion.
func (g *Grounder) Universe(reg *registry.Registry) []registry.Address {
	n := int(g.Completion.NextAddress)
	out := make([]registry.Address, n)
	for i := 0; i < n; i++ {
		out[i] = registry.Address(i)
	}
	return out
}

// Nogoods returns the completion's rule and support nogoods, the
// starting nogood set for a CDNL solver over this grounding.
func (g *Grounder) Nogoods() []Nogood {
	return g.Completion.Nogoods
}

// CheckModel runs the unfounded-set check against a candidate model and
// reports whether it is founded. If not, it returns the loop nogoods that
// rule the candidate out, to be added to the solver before it resumes
// search (spec.md §4.4 "a candidate model that fails the check is
// rejected by feeding its loop nogoods back to the solver, not treated as
// a dead end").
func (g *Grounder) CheckModel(in *registry.Interpretation) (bool, []Nogood) {
	loops := g.checker.Check(func(a registry.Address) bool { return in.Test(a) })
	return len(loops) == 0, loops
}
