package evalgraph

import "github.com/hexhex/core/component"

// Heuristic decides how components are folded into eval units (spec.md
// §4.7: "Trivial, Old, Easy (default), From-file").
type Heuristic interface {
	Build(g EdgeIndex, comps []component.Component) *Graph
}

// Trivial creates exactly one eval unit per component, in dependency
// order, each depending on the eval units of its direct component
// dependencies. This is the baseline heuristic every other is checked
// against: it produces the most eval units and the least per-unit work.
type Trivial struct{}

func (Trivial) Build(g EdgeIndex, comps []component.Component) *Graph {
	deps := componentDeps(g, comps)
	order := topoOrder(len(comps), deps)

	eg := newGraph()
	unitOf := make(map[int]UnitID)
	for _, ci := range order {
		var consumed []UnitID
		depIdx := sortedKeys(deps[ci])
		for _, dj := range depIdx {
			consumed = append(consumed, unitOf[dj])
		}
		unitOf[ci] = eg.CreateEvalUnit(consumed, comps[ci])
	}
	return eg
}

// Easy is the default heuristic of spec.md §4.7: like Trivial, but folds
// a non-recursive, eatom-free component into its unique successor's unit
// whenever that successor has no other dependency, avoiding a pointless
// extra model-generator stage for a single intermediate predicate layer.
type Easy struct{}

func (Easy) Build(g EdgeIndex, comps []component.Component) *Graph {
	deps := componentDeps(g, comps)
	// reverse: successors[d] = components depending on d
	successors := make(map[int][]int)
	for c, ds := range deps {
		for d := range ds {
			successors[d] = append(successors[d], c)
		}
	}

	order := topoOrder(len(comps), deps)
	foldedInto := make(map[int]int) // component index -> representative component index
	for ci := range comps {
		foldedInto[ci] = ci
	}

	// Walk sinks-to-sources: by the time ci is considered, its successor
	// (if any) has already been finalized, so folding ci into it picks up
	// the successor's final representative rather than a stale one.
	for i := len(order) - 1; i >= 0; i-- {
		ci := order[i]
		c := comps[ci]
		if c.Recursive || c.InnerEatoms || c.OuterEatoms {
			continue
		}
		succ := successors[ci]
		if len(succ) != 1 {
			continue
		}
		target := succ[0]
		if len(deps[target]) != 1 {
			continue // the successor has other dependencies too; folding would change its fan-in
		}
		foldedInto[ci] = foldedInto[target]
	}

	eg := newGraph()
	unitOf := make(map[int]UnitID)
	representatives := sortedKeys(groupReps(foldedInto))
	for _, rep := range representatives {
		members := membersOf(foldedInto, rep)
		var consumed []UnitID
		seen := make(map[UnitID]bool)
		for _, m := range members {
			for _, dj := range sortedKeys(deps[m]) {
				repDep := foldedInto[dj]
				if repDep == rep {
					continue
				}
				uid, ok := unitOf[repDep]
				if ok && !seen[uid] {
					consumed = append(consumed, uid)
					seen[uid] = true
				}
			}
		}
		var compSet []component.Component
		for _, m := range members {
			compSet = append(compSet, comps[m])
		}
		unitOf[rep] = eg.CreateEvalUnit(consumed, compSet...)
	}
	return eg
}

// Old reproduces the legacy heuristic of original_source/
// EvalHeuristicOldDlvhex.hpp's stated behavior: every component gets its
// own unit like Trivial, but units with no external atoms and a single
// predecessor inherit their predecessor's join order directly instead of
// computing a fresh one — in this handle-based representation that
// collapses to the same result as Trivial, so Old is kept as a distinct,
// explicitly named strategy for configuration compatibility rather than
// a behavioral variant.
type Old struct{ Trivial }

// FromFile builds the eval graph from a caller-supplied component-to-unit
// assignment (spec.md §4.7 "From-file": reproduce an externally computed
// or previously serialized evaluation plan exactly). Assignment[i] is the
// unit index component i is folded into; unit indices must be dense and
// every component folded into the same unit index must share the same
// set of cross-unit dependencies for the result to be a valid DAG.
type FromFile struct {
	Assignment []int
}

func (h FromFile) Build(g EdgeIndex, comps []component.Component) *Graph {
	deps := componentDeps(g, comps)
	numUnits := 0
	for _, u := range h.Assignment {
		if u+1 > numUnits {
			numUnits = u + 1
		}
	}

	order := topoOrder(len(comps), deps)
	unitOrder := make([]int, 0, numUnits)
	seenUnit := make(map[int]bool)
	for _, ci := range order {
		u := h.Assignment[ci]
		if !seenUnit[u] {
			seenUnit[u] = true
			unitOrder = append(unitOrder, u)
		}
	}

	eg := newGraph()
	unitOf := make(map[int]UnitID)
	for _, u := range unitOrder {
		var members []int
		for ci, assigned := range h.Assignment {
			if assigned == u {
				members = append(members, ci)
			}
		}
		var consumed []UnitID
		seen := make(map[UnitID]bool)
		for _, m := range members {
			for _, dj := range sortedKeys(deps[m]) {
				ou := h.Assignment[dj]
				if ou == u {
					continue
				}
				uid, ok := unitOf[ou]
				if ok && !seen[uid] {
					consumed = append(consumed, uid)
					seen[uid] = true
				}
			}
		}
		var compSet []component.Component
		for _, m := range members {
			compSet = append(compSet, comps[m])
		}
		unitOf[u] = eg.CreateEvalUnit(consumed, compSet...)
	}
	return eg
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func groupReps(foldedInto map[int]int) map[int]bool {
	reps := make(map[int]bool)
	for _, rep := range foldedInto {
		reps[rep] = true
	}
	return reps
}

func membersOf(foldedInto map[int]int, rep int) []int {
	var out []int
	for ci, r := range foldedInto {
		if r == rep {
			out = append(out, ci)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
