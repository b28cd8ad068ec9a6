// Package component condenses a dependency graph (package depgraph) into
// strongly connected components, the Component Graph of spec.md §4.6.
package component

import (
	"github.com/hexhex/core/depgraph"
	"github.com/hexhex/core/registry"
)

// Component is one SCC of the dependency graph: a set of mutually
// (positively) recursive rules, plus the classification the model
// generator needs to pick an evaluation strategy for it.
type Component struct {
	Rules []registry.ID

	// Recursive is true for a component with more than one rule, or a
	// single rule that depends positively on itself.
	Recursive bool
	// HasNegativeEdge is true when some edge within the component
	// carries EdgeNegative, meaning the component cannot be a stratified
	// positive program and needs the full CDNL/unfounded-set machinery
	// rather than a single completion pass.
	HasNegativeEdge bool
	// InnerEatoms is true when the component contains an external atom
	// whose containing rule is itself recursive (original_source's
	// "inner external atom" classification): such atoms must be
	// re-evaluated as the component's model search progresses, rather
	// than once up front.
	InnerEatoms bool
	// OuterEatoms is true when the component contains a rule with an
	// external atom but the component itself is not recursive: the
	// external atom's input is fully settled before the component is
	// evaluated.
	OuterEatoms bool
}

// EdgeIndex is the edge-lookup surface Build needs from a dependency
// graph; *depgraph.Graph satisfies it.
type EdgeIndex interface {
	EdgesFrom(registry.ID) []depgraph.Edge
	HasExternalAtoms(registry.ID) bool
}

// Build computes the SCC condensation of g restricted to rules, one
// Component per SCC, in no particular order.
func Build(g EdgeIndex, rules []registry.ID) []Component {
	sccs := tarjanRuleSCC(rules, g)

	out := make([]Component, 0, len(sccs))
	for _, scc := range sccs {
		inSCC := make(map[registry.ID]bool, len(scc))
		for _, r := range scc {
			inSCC[r] = true
		}

		c := Component{Rules: scc}
		c.Recursive = len(scc) > 1
		if !c.Recursive && len(scc) == 1 {
			for _, e := range g.EdgesFrom(scc[0]) {
				if e.To == scc[0] && e.Kinds.Has(depgraph.EdgePositive) {
					c.Recursive = true
				}
			}
		}

		hasEatom := false
		for _, r := range scc {
			if g.HasExternalAtoms(r) {
				hasEatom = true
			}
			for _, e := range g.EdgesFrom(r) {
				if inSCC[e.To] && e.Kinds.Has(depgraph.EdgeNegative) {
					c.HasNegativeEdge = true
				}
			}
		}
		if hasEatom {
			if c.Recursive {
				c.InnerEatoms = true
			} else {
				c.OuterEatoms = true
			}
		}

		out = append(out, c)
	}
	return out
}

func tarjanRuleSCC(nodes []registry.ID, g EdgeIndex) [][]registry.ID {
	index := make(map[registry.ID]int)
	lowlink := make(map[registry.ID]int)
	onStack := make(map[registry.ID]bool)
	var stack []registry.ID
	var comps [][]registry.ID
	next := 0

	var strongconnect func(v registry.ID)
	strongconnect = func(v registry.ID) {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, e := range g.EdgesFrom(v) {
			if !e.Kinds.Has(depgraph.EdgePositive) {
				continue // only positive edges can form an SCC's recursion
			}
			w := e.To
			if _, seen := index[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
			}
		}

		if lowlink[v] == index[v] {
			var comp []registry.ID
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			comps = append(comps, comp)
		}
	}

	for _, v := range nodes {
		if _, seen := index[v]; !seen {
			strongconnect(v)
		}
	}
	return comps
}
