// Package evalgraph carves a component graph (package component) into an
// evaluation plan: a DAG of eval units with dense join-order edges,
// spec.md §4.7 "Eval-graph builder + heuristics".
package evalgraph

import (
	"sort"

	"github.com/hexhex/core/component"
	"github.com/hexhex/core/depgraph"
	"github.com/hexhex/core/registry"
)

// UnitID is a dense, insertion-order eval-unit handle.
type UnitID int

// Unit is one eval unit: the rules of the one or more components the
// heuristic folded together, plus the OR of the folded-in components'
// Recursive, InnerEatoms and OuterEatoms flags (a component's
// HasNegativeEdge is not carried over).
type Unit struct {
	ID          UnitID
	Rules       []registry.ID
	Recursive   bool
	InnerEatoms bool
	OuterEatoms bool
}

// Dependency is one eval-unit dependency edge with its dense join-order
// position (spec.md §4.7 invariant: "the join-order positions of a unit's
// incoming dependency edges are exactly 0..fan-in-1, with no gaps").
type Dependency struct {
	From, To  UnitID
	JoinOrder int
}

// Graph is the eval graph: a DAG of units connected by join-order-indexed
// dependency edges.
type Graph struct {
	Units []Unit
	deps  map[UnitID][]Dependency
}

func newGraph() *Graph {
	return &Graph{deps: make(map[UnitID][]Dependency)}
}

// CreateEvalUnit appends a new unit built from the given component set,
// consuming the listed predecessor units as its dependencies in the
// order given (spec.md §4.7 "create_eval_unit(consumed, shared)": consumed
// units become join-order-indexed predecessors; shared denotes nothing
// further to this in-memory representation beyond the edge itself, since
// the registry already owns every atom both sides reference).
func (g *Graph) CreateEvalUnit(consumed []UnitID, comps ...component.Component) UnitID {
	id := UnitID(len(g.Units))
	u := Unit{ID: id}
	for _, c := range comps {
		u.Rules = append(u.Rules, c.Rules...)
		u.Recursive = u.Recursive || c.Recursive
		u.InnerEatoms = u.InnerEatoms || c.InnerEatoms
		u.OuterEatoms = u.OuterEatoms || c.OuterEatoms
	}
	g.Units = append(g.Units, u)
	for i, from := range consumed {
		g.deps[id] = append(g.deps[id], Dependency{From: id, To: from, JoinOrder: i})
	}
	return id
}

// DependenciesOf returns unit id's dependency edges in join-order.
func (g *Graph) DependenciesOf(id UnitID) []Dependency {
	return g.deps[id]
}

// componentDeps returns, for each component index, the set of component
// indices it depends on: c depends on d when some rule of c has a
// dependency-graph edge into a rule of d, d != c (inter-component edges;
// intra-component edges were already absorbed into the SCC itself).
func componentDeps(g EdgeIndex, comps []component.Component) map[int]map[int]bool {
	ownerOf := make(map[registry.ID]int)
	for ci, c := range comps {
		for _, r := range c.Rules {
			ownerOf[r] = ci
		}
	}
	deps := make(map[int]map[int]bool)
	for ci, c := range comps {
		for _, r := range c.Rules {
			for _, e := range g.EdgesFrom(r) {
				if dj, ok := ownerOf[e.To]; ok && dj != ci {
					if deps[ci] == nil {
						deps[ci] = make(map[int]bool)
					}
					deps[ci][dj] = true
				}
			}
		}
	}
	return deps
}

// EdgeIndex is the minimal dependency-graph surface the eval-graph
// builders need; *depgraph.Graph satisfies it.
type EdgeIndex interface {
	EdgesFrom(registry.ID) []depgraph.Edge
}

// topoOrder returns component indices in an order where every
// component's dependencies precede it (Kahn's algorithm). Components
// forming a cycle among themselves cannot occur here: component.Build
// already collapsed every cycle into a single SCC component.
func topoOrder(n int, deps map[int]map[int]bool) []int {
	indeg := make([]int, n)
	succ := make(map[int][]int)
	for c, ds := range deps {
		for d := range ds {
			succ[d] = append(succ[d], c)
			indeg[c]++
		}
	}
	var queue []int
	for i := 0; i < n; i++ {
		if indeg[i] == 0 {
			queue = append(queue, i)
		}
	}
	sort.Ints(queue)
	var order []int
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		order = append(order, v)
		next := succ[v]
		sort.Ints(next)
		for _, w := range next {
			indeg[w]--
			if indeg[w] == 0 {
				queue = append(queue, w)
			}
		}
	}
	return order
}
