// Package depgraph builds the rule/atom dependency graph of spec.md §4.5:
// typed edges between rules sharing atoms, used by package component to
// condense the program into strongly connected components and by package
// evalgraph to carve those components into an evaluation plan.
package depgraph

import "github.com/hexhex/core/registry"

// EdgeKind is one of the typed dependency-edge kinds of
// original_source/include/dlvhex/DependencyGraph.hpp, reduced to the
// subset meaningful for ground rule nodes: a rule depends positively or
// negatively on another rule when the first rule's body contains a
// literal whose atom the second rule's head defines; two rules carry a
// unifying edge when a head atom of one unifies with a different head
// atom of the other (a head atom both rules share adds no unifying edge).
type EdgeKind uint8

const (
	EdgePositive EdgeKind = 1 << iota
	EdgeNegative
	EdgeUnifying
)

// EdgeKindSet is a bitset of EdgeKind values; one rule pair may be
// connected by more than one kind at once (e.g. positive in one rule and
// negative in another).
type EdgeKindSet uint8

// Has reports whether k is present in the set.
func (s EdgeKindSet) Has(k EdgeKind) bool { return EdgeKindSet(k)&s != 0 }

// Edge is one dependency edge, From depending on To.
type Edge struct {
	From, To registry.ID
	Kinds    EdgeKindSet
}

// Graph is the dependency graph over a fixed set of rule nodes.
type Graph struct {
	Rules []registry.ID

	edgesFrom   map[registry.ID][]Edge
	edgesTo     map[registry.ID][]Edge
	disjunctive map[registry.ID]bool
	hasExternal map[registry.ID]bool
}

// Build constructs the dependency graph of rules within reg: a positive
// or negative rule-to-rule edge for every body literal whose atom some
// other rule's head defines, plus a unifying edge between any two rules
// with two distinct head atoms that unify (spec.md §4.5 "Construction").
func Build(reg *registry.Registry, rules []registry.ID) (*Graph, error) {
	g := &Graph{
		Rules:       rules,
		edgesFrom:   make(map[registry.ID][]Edge),
		edgesTo:     make(map[registry.ID][]Edge),
		disjunctive: make(map[registry.ID]bool),
		hasExternal: make(map[registry.ID]bool),
	}

	rows := make(map[registry.ID]registry.Rule, len(rules))
	definedBy := make(map[registry.Address][]registry.ID)
	for _, rid := range rules {
		row, err := reg.Rule(rid)
		if err != nil {
			return nil, err
		}
		rows[rid] = row
		g.disjunctive[rid] = row.IsDisjunctive()
		for _, h := range row.Head {
			definedBy[h.Address()] = append(definedBy[h.Address()], rid)
		}
	}

	for _, rid := range rules {
		row := rows[rid]
		hasExt, err := row.HasExternalAtoms(reg)
		if err != nil {
			return nil, err
		}
		g.hasExternal[rid] = hasExt

		for _, lit := range row.Body {
			atom := lit.Atom()
			if atom.SubKind() == registry.AtomExternal {
				continue // no defining rule; tracked via hasExternal
			}
			kind := EdgeKindSet(EdgePositive)
			if lit.IsNaf() {
				kind = EdgeKindSet(EdgeNegative)
			}
			for _, d := range definedBy[atom.Address()] {
				g.addEdge(rid, d, kind)
			}
		}
	}

	for i, ri := range rules {
		for j := i + 1; j < len(rules); j++ {
			rj := rules[j]
			if headsMayUnify(reg, rows[ri], rows[rj]) {
				g.addEdge(ri, rj, EdgeKindSet(EdgeUnifying))
				g.addEdge(rj, ri, EdgeKindSet(EdgeUnifying))
			}
		}
	}

	return g, nil
}

func headsMayUnify(reg *registry.Registry, a, b registry.Rule) bool {
	for _, ha := range a.Head {
		for _, hb := range b.Head {
			if ha == hb {
				continue
			}
			ok, err := reg.Unifies(ha, hb)
			if err == nil && ok {
				return true
			}
		}
	}
	return false
}

func (g *Graph) addEdge(from, to registry.ID, kind EdgeKindSet) {
	e := Edge{From: from, To: to, Kinds: kind}
	g.edgesFrom[from] = append(g.edgesFrom[from], e)
	g.edgesTo[to] = append(g.edgesTo[to], e)
}

// EdgesFrom returns every edge leaving rule id.
func (g *Graph) EdgesFrom(id registry.ID) []Edge { return g.edgesFrom[id] }

// EdgesTo returns every edge arriving at rule id.
func (g *Graph) EdgesTo(id registry.ID) []Edge { return g.edgesTo[id] }

// IsDisjunctive reports whether rule id has more than one head atom.
func (g *Graph) IsDisjunctive(id registry.ID) bool { return g.disjunctive[id] }

// HasExternalAtoms reports whether rule id's body contains an external
// atom literal.
func (g *Graph) HasExternalAtoms(id registry.ID) bool { return g.hasExternal[id] }
