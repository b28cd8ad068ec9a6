// Package modelgraph implements the model graph of spec.md §4.8: a
// persistent DAG of models layered IN -> INPROJ -> OUT -> OUTPROJ per eval
// unit, with successor-intersection reuse so that the same predecessor
// model tuple is never joined twice at a unit. Nodes are deduplicated by
// unit, layer and predecessor IDs, not by interpretation content.
package modelgraph

import (
	"sort"

	"github.com/hexhex/core/evalgraph"
	"github.com/hexhex/core/registry"
)

// Layer is one of the four model layers of an eval unit.
type Layer uint8

const (
	LayerIn Layer = iota
	LayerInProj
	LayerOut
	LayerOutProj
)

func (l Layer) String() string {
	switch l {
	case LayerIn:
		return "IN"
	case LayerInProj:
		return "INPROJ"
	case LayerOut:
		return "OUT"
	case LayerOutProj:
		return "OUTPROJ"
	default:
		return "UNKNOWN"
	}
}

// ModelID is a dense, insertion-order model handle.
type ModelID int

// Model is one node of the model graph: an interpretation at a given
// layer of a given eval unit, with the predecessor models (one per
// join-order dependency) it was built from.
type Model struct {
	ID           ModelID
	Unit         evalgraph.UnitID
	Layer        Layer
	Interp       *registry.Interpretation
	Predecessors []ModelID
}

// Graph is the model graph: an append-only store of Model nodes indexed
// by (unit, layer, predecessor tuple), so "does a node already exist for
// this key" is one map lookup. Intersections of model interpretations are
// cached by IntersectSuccessors in a map the caller owns, not in Graph.
type Graph struct {
	nodes []Model

	// byKey deduplicates nodes that are identical in every field that
	// matters for reuse: re-deriving the same (unit, layer, predecessor
	// tuple) must return the existing node (spec.md §4.8 "construction is
	// checked: creating a node that already exists by this key returns
	// the existing node instead of a duplicate").
	byKey map[string]ModelID
}

// New creates an empty model graph.
func New() *Graph {
	return &Graph{byKey: make(map[string]ModelID)}
}

func key(unit evalgraph.UnitID, layer Layer, preds []ModelID) string {
	sorted := append([]ModelID{}, preds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	b := make([]byte, 0, 16+4*len(sorted))
	b = append(b, byte(unit), byte(unit>>8), byte(unit>>16), byte(unit>>24), byte(layer))
	for _, p := range sorted {
		b = append(b, byte(p), byte(p>>8), byte(p>>16), byte(p>>24))
	}
	return string(b)
}

// GetOrCreate returns the existing node for (unit, layer, predecessors)
// if one was already built, or creates and returns a new one otherwise.
// created reports which case occurred.
func (g *Graph) GetOrCreate(unit evalgraph.UnitID, layer Layer, interp *registry.Interpretation, predecessors []ModelID) (id ModelID, created bool) {
	k := key(unit, layer, predecessors)
	if existing, ok := g.byKey[k]; ok {
		return existing, false
	}
	id = ModelID(len(g.nodes))
	g.nodes = append(g.nodes, Model{
		ID:           id,
		Unit:         unit,
		Layer:        layer,
		Interp:       interp,
		Predecessors: append([]ModelID{}, predecessors...),
	})
	g.byKey[k] = id
	return id, true
}

// Get returns the node at id.
func (g *Graph) Get(id ModelID) Model { return g.nodes[id] }

// ByUnitLayer returns every model of the given unit and layer, in
// creation order.
func (g *Graph) ByUnitLayer(unit evalgraph.UnitID, layer Layer) []ModelID {
	var out []ModelID
	for _, m := range g.nodes {
		if m.Unit == unit && m.Layer == layer {
			out = append(out, m.ID)
		}
	}
	return out
}

// IntersectSuccessors reuses the sorted-address intersection of two
// OUTPROJ models' interpretations if it was already computed for this
// exact pair (spec.md §4.8 "successor-intersection reuse"), else computes
// and caches it.
func (g *Graph) IntersectSuccessors(a, b *registry.Interpretation, cache map[[2]*registry.Interpretation]*registry.Interpretation) *registry.Interpretation {
	k := [2]*registry.Interpretation{a, b}
	if v, ok := cache[k]; ok {
		return v
	}
	r := a.Intersect(b)
	cache[k] = r
	return r
}
