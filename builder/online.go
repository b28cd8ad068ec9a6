package builder

import (
	"github.com/hexhex/core/evalgraph"
	"github.com/hexhex/core/modelgraph"
	"github.com/hexhex/core/registry"
)

// SessionFactory opens a new model-generator session for a unit given its
// (already-joined) input interpretation. hex.New binds this to a function
// that ignores unit and input and opens NewSession over the whole
// registry; tests can substitute a stub.
type SessionFactory func(unit evalgraph.Unit, input *registry.Interpretation) *Session

// OnlineModelBuilder holds the per-unit model-graph state of spec.md
// §4.9's walk: a caller builds a unit's IN model with GetNextIModel from
// one combination of predecessor OUTPROJ models, then pulls that unit's
// models one at a time through GetNextOModel, which opens or advances the
// unit's own session. Neither method requests predecessor models itself;
// the caller chooses the predecessor combinations (OfflineBuilder tries
// all of them).
type OnlineModelBuilder struct {
	eval    *evalgraph.Graph
	models  *modelgraph.Graph
	reg     *registry.Registry
	factory SessionFactory

	// interfaceMask[u] restricts an OUT model down to the atoms visible
	// to u's successors when projecting to OUTPROJ; a nil mask means no
	// projection (OUTPROJ == OUT), the builder's default.
	interfaceMask map[evalgraph.UnitID]*registry.Interpretation

	sessions  map[sessionKey]*Session
	refCounts map[modelgraph.ModelID]int
}

type sessionKey struct {
	unit  evalgraph.UnitID
	input modelgraph.ModelID
}

// New creates a builder over a completed eval graph.
func New(reg *registry.Registry, eval *evalgraph.Graph, factory SessionFactory) *OnlineModelBuilder {
	return &OnlineModelBuilder{
		eval:          eval,
		models:        modelgraph.New(),
		reg:           reg,
		factory:       factory,
		interfaceMask: make(map[evalgraph.UnitID]*registry.Interpretation),
		sessions:      make(map[sessionKey]*Session),
		refCounts:     make(map[modelgraph.ModelID]int),
	}
}

// Models exposes the underlying model graph so a caller holding a
// model ID returned by GetNextIModel/GetNextOModel can resolve it back
// to its interpretation.
func (b *OnlineModelBuilder) Models() *modelgraph.Graph { return b.models }

// SetInterfaceMask restricts unit u's OUTPROJ models to the atoms set in
// mask, so unrelated internal (auxiliary) atoms never leak into a
// successor unit's input.
func (b *OnlineModelBuilder) SetInterfaceMask(u evalgraph.UnitID, mask *registry.Interpretation) {
	b.interfaceMask[u] = mask
}

// GetNextIModel builds (or reuses) unit u's IN model for the given
// combination of predecessor OUTPROJ models, one per join-order position,
// by unioning their interpretations (spec.md §4.9 "the IN model of a unit
// is the union of its predecessors' OUTPROJ models, indexed by join
// order"). Passing no predecessors (a source unit) yields the empty
// interpretation.
func (b *OnlineModelBuilder) GetNextIModel(u evalgraph.UnitID, predOutproj []modelgraph.ModelID) modelgraph.ModelID {
	in := registry.NewInterpretation(b.reg)
	for _, pid := range predOutproj {
		p := b.models.Get(pid)
		in = in.Union(p.Interp)
	}
	id, _ := b.models.GetOrCreate(u, modelgraph.LayerIn, in, predOutproj)
	// INPROJ is, in this module's simplified model (no separate input
	// signature restriction beyond the union itself), identical to IN:
	// every atom a unit's rules can read is already exactly what its
	// predecessors exposed.
	b.models.GetOrCreate(u, modelgraph.LayerInProj, in, []modelgraph.ModelID{id})
	return id
}

// GetNextOModel advances unit u's session for the given IN model and
// returns the next OUT/OUTPROJ model pair, or ok=false once the session
// is exhausted. Sessions are cached per (unit, IN model) so repeated
// calls resume the same underlying solver search rather than restarting
// it (spec.md §4.9 "resuming a unit's search must not re-enumerate models
// already returned").
func (b *OnlineModelBuilder) GetNextOModel(u evalgraph.UnitID, inModel modelgraph.ModelID) (modelgraph.ModelID, bool) {
	key := sessionKey{unit: u, input: inModel}
	sess, ok := b.sessions[key]
	if !ok {
		in := b.models.Get(inModel).Interp
		sess = b.factory(b.eval.Units[u], in)
		b.sessions[key] = sess
	}

	out, found := sess.Next()
	if !found {
		return 0, false
	}

	outID, _ := b.models.GetOrCreate(u, modelgraph.LayerOut, out, []modelgraph.ModelID{inModel})

	proj := out
	if mask, ok := b.interfaceMask[u]; ok && mask != nil {
		proj = out.Intersect(mask)
	}
	projID, _ := b.models.GetOrCreate(u, modelgraph.LayerOutProj, proj, []modelgraph.ModelID{outID})

	b.refCounts[projID]++
	return projID, true
}

// Release decrements the back-pressure reference count of an OUTPROJ
// model; a model a successor unit will never request again (ref count
// dropped to zero) becomes eligible for the caller to drop its retained
// interpretation, though this builder itself never evicts model-graph
// nodes (spec.md §4.8 "the model graph is retained for the engine's
// lifetime").
func (b *OnlineModelBuilder) Release(id modelgraph.ModelID) {
	if b.refCounts[id] > 0 {
		b.refCounts[id]--
	}
}

// RefCount reports how many times an OUTPROJ model is still referenced.
func (b *OnlineModelBuilder) RefCount(id modelgraph.ModelID) int {
	return b.refCounts[id]
}
