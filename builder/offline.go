package builder

import (
	"github.com/hexhex/core/evalgraph"
	"github.com/hexhex/core/modelgraph"
)

// OfflineBuilder is the thin exhaustive-DFS wrapper of spec.md §4.9's
// closing paragraph: "performs exhaustive DFS over the eval graph
// ensuring all predecessor OUT-models exist before enumerating a unit's
// IN-models, materializing every model in H." It reuses
// OnlineModelBuilder's demand-driven primitives; the only difference is
// that it drives them to exhaustion up front instead of one model at a
// time on request.
type OfflineBuilder struct {
	online *OnlineModelBuilder
	eval   *evalgraph.Graph
}

// NewOffline wraps an online builder for exhaustive materialization.
func NewOffline(online *OnlineModelBuilder, eval *evalgraph.Graph) *OfflineBuilder {
	return &OfflineBuilder{online: online, eval: eval}
}

// MaterializeAll computes every OUTPROJ model of every unit in the eval
// graph's dependency order (predecessors fully materialized before a
// successor is enumerated), returning the OUTPROJ model IDs of the eval
// graph's sink units — the units nothing else depends on, whose OUTPROJ
// models are exactly the program's answer sets.
func (b *OfflineBuilder) MaterializeAll() [][]modelgraph.ModelID {
	n := len(b.eval.Units)
	outproj := make([][]modelgraph.ModelID, n)
	hasSuccessor := make([]bool, n)

	for u := 0; u < n; u++ {
		unit := evalgraph.UnitID(u)
		deps := b.eval.DependenciesOf(unit)
		for _, dep := range deps {
			hasSuccessor[dep.To] = true
		}

		// Cross product of every predecessor's already-materialized
		// OUTPROJ models, one IN model per combination, in join order.
		combos := [][]modelgraph.ModelID{{}}
		for _, dep := range deps {
			predModels := outproj[dep.To]
			var next [][]modelgraph.ModelID
			for _, combo := range combos {
				for _, pm := range predModels {
					row := append(append([]modelgraph.ModelID{}, combo...), pm)
					next = append(next, row)
				}
			}
			combos = next
		}

		for _, combo := range combos {
			inID := b.online.GetNextIModel(unit, combo)
			for {
				projID, ok := b.online.GetNextOModel(unit, inID)
				if !ok {
					break
				}
				outproj[u] = append(outproj[u], projID)
			}
		}
	}

	var sinks [][]modelgraph.ModelID
	for u := 0; u < n; u++ {
		if !hasSuccessor[u] {
			sinks = append(sinks, outproj[u])
		}
	}
	return sinks
}
