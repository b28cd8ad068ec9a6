package evalgraph

import (
	"testing"

	"github.com/hexhex/core/component"
	"github.com/hexhex/core/depgraph"
	"github.com/hexhex/core/registry"
	"github.com/stretchr/testify/require"
)

func mustAtom(t *testing.T, r *registry.Registry, pred string) registry.ID {
	t.Helper()
	id, err := r.StoreOrdinaryAtom([]registry.ID{r.StoreConstant(pred)})
	require.NoError(t, err)
	return id
}

// buildChain creates three rules c :- b.  b :- a.  a.  each its own
// component, forming a 3-stage dependency chain.
func buildChain(t *testing.T) (*depgraph.Graph, []component.Component) {
	t.Helper()
	r := registry.New()
	a := mustAtom(t, r, "a")
	b := mustAtom(t, r, "b")
	c := mustAtom(t, r, "c")
	r1 := r.StoreRule(registry.Rule{Head: []registry.ID{a}})
	r2 := r.StoreRule(registry.Rule{Head: []registry.ID{b}, Body: []registry.ID{a.Literal(false)}})
	r3 := r.StoreRule(registry.Rule{Head: []registry.ID{c}, Body: []registry.ID{b.Literal(false)}})

	g, err := depgraph.Build(r, []registry.ID{r1, r2, r3})
	require.NoError(t, err)
	comps := component.Build(g, []registry.ID{r1, r2, r3})
	return g, comps
}

func TestTrivialHeuristicCreatesOneUnitPerComponent(t *testing.T) {
	g, comps := buildChain(t)
	eg := Trivial{}.Build(g, comps)
	require.Len(t, eg.Units, len(comps))
}

func TestDependencyJoinOrderIsDenseFromZero(t *testing.T) {
	g, comps := buildChain(t)
	eg := Trivial{}.Build(g, comps)
	for _, u := range eg.Units {
		deps := eg.DependenciesOf(u.ID)
		for i, d := range deps {
			require.Equal(t, i, d.JoinOrder)
		}
	}
}

func TestEvalGraphUnitsAreCreatedInDependencyOrder(t *testing.T) {
	g, comps := buildChain(t)
	eg := Trivial{}.Build(g, comps)
	require.Len(t, eg.Units, 3)

	// every dependency edge must point to a unit created earlier (lower
	// UnitID), since CreateEvalUnit only ever consumes already-created
	// units: this is exactly what makes the eval graph a DAG.
	for _, u := range eg.Units {
		for _, d := range eg.DependenciesOf(u.ID) {
			require.Less(t, int(d.To), int(u.ID))
		}
	}
}

func TestEasyHeuristicProducesNoMoreUnitsThanTrivial(t *testing.T) {
	g, comps := buildChain(t)
	trivial := Trivial{}.Build(g, comps)
	easy := Easy{}.Build(g, comps)
	require.LessOrEqual(t, len(easy.Units), len(trivial.Units))
}

func TestFromFileHeuristicHonorsAssignment(t *testing.T) {
	g, comps := buildChain(t)
	// fold components 0 and 1 into unit 0, component 2 into unit 1.
	h := FromFile{Assignment: []int{0, 0, 1}}
	eg := h.Build(g, comps)
	require.Len(t, eg.Units, 2)

	var total int
	for _, u := range eg.Units {
		total += len(u.Rules)
	}
	require.Equal(t, 3, total, "every rule must end up in exactly one unit")
}
