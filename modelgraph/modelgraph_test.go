package modelgraph

import (
	"testing"

	"github.com/hexhex/core/evalgraph"
	"github.com/hexhex/core/registry"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateDeduplicatesByKey(t *testing.T) {
	reg := registry.New()
	g := New()
	in := registry.NewInterpretation(reg)
	in.Set(1)

	id1, created1 := g.GetOrCreate(0, LayerIn, in, nil)
	require.True(t, created1)

	id2, created2 := g.GetOrCreate(0, LayerIn, in, nil)
	require.False(t, created2)
	require.Equal(t, id1, id2)
}

func TestGetOrCreateDistinguishesLayerAndUnit(t *testing.T) {
	reg := registry.New()
	g := New()
	in := registry.NewInterpretation(reg)

	id1, _ := g.GetOrCreate(0, LayerIn, in, nil)
	id2, _ := g.GetOrCreate(0, LayerOut, in, nil)
	id3, _ := g.GetOrCreate(evalgraph.UnitID(1), LayerIn, in, nil)
	require.NotEqual(t, id1, id2)
	require.NotEqual(t, id1, id3)
}

func TestGetOrCreateDistinguishesPredecessorTuple(t *testing.T) {
	reg := registry.New()
	g := New()
	in := registry.NewInterpretation(reg)
	p1, _ := g.GetOrCreate(0, LayerIn, in, nil)
	p2, _ := g.GetOrCreate(0, LayerIn, in, []ModelID{p1})

	id1, created1 := g.GetOrCreate(1, LayerOut, in, []ModelID{p1, p2})
	require.True(t, created1)
	id2, created2 := g.GetOrCreate(1, LayerOut, in, []ModelID{p2, p1})
	require.False(t, created2, "predecessor order must not matter for the dedup key")
	require.Equal(t, id1, id2)
}

func TestIntersectSuccessorsReusesCachedResult(t *testing.T) {
	reg := registry.New()
	a := registry.NewInterpretation(reg)
	a.Set(1)
	a.Set(2)
	b := registry.NewInterpretation(reg)
	b.Set(2)
	b.Set(3)

	g := New()
	cache := make(map[[2]*registry.Interpretation]*registry.Interpretation)
	r1 := g.IntersectSuccessors(a, b, cache)
	r2 := g.IntersectSuccessors(a, b, cache)
	require.Same(t, r1, r2, "the second call with the same pair must reuse the cached intersection")
	require.ElementsMatch(t, []registry.Address{2}, r1.Addresses())
}
