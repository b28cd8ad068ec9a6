package hex

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hexhex/core/hex/config"
	"github.com/hexhex/core/registry"
)

func mustAtom(t *testing.T, r *registry.Registry, pred string) registry.ID {
	t.Helper()
	p := r.StoreConstant(pred)
	id, err := r.StoreOrdinaryAtom([]registry.ID{p})
	require.NoError(t, err)
	return id
}

func TestNewDefaultProducesTheUniqueAnswerSetOfAFactChain(t *testing.T) {
	r := registry.New()
	a := mustAtom(t, r, "a")
	b := mustAtom(t, r, "b")
	r1 := r.StoreRule(registry.Rule{Head: []registry.ID{a}})
	r2 := r.StoreRule(registry.Rule{Head: []registry.ID{b}, Body: []registry.ID{a.Literal(false)}})

	e, err := NewDefault(r, []registry.ID{r1, r2})
	require.NoError(t, err)

	sets := e.AnswerSets()
	require.Len(t, sets, 1)
	require.True(t, sets[0].TestAtom(a))
	require.True(t, sets[0].TestAtom(b))
}

func TestNewRejectsUnknownHeuristic(t *testing.T) {
	r := registry.New()
	a := mustAtom(t, r, "a")
	r1 := r.StoreRule(registry.Rule{Head: []registry.ID{a}})

	cfg := config.Default()
	cfg.Heuristic = "nonexistent"
	_, err := New(r, []registry.ID{r1}, cfg)
	require.Error(t, err)
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	r := registry.New()
	a := mustAtom(t, r, "a")
	r1 := r.StoreRule(registry.Rule{Head: []registry.ID{a}})

	cfg := config.Default()
	cfg.Backend = "nonexistent"
	_, err := New(r, []registry.ID{r1}, cfg)
	require.Error(t, err)
}
