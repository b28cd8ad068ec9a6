package backend

import (
	"testing"

	"github.com/hexhex/core/registry"
	"github.com/stretchr/testify/require"
)

func mustAtom(t *testing.T, r *registry.Registry, pred string) registry.ID {
	t.Helper()
	id, err := r.StoreOrdinaryAtom([]registry.ID{r.StoreConstant(pred)})
	require.NoError(t, err)
	return id
}

func TestInternalBackendSolvesFactProgram(t *testing.T) {
	r := registry.New()
	a := mustAtom(t, r, "a")
	r.StoreRule(registry.Rule{Head: []registry.ID{a}})

	stream, err := Internal{}.Solve(r)
	require.NoError(t, err)

	model, ok, err := stream.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, model.TestAtom(a))

	_, ok, err = stream.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOpenReturnsTheBuiltInInternalBackend(t *testing.T) {
	b, err := Open("internal", nil)
	require.NoError(t, err)
	require.IsType(t, Internal{}, b)
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	_, err := Open("does-not-exist", nil)
	require.Error(t, err)
}

func TestSubprocessBackendRoundTripsThroughCat(t *testing.T) {
	r := registry.New()
	a := mustAtom(t, r, "a")
	r.StoreRule(registry.Rule{Head: []registry.ID{a}})

	// cat echoes whatever the host writes to its stdin straight back to
	// stdout, so a fact program round-trips as its own single "answer
	// set" — enough to exercise the pipe wiring without a real backend.
	b := Subprocess{Path: "cat"}
	stream, err := b.Solve(r)
	require.NoError(t, err)

	model, ok, err := stream.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, model.TestAtom(a))

	_, ok, err = stream.Next()
	require.NoError(t, err)
	require.False(t, ok)
}
