package oracle

import (
	"path/filepath"
	"testing"

	"github.com/hexhex/core/registry"
	"github.com/stretchr/testify/require"
)

type evenAtom struct{ calls int }

func (e *evenAtom) Signature() Signature { return Signature{OutputArity: 1} }
func (e *evenAtom) IsMonotonic() bool    { return true }
func (e *evenAtom) Retrieve(q Query) ([]Tuple, error) {
	e.calls++
	return []Tuple{{q.InputTuple[0]}}, nil
}

func TestInternScalarChoosesIntegerForNumericValues(t *testing.T) {
	r := registry.New()
	id := InternScalar(r, 42)
	term, err := r.Term(id)
	require.NoError(t, err)
	require.Equal(t, registry.TermInteger, term.Kind)
	require.Equal(t, int64(42), term.Integer)
}

func TestInternScalarFallsBackToConstantForNonNumeric(t *testing.T) {
	r := registry.New()
	id := InternScalar(r, "foo")
	term, err := r.Term(id)
	require.NoError(t, err)
	require.Equal(t, registry.TermConstant, term.Kind)
	require.Equal(t, "foo", term.Symbol)
}

func TestCachedOracleReusesAnswerAcrossIdenticalQueries(t *testing.T) {
	r := registry.New()
	four := r.StoreInteger(4)

	inner := &evenAtom{}
	path := filepath.Join(t.TempDir(), "cache.db")
	cached, err := OpenCache(path, inner)
	require.NoError(t, err)
	defer cached.Close()

	q := Query{Interp: registry.NewInterpretation(r), InputTuple: []registry.ID{four}}

	ans1, err := cached.Retrieve(q)
	require.NoError(t, err)
	require.Len(t, ans1, 1)

	ans2, err := cached.Retrieve(q)
	require.NoError(t, err)
	require.Equal(t, ans1, ans2)
	require.Equal(t, 1, inner.calls, "a repeated identical query must hit the cache, not the inner oracle")
}

func TestRegisterAndOpenRoundTrip(t *testing.T) {
	name := "test-even"
	Register(name, func(config map[string]string) (PluginAtom, error) {
		return &evenAtom{}, nil
	})
	atom, err := Open(name, nil)
	require.NoError(t, err)
	require.NotNil(t, atom)
	require.Contains(t, Names(), name)

	_, err = Open("does-not-exist", nil)
	require.Error(t, err)
}

