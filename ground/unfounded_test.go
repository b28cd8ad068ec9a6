package ground

import (
	"testing"

	"github.com/hexhex/core/registry"
	"github.com/stretchr/testify/require"
)

func TestUnfoundedCheckFlagsSelfSupportingLoop(t *testing.T) {
	r := registry.New()
	a := atomID(t, r, "a")
	b := atomID(t, r, "b")
	// a :- b.   b :- a.   (no external support for either)
	r.StoreRule(registry.Rule{Head: []registry.ID{a}, Body: []registry.ID{b.Literal(false)}})
	r.StoreRule(registry.Rule{Head: []registry.ID{b}, Body: []registry.ID{a.Literal(false)}})

	comp := BuildCompletion(r)
	checker := NewUnfoundedChecker(r, comp)

	value := map[registry.Address]bool{a.Address(): true, b.Address(): true}
	loops := checker.Check(func(addr registry.Address) bool { return value[addr] })

	require.NotEmpty(t, loops, "a loop with no external support must be flagged unfounded")
	for _, ng := range loops {
		require.Len(t, ng, 1, "a loop atom with zero external supporters has a unit loop nogood")
	}
}

func TestUnfoundedCheckAcceptsExternallySupportedLoop(t *testing.T) {
	r := registry.New()
	a := atomID(t, r, "a")
	b := atomID(t, r, "b")
	c := atomID(t, r, "c")
	// a :- b.   b :- a.   a :- c.   (c is an external support for a)
	r.StoreRule(registry.Rule{Head: []registry.ID{a}, Body: []registry.ID{b.Literal(false)}})
	r.StoreRule(registry.Rule{Head: []registry.ID{b}, Body: []registry.ID{a.Literal(false)}})
	r.StoreRule(registry.Rule{Head: []registry.ID{a}, Body: []registry.ID{c.Literal(false)}})

	comp := BuildCompletion(r)
	checker := NewUnfoundedChecker(r, comp)

	value := map[registry.Address]bool{a.Address(): true, b.Address(): true, c.Address(): true}
	loops := checker.Check(func(addr registry.Address) bool { return value[addr] })
	require.Empty(t, loops, "a loop with a true external support must not be flagged unfounded")
}

func TestUnfoundedCheckIgnoresFalseLoop(t *testing.T) {
	r := registry.New()
	a := atomID(t, r, "a")
	b := atomID(t, r, "b")
	r.StoreRule(registry.Rule{Head: []registry.ID{a}, Body: []registry.ID{b.Literal(false)}})
	r.StoreRule(registry.Rule{Head: []registry.ID{b}, Body: []registry.ID{a.Literal(false)}})

	comp := BuildCompletion(r)
	checker := NewUnfoundedChecker(r, comp)

	loops := checker.Check(func(registry.Address) bool { return false })
	require.Empty(t, loops, "atoms that are false are never part of a candidate unfounded set")
}
