package ground

import (
	"testing"

	"github.com/hexhex/core/registry"
	"github.com/stretchr/testify/require"
)

func atomID(t *testing.T, r *registry.Registry, pred string) registry.ID {
	t.Helper()
	id, err := r.StoreOrdinaryAtom([]registry.ID{r.StoreConstant(pred)})
	require.NoError(t, err)
	return id
}

func containsNogood(nogoods []Nogood, want Nogood) bool {
	matches := func(a, b Nogood) bool {
		if len(a) != len(b) {
			return false
		}
		seen := make(map[Lit]bool)
		for _, l := range a {
			seen[l] = true
		}
		for _, l := range b {
			if !seen[l] {
				return false
			}
		}
		return true
	}
	for _, ng := range nogoods {
		if matches(ng, want) {
			return true
		}
	}
	return false
}

func TestCompletionFactForcesAtomTrue(t *testing.T) {
	r := registry.New()
	a := atomID(t, r, "a")
	r.StoreRule(registry.Rule{Kind: registry.RuleRegular, Head: []registry.ID{a}})

	comp := BuildCompletion(r)
	require.True(t, containsNogood(comp.Nogoods, Nogood{{Addr: a.Address(), Pos: false}}),
		"a fact's rule nogood must forbid the head being false unconditionally")
}

func TestCompletionConstraintForcesBodyAtomFalse(t *testing.T) {
	r := registry.New()
	a := atomID(t, r, "a")
	r.StoreRule(registry.Rule{Body: []registry.ID{a.Literal(false)}})

	comp := BuildCompletion(r)
	require.True(t, containsNogood(comp.Nogoods, Nogood{{Addr: a.Address(), Pos: true}}),
		"a constraint over a single positive atom must forbid that atom being true")
}

func TestCompletionForbidsUnsupportedHead(t *testing.T) {
	r := registry.New()
	a := atomID(t, r, "a")
	b := atomID(t, r, "b")
	r.StoreRule(registry.Rule{Head: []registry.ID{a}, Body: []registry.ID{b.Literal(false)}})

	comp := BuildCompletion(r)
	require.True(t, containsNogood(comp.Nogoods, Nogood{{Addr: a.Address(), Pos: false}, {Addr: b.Address(), Pos: true}}),
		"the rule nogood must forbid body-true(b) with head-false(a)")

	var sawCompletion bool
	for _, ng := range comp.Nogoods {
		if len(ng) == 2 {
			for _, l := range ng {
				if l.Addr == a.Address() && l.Pos {
					sawCompletion = true
				}
			}
		}
	}
	require.True(t, sawCompletion, "a must have a completion nogood forbidding it true without support")
}

func TestShiftDisjunctiveHeadProducesOneRulePerDisjunct(t *testing.T) {
	r := registry.New()
	a := atomID(t, r, "a")
	b := atomID(t, r, "b")
	row := registry.Rule{Head: []registry.ID{a, b}}

	shifted := Shift(row)
	require.Len(t, shifted, 2)
	require.Equal(t, a, shifted[0].Head)
	require.Equal(t, b, shifted[1].Head)
	require.Contains(t, shifted[0].Body, b.Literal(true), "shifting a|b must add not b to a's rule")
	require.Contains(t, shifted[1].Body, a.Literal(true), "shifting a|b must add not a to b's rule")
}
