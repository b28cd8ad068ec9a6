package solver

import (
	"testing"

	"github.com/hexhex/core/registry"
	"github.com/stretchr/testify/require"
)

func TestUnitPropagateForcesImpliedLiteral(t *testing.T) {
	// nogood {0=true, 1=true}: forbids both true at once.
	c := New([]registry.Address{0, 1}, []Nogood{
		{{Addr: 0, Pos: true}, {Addr: 1, Pos: true}},
	})
	c.setFact(0, true, causeNone)
	outcome, _ := c.UnitPropagate()
	require.Equal(t, OutcomeOk, outcome)
	v, ok := c.assign.valueOf(1)
	require.True(t, ok)
	require.False(t, v, "addr 1 must be forced false once addr 0 is true")
}

func TestUnitPropagateDetectsConflictWhenBothForcedTrue(t *testing.T) {
	c := New([]registry.Address{0, 1}, []Nogood{
		{{Addr: 0, Pos: true}, {Addr: 1, Pos: true}},
	})
	c.setFact(0, true, causeNone)
	c.setFact(1, true, causeNone)
	outcome, conflict := c.UnitPropagate()
	require.Equal(t, OutcomeConflict, outcome)
	require.Equal(t, NogoodID(0), conflict)
}

func TestUnitPropagateNoOpWhenNogoodAlreadySatisfiableEitherWay(t *testing.T) {
	c := New([]registry.Address{0, 1, 2}, []Nogood{
		{{Addr: 0, Pos: true}, {Addr: 1, Pos: true}, {Addr: 2, Pos: true}},
	})
	c.setFact(0, true, causeNone)
	outcome, _ := c.UnitPropagate()
	require.Equal(t, OutcomeOk, outcome)
	require.False(t, c.assign.isAssigned(1))
	require.False(t, c.assign.isAssigned(2))
}

func TestGetNextModelFindsModelWithNoNogoods(t *testing.T) {
	reg := registry.New()
	c := New([]registry.Address{0, 1}, nil)
	outcome, model := c.GetNextModel(reg)
	require.Equal(t, OutcomeModel, outcome)
	require.NotNil(t, model)
}

func TestGetNextModelEnumeratesThenExhausts(t *testing.T) {
	reg := registry.New()
	// Single atom, no nogoods: exactly two models (true, false) exist
	// over {0}. After both are found, search must report unsat.
	c := New([]registry.Address{0}, nil)

	seen := make(map[bool]bool)
	for i := 0; i < 2; i++ {
		outcome, model := c.GetNextModel(reg)
		require.Equal(t, OutcomeModel, outcome, "iteration %d", i)
		seen[model.Test(0)] = true
	}
	require.True(t, seen[true])
	require.True(t, seen[false])

	outcome, _ := c.GetNextModel(reg)
	require.Equal(t, OutcomeConflict, outcome, "search space must be exhausted after both models")
}

func TestGetNextModelEnumeratesBothModelsPastADegenerateUnitNogood(t *testing.T) {
	reg := registry.New()
	// A length-1 nogood {0=false} is the shape Clark completion emits for
	// a fact rule's "backward" nogood (ground/completion.go): it forbids
	// addr 0 ever being false without forcing it true up front. Addr 1 is
	// free, so exactly two models exist: {0:true,1:true} and
	// {0:true,1:false}. A second GetNextModel call must find the second
	// model rather than reporting the search exhausted after the first.
	c := New([]registry.Address{0, 1}, []Nogood{
		{{Addr: 0, Pos: false}},
	})

	seen := make(map[bool]bool)
	for i := 0; i < 2; i++ {
		outcome, model := c.GetNextModel(reg)
		require.Equal(t, OutcomeModel, outcome, "iteration %d", i)
		require.True(t, model.Test(0), "the degenerate nogood forbids addr 0 false")
		seen[model.Test(1)] = true
	}
	require.True(t, seen[true], "model with addr 1 true must be enumerated")
	require.True(t, seen[false], "model with addr 1 false must be enumerated")

	outcome, _ := c.GetNextModel(reg)
	require.Equal(t, OutcomeConflict, outcome, "search space must be exhausted after both models")
}

func TestGetNextModelRespectsNogoodConstraint(t *testing.T) {
	reg := registry.New()
	// Forbid both atoms true simultaneously.
	c := New([]registry.Address{0, 1}, []Nogood{
		{{Addr: 0, Pos: true}, {Addr: 1, Pos: true}},
	})
	for i := 0; i < 10; i++ {
		outcome, model := c.GetNextModel(reg)
		if outcome != OutcomeModel {
			break
		}
		require.False(t, model.Test(0) && model.Test(1), "nogood must never be violated by a returned model")
	}
}

func TestAnalyzeLearnsNogoodFalsifiedByCurrentAssignment(t *testing.T) {
	// ng0 forces addr1 true once addr0 is true; ng1 forces addr2 true
	// the same way; ng2 then forbids addr1 and addr2 both true, which
	// is the conflict to analyze.
	c := New([]registry.Address{0, 1, 2}, []Nogood{
		{{Addr: 0, Pos: true}, {Addr: 1, Pos: false}}, // ng0 = id 0
		{{Addr: 0, Pos: true}, {Addr: 2, Pos: false}}, // ng1 = id 1
		{{Addr: 1, Pos: true}, {Addr: 2, Pos: true}},  // ng2 = id 2
	})
	c.assign.trail = append(c.assign.trail, nil) // level 1
	c.setFact(0, true, causeNone)
	c.setFact(1, true, 0)
	c.setFact(2, true, 1)

	learned, level := c.Analyze(2)
	require.NotEmpty(t, learned)
	for _, l := range learned {
		require.True(t, c.assign.satisfied(l), "every literal of the learned nogood must be satisfied by the conflicting assignment")
	}
	require.Equal(t, 0, level, "resolving down to the sole decision literal backjumps to level 0")
}

func TestGuessFavorsPolarityOfTheSmallerActivityCounter(t *testing.T) {
	c := New([]registry.Address{0, 1}, nil)
	// addr 0: far more true-assignments recorded than false, and the
	// higher combined count (14 against addr 1's 10), so Guess picks it
	// first and must favor the smaller (negative) counter by deciding it
	// false.
	c.assign.posCount[0] = 12
	c.assign.negCount[0] = 2
	// addr 1: the reverse, so Guess must decide it true.
	c.assign.posCount[1] = 1
	c.assign.negCount[1] = 9

	require.True(t, c.Guess())
	v, ok := c.assign.valueOf(0)
	require.True(t, ok)
	require.False(t, v, "posCount > negCount must decide the smaller (negative) polarity")

	require.True(t, c.Guess())
	v, ok = c.assign.valueOf(1)
	require.True(t, ok)
	require.True(t, v, "negCount > posCount must decide the smaller (positive) polarity")
}

func TestGuessPrefersRecentConflictNogoodOverGlobalActivity(t *testing.T) {
	c := New([]registry.Address{0, 1, 2}, nil)
	// addr 1 is globally far more active than addr 2, so an unqualified
	// activity scan would pick it first.
	c.assign.posCount[1] = 100
	c.assign.negCount[1] = 100
	c.assign.posCount[2] = 1
	c.assign.negCount[2] = 3

	// A nogood learned from a conflict mentions only addr 0 (already
	// decided) and addr 2: spec.md §4.3's guess() must scan this
	// recent-conflicts nogood first and pick addr 2 over the globally
	// hotter addr 1.
	c.setFact(0, true, causeNone)
	id := c.nogoods.Add(Nogood{{Addr: 0, Pos: true}, {Addr: 2, Pos: true}})
	c.recentConflictNogoods = append(c.recentConflictNogoods, id)

	require.True(t, c.Guess())
	_, assigned := c.assign.valueOf(1)
	require.False(t, assigned, "addr 1 must not be the guess: it is not in the recent-conflict nogood")
	v, ok := c.assign.valueOf(2)
	require.True(t, ok, "addr 2 from the recent-conflict nogood must be the guess")
	require.True(t, v, "posCount(1) <= negCount(3) must decide addr 2 true")
}

func TestClearFactRequiresNoWatchRebuild(t *testing.T) {
	c := New([]registry.Address{0, 1}, []Nogood{
		{{Addr: 0, Pos: true}, {Addr: 1, Pos: true}},
	})
	before := c.watch.slots[0]
	c.setFact(0, true, causeNone)
	c.UnitPropagate()
	c.clearFact(1)
	c.clearFact(0)
	require.Equal(t, before, c.watch.slots[0], "backtracking must not move any watch")
}
