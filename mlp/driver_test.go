package mlp

import (
	"testing"

	"github.com/hexhex/core/registry"
	"github.com/stretchr/testify/require"
)

func mustOrdinary(t *testing.T, r *registry.Registry, pred string) registry.ID {
	t.Helper()
	id, err := r.StoreOrdinaryAtom([]registry.ID{r.StoreConstant(pred)})
	require.NoError(t, err)
	return id
}

// factSolver is a stub Solver standing in for the full grounder/CDNL
// pipeline: it returns exactly input plus whatever extra facts extra
// names, letting tests assert on the MLP worklist logic in isolation
// from module-local grounding.
func factSolver(extra ...registry.ID) Solver {
	return func(reg *registry.Registry, module registry.Module, input *registry.Interpretation) (*registry.Interpretation, error) {
		out := input.Clone()
		for _, e := range extra {
			out.SetAtom(e)
		}
		return out, nil
	}
}

func TestRunSolvesMainModuleWithNoModuleAtoms(t *testing.T) {
	r := registry.New()
	a := mustOrdinary(t, r, "a")
	mainMod, err := r.StoreModuleByName(registry.Module{Name: "main", EDB: []registry.ID{a}})
	require.NoError(t, err)

	d := NewDriver(r, factSolver())
	answers, err := d.Run([]registry.ModuleID{mainMod})
	require.NoError(t, err)
	require.Len(t, answers, 1)
	require.True(t, answers[0].TestAtom(a))
}

func TestRunResolvesModuleAtomAgainstFinishedCallee(t *testing.T) {
	r := registry.New()
	outAtom := mustOrdinary(t, r, "out")
	_, err := r.StoreModuleByName(registry.Module{Name: "sub"})
	require.NoError(t, err)

	maID := r.StoreModuleAtom(registry.ModuleAtom{Module: "sub", Output: outAtom})
	body := maID.Literal(false)
	callRule := r.StoreRule(registry.Rule{Body: []registry.ID{body}})

	main, err := r.StoreModuleByName(registry.Module{Name: "main", IDB: []registry.ID{callRule}})
	require.NoError(t, err)

	d := NewDriver(r, factSolver(outAtom))
	answers, err := d.Run([]registry.ModuleID{main})
	require.NoError(t, err)
	require.Len(t, answers, 1)
	require.True(t, answers[0].TestAtom(outAtom), "main's answer must carry the substituted callee output")
}

func TestRunSharesOneInstanceAcrossEqualInputs(t *testing.T) {
	r := registry.New()
	outAtom := mustOrdinary(t, r, "out")
	_, err := r.StoreModuleByName(registry.Module{Name: "sub"})
	require.NoError(t, err)

	maID := r.StoreModuleAtom(registry.ModuleAtom{Module: "sub", Output: outAtom})
	rule1 := r.StoreRule(registry.Rule{Body: []registry.ID{maID.Literal(false)}})
	rule2 := r.StoreRule(registry.Rule{Body: []registry.ID{maID.Literal(false)}})

	m1, err := r.StoreModuleByName(registry.Module{Name: "m1", IDB: []registry.ID{rule1}})
	require.NoError(t, err)
	m2, err := r.StoreModuleByName(registry.Module{Name: "m2", IDB: []registry.ID{rule2}})
	require.NoError(t, err)

	var opens int
	solve := func(reg *registry.Registry, module registry.Module, input *registry.Interpretation) (*registry.Interpretation, error) {
		if module.Name == "sub" {
			opens++
		}
		out := input.Clone()
		out.SetAtom(outAtom)
		return out, nil
	}

	d := NewDriver(r, solve)
	_, err = d.Run([]registry.ModuleID{m1, m2})
	require.NoError(t, err)
	require.Equal(t, 1, opens, "sub must be instantiated exactly once for the shared empty-input call")
}

func TestRunRejectsSelfReferentialModuleAtom(t *testing.T) {
	r := registry.New()
	outAtom := mustOrdinary(t, r, "out")
	maID := r.StoreModuleAtom(registry.ModuleAtom{Module: "loop", Output: outAtom})
	rule := r.StoreRule(registry.Rule{Body: []registry.ID{maID.Literal(false)}})
	loop, err := r.StoreModuleByName(registry.Module{Name: "loop", IDB: []registry.ID{rule}})
	require.NoError(t, err)

	d := NewDriver(r, factSolver(outAtom))
	_, err = d.Run([]registry.ModuleID{loop})
	require.Error(t, err, "a module atom calling its own module under the same input must be rejected as an i-stratification violation")
}
