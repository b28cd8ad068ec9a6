package mlp

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/hexhex/core/herr"
	"github.com/hexhex/core/registry"
)

// Solver computes one answer set of module's rules under a combined
// input interpretation (the module's own EDB plus any facts substituted
// in for already-finished callee module atoms). The caller of NewDriver
// supplies it; this module has no builder.Session-backed Solver, and the
// tests substitute stubs.
type Solver func(reg *registry.Registry, module registry.Module, input *registry.Interpretation) (*registry.Interpretation, error)

// Driver is the MLP comp loop of spec.md §4.10: a worklist over module
// instances, each rewritten against its A-container of still-open module
// atom calls until the container reaches the fin sentinel and the
// instance can be solved.
type Driver struct {
	reg      *registry.Registry
	solve    Solver
	s        *STable
	instance *instanceTable

	worklist []InstanceID
	queued   map[InstanceID]bool

	// waiters[c] lists every instance whose A-container holds a call into
	// c; finishing c re-enqueues all of them (spec.md §4.10 "each step
	// rewrites the module's rules, substituting each external module atom
	// by either (a) its cached output facts if its callee instance is
	// finished, or (b) a fresh instance").
	waiters map[InstanceID][]InstanceID
}

// NewDriver creates a driver over reg using solve to evaluate each
// module instance once its A-container reaches the fin sentinel.
func NewDriver(reg *registry.Registry, solve Solver) *Driver {
	return &Driver{
		reg:      reg,
		solve:    solve,
		s:        newSTable(),
		instance: newInstanceTable(),
		queued:   make(map[InstanceID]bool),
		waiters:  make(map[InstanceID][]InstanceID),
	}
}

// Run instantiates every main module (spec.md §4.10 "given a set of main
// modules ... iteratively instantiates calls") under the empty input
// interpretation and drives the worklist to completion, returning one
// answer set per main module in the order given.
func (d *Driver) Run(mainModules []registry.ModuleID) ([]*registry.Interpretation, error) {
	empty := registry.NewInterpretation(d.reg)
	s0 := d.s.Intern(empty)

	var roots []InstanceID
	for _, m := range mainModules {
		mod, err := d.reg.Module(m)
		if err != nil {
			return nil, err
		}
		if !mod.IsMain() {
			return nil, herr.KindSafety.New(fmt.Sprintf("module %q is not a main module (has formal inputs)", mod.Name))
		}
		id, _ := d.instance.getOrCreate(m, s0)
		roots = append(roots, id)
		d.enqueue(id)
	}

	if err := d.drain(); err != nil {
		return nil, err
	}

	out := make([]*registry.Interpretation, len(roots))
	for i, id := range roots {
		inst := d.instance.get(id)
		if !inst.Finished {
			mod, _ := d.reg.Module(inst.Module)
			return nil, herr.KindSafety.New(fmt.Sprintf(
				"module instantiation cycle: %q never reached the fin sentinel (i-stratification violation)", mod.Name))
		}
		out[i] = inst.Answer
	}
	return out, nil
}

func (d *Driver) enqueue(id InstanceID) {
	if !d.queued[id] {
		d.queued[id] = true
		d.worklist = append(d.worklist, id)
	}
}

// drain processes the worklist to exhaustion. A failing instance (an
// inconsistent module, an unsafe module-atom call) does not abort
// sibling branches of the worklist that do not depend on it; every
// instance's failure is accumulated and surfaced together once nothing
// further can make progress (spec.md §7 "backend / oracle I/O failure
// ... propagated as a model-stream termination for the affected
// alternative", generalized here to a per-instance failure of the MLP
// loop).
func (d *Driver) drain() error {
	var errs *multierror.Error
	for len(d.worklist) > 0 {
		id := d.worklist[0]
		d.worklist = d.worklist[1:]
		d.queued[id] = false

		if d.instance.get(id).Finished {
			continue
		}
		if err := d.step(id); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
	}
	return errs.ErrorOrNil()
}

// step rewrites id's module once: every module atom in its IDB is
// resolved against an already-finished callee (substituting the cached
// output fact) or spawns a fresh callee instance and leaves id pending
// on it. Once id's A-container reaches the fin sentinel (no call left
// unresolved), its module is solved and id is marked finished, which
// re-enqueues every instance that was waiting on it.
func (d *Driver) step(id InstanceID) error {
	inst := d.instance.get(id)
	mod, err := d.reg.Module(inst.Module)
	if err != nil {
		return err
	}

	input := d.s.Get(inst.S).Clone()
	for _, edb := range mod.EDB {
		input.SetAtom(edb)
	}

	d.instance.pending[id] = nil
	anyPending := false
	for _, ruleID := range mod.IDB {
		rule, err := d.reg.Rule(ruleID)
		if err != nil {
			return err
		}
		for _, lit := range rule.Body {
			atom := lit.Atom()
			if atom.MainKind() != registry.MainAtom || atom.SubKind() != registry.AtomModule {
				continue
			}
			ma, err := d.reg.ModuleAtomRow(atom)
			if err != nil {
				return err
			}
			callee := d.reg.FindModule(ma.Module)
			if callee == registry.FailModule {
				return herr.KindSafety.New(fmt.Sprintf("unknown module atom call to %q", ma.Module))
			}

			callInput := registry.NewInterpretation(d.reg)
			for _, q := range ma.Input {
				if input.TestAtom(q) {
					callInput.SetAtom(q)
				}
			}
			s := d.s.Intern(callInput)
			calleeID, created := d.instance.getOrCreate(callee, s)

			if calleeID == id {
				return herr.KindSafety.New(fmt.Sprintf(
					"module instantiation cycle: %q calls itself under an unresolved input (i-stratification violation)", mod.Name))
			}

			if d.instance.get(calleeID).Finished {
				out := d.instance.get(calleeID).Answer
				if out.TestAtom(ma.Output) {
					input.SetAtom(ma.Output)
				}
				continue
			}

			anyPending = true
			d.instance.awaiting(id, atom)
			d.waiters[calleeID] = append(d.waiters[calleeID], id)
			if created {
				d.enqueue(calleeID)
			}
		}
	}

	if anyPending {
		return nil
	}

	answer, err := d.solve(d.reg, mod, input)
	if err != nil {
		return err
	}
	d.instance.finish(id, answer)
	for _, w := range d.waiters[id] {
		d.enqueue(w)
	}
	delete(d.waiters, id)
	return nil
}
