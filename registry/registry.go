package registry

// Registry is the shared, interned symbol/term/atom/rule/module store of
// one program (spec.md §3.2, §4.1). It exclusively owns every table;
// every other subsystem in this module holds only registry.ID / ModuleID
// handles. The registry is written during construction (parsing,
// auxiliary-rule generation) and is read-only during enumeration (spec.md
// §5 "Shared resources").
type Registry struct {
	terms             *termTable
	ordinaryGround    *ordinaryAtomTable
	ordinaryNonground *ordinaryAtomTable
	builtinAtoms      *genericAtomTable[BuiltinAtom]
	aggregateAtoms    *genericAtomTable[AggregateAtom]
	externalAtoms     *genericAtomTable[ExternalAtom]
	moduleAtoms       *genericAtomTable[ModuleAtom]
	rules             *ruleTable
	modules           *moduleTable
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		terms:             newTermTable(),
		ordinaryGround:    newOrdinaryAtomTable(true),
		ordinaryNonground: newOrdinaryAtomTable(false),
		builtinAtoms:      newGenericAtomTable[BuiltinAtom](AtomBuiltin),
		aggregateAtoms:    newGenericAtomTable[AggregateAtom](AtomAggregate),
		externalAtoms:     newGenericAtomTable[ExternalAtom](AtomExternal),
		moduleAtoms:       newGenericAtomTable[ModuleAtom](AtomModule),
		rules:             newRuleTable(),
		modules:           newModuleTable(),
	}
}

// GroundAtomCount returns the number of interned ground ordinary atoms,
// i.e. the universe size an Interpretation over this registry needs to
// address.
func (r *Registry) GroundAtomCount() int {
	r.ordinaryGround.mu.RLock()
	defer r.ordinaryGround.mu.RUnlock()
	return len(r.ordinaryGround.rows)
}

// AllGroundAtoms returns the handle of every interned ground ordinary
// atom, in dense address order.
func (r *Registry) AllGroundAtoms() []ID {
	r.ordinaryGround.mu.RLock()
	defer r.ordinaryGround.mu.RUnlock()
	out := make([]ID, len(r.ordinaryGround.rows))
	for i := range r.ordinaryGround.rows {
		out[i] = NewID(MainAtom, AtomOrdinaryGround, 0, Address(i))
	}
	return out
}
