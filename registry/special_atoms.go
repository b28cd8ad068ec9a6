package registry

import (
	"sync"

	"github.com/hexhex/core/herr"
)

// BuiltinAtom is a builtin-predicate atom row (e.g. X < Y).
type BuiltinAtom struct {
	Op   BuiltinOp
	Args []ID // term handles, in textual order
}

// AggregateShape names the aggregate function of an AggregateAtom.
type AggregateShape uint8

const (
	AggCount AggregateShape = iota
	AggMin
	AggMax
	AggSum
	AggTimes
	AggAvg
	AggAny
)

// AggregateAtom is an aggregate-atom row: `Left CmpLeft Shape{Vars : Body} CmpRight Right`.
type AggregateAtom struct {
	Shape     AggregateShape
	Vars      []ID
	Body      []ID // body literal IDs
	Left      ID   // FAIL if absent
	CmpLeft   BuiltinOp
	Right     ID // FAIL if absent
	CmpRight  BuiltinOp
	HasLeft   bool
	HasRight  bool
}

// ExternalAtom is an external-atom row. Oracle is a weak handle (spec.md
// §3.2 "External atoms carry a weak handle to the oracle implementing
// them"), resolved lazily by name through the oracle registry rather than
// stored as a live reference, so the registry never depends on the oracle
// package.
type ExternalAtom struct {
	Name       string
	Input      []ID // input tuple (predicate/constant/tuple terms)
	Output     []ID // output tuple (may contain variables when nonground)
	OracleName string
}

// ModuleAtom is a module-atom row: `@Module[Input]::Output(Args)`.
type ModuleAtom struct {
	Module string // actual module name
	Input  []ID   // input predicate tuple
	Output ID     // output atom id (ordinary, possibly nonground)
}

type genericAtomTable[T any] struct {
	mu   sync.RWMutex
	rows []T
	sub  SubKind
}

func newGenericAtomTable[T any](sub SubKind) *genericAtomTable[T] {
	return &genericAtomTable[T]{sub: sub}
}

func (t *genericAtomTable[T]) store(row T) ID {
	t.mu.Lock()
	defer t.mu.Unlock()
	addr := Address(len(t.rows))
	t.rows = append(t.rows, row)
	return NewID(MainAtom, t.sub, 0, addr)
}

func (t *genericAtomTable[T]) get(id ID) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var zero T
	if id.MainKind() != MainAtom || id.SubKind() != t.sub || int(id.Address()) >= len(t.rows) {
		return zero, herr.KindInternal.New("atom id out of range or wrong kind: " + id.String())
	}
	return t.rows[id.Address()], nil
}

// StoreBuiltinAtom interns a builtin-atom row. Builtin atoms are not
// deduplicated by value (unlike ordinary atoms): distinct occurrences of
// `X < Y` across rules are distinct ground-grain facts only once
// instantiated, but as rule-body literals over (possibly shared)
// variables they are kept as separate rows, mirroring the rule table's
// insert-only policy (spec.md §3.2 "Rows are insert-only").
func (r *Registry) StoreBuiltinAtom(row BuiltinAtom) ID { return r.builtinAtoms.store(row) }

// BuiltinAtomRow looks up a builtin-atom row by handle.
func (r *Registry) BuiltinAtomRow(id ID) (BuiltinAtom, error) { return r.builtinAtoms.get(id) }

// StoreAggregateAtom interns an aggregate-atom row.
func (r *Registry) StoreAggregateAtom(row AggregateAtom) ID { return r.aggregateAtoms.store(row) }

// AggregateAtomRow looks up an aggregate-atom row by handle.
func (r *Registry) AggregateAtomRow(id ID) (AggregateAtom, error) { return r.aggregateAtoms.get(id) }

// StoreExternalAtom interns an external-atom row.
func (r *Registry) StoreExternalAtom(row ExternalAtom) ID { return r.externalAtoms.store(row) }

// ExternalAtomRow looks up an external-atom row by handle.
func (r *Registry) ExternalAtomRow(id ID) (ExternalAtom, error) { return r.externalAtoms.get(id) }

// StoreModuleAtom interns a module-atom row.
func (r *Registry) StoreModuleAtom(row ModuleAtom) ID { return r.moduleAtoms.store(row) }

// ModuleAtomRow looks up a module-atom row by handle.
func (r *Registry) ModuleAtomRow(id ID) (ModuleAtom, error) { return r.moduleAtoms.get(id) }
