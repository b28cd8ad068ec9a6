package registry

import (
	"sync"

	"github.com/hexhex/core/herr"
)

// BuiltinOp enumerates the fixed set of builtin term operators, taken
// verbatim from original_source/include/dlvhex/ID.hpp's TermBuiltinAddress
// (spec.md §3.2 mentions "builtin operators" without enumerating them).
type BuiltinOp uint32

const (
	OpEq BuiltinOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpMul
	OpAdd
	OpAggCount
	OpAggMin
	OpAggMax
	OpAggSum
	OpAggTimes
	OpAggAvg
	OpAggAny
	OpInt
	OpSucc
)

// IsInfix reports whether op renders as `a OP b` rather than `OP(a,b,...)`.
func (op BuiltinOp) IsInfix() bool {
	return op <= OpAdd
}

// Term is one row of the term table: a constant symbol, an integer
// literal, a variable, or a builtin operator term.
type Term struct {
	Kind    SubKind
	Symbol  string    // constant / variable name
	Integer int64     // valid iff Kind == TermInteger
	Builtin BuiltinOp // valid iff Kind == TermBuiltin
	Anon    bool      // anonymous variable ("_")
}

// termTable interns Term rows, indexed both densely by address and by
// textual symbol (spec.md §3.2 "Term table ... Indexed by textual
// symbol").
type termTable struct {
	mu      sync.RWMutex
	rows    []Term
	bySym   map[string]Address // constants and variables
	byInt   map[int64]Address
	builtin map[BuiltinOp]Address
}

func newTermTable() *termTable {
	return &termTable{
		bySym:   make(map[string]Address),
		byInt:   make(map[int64]Address),
		builtin: make(map[BuiltinOp]Address),
	}
}

func (t *termTable) storeConstant(symbol string) ID {
	t.mu.Lock()
	defer t.mu.Unlock()
	if addr, ok := t.bySym[symbol]; ok {
		return NewID(MainTerm, TermConstant, 0, addr)
	}
	addr := Address(len(t.rows))
	t.rows = append(t.rows, Term{Kind: TermConstant, Symbol: symbol})
	t.bySym[symbol] = addr
	return NewID(MainTerm, TermConstant, 0, addr)
}

func (t *termTable) storeVariable(name string) ID {
	t.mu.Lock()
	defer t.mu.Unlock()
	anon := name == "_" || name == ""
	key := "$var$" + name
	if !anon {
		if addr, ok := t.bySym[key]; ok {
			return NewID(MainTerm, TermVariable, 0, addr)
		}
	}
	addr := Address(len(t.rows))
	t.rows = append(t.rows, Term{Kind: TermVariable, Symbol: name, Anon: anon})
	var props Property
	if anon {
		props = PropAnonymousVar
	} else {
		t.bySym[key] = addr
	}
	return NewID(MainTerm, TermVariable, props, addr)
}

func (t *termTable) storeInteger(v int64) ID {
	t.mu.Lock()
	defer t.mu.Unlock()
	if addr, ok := t.byInt[v]; ok {
		return NewID(MainTerm, TermInteger, 0, addr)
	}
	addr := Address(len(t.rows))
	t.rows = append(t.rows, Term{Kind: TermInteger, Integer: v})
	t.byInt[v] = addr
	return NewID(MainTerm, TermInteger, 0, addr)
}

func (t *termTable) storeBuiltin(op BuiltinOp) ID {
	t.mu.Lock()
	defer t.mu.Unlock()
	if addr, ok := t.builtin[op]; ok {
		return NewID(MainTerm, TermBuiltin, 0, addr)
	}
	addr := Address(len(t.rows))
	t.rows = append(t.rows, Term{Kind: TermBuiltin, Builtin: op})
	t.builtin[op] = addr
	return NewID(MainTerm, TermBuiltin, 0, addr)
}

func (t *termTable) get(id ID) (Term, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id.MainKind() != MainTerm || int(id.Address()) >= len(t.rows) {
		return Term{}, herr.KindInternal.New("term id out of range or wrong kind: " + id.String())
	}
	return t.rows[id.Address()], nil
}

func (t *termTable) findConstant(symbol string) ID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if addr, ok := t.bySym[symbol]; ok {
		return NewID(MainTerm, TermConstant, 0, addr)
	}
	return FAIL
}

// StoreConstant interns a constant symbol, returning its existing handle
// if already present.
func (r *Registry) StoreConstant(symbol string) ID { return r.terms.storeConstant(symbol) }

// StoreVariable interns a variable name ("_" and "" are both the
// anonymous variable, each occurrence getting its own fresh address since
// spec.md's unification walk never needs anonymous variables to unify
// with each other).
func (r *Registry) StoreVariable(name string) ID { return r.terms.storeVariable(name) }

// StoreInteger interns an integer term.
func (r *Registry) StoreInteger(v int64) ID { return r.terms.storeInteger(v) }

// StoreBuiltinTerm interns a builtin-operator term.
func (r *Registry) StoreBuiltinTerm(op BuiltinOp) ID { return r.terms.storeBuiltin(op) }

// Term looks up a term row by handle.
func (r *Registry) Term(id ID) (Term, error) { return r.terms.get(id) }

// FindConstant returns the handle of an already-interned constant, or
// FAIL if absent.
func (r *Registry) FindConstant(symbol string) ID { return r.terms.findConstant(symbol) }
