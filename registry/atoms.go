package registry

import (
	"strconv"
	"strings"
	"sync"

	"github.com/hexhex/core/herr"
	"github.com/mitchellh/hashstructure"
)

// OrdinaryAtom is one row of the ordinary (ground or nonground) atom
// table: predicate-then-arguments tuple of term handles, plus its
// rendered textual form (spec.md §3.2).
type OrdinaryAtom struct {
	Ground bool
	Text   string
	Tuple  []ID // Tuple[0] is the predicate
}

// Predicate returns the predicate term handle (first tuple element).
func (a OrdinaryAtom) Predicate() ID {
	if len(a.Tuple) == 0 {
		return FAIL
	}
	return a.Tuple[0]
}

// Arity is the number of arguments, excluding the predicate itself.
func (a OrdinaryAtom) Arity() int {
	if len(a.Tuple) == 0 {
		return 0
	}
	return len(a.Tuple) - 1
}

type ordinaryAtomTable struct {
	mu        sync.RWMutex
	rows      []OrdinaryAtom
	byText    map[string]Address
	byTuple   map[uint64][]Address // hashstructure hash -> candidates (collision-checked)
	byPred    map[ID][]Address
	groundTbl bool
}

func newOrdinaryAtomTable(ground bool) *ordinaryAtomTable {
	return &ordinaryAtomTable{
		byText:    make(map[string]Address),
		byTuple:   make(map[uint64][]Address),
		byPred:    make(map[ID][]Address),
		groundTbl: ground,
	}
}

func (t *ordinaryAtomTable) subKind() SubKind {
	if t.groundTbl {
		return AtomOrdinaryGround
	}
	return AtomOrdinaryNonground
}

func tupleHash(tuple []ID) uint64 {
	h, err := hashstructure.Hash(tuple, nil)
	if err != nil {
		// hashstructure only fails on unsupported types; []ID of uint64 is
		// always supported, so this is unreachable in practice.
		panic(err)
	}
	return h
}

func (t *ordinaryAtomTable) store(text string, tuple []ID) ID {
	t.mu.Lock()
	defer t.mu.Unlock()
	if addr, ok := t.byText[text]; ok {
		return NewID(MainAtom, t.subKind(), 0, addr)
	}
	addr := Address(len(t.rows))
	t.rows = append(t.rows, OrdinaryAtom{Ground: t.groundTbl, Text: text, Tuple: tuple})
	t.byText[text] = addr
	h := tupleHash(tuple)
	t.byTuple[h] = append(t.byTuple[h], addr)
	if len(tuple) > 0 {
		t.byPred[tuple[0]] = append(t.byPred[tuple[0]], addr)
	}
	return NewID(MainAtom, t.subKind(), 0, addr)
}

func (t *ordinaryAtomTable) get(id ID) (OrdinaryAtom, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(id.Address()) >= len(t.rows) {
		return OrdinaryAtom{}, herr.KindInternal.New("ordinary atom id out of range: " + id.String())
	}
	return t.rows[id.Address()], nil
}

func (t *ordinaryAtomTable) findByTuple(tuple []ID) ID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	h := tupleHash(tuple)
	for _, addr := range t.byTuple[h] {
		if tuplesEqual(t.rows[addr].Tuple, tuple) {
			return NewID(MainAtom, t.subKind(), 0, addr)
		}
	}
	return FAIL
}

func (t *ordinaryAtomTable) byPredicate(pred ID) []ID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	addrs := t.byPred[pred]
	out := make([]ID, len(addrs))
	for i, a := range addrs {
		out[i] = NewID(MainAtom, t.subKind(), 0, a)
	}
	return out
}

func tuplesEqual(a, b []ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// RenderOrdinaryText produces the canonical textual form used both as the
// atom table's secondary key and (per spec.md §6) as the serialization of
// answer sets: predicate name, "(", comma-separated arguments, ")".
// Integers print in base 10, constants print as their interned symbol.
func (r *Registry) RenderOrdinaryText(tuple []ID) (string, error) {
	if len(tuple) == 0 {
		return "", herr.KindSyntax.New("empty atom tuple")
	}
	pred, err := r.Term(tuple[0])
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(pred.Symbol)
	if len(tuple) > 1 {
		b.WriteByte('(')
		for i, arg := range tuple[1:] {
			if i > 0 {
				b.WriteByte(',')
			}
			term, err := r.Term(arg)
			if err != nil {
				return "", err
			}
			switch term.Kind {
			case TermInteger:
				b.WriteString(strconv.FormatInt(term.Integer, 10))
			default:
				b.WriteString(term.Symbol)
			}
		}
		b.WriteByte(')')
	}
	return b.String(), nil
}

// StoreOrdinaryAtom interns an ordinary atom (ground or nonground,
// selected by whether every term in tuple is ground) and returns its
// handle.
func (r *Registry) StoreOrdinaryAtom(tuple []ID) (ID, error) {
	text, err := r.RenderOrdinaryText(tuple)
	if err != nil {
		return FAIL, err
	}
	ground := true
	for _, t := range tuple {
		term, err := r.Term(t)
		if err != nil {
			return FAIL, err
		}
		if term.Kind == TermVariable {
			ground = false
			break
		}
	}
	if ground {
		return r.ordinaryGround.store(text, tuple), nil
	}
	return r.ordinaryNonground.store(text, tuple), nil
}

// OrdinaryAtom looks up an ordinary atom row (ground or nonground) by
// handle.
func (r *Registry) OrdinaryAtom(id ID) (OrdinaryAtom, error) {
	if id.MainKind() != MainAtom {
		return OrdinaryAtom{}, herr.KindInternal.New("not an atom id: " + id.String())
	}
	switch id.SubKind() {
	case AtomOrdinaryGround:
		return r.ordinaryGround.get(id)
	case AtomOrdinaryNonground:
		return r.ordinaryNonground.get(id)
	default:
		return OrdinaryAtom{}, herr.KindInternal.New("not an ordinary atom id: " + id.String())
	}
}

// FindOrdinaryAtomByTuple looks up an interned ordinary atom by its
// argument tuple in the given table (ground or nonground), returning
// FAIL if absent.
func (r *Registry) FindOrdinaryAtomByTuple(ground bool, tuple []ID) ID {
	if ground {
		return r.ordinaryGround.findByTuple(tuple)
	}
	return r.ordinaryNonground.findByTuple(tuple)
}

// OrdinaryAtomsByPredicate returns every interned atom (of the given
// groundness) whose first tuple element is pred.
func (r *Registry) OrdinaryAtomsByPredicate(ground bool, pred ID) []ID {
	if ground {
		return r.ordinaryGround.byPredicate(pred)
	}
	return r.ordinaryNonground.byPredicate(pred)
}

// Unifies implements the unification test of spec.md §4.1: two ordinary
// atoms unify iff they have the same arity and a left-to-right walk
// substituting variable-for-variable or variable-for-constant (and
// propagating the substitution to every later occurrence of that
// variable in *both* tuples) reaches the end without a constant-vs-
// different-constant clash.
func (r *Registry) Unifies(a, b ID) (bool, error) {
	aa, err := r.OrdinaryAtom(a)
	if err != nil {
		return false, err
	}
	ba, err := r.OrdinaryAtom(b)
	if err != nil {
		return false, err
	}
	if aa.Arity() != ba.Arity() {
		return false, nil
	}
	subst := make(map[ID]ID) // variable ID -> bound ID (variable or constant)
	var resolve func(ID) ID
	resolve = func(id ID) ID {
		for {
			next, ok := subst[id]
			if !ok {
				return id
			}
			id = next
		}
	}
	bind := func(v, to ID) {
		subst[v] = to
	}
	for i := range aa.Tuple {
		x, y := resolve(aa.Tuple[i]), resolve(ba.Tuple[i])
		if x == y {
			continue
		}
		xt, err := r.Term(x)
		if err != nil {
			return false, err
		}
		yt, err := r.Term(y)
		if err != nil {
			return false, err
		}
		switch {
		case xt.Kind == TermVariable && yt.Kind == TermVariable:
			bind(x, y)
		case xt.Kind == TermVariable:
			bind(x, y)
		case yt.Kind == TermVariable:
			bind(y, x)
		default:
			// two distinct non-variable terms: clash.
			return false, nil
		}
	}
	return true, nil
}
