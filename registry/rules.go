package registry

import (
	"sync"

	"github.com/hexhex/core/herr"
)

// Rule is a rule-table row: a (possibly disjunctive, possibly empty) head
// tuple of ordinary-atom IDs, a body tuple of literal IDs, and — for weak
// constraints only — a weight and level (spec.md §3.2, supplemented per
// SPEC_FULL §3 from original_source's SUBKIND_RULE_WEAKCONSTRAINT).
type Rule struct {
	Kind   SubKind // RuleRegular, RuleConstraint, RuleWeakConstraint
	Head   []ID    // ordinary atom IDs; empty for constraints
	Body   []ID    // literal IDs
	Weight int64   // weak constraints only
	Level  int64   // weak constraints only
}

// IsDisjunctive reports whether the rule has more than one head atom.
func (rl Rule) IsDisjunctive() bool { return len(rl.Head) > 1 }

// HasExternalAtoms reports whether Body contains an external-atom
// literal, i.e. whether StoreRule sets PropRuleHasEatoms on the rule's ID.
func (rl Rule) HasExternalAtoms(r *Registry) (bool, error) {
	for _, lit := range rl.Body {
		atom := lit.Atom()
		if atom.MainKind() == MainAtom && atom.SubKind() == AtomExternal {
			return true, nil
		}
	}
	return false, nil
}

type ruleTable struct {
	mu   sync.RWMutex
	rows []Rule
}

func newRuleTable() *ruleTable { return &ruleTable{} }

func (t *ruleTable) store(row Rule) ID {
	t.mu.Lock()
	defer t.mu.Unlock()
	addr := Address(len(t.rows))
	t.rows = append(t.rows, row)
	var props Property
	for _, lit := range row.Body {
		atom := lit.Atom()
		if atom.MainKind() == MainAtom && atom.SubKind() == AtomExternal {
			props |= PropRuleHasEatoms
			break
		}
	}
	return NewID(MainRule, row.Kind, props, addr)
}

func (t *ruleTable) get(id ID) (Rule, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id.MainKind() != MainRule || int(id.Address()) >= len(t.rows) {
		return Rule{}, herr.KindInternal.New("rule id out of range or wrong kind: " + id.String())
	}
	return t.rows[id.Address()], nil
}

// StoreRule interns a rule row. Unlike ordinary atoms, rules are not
// deduplicated by structural equality (spec.md §3.2 rows are insert-only;
// two textually identical rules arising from different program fragments
// are legitimately distinct rows, e.g. one from the EDB-facts compiler and
// one written by the user).
func (r *Registry) StoreRule(row Rule) ID { return r.rules.store(row) }

// Rule looks up a rule row by handle.
func (r *Registry) Rule(id ID) (Rule, error) { return r.rules.get(id) }

// RuleCount returns the number of interned rules, for callers that need
// to range over the whole IDB by address.
func (r *Registry) RuleCount() int {
	r.rules.mu.RLock()
	defer r.rules.mu.RUnlock()
	return len(r.rules.rows)
}

// RuleIDAt returns the handle of the rule at the given dense address.
func (r *Registry) RuleIDAt(addr Address) ID {
	r.rules.mu.RLock()
	defer r.rules.mu.RUnlock()
	kind := RuleRegular
	var props Property
	if int(addr) < len(r.rules.rows) {
		kind = r.rules.rows[addr].Kind
		for _, lit := range r.rules.rows[addr].Body {
			atom := lit.Atom()
			if atom.MainKind() == MainAtom && atom.SubKind() == AtomExternal {
				props |= PropRuleHasEatoms
				break
			}
		}
	}
	return NewID(MainRule, kind, props, addr)
}
