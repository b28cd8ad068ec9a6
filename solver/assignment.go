package solver

import "github.com/hexhex/core/registry"

// causeNone marks a decision literal: it has no supporting nogood.
const causeNone = NogoodID(-1)

// varState is the per-address assignment record of spec.md §4.3
// "Assignment state".
type varState struct {
	assigned bool
	value    bool
	dl       int
	cause    NogoodID
	order    int // global assignment-order index, monotonic on each set_fact
}

// assignment is the CDNL trail: per-address state plus a decision-level
// indexed undo log and the activity counters used by Guess.
type assignment struct {
	state    map[registry.Address]*varState
	trail    [][]registry.Address // trail[dl] = addresses set at that level, in set order
	nextOrd  int
	posCount map[registry.Address]int
	negCount map[registry.Address]int
}

func newAssignment() *assignment {
	return &assignment{
		state:    make(map[registry.Address]*varState),
		trail:    [][]registry.Address{{}}, // level 0
		posCount: make(map[registry.Address]int),
		negCount: make(map[registry.Address]int),
	}
}

func (a *assignment) ensure(addr registry.Address) *varState {
	v, ok := a.state[addr]
	if !ok {
		v = &varState{}
		a.state[addr] = v
	}
	return v
}

func (a *assignment) isAssigned(addr registry.Address) bool {
	v, ok := a.state[addr]
	return ok && v.assigned
}

func (a *assignment) valueOf(addr registry.Address) (bool, bool) {
	v, ok := a.state[addr]
	if !ok || !v.assigned {
		return false, false
	}
	return v.value, true
}

// satisfied reports whether literal l currently evaluates true.
func (a *assignment) satisfied(l Lit) bool {
	v, ok := a.valueOf(l.Addr)
	return ok && v == l.Pos
}

// falsified reports whether literal l currently evaluates false.
func (a *assignment) falsified(l Lit) bool {
	v, ok := a.valueOf(l.Addr)
	return ok && v != l.Pos
}

func (a *assignment) currentDL() int { return len(a.trail) - 1 }

// set records a fact at decision level dl with the given cause
// (causeNone for decision literals).
func (a *assignment) set(addr registry.Address, value bool, dl int, cause NogoodID) {
	v := a.ensure(addr)
	v.assigned = true
	v.value = value
	v.dl = dl
	v.cause = cause
	v.order = a.nextOrd
	a.nextOrd++
	for len(a.trail) <= dl {
		a.trail = append(a.trail, nil)
	}
	a.trail[dl] = append(a.trail[dl], addr)
	if value {
		a.posCount[addr]++
	} else {
		a.negCount[addr]++
	}
}

// clear unassigns addr.
func (a *assignment) clear(addr registry.Address) {
	v, ok := a.state[addr]
	if !ok || !v.assigned {
		return
	}
	v.assigned = false
	v.cause = causeNone
}

// undoLevel pops every fact recorded at decision level dl (dl must be the
// current top level) and clears them, returning their addresses.
func (a *assignment) undoLevel(dl int) []registry.Address {
	if dl >= len(a.trail) {
		return nil
	}
	addrs := a.trail[dl]
	a.trail = a.trail[:dl]
	if len(a.trail) == 0 {
		a.trail = [][]registry.Address{{}}
	}
	for _, addr := range addrs {
		a.clear(addr)
	}
	return addrs
}

func (a *assignment) decisionLevelOf(addr registry.Address) int {
	v, ok := a.state[addr]
	if !ok {
		return 0
	}
	return v.dl
}

func (a *assignment) causeOf(addr registry.Address) NogoodID {
	v, ok := a.state[addr]
	if !ok {
		return causeNone
	}
	return v.cause
}

func (a *assignment) isDecision(addr registry.Address) bool {
	v, ok := a.state[addr]
	return ok && v.assigned && v.cause == causeNone
}

func (a *assignment) assignmentOrder(addr registry.Address) int {
	v, ok := a.state[addr]
	if !ok {
		return -1
	}
	return v.order
}
