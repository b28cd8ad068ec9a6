package solver

import (
	"github.com/hexhex/core/registry"
)

// Outcome is the result of a propagation or model-search step.
type Outcome int

const (
	// OutcomeOk means propagation reached a fixpoint with no conflict.
	OutcomeOk Outcome = iota
	// OutcomeConflict means a nogood was falsified; the caller must
	// analyze and backjump (or, at decision level 0, stop: unsat).
	OutcomeConflict
	// OutcomeModel means every atom is assigned and no nogood is
	// falsified: the current trail is a complete model.
	OutcomeModel
)

// CDNL is the conflict-driven nogood learning solver of spec.md §4.3. It
// operates over a fixed universe of ground-atom addresses (spec.md §4.1
// "Interpretation"), taking an initial nogood set (typically produced by
// the internal grounder, package ground) and searching for one model at
// a time via GetNextModel, learning a new nogood on every conflict and
// forbidding the previous model before resuming search.
type CDNL struct {
	universe []registry.Address
	nogoods  NogoodSet
	watch    *watchList
	assign   *assignment
	stats    *Stats

	// propagateQueue holds addresses whose truth value changed and has
	// not yet been used to rescan watches.
	propagateQueue []registry.Address

	// recentConflictNogoods holds the handles of nogoods learned by
	// Analyze, oldest first; Guess scans it most-recent-first before
	// falling back to the global activity heuristic (spec.md §4.3
	// "guess()").
	recentConflictNogoods []NogoodID

	started bool
}

// New creates a solver over the given universe of ground-atom addresses
// with an initial nogood set. Nogoods may be added later via AddNogood.
func New(universe []registry.Address, initial []Nogood) *CDNL {
	c := &CDNL{
		universe: universe,
		watch:    newWatchList(),
		assign:   newAssignment(),
		stats:    newStats(),
	}
	for _, ng := range initial {
		c.AddNogood(ng)
	}
	return c
}

// AddNogood interns ng and wires its watches against the current
// assignment; it queues nothing for propagation. A length-1 nogood is
// reported as a conflict by UnitPropagate once its literal becomes true.
// A length-0 nogood is always false, an immediate top-level conflict
// recorded via OutcomeConflict on the next propagate.
func (c *CDNL) AddNogood(ng Nogood) NogoodID {
	id := c.nogoods.Add(ng)
	c.watch.initWatches(c, id, ng)
	c.stats.NogoodsLearned.Inc()
	return id
}

// setFact assigns addr the given value at the current decision level,
// caused by cause (causeNone for a decision literal), and schedules its
// watches for propagation.
func (c *CDNL) setFact(addr registry.Address, value bool, cause NogoodID) {
	c.assign.set(addr, value, c.assign.currentDL(), cause)
	c.stats.Assignments.Inc()
	c.propagateQueue = append(c.propagateQueue, addr)
}

// clearFact unassigns addr. Per the watch invariant documented in
// watches.go, no watch list needs to change: reverting true->unassigned
// only ever restores the not-yet-true state every remaining watch slot
// already assumes.
func (c *CDNL) clearFact(addr registry.Address) {
	c.assign.clear(addr)
}

// Backtrack undoes every assignment above level dl and resets the
// current decision level to dl.
func (c *CDNL) Backtrack(dl int) {
	for c.assign.currentDL() > dl {
		c.assign.undoLevel(c.assign.currentDL())
	}
	c.stats.Backtracks.Inc()
}

// UnitPropagate drains the propagation queue, rescanning the watches of
// every nogood that watches a literal which just became true. It
// returns OutcomeConflict and the falsified nogood's id as soon as one
// nogood has all its literals true; otherwise OutcomeOk once the queue
// empties.
func (c *CDNL) UnitPropagate() (Outcome, NogoodID) {
	for len(c.propagateQueue) > 0 {
		addr := c.propagateQueue[0]
		c.propagateQueue = c.propagateQueue[1:]

		value, ok := c.assign.valueOf(addr)
		if !ok {
			// Backtracking clears addresses without removing them from an
			// already-queued propagation batch; an address that is
			// unassigned here has not actually become true and must not
			// be treated as if it had (see the watch invariant doc-comment
			// on watchList in watches.go and DESIGN.md's §4.3 entry).
			continue
		}
		becameTrue := Lit{Addr: addr, Pos: value}

		for _, id := range c.watch.watchersBecomingTrue(becameTrue) {
			ng := c.nogoods.Get(id)
			other, hasOther := c.watch.otherWatch(id, becameTrue)

			replaced := false
			for _, l := range ng {
				if l == becameTrue || (hasOther && l == other) {
					continue
				}
				if !c.assign.satisfied(l) {
					c.watch.replace(id, becameTrue, l)
					replaced = true
					break
				}
			}
			if replaced {
				continue
			}

			if !hasOther {
				// Degenerate length-1 nogood: becameTrue is its only
				// literal and it is now true, so the nogood is
				// falsified.
				c.stats.ConflictsDetected.Inc()
				return OutcomeConflict, id
			}

			if c.assign.satisfied(other) {
				c.stats.ConflictsDetected.Inc()
				return OutcomeConflict, id
			}

			// other is the sole remaining not-yet-true literal: unit
			// propagation forces it false.
			c.stats.ResolutionSteps.Inc()
			if c.assign.isAssigned(other.Addr) {
				continue
			}
			c.setFact(other.Addr, !other.Pos, id)
		}
	}
	return OutcomeOk, 0
}

// Analyze performs 1-UIP conflict analysis starting from the nogood that
// was detected falsified, resolving it against assignment causes until
// exactly one literal of the current decision level remains. It returns
// the learned nogood and the backjump level spec.md §4.3 requires: the
// second-highest decision level among the learned nogood's literals (0
// if only one literal remains).
func (c *CDNL) Analyze(conflict NogoodID) (Nogood, int) {
	current := append(Nogood{}, c.nogoods.Get(conflict)...)
	dl := c.assign.currentDL()

	countAtLevel := func(ng Nogood) int {
		n := 0
		for _, l := range ng {
			if c.assign.decisionLevelOf(l.Addr) == dl {
				n++
			}
		}
		return n
	}

	seen := make(map[registry.Address]bool)
	for countAtLevel(current) > 1 {
		// Resolve on the most recently assigned literal of this level
		// that has a cause (an implied, not decided, literal).
		var pivot registry.Address
		bestOrder := -1
		for _, l := range current {
			if c.assign.decisionLevelOf(l.Addr) != dl {
				continue
			}
			if c.assign.causeOf(l.Addr) == causeNone {
				continue
			}
			if o := c.assign.assignmentOrder(l.Addr); o > bestOrder {
				bestOrder = o
				pivot = l.Addr
			}
		}
		if bestOrder < 0 {
			break // only decision literals of this level remain
		}
		cause := c.assign.causeOf(pivot)
		current = resolve(current, c.nogoods.Get(cause), pivot)
		c.stats.ResolutionSteps.Inc()
		seen[pivot] = true
	}

	second := 0
	for _, l := range current {
		d := c.assign.decisionLevelOf(l.Addr)
		if d != dl && d > second {
			second = d
		}
	}
	c.stats.DetectedConflicts.Inc()
	return current, second
}

// resolve combines two nogoods on pivot (which must appear with opposite
// polarity in each) by unioning their literals minus both occurrences of
// pivot, matching spec.md §4.3's resolution-step definition.
func resolve(a, b Nogood, pivot registry.Address) Nogood {
	seen := make(map[Lit]bool)
	var out Nogood
	add := func(ng Nogood) {
		for _, l := range ng {
			if l.Addr == pivot {
				continue
			}
			if !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}
	add(a)
	add(b)
	return out
}

// Guess picks an unassigned address and a polarity and opens a new
// decision level, per spec.md §4.3 "guess()": first scan the nogoods
// learned from conflicts, most recent first, for one with an unassigned
// literal and pick its most active unassigned variable; failing that,
// fall back to the globally most active unassigned variable. Either way
// the chosen polarity favors whichever of the variable's two activity
// counters is smaller. It returns false if every address in the universe
// is already assigned.
func (c *CDNL) Guess() bool {
	best, polarity, found := c.recentConflictGuess()
	if !found {
		best, polarity, found = c.mostActiveUnassigned(c.universe)
	}
	if !found {
		return false
	}
	c.assign.trail = append(c.assign.trail, nil)
	c.setFact(best, polarity, causeNone)
	c.stats.Guesses.Inc()
	c.maybeDecayActivity()
	return true
}

// recentConflictGuess scans recentConflictNogoods most-recent-first for
// one that still has an unassigned literal and returns its most active
// unassigned variable. A nogood every one of whose literals is already
// assigned (satisfied or contradictory) is skipped.
func (c *CDNL) recentConflictGuess() (registry.Address, bool, bool) {
	for i := len(c.recentConflictNogoods) - 1; i >= 0; i-- {
		ng := c.nogoods.Get(c.recentConflictNogoods[i])
		var addrs []registry.Address
		for _, l := range ng {
			addrs = append(addrs, l.Addr)
		}
		if addr, polarity, found := c.mostActiveUnassigned(addrs); found {
			return addr, polarity, true
		}
	}
	return 0, false, false
}

// mostActiveUnassigned returns the unassigned address among addrs with
// the highest combined activity count, and the polarity favoring its
// smaller counter.
func (c *CDNL) mostActiveUnassigned(addrs []registry.Address) (registry.Address, bool, bool) {
	best := registry.Address(0)
	bestScore := -1
	found := false
	for _, addr := range addrs {
		if c.assign.isAssigned(addr) {
			continue
		}
		score := c.assign.posCount[addr] + c.assign.negCount[addr]
		if score > bestScore {
			bestScore = score
			best = addr
			found = true
		}
	}
	if !found {
		return 0, false, false
	}
	return best, c.assign.posCount[best] <= c.assign.negCount[best], true
}

// maybeDecayActivity halves every activity counter once the running
// conflict count crosses the cap, per spec.md §4.3's activity-counter
// bookkeeping.
func (c *CDNL) maybeDecayActivity() {
	const cap = 255
	if c.stats.recentConflicts < cap {
		return
	}
	for addr := range c.assign.posCount {
		c.assign.posCount[addr] /= 2
	}
	for addr := range c.assign.negCount {
		c.assign.negCount[addr] /= 2
	}
	c.stats.recentConflicts = 0
}

// GetNextModel runs propagate/guess/analyze/backjump to either find the
// next model (returning OutcomeModel and a complete Interpretation), or
// exhaust the search space (returning OutcomeConflict at decision level
// 0, meaning no further model exists).
func (c *CDNL) GetNextModel(reg *registry.Registry) (Outcome, *registry.Interpretation) {
	if c.started {
		// Forbid the previously returned model by learning its
		// complement as a new nogood and backjumping to resume search.
		ng := c.currentTrailAsNogood()
		if len(ng) == 0 {
			// An empty universe has exactly one (empty) model.
			return OutcomeConflict, nil
		}
		c.Backtrack(0)
		c.AddNogood(ng)
		// initWatches wired ng's watches against the post-backtrack
		// assignment. Facts fixed at level 0 survive the backjump, so
		// their addresses are requeued: that rescans the watches sitting
		// on them, ng's included, and reports ng as a conflict when the
		// forbidden model is entirely a level-0 consequence.
		c.propagateQueue = append([]registry.Address(nil), c.assign.trail[0]...)
	}
	c.started = true

	for {
		outcome, conflict := c.UnitPropagate()
		if outcome == OutcomeConflict {
			c.stats.recentConflicts++
			if c.assign.currentDL() == 0 {
				return OutcomeConflict, nil
			}
			learned, level := c.Analyze(conflict)
			id := c.AddNogood(learned)
			c.recentConflictNogoods = append(c.recentConflictNogoods, id)
			c.Backtrack(level)
			c.propagateQueue = nil
			unit, addr, pos, ok := c.findUnitLiteral(learned)
			if ok && unit {
				c.setFact(addr, pos, id)
			}
			continue
		}
		if c.allAssigned() {
			return OutcomeModel, c.toInterpretation(reg)
		}
		if !c.Guess() {
			return OutcomeModel, c.toInterpretation(reg)
		}
	}
}

func (c *CDNL) findUnitLiteral(ng Nogood) (unit bool, addr registry.Address, pos bool, ok bool) {
	count := 0
	var only Lit
	for _, l := range ng {
		if !c.assign.satisfied(l) && !c.assign.falsified(l) {
			count++
			only = l
		}
	}
	if count == 1 {
		return true, only.Addr, !only.Pos, true
	}
	return false, 0, false, false
}

func (c *CDNL) allAssigned() bool {
	for _, addr := range c.universe {
		if !c.assign.isAssigned(addr) {
			return false
		}
	}
	return true
}

func (c *CDNL) currentTrailAsNogood() Nogood {
	var ng Nogood
	for _, addr := range c.universe {
		if v, ok := c.assign.valueOf(addr); ok {
			ng = append(ng, Lit{Addr: addr, Pos: v})
		}
	}
	return ng
}

func (c *CDNL) toInterpretation(reg *registry.Registry) *registry.Interpretation {
	in := registry.NewInterpretation(reg)
	for _, addr := range c.universe {
		if v, ok := c.assign.valueOf(addr); ok && v {
			in.Set(addr)
		}
	}
	return in
}
