package solver

// watchList implements the two-watched-literal scheme of spec.md §4.3.
//
// Each nogood keeps two watched literals chosen from among those that are
// not-yet-true (false or unassigned). The watch invariant is: as long as a
// nogood has two not-yet-true literals, it cannot be falsified (a nogood
// is falsified only when every one of its literals is true) and it cannot
// propagate (propagation needs exactly one not-yet-true literal left).
//
// A nogood's watches need attention only when a watched literal BECOMES
// true, since that is the only direction of travel that can shrink the
// "not-yet-true" set. Reverting an assignment (clear_fact, on backtrack)
// only ever moves a literal from true back to unassigned, i.e. from
// true-making-the-watch-invalid back to not-yet-true: both unassigned and
// false satisfy the watch invariant, so clearFact never needs to rebuild
// or rescan any watch list.
type watchList struct {
	// watching[lit] lists the nogoods that currently watch the literal
	// lit becoming true, i.e. whose watch slot holds lit.
	watching map[Lit][]NogoodID
	// slots[id] holds the two watched literals of nogood id. A nogood
	// with fewer than two literals watches what it has.
	slots map[NogoodID][2]Lit
	valid map[NogoodID]int // number of valid slots (1 or 2) for id
}

func newWatchList() *watchList {
	return &watchList{
		watching: make(map[Lit][]NogoodID),
		slots:    make(map[NogoodID][2]Lit),
		valid:    make(map[NogoodID]int),
	}
}

func (w *watchList) addWatch(id NogoodID, lit Lit) {
	w.watching[lit] = append(w.watching[lit], id)
}

func (w *watchList) removeWatch(id NogoodID, lit Lit) {
	list := w.watching[lit]
	for i, cand := range list {
		if cand == id {
			list[i] = list[len(list)-1]
			w.watching[lit] = list[:len(list)-1]
			return
		}
	}
}

// initWatches picks up to two not-yet-true literals of ng to watch.
// AddNogood calls it for every nogood. A nogood of length 1 watches its
// only literal and is reported as a conflict once that literal becomes
// true; a nogood of length 0 gets no watch.
func (w *watchList) initWatches(s *CDNL, id NogoodID, ng Nogood) {
	var picked []Lit
	for _, l := range ng {
		if s.assign.satisfied(l) {
			continue
		}
		picked = append(picked, l)
		if len(picked) == 2 {
			break
		}
	}
	// If fewer than two not-yet-true literals exist, fall back to
	// filling remaining slots with whatever literals are available so
	// every nogood always has a watch entry (possibly on a true
	// literal, in the unit/conflict case detected by the caller).
	for len(picked) < 2 && len(picked) < len(ng) {
		for _, l := range ng {
			already := false
			for _, p := range picked {
				if p == l {
					already = true
					break
				}
			}
			if !already {
				picked = append(picked, l)
				break
			}
		}
	}
	var slot [2]Lit
	n := len(picked)
	if n > 2 {
		n = 2
	}
	for i := 0; i < n; i++ {
		slot[i] = picked[i]
		w.addWatch(id, picked[i])
	}
	w.slots[id] = slot
	w.valid[id] = n
}

func (w *watchList) removeNogood(id NogoodID) {
	n := w.valid[id]
	slot := w.slots[id]
	for i := 0; i < n; i++ {
		w.removeWatch(id, slot[i])
	}
	delete(w.slots, id)
	delete(w.valid, id)
}

// watchersBecomingTrue returns (a copy of) the nogoods currently watching
// lit, to be rescanned because lit just became true.
func (w *watchList) watchersBecomingTrue(lit Lit) []NogoodID {
	list := w.watching[lit]
	out := make([]NogoodID, len(list))
	copy(out, list)
	return out
}

// replace swaps the watch slot holding `old` (on nogood id) for
// `next`, a not-yet-true literal of that nogood distinct from its other
// watch. Returns false if id has no such slot for `old`.
func (w *watchList) replace(id NogoodID, old, next Lit) bool {
	slot := w.slots[id]
	n := w.valid[id]
	for i := 0; i < n; i++ {
		if slot[i] == old {
			w.removeWatch(id, old)
			slot[i] = next
			w.slots[id] = slot
			w.addWatch(id, next)
			return true
		}
	}
	return false
}

// otherWatch returns the watched literal of id other than `known`.
func (w *watchList) otherWatch(id NogoodID, known Lit) (Lit, bool) {
	slot := w.slots[id]
	n := w.valid[id]
	if n < 2 {
		return Lit{}, false
	}
	if slot[0] == known {
		return slot[1], true
	}
	return slot[0], true
}
