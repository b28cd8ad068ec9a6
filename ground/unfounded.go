package ground

import "github.com/hexhex/core/registry"

// UnfoundedChecker finds unfounded loops of a complete interpretation and
// translates each into the per-atom loop nogoods of spec.md §4.4
// "unfounded-set check": every atom in a genuinely unfounded loop is
// forbidden from being true unless at least one of its external
// (outside-the-loop) supporting bodies holds.
type UnfoundedChecker struct {
	comp *Completion

	// positiveAtomDeps[a] lists, for every shifted rule with head a, the
	// set of positive (non-naf) body atom addresses of that rule.
	positiveAtomDeps map[registry.Address][][]registry.Address
	// ruleIdxOf[a] parallels positiveAtomDeps[a]: the index into
	// comp.Shifted/comp.BodyAddr of the same rule.
	ruleIdxOf map[registry.Address][]int

	sccs [][]registry.Address
}

// NewUnfoundedChecker builds the checker's dependency index and computes
// the SCC decomposition of the positive-atom dependency graph once, up
// front, since the ground program does not change across models.
func NewUnfoundedChecker(reg *registry.Registry, comp *Completion) *UnfoundedChecker {
	u := &UnfoundedChecker{
		comp:             comp,
		positiveAtomDeps: make(map[registry.Address][][]registry.Address),
		ruleIdxOf:        make(map[registry.Address][]int),
	}

	edges := make(map[registry.Address][]registry.Address)
	nodes := make([]registry.Address, reg.GroundAtomCount())
	for i := range nodes {
		nodes[i] = registry.Address(i)
	}

	for idx, sr := range comp.Shifted {
		if sr.Head.IsFail() {
			continue
		}
		headAddr := sr.Head.Address()
		var positives []registry.Address
		for _, litID := range sr.Body {
			if litID.IsNaf() {
				continue
			}
			positives = append(positives, litID.Atom().Address())
		}
		u.positiveAtomDeps[headAddr] = append(u.positiveAtomDeps[headAddr], positives)
		u.ruleIdxOf[headAddr] = append(u.ruleIdxOf[headAddr], idx)
		edges[headAddr] = append(edges[headAddr], positives...)
	}

	u.sccs = tarjanSCC(nodes, edges)
	return u
}

func inSet(set map[registry.Address]bool, addrs []registry.Address) bool {
	for _, a := range addrs {
		if !set[a] {
			return false
		}
	}
	return true
}

// Check runs the unfounded-set check against a complete assignment
// function (addr -> truth value) and returns the loop nogoods of every
// genuinely unfounded loop found. An empty result means the assignment
// passes the check and is a founded model.
func (u *UnfoundedChecker) Check(value func(registry.Address) bool) []Nogood {
	var loopNogoods []Nogood

	for _, scc := range u.sccs {
		hasLoop := len(scc) > 1
		if !hasLoop && len(scc) == 1 {
			for _, dep := range u.positiveAtomDeps[scc[0]] {
				for _, d := range dep {
					if d == scc[0] {
						hasLoop = true
					}
				}
			}
		}
		if !hasLoop {
			continue
		}

		candidate := make(map[registry.Address]bool)
		for _, a := range scc {
			if value(a) {
				candidate[a] = true
			}
		}
		if len(candidate) == 0 {
			continue
		}

		externallySupported := func(a registry.Address) bool {
			deps := u.positiveAtomDeps[a]
			idxs := u.ruleIdxOf[a]
			for ri, positives := range deps {
				if inSet(candidate, positives) {
					// entirely internal to the current candidate set:
					// not an external support.
					continue
				}
				bodyTrue := true
				for _, litID := range u.comp.Shifted[idxs[ri]].Body {
					l := literalToLit(litID)
					if value(l.Addr) != l.Pos {
						bodyTrue = false
						break
					}
				}
				if bodyTrue {
					return true
				}
			}
			return false
		}

		changed := true
		for changed {
			changed = false
			for a := range candidate {
				if externallySupported(a) {
					delete(candidate, a)
					changed = true
				}
			}
		}

		if len(candidate) == 0 {
			continue
		}

		for a := range candidate {
			ng := Nogood{{Addr: a, Pos: true}}
			deps := u.positiveAtomDeps[a]
			idxs := u.ruleIdxOf[a]
			for ri, positives := range deps {
				if inSet(candidate, positives) {
					continue
				}
				ng = append(ng, Lit{Addr: u.comp.BodyAddr[idxs[ri]], Pos: false})
			}
			loopNogoods = append(loopNogoods, ng)
		}
	}

	return loopNogoods
}
