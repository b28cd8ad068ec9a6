package mlp

import "github.com/hexhex/core/registry"

// InstanceID is a dense handle into the module-instance table.
type InstanceID int

// instanceKey pairs a module with the S-index of its formal input, the
// module-instance table's dedup key (spec.md §4.10 "module-instance
// table: pairs (module-index, S-index)").
type instanceKey struct {
	module registry.ModuleID
	s      SIndex
}

// Instance is one (module, S) activation: its finished answer set once
// solved, and the A-container of module atoms it is still waiting on.
type Instance struct {
	ID       InstanceID
	Module   registry.ModuleID
	S        SIndex
	Finished bool
	Answer   *registry.Interpretation
}

type instanceTable struct {
	rows   []Instance
	byKey  map[instanceKey]InstanceID
	// pending[id] is the A-container: module-atom handles this instance's
	// rules still reference whose callee instance has not finished yet.
	// An empty-but-present slice is the "fin" sentinel (spec.md §4.10):
	// every call has been resolved and the instance is ready to solve.
	pending map[InstanceID][]registry.ID
}

func newInstanceTable() *instanceTable {
	return &instanceTable{
		byKey:   make(map[instanceKey]InstanceID),
		pending: make(map[InstanceID][]registry.ID),
	}
}

// getOrCreate returns the existing instance for (module, s) if one was
// already opened, or opens and returns a new, unfinished one otherwise.
func (t *instanceTable) getOrCreate(module registry.ModuleID, s SIndex) (InstanceID, bool) {
	k := instanceKey{module: module, s: s}
	if id, ok := t.byKey[k]; ok {
		return id, false
	}
	id := InstanceID(len(t.rows))
	t.rows = append(t.rows, Instance{ID: id, Module: module, S: s})
	t.byKey[k] = id
	return id, true
}

func (t *instanceTable) get(id InstanceID) Instance { return t.rows[id] }

func (t *instanceTable) finish(id InstanceID, answer *registry.Interpretation) {
	t.rows[id].Finished = true
	t.rows[id].Answer = answer
}

// awaiting adds a module-atom handle to id's A-container.
func (t *instanceTable) awaiting(id InstanceID, atom registry.ID) {
	t.pending[id] = append(t.pending[id], atom)
}

// resolve removes atom from id's A-container once its callee instance
// has finished.
func (t *instanceTable) resolve(id InstanceID, atom registry.ID) {
	rest := t.pending[id][:0]
	for _, a := range t.pending[id] {
		if a != atom {
			rest = append(rest, a)
		}
	}
	t.pending[id] = rest
}

// ready reports whether id's A-container has reached the fin sentinel:
// no module atom is still awaiting instantiation.
func (t *instanceTable) ready(id InstanceID) bool {
	return len(t.pending[id]) == 0
}
