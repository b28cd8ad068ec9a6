package registry

import (
	"sync"

	"github.com/hexhex/core/herr"
)

// Module is a module-table row (spec.md §3.2): a name, its formal
// predicate-input parameter list, and the EDB/IDB rule-handle sets that
// make up its body.
type Module struct {
	Name         string
	FormalInputs []ID // predicate term handles
	EDB          []ID // ground ordinary atom handles
	IDB          []ID // rule handles
}

// IsMain reports whether this module has no formal inputs (spec.md §4.10
// "main modules (modules with empty formal input lists)").
func (m Module) IsMain() bool { return len(m.FormalInputs) == 0 }

type moduleTable struct {
	mu     sync.RWMutex
	rows   []Module
	byName map[string]Address
}

func newModuleTable() *moduleTable {
	return &moduleTable{byName: make(map[string]Address)}
}

// ModuleID is a distinct handle space from registry.ID: modules are
// addressed by plain dense index since they never appear inside a rule
// or atom tuple (only module *atoms* reference a module, by name string,
// per spec.md §3.2 "input tuple + output atom + actual module name for
// module atoms").
type ModuleID uint32

// FailModule is the absence sentinel for ModuleID.
const FailModule = ModuleID(^uint32(0))

// StoreModuleByName interns a module row under its unique name. A
// duplicate module name is a syntactic error (module names are unique
// identifiers, not interned structural values).
func (r *Registry) StoreModuleByName(row Module) (ModuleID, error) {
	t := r.modules
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.byName[row.Name]; ok {
		return FailModule, herr.KindSyntax.New("duplicate module name: " + row.Name)
	}
	addr := Address(len(t.rows))
	t.rows = append(t.rows, row)
	t.byName[row.Name] = addr
	return ModuleID(addr), nil
}

// Module looks up a module row by ModuleID.
func (r *Registry) Module(id ModuleID) (Module, error) {
	t := r.modules
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(id) >= len(t.rows) {
		return Module{}, herr.KindInternal.New("module id out of range")
	}
	return t.rows[id], nil
}

// FindModule looks up a module by name, returning FailModule if absent.
func (r *Registry) FindModule(name string) ModuleID {
	t := r.modules
	t.mu.RLock()
	defer t.mu.RUnlock()
	if addr, ok := t.byName[name]; ok {
		return ModuleID(addr)
	}
	return FailModule
}

// ModuleCount returns the number of interned modules.
func (r *Registry) ModuleCount() int {
	t := r.modules
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
