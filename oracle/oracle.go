// Package oracle implements the external-atom oracle capability of
// spec.md §6: the `PluginAtom` interface external atoms are evaluated
// against, plus a deterministic on-disk cache over `retrieve` calls.
package oracle

import (
	"github.com/hexhex/core/registry"
	"github.com/spf13/cast"
)

// ArgType classifies one declared input argument of a plugin atom
// (spec.md §6 "declared input arity with each argument typed as one of
// {predicate, constant, tuple-varargs}").
type ArgType uint8

const (
	ArgPredicate ArgType = iota
	ArgConstant
	ArgTupleVarargs
)

// Signature is a plugin atom's declared input/output arity.
type Signature struct {
	Inputs      []ArgType
	OutputArity int
}

// Query is one retrieve request: the interpretation restricted to the
// atom's predicate inputs, the actual input tuple, and the output
// pattern the answer's tuples must match (spec.md §6 "query =
// (interpretation, input_tuple, output_pattern)").
type Query struct {
	Interp        *registry.Interpretation
	InputTuple    []registry.ID
	OutputPattern []registry.ID
}

// Tuple is one output tuple a plugin atom's answer is made of, as term
// handles already interned in the registry the atom was invoked from.
type Tuple []registry.ID

// PluginAtom is the external-atom oracle capability (spec.md §6).
// Implementations MUST be deterministic on equal queries: the engine's
// cache and the unfounded-set checker both rely on retrieve being a pure
// function of its query.
type PluginAtom interface {
	Signature() Signature
	IsMonotonic() bool
	Retrieve(q Query) ([]Tuple, error)
}

// InternScalar coerces a raw Go value a plugin atom produced (an int,
// int64, float, or string read out of a file, a REST response, a CSV
// row — whatever the plugin's data source hands back) into a registry
// term handle. Integral-looking values intern as TermInteger; everything
// else interns as a TermConstant of its string form, using cast's
// permissive conversions so a plugin author never has to hand-sniff the
// dynamic type of a value before handing it to the registry.
func InternScalar(reg *registry.Registry, v interface{}) registry.ID {
	if i, err := cast.ToInt64E(v); err == nil {
		switch v.(type) {
		case bool:
		case float32, float64:
			if cast.ToFloat64(v) == float64(i) {
				return reg.StoreInteger(i)
			}
		default:
			return reg.StoreInteger(i)
		}
	}
	return reg.StoreConstant(cast.ToString(v))
}
