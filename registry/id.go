// Package registry is the interned term/atom/rule/module catalogue of one
// program: the handle-addressed store described in spec.md §3 and §4.1.
//
// Every other subsystem holds registry.ID handles, never rows; the
// registry is the sole owner of the underlying tables (spec.md §3.2
// "Ownership").
package registry

import "fmt"

// ID is the 64-bit packed handle of spec.md §3.1: a 32-bit kind word and a
// 32-bit dense zero-based address into the table selected by (main kind,
// sub kind). The bit layout is taken from original_source/include/dlvhex/
// ID.hpp: NAF is bit 31, main kind occupies bits 28-30, sub kind bits
// 24-27, and a byte of property flags sits at bits 16-23.
type ID uint64

const (
	nafMask       = uint64(0x80000000) << 32
	mainKindMask  = uint64(0x70000000) << 32
	mainKindShift = 28 + 32
	subKindMask   = uint64(0x0F000000) << 32
	subKindShift  = 24 + 32
	propertyMask  = uint64(0x00FF0000) << 32
	propertyShift = 16 + 32
	addressMask   = uint64(0xFFFFFFFF)
)

// Main kinds.
const (
	MainAtom MainKind = iota
	MainTerm
	MainLiteral
	MainRule
)

// MainKind is the outermost discriminator of an ID.
type MainKind uint8

// Sub kinds for MainTerm.
const (
	TermConstant SubKind = iota
	TermInteger
	TermVariable
	TermBuiltin
)

// Sub kinds for MainAtom.
const (
	AtomOrdinaryGround SubKind = iota
	AtomOrdinaryNonground
	AtomBuiltin
	AtomAggregate
	AtomExternal
	AtomModule
)

// Sub kinds for MainRule.
const (
	RuleRegular SubKind = iota
	RuleConstraint
	RuleWeakConstraint
)

// SubKind is the secondary discriminator of an ID, interpreted relative to
// its MainKind.
type SubKind uint8

// Property flags, packed into the property byte. A given ID may carry any
// combination that makes sense for its (main kind, sub kind).
const (
	PropAnonymousVar Property = 1 << iota
	PropAuxTerm
	PropRuleHasEatoms
	PropAuxRule
	PropAtomAux
)

// Property is a bitset of per-ID flags (spec.md §3.1 "property flags").
type Property uint8

// Address is the dense zero-based row index of an ID within its table.
type Address uint32

// FAIL is the sentinel ID denoting absence (spec.md §3.1).
const FAIL ID = ID(^uint64(0))

// NewID packs a main kind, sub kind, property set and address into an ID.
func NewID(main MainKind, sub SubKind, props Property, addr Address) ID {
	var v uint64
	v |= uint64(main) << mainKindShift
	v |= uint64(sub) << subKindShift
	v |= uint64(props) << propertyShift
	v |= uint64(addr)
	return ID(v)
}

// MainKind extracts the main kind of the ID.
func (id ID) MainKind() MainKind {
	return MainKind((uint64(id) & mainKindMask) >> mainKindShift)
}

// SubKind extracts the sub kind of the ID.
func (id ID) SubKind() SubKind {
	return SubKind((uint64(id) & subKindMask) >> subKindShift)
}

// Properties extracts the property flags of the ID.
func (id ID) Properties() Property {
	return Property((uint64(id) & propertyMask) >> propertyShift)
}

// Has reports whether every flag in want is set on the ID.
func (id ID) Has(want Property) bool {
	return id.Properties()&want == want
}

// Address extracts the dense row address of the ID.
func (id ID) Address() Address {
	return Address(uint64(id) & addressMask)
}

// IsNaf reports whether this literal ID is negated. Only meaningful for
// MainLiteral; the NAF flag otherwise leaves the address of the
// underlying atom intact, so toggling it yields the complementary literal
// (spec.md §3.1 invariant).
func (id ID) IsNaf() bool {
	return uint64(id)&nafMask != 0
}

// Negate toggles the NAF bit, yielding the complementary literal. It
// leaves the main kind, sub kind, properties and address untouched.
func (id ID) Negate() ID {
	return ID(uint64(id) ^ nafMask)
}

// IsFail reports whether id is the absence sentinel.
func (id ID) IsFail() bool {
	return id == FAIL
}

// Atom discards the NAF bit and reinterprets a literal ID as the
// underlying atom ID (same address, MainAtom instead of MainLiteral).
func (id ID) Atom() ID {
	v := uint64(id) &^ nafMask
	v &^= mainKindMask
	v |= uint64(MainAtom) << mainKindShift
	return ID(v)
}

// Literal builds a literal ID over an ordinary/external/... atom ID, with
// the given negation-as-failure polarity. The sub kind and address of the
// atom are carried over; MainKind becomes MainLiteral.
func (id ID) Literal(naf bool) ID {
	v := uint64(id) &^ mainKindMask
	v |= uint64(MainLiteral) << mainKindShift
	if naf {
		v |= nafMask
	} else {
		v &^= nafMask
	}
	return ID(v)
}

func (id ID) String() string {
	if id.IsFail() {
		return "ID(FAIL)"
	}
	naf := ""
	if id.MainKind() == MainLiteral && id.IsNaf() {
		naf = "not "
	}
	return fmt.Sprintf("%sID(main=%d,sub=%d,props=%02x,addr=%d)", naf, id.MainKind(), id.SubKind(), id.Properties(), id.Address())
}
