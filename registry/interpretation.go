package registry

import "sort"

const wordBits = 64

// Interpretation is the dense bitset over ground-atom addresses of
// spec.md §3.3: one bit per registry.Address of an interned ground
// ordinary atom. It carries a reference to its registry, grows on demand
// (append-resized, never shrunk), and is shared by strong reference
// (spec.md §3.3, §5).
type Interpretation struct {
	Reg   *Registry
	words []uint64
}

// NewInterpretation creates an empty interpretation over reg.
func NewInterpretation(reg *Registry) *Interpretation {
	return &Interpretation{Reg: reg}
}

func (in *Interpretation) ensure(addr Address) {
	need := int(addr)/wordBits + 1
	for len(in.words) < need {
		in.words = append(in.words, 0)
	}
}

// Set sets the bit for the ground atom at addr.
func (in *Interpretation) Set(addr Address) {
	in.ensure(addr)
	in.words[addr/wordBits] |= 1 << (addr % wordBits)
}

// Clear clears the bit for the ground atom at addr.
func (in *Interpretation) Clear(addr Address) {
	if int(addr)/wordBits >= len(in.words) {
		return
	}
	in.words[addr/wordBits] &^= 1 << (addr % wordBits)
}

// Test reports whether the bit for addr is set.
func (in *Interpretation) Test(addr Address) bool {
	if int(addr)/wordBits >= len(in.words) {
		return false
	}
	return in.words[addr/wordBits]&(1<<(addr%wordBits)) != 0
}

// SetAtom is the ID-handle convenience form of Set.
func (in *Interpretation) SetAtom(id ID) { in.Set(id.Address()) }

// ClearAtom is the ID-handle convenience form of Clear.
func (in *Interpretation) ClearAtom(id ID) { in.Clear(id.Address()) }

// TestAtom is the ID-handle convenience form of Test.
func (in *Interpretation) TestAtom(id ID) bool { return in.Test(id.Address()) }

func maxLen(a, b []uint64) int {
	if len(a) > len(b) {
		return len(a)
	}
	return len(b)
}

func (in *Interpretation) wordAt(i int) uint64 {
	if i >= len(in.words) {
		return 0
	}
	return in.words[i]
}

// Union returns a new interpretation holding the bitwise union of in and
// other.
func (in *Interpretation) Union(other *Interpretation) *Interpretation {
	n := maxLen(in.words, other.words)
	out := &Interpretation{Reg: in.Reg, words: make([]uint64, n)}
	for i := 0; i < n; i++ {
		out.words[i] = in.wordAt(i) | other.wordAt(i)
	}
	return out
}

// Intersect returns a new interpretation holding the bitwise
// intersection of in and other.
func (in *Interpretation) Intersect(other *Interpretation) *Interpretation {
	n := maxLen(in.words, other.words)
	out := &Interpretation{Reg: in.Reg, words: make([]uint64, n)}
	for i := 0; i < n; i++ {
		out.words[i] = in.wordAt(i) & other.wordAt(i)
	}
	return out
}

// ComplementWithin returns the bits of mask not set in in (in's
// complement, restricted to the bits mask has set).
func (in *Interpretation) ComplementWithin(mask *Interpretation) *Interpretation {
	n := maxLen(in.words, mask.words)
	out := &Interpretation{Reg: in.Reg, words: make([]uint64, n)}
	for i := 0; i < n; i++ {
		out.words[i] = mask.wordAt(i) &^ in.wordAt(i)
	}
	return out
}

// Clone returns an independent copy of in.
func (in *Interpretation) Clone() *Interpretation {
	out := &Interpretation{Reg: in.Reg, words: make([]uint64, len(in.words))}
	copy(out.words, in.words)
	return out
}

// Equal reports bit-equality (spec.md §3.3 "Equality is bit-equality").
func (in *Interpretation) Equal(other *Interpretation) bool {
	n := maxLen(in.words, other.words)
	for i := 0; i < n; i++ {
		if in.wordAt(i) != other.wordAt(i) {
			return false
		}
	}
	return true
}

// Less implements the lexicographic-on-bit-positions order of spec.md
// §3.3: compare the ascending sequence of set-bit addresses.
func (in *Interpretation) Less(other *Interpretation) bool {
	ai, bi := in.Iterate(), other.Iterate()
	for {
		a, aok := ai.Next()
		b, bok := bi.Next()
		switch {
		case !aok && !bok:
			return false
		case !aok:
			return true
		case !bok:
			return false
		case a != b:
			return a < b
		}
	}
}

// popcount counts the set bits of a word.
func popcount(w uint64) int {
	c := 0
	for w != 0 {
		w &= w - 1
		c++
	}
	return c
}

// Filter walks each set bit in ascending address order and clears it iff
// cb(address) returns false. It returns the number of cleared bits
// (spec.md §4.2).
func (in *Interpretation) Filter(cb func(Address) bool) int {
	cleared := 0
	it := in.Iterate()
	for {
		addr, ok := it.Next()
		if !ok {
			break
		}
		if !cb(addr) {
			in.Clear(addr)
			cleared++
		}
	}
	return cleared
}

// BitIterator walks the set bits of an Interpretation in ascending
// address order.
type BitIterator struct {
	words []uint64
	word  int
	bit   int
}

// Iterate returns a fresh ascending-order iterator over in's set bits.
func (in *Interpretation) Iterate() *BitIterator {
	return &BitIterator{words: in.words}
}

// Next returns the next set bit's address, or (0, false) at exhaustion.
func (it *BitIterator) Next() (Address, bool) {
	for it.word < len(it.words) {
		w := it.words[it.word] >> uint(it.bit)
		if w == 0 {
			it.word++
			it.bit = 0
			continue
		}
		for w&1 == 0 {
			w >>= 1
			it.bit++
		}
		addr := Address(it.word*wordBits + it.bit)
		it.bit++
		if it.bit >= wordBits {
			it.word++
			it.bit = 0
		}
		return addr, true
	}
	return 0, false
}

// Addresses materializes every set bit as a sorted slice. Convenience
// wrapper around Iterate for callers that want a slice rather than a
// cursor.
func (in *Interpretation) Addresses() []Address {
	var out []Address
	it := in.Iterate()
	for {
		a, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] }) // already sorted; defensive
	return out
}

// Count returns the number of set bits.
func (in *Interpretation) Count() int {
	c := 0
	for _, w := range in.words {
		c += popcount(w)
	}
	return c
}

// Atoms materializes every set bit as a ground-ordinary-atom ID.
func (in *Interpretation) Atoms() []ID {
	addrs := in.Addresses()
	out := make([]ID, len(addrs))
	for i, a := range addrs {
		out[i] = NewID(MainAtom, AtomOrdinaryGround, 0, a)
	}
	return out
}
