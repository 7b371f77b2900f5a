package types

import "math/bits"

const (
	bitsPerWord = 64
	maskWords   = MaxExtensions / bitsPerWord
)

// Bitmask tracks which property slots of a galaxy hold materialized
// values. It is sized to MaxExtensions bits so every assignable
// property id has a bit. Out-of-range ids are ignored by Set and Clear
// and report false from Test.
type Bitmask [maskWords]uint64

// Set marks bit i.
func (m *Bitmask) Set(i int) {
	if i < 0 || i >= MaxExtensions {
		return
	}
	m[i/bitsPerWord] |= 1 << (i % bitsPerWord)
}

// Clear unmarks bit i.
func (m *Bitmask) Clear(i int) {
	if i < 0 || i >= MaxExtensions {
		return
	}
	m[i/bitsPerWord] &^= 1 << (i % bitsPerWord)
}

// Test reports whether bit i is set.
func (m *Bitmask) Test(i int) bool {
	if i < 0 || i >= MaxExtensions {
		return false
	}
	return m[i/bitsPerWord]&(1<<(i%bitsPerWord)) != 0
}

// Reset clears every bit.
func (m *Bitmask) Reset() {
	for w := range m {
		m[w] = 0
	}
}

// Count returns the number of set bits.
func (m *Bitmask) Count() int {
	n := 0
	for _, w := range m {
		n += bits.OnesCount64(w)
	}
	return n
}
