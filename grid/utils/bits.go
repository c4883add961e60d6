package utils

import (
	"math/bits"
)

const bitSetSize = 64 // Number of bits in a uint64

// BitSet is a growable bit set. Unlike a plain bit array it can open and
// close gaps (InsertRange/RemoveRange), which is what index-keyed state such
// as row selection needs when rows are inserted or removed from the source.
type BitSet struct {
	bits []uint64
	size int
}

// NewBitSet creates a new BitSet with the given size.
func NewBitSet(size int) *BitSet {
	Assert(size >= 0, "negative bit set size")
	set := &BitSet{size: size}
	set.init()
	return set
}

// NewBitSetFull creates a BitSet with all bits set to 1.
func NewBitSetFull(size int) *BitSet {
	set := NewBitSet(size)
	if size > 0 {
		set.SetRange(0, size)
	}
	return set
}

// Len is the number of addressable bits.
func (s *BitSet) Len() int {
	return s.size
}

// Changes the value of all bits in the specifed range [start, end) to 1.
func (s *BitSet) SetRange(start int, end int) {
	Assert(0 <= start)
	Assert(start <= end)
	Assert(end <= s.size, "End index out of bounds")
	if start == end {
		return
	}
	startAddr, startOffset := s.addr(start)
	endAddr, endOffset := s.addr(end - 1)

	if startAddr == endAddr {
		// Mark all bits from 0 to startOffset-1 as 1.
		// ( 1<< startOffset ) - 1 = 0000 ... 01111...111
		//                                     |startOffset
		var mask1 uint64 = (1 << startOffset) - 1

		// Mark all bits after endOffset as 1.
		// ^((1 << (endOffset + 1)) - 1) = 1111 ... 10000...0000
		//                                        | endOffset + 1
		var mask2 uint64 = ^((1 << (endOffset + 1)) - 1)

		// ^(mask1 | mask2) = 0000 ... 01110...0000
		//              endOffset| |startOffset
		s.bits[startAddr] |= ^(mask1 | mask2)
		return
	}

	var mask1 uint64 = (1 << startOffset) - 1 // Mask for bits before startOffset
	s.bits[startAddr] |= ^mask1               // Set all bits from startOffset to the end of the uint64

	var mask2 uint64 = ^((1 << (endOffset + 1)) - 1) // Mask for bits after endOffset
	s.bits[endAddr] |= ^mask2                        // Set all bits from the beginning to endOffset

	for i := startAddr + 1; i < endAddr; i++ {
		s.bits[i] = ^uint64(0)
	}
}

// UnsetRange clears all bits in [start, end).
func (s *BitSet) UnsetRange(start int, end int) {
	Assert(0 <= start)
	Assert(start <= end)
	Assert(end <= s.size, "End index out of bounds")
	for i := start; i < end; {
		addr, offset := s.addr(i)
		if offset == 0 && i+bitSetSize <= end {
			s.bits[addr] = 0
			i += bitSetSize
			continue
		}
		s.bits[addr] &^= 1 << offset
		i++
	}
}

// Set sets the bit at the given idx to 1
func (s *BitSet) Set(idx int) {
	Assert(idx >= 0 && idx < s.size, "Index out of bounds")
	idx, offset := s.addr(idx)
	s.bits[idx] |= 1 << offset
}

// Unset clears the bit at the given idx
func (s *BitSet) Unset(idx int) {
	Assert(idx >= 0 && idx < s.size, "Index out of bounds")
	idx, offset := s.addr(idx)
	s.bits[idx] &^= 1 << offset
}

// addr return the index of bit array containing the bit at idx and offset of
// givent bit in that array.
func (s *BitSet) addr(idx int) (int, int) {
	return idx / bitSetSize, idx % bitSetSize
}

// IsSet returns if bit at given idx is set
func (s *BitSet) IsSet(idx int) bool {
	Assert(idx >= 0 && idx < s.size, "Index out of bounds")
	idx, offset := s.addr(idx)
	return s.bits[idx]&(1<<offset) != 0
}

// Count counts the number of bits set
func (s *BitSet) Count() int {
	total := 0
	for _, word := range s.bits {
		total += bits.OnesCount64(word)
	}
	return total
}

// NextSet returns the first set bit at or after idx, or -1.
func (s *BitSet) NextSet(idx int) int {
	if idx < 0 {
		idx = 0
	}
	if idx >= s.size {
		return -1
	}
	addr, offset := s.addr(idx)
	word := s.bits[addr] >> offset
	if word != 0 {
		return idx + bits.TrailingZeros64(word)
	}
	for addr++; addr < len(s.bits); addr++ {
		if s.bits[addr] != 0 {
			return addr*bitSetSize + bits.TrailingZeros64(s.bits[addr])
		}
	}
	return -1
}

// Resize changes the addressable size. Bits beyond the new size are dropped.
func (s *BitSet) Resize(size int) {
	Assert(size >= 0, "negative bit set size")
	words := (size + bitSetSize - 1) / bitSetSize
	if words > len(s.bits) {
		s.bits = append(s.bits, make([]uint64, words-len(s.bits))...)
	} else {
		s.bits = s.bits[:words]
	}
	s.size = size
	// Clear the tail of the last word so shrinking then growing never
	// resurrects stale bits.
	if rem := size % bitSetSize; rem != 0 {
		s.bits[words-1] &= (1 << rem) - 1
	}
}

// InsertRange opens a gap of count cleared bits at start, shifting every bit
// at or after start up by count. The set grows by count.
func (s *BitSet) InsertRange(start, count int) {
	Assert(start >= 0 && start <= s.size, "Index out of bounds")
	Assert(count >= 0)
	if count == 0 {
		return
	}
	old := s.clone()
	s.Resize(s.size + count)
	s.UnsetRange(start, s.size)
	for i := old.NextSet(start); i != -1; i = old.NextSet(i + 1) {
		s.Set(i + count)
	}
}

// RemoveRange deletes count bits at start, shifting the following bits down.
// The set shrinks by count.
func (s *BitSet) RemoveRange(start, count int) {
	Assert(start >= 0 && start+count <= s.size, "Index out of bounds")
	Assert(count >= 0)
	if count == 0 {
		return
	}
	old := s.clone()
	s.UnsetRange(start, s.size)
	for i := old.NextSet(start + count); i != -1; i = old.NextSet(i + 1) {
		s.Set(i - count)
	}
	s.Resize(s.size - count)
}

func (s *BitSet) clone() *BitSet {
	c := &BitSet{size: s.size, bits: make([]uint64, len(s.bits))}
	copy(c.bits, s.bits)
	return c
}

func (s *BitSet) init() {
	s.bits = make([]uint64, (s.size+bitSetSize-1)/bitSetSize)
}

// Clear clears the bits set
func (s *BitSet) Clear() {
	s.init()
}
