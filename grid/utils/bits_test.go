package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBitSet_Size(t *testing.T) {
	bs := NewBitSet(100)
	assert.Equal(t, 100, bs.Len())
	assert.Equal(t, 0, bs.Count())
}

func TestSetAndIsSet(t *testing.T) {
	bs := NewBitSet(10)
	bs.Set(3)
	assert.True(t, bs.IsSet(3), "bit 3 should be set")
	assert.False(t, bs.IsSet(4), "bit 4 should not be set")
	bs.Unset(3)
	assert.False(t, bs.IsSet(3), "bit 3 should be cleared")
}

func TestSetMultipleBits(t *testing.T) {
	bs := NewBitSet(128)
	bs.Set(0)
	bs.Set(64)
	bs.Set(127)
	assert.True(t, bs.IsSet(0))
	assert.True(t, bs.IsSet(64))
	assert.True(t, bs.IsSet(127))
	assert.Equal(t, 3, bs.Count())
}

func TestSetRangeSingleWord(t *testing.T) {
	bs := NewBitSet(64)
	bs.SetRange(3, 9)
	assert.Equal(t, 6, bs.Count())
	assert.False(t, bs.IsSet(2))
	assert.True(t, bs.IsSet(3))
	assert.True(t, bs.IsSet(8))
	assert.False(t, bs.IsSet(9))
}

func TestSetRangeAcrossWords(t *testing.T) {
	bs := NewBitSet(200)
	bs.SetRange(60, 140)
	assert.Equal(t, 80, bs.Count())
	assert.False(t, bs.IsSet(59))
	assert.True(t, bs.IsSet(60))
	assert.True(t, bs.IsSet(128))
	assert.True(t, bs.IsSet(139))
	assert.False(t, bs.IsSet(140))
}

func TestUnsetRange(t *testing.T) {
	bs := NewBitSetFull(200)
	bs.UnsetRange(10, 150)
	assert.Equal(t, 60, bs.Count())
	assert.True(t, bs.IsSet(9))
	assert.False(t, bs.IsSet(10))
	assert.False(t, bs.IsSet(149))
	assert.True(t, bs.IsSet(150))
}

func TestNextSet(t *testing.T) {
	bs := NewBitSet(300)
	bs.Set(5)
	bs.Set(250)
	assert.Equal(t, 5, bs.NextSet(0))
	assert.Equal(t, 250, bs.NextSet(6))
	assert.Equal(t, -1, bs.NextSet(251))
}

func TestInsertRange(t *testing.T) {
	bs := NewBitSet(10)
	bs.Set(2)
	bs.Set(5)
	bs.InsertRange(3, 4)
	assert.Equal(t, 14, bs.Len())
	assert.True(t, bs.IsSet(2), "bits before the gap stay")
	assert.True(t, bs.IsSet(9), "bits after the gap shift by the count")
	assert.False(t, bs.IsSet(5))
	assert.Equal(t, 2, bs.Count())
}

func TestRemoveRange(t *testing.T) {
	bs := NewBitSet(100)
	bs.Set(1)
	bs.Set(50)
	bs.Set(70)
	bs.RemoveRange(40, 20)
	assert.Equal(t, 80, bs.Len())
	assert.True(t, bs.IsSet(1))
	assert.True(t, bs.IsSet(50), "bit 70 moved down to 50")
	assert.Equal(t, 2, bs.Count(), "bit 50 was removed with the range")
}

func TestResizeDropsTail(t *testing.T) {
	bs := NewBitSetFull(70)
	bs.Resize(65)
	bs.Resize(128)
	assert.Equal(t, 65, bs.Count())
}

func TestClear(t *testing.T) {
	bs := NewBitSet(10)
	bs.Set(1)
	bs.Set(2)
	bs.Clear()
	assert.Equal(t, 0, bs.Count())
}

func TestNewBitSetFull(t *testing.T) {
	bs := NewBitSetFull(10)
	for i := range 10 {
		assert.True(t, bs.IsSet(i), "bit %d should be set in full bitset", i)
	}
}

func TestSetOutOfBoundsPanics(t *testing.T) {
	bs := NewBitSet(5)
	assert.Panics(t, func() { bs.Set(5) })
}

func TestIsSetOutOfBoundsPanics(t *testing.T) {
	bs := NewBitSet(5)
	assert.Panics(t, func() { bs.IsSet(5) })
}

func TestSetNegativeIndexPanics(t *testing.T) {
	bs := NewBitSet(5)
	assert.Panics(t, func() { bs.Set(-1) })
}
