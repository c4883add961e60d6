package scroll

import (
	"testing"

	"github.com/hnimtadd/gridvirt/grid/datastruct"
	"github.com/stretchr/testify/assert"
)

// uniform is a view over count slots of one height, with overrides.
type uniform struct {
	count     int
	height    float64
	overrides map[int]float64
	collapsed *datastruct.IndexTable[bool]
}

func newUniform(count int, height float64) *uniform {
	return &uniform{
		count:     count,
		height:    height,
		overrides: map[int]float64{},
		collapsed: datastruct.NewIndexTable[bool](),
	}
}

func (u *uniform) SlotCount() int { return u.count }

func (u *uniform) NextVisibleSlot(slot int) int {
	next := u.collapsed.NextGap(slot)
	if next >= u.count {
		return -1
	}
	return next
}

func (u *uniform) PreviousVisibleSlot(slot int) int {
	return u.collapsed.PreviousGap(min(slot, u.count))
}

func (u *uniform) SlotHeight(slot int) float64 {
	if h, ok := u.overrides[slot]; ok {
		return h
	}
	return u.height
}

// The frame ignores overrides, like an estimator that has not seen them.
func (u *uniform) OffsetToSlot(slot int) float64 {
	if slot <= 0 {
		return 0
	}
	return float64(slot-u.collapsed.IndexCountIn(0, slot-1)) * u.height
}

func (u *uniform) EstimateSlotAtOffset(offset float64) int {
	lo, hi := 0, u.count
	for lo < hi {
		mid := (lo + hi) / 2
		if u.OffsetToSlot(mid) > offset {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return max(min(lo-1, u.count-1), 0)
}

func TestEstimateByDelta_WalkDown(t *testing.T) {
	v := newUniform(100, 20)
	got := EstimateByDelta(v, Position{FirstSlot: 3, NegOffset: 5, VerticalOffset: 65}, 50, 200, Options{})
	assert.Equal(t, PathWalk, got.Path)
	assert.Equal(t, 5, got.FirstSlot)
	assert.InDelta(t, 15.0, got.NegOffset, 1e-9)
	assert.InDelta(t, 115.0, got.VerticalOffset, 1e-9)
}

func TestEstimateByDelta_WalkUsesKnownHeights(t *testing.T) {
	v := newUniform(100, 20)
	v.overrides[1] = 100
	got := EstimateByDelta(v, Position{}, 110, 200, Options{})
	assert.Equal(t, 1, got.FirstSlot)
	assert.InDelta(t, 90.0, got.NegOffset, 1e-9)
}

func TestEstimateByDelta_WalkUp(t *testing.T) {
	v := newUniform(100, 20)
	got := EstimateByDelta(v, Position{FirstSlot: 10, NegOffset: 5, VerticalOffset: 205}, -30, 200, Options{})
	assert.Equal(t, PathWalk, got.Path)
	assert.Equal(t, 8, got.FirstSlot)
	assert.InDelta(t, 15.0, got.NegOffset, 1e-9)
	assert.InDelta(t, 175.0, got.VerticalOffset, 1e-9)
}

func TestEstimateByDelta_ClampsAtTop(t *testing.T) {
	v := newUniform(100, 20)
	got := EstimateByDelta(v, Position{FirstSlot: 2, NegOffset: 5, VerticalOffset: 45}, -500, 200, Options{})
	assert.Equal(t, PathTop, got.Path)
	assert.Equal(t, Position{}, got.Position)
}

func TestEstimateByDelta_WalkHitsBottom(t *testing.T) {
	v := newUniform(10, 20)
	got := EstimateByDelta(v, Position{FirstSlot: 5}, 1000, 100, Options{})
	assert.Equal(t, PathBottom, got.Path)
	assert.Equal(t, 9, got.FirstSlot)
}

func TestEstimateByDelta_LargeJump(t *testing.T) {
	v := newUniform(100000, 22)
	opts := Options{LargeJumpFactor: 2, Confident: true}
	got := EstimateByDelta(v, Position{}, 2200, 440, opts)
	assert.Equal(t, PathJump, got.Path)
	assert.Equal(t, 100, got.FirstSlot)
	assert.InDelta(t, 0.0, got.NegOffset, 1e-9)

	got = EstimateByDelta(v, Position{}, 2210, 440, opts)
	assert.Equal(t, 100, got.FirstSlot)
	assert.InDelta(t, 10.0, got.NegOffset, 1e-9)
	assert.InDelta(t, 2210.0, got.VerticalOffset, 1e-9)
}

func TestEstimateByDelta_LargeJumpNeedsConfidence(t *testing.T) {
	v := newUniform(100000, 22)
	got := EstimateByDelta(v, Position{}, 2200, 440, Options{LargeJumpFactor: 2})
	assert.Equal(t, PathWalk, got.Path)
	assert.Equal(t, 100, got.FirstSlot)

	got = EstimateByDelta(v, Position{}, 2200, 440, Options{LargeJumpFactor: 2, Confident: true, DetailsMode: true})
	assert.Equal(t, PathWalk, got.Path)
}

func TestEstimateByDelta_JumpSkipsCollapsed(t *testing.T) {
	v := newUniform(1000, 10)
	v.collapsed.AddValues(100, 100, true)
	got := EstimateByDelta(v, Position{}, 1005, 100, Options{LargeJumpFactor: 2, Confident: true})
	assert.Equal(t, 200, got.FirstSlot)
	assert.InDelta(t, 5.0, got.NegOffset, 1e-9)

	got = EstimateByDelta(v, Position{FirstSlot: 250}, -1000, 100, Options{LargeJumpFactor: 2, Confident: true})
	assert.Equal(t, PathJump, got.Path)
	assert.Equal(t, 50, got.FirstSlot)
}

func TestEstimateByDelta_ZeroDelta(t *testing.T) {
	v := newUniform(10, 20)
	pos := Position{FirstSlot: 2, NegOffset: 3, VerticalOffset: 43}
	got := EstimateByDelta(v, pos, 0, 100, Options{})
	assert.Equal(t, PathNone, got.Path)
	assert.Equal(t, pos, got.Position)
}

func TestEstimateForSlotAtBottom(t *testing.T) {
	v := newUniform(100, 20)
	got := EstimateForSlotAtBottom(v, 50, 110)
	// Slots 45..50 take 120px; 10px of slot 45 are above the viewport.
	assert.Equal(t, 45, got.FirstSlot)
	assert.InDelta(t, 10.0, got.NegOffset, 1e-9)
	assert.InDelta(t, 910.0, got.VerticalOffset, 1e-9)

	got = EstimateForSlotAtBottom(v, 2, 110)
	assert.Equal(t, Position{}, got, "not enough rows above, stick to the top")

	v.overrides[60] = 500
	got = EstimateForSlotAtBottom(v, 60, 110)
	assert.Equal(t, 60, got.FirstSlot)
	assert.Zero(t, got.NegOffset, "tall rows show their top")
}

func TestHeightBetween(t *testing.T) {
	v := newUniform(100, 20)
	v.collapsed.AddValues(5, 5, true)
	v.overrides[3] = 50
	assert.InDelta(t, 20*9+50.0, HeightBetween(v, 0, 15), 1e-9)
	assert.Zero(t, HeightBetween(v, 4, 4))
}
