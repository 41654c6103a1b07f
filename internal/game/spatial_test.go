package game

import (
	"testing"

	"dogfight-arena/internal/vec"

	"github.com/stretchr/testify/assert"
)

func TestSpatialGridQuery(t *testing.T) {
	g := NewSpatialGrid(750, SpatialCellSize)
	g.Insert(0, 0, 1)
	g.Insert(500, -500, 2)
	g.Insert(-700, 700, 3)

	assert.ElementsMatch(t, []int{1}, g.QueryBuf(10, 10, 40, nil))
	assert.ElementsMatch(t, []int{2}, g.QueryBuf(480, -480, 40, nil))
	assert.Empty(t, g.QueryBuf(250, 250, 40, nil))

	g.Clear()
	assert.Empty(t, g.QueryBuf(0, 0, 40, nil))
}

func TestSpatialGridClampsOutside(t *testing.T) {
	g := NewSpatialGrid(750, SpatialCellSize)
	g.Insert(5000, 5000, 7)
	assert.Contains(t, g.QueryBuf(749, 749, 10, nil), 7)
	// far negative query lands in the opposite corner
	assert.NotContains(t, g.QueryBuf(-5000, -5000, 10, nil), 7)
}

func TestSpatialGridQueryBufAppends(t *testing.T) {
	g := NewSpatialGrid(750, SpatialCellSize)
	g.Insert(0, 0, 4)
	buf := []int{99}
	buf = g.QueryBuf(0, 0, 1, buf)
	assert.Equal(t, []int{99, 4}, buf)
}

func TestSpheresOverlap(t *testing.T) {
	assert.True(t, SpheresOverlap(vec.New(0, 0, 0), 10, vec.New(15, 0, 0), 5))
	assert.False(t, SpheresOverlap(vec.New(0, 0, 0), 10, vec.New(15.1, 0, 0), 5))
}

func TestSegmentHitsSphere(t *testing.T) {
	c := vec.New(0, 0, 0)
	cases := []struct {
		name   string
		p0, p1 vec.Vec3
		want   bool
	}{
		{"passes through", vec.New(-100, 0, 0), vec.New(100, 0, 0), true},
		{"grazes", vec.New(-100, 39, 0), vec.New(100, 39, 0), true},
		{"misses", vec.New(-100, 41, 0), vec.New(100, 41, 0), false},
		{"stops short", vec.New(-100, 0, 0), vec.New(-50, 0, 0), false},
		{"starts inside", vec.New(10, 0, 0), vec.New(200, 0, 0), true},
		{"point inside", vec.New(5, 5, 5), vec.New(5, 5, 5), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SegmentHitsSphere(tc.p0, tc.p1, c, 40))
		})
	}
}
