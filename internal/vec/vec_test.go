package vec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func TestBasicOps(t *testing.T) {
	a := New(1, 2, 3)
	b := New(4, -5, 6)

	assert.Equal(t, New(5, -3, 9), a.Add(b))
	assert.Equal(t, New(-3, 7, -3), a.Sub(b))
	assert.Equal(t, New(2, 4, 6), a.Scale(2))
	assert.InDelta(t, 4-10+18, a.Dot(b), eps)
	assert.InDelta(t, 5, New(3, 4, 0).Len(), eps)
	assert.InDelta(t, 25, New(3, 4, 0).LenSq(), eps)
}

func TestCrossIsPerpendicular(t *testing.T) {
	a := New(1, 2, 3)
	b := New(-2, 0.5, 4)
	c := a.Cross(b)
	assert.InDelta(t, 0, c.Dot(a), eps)
	assert.InDelta(t, 0, c.Dot(b), eps)
}

func TestNormalizeZeroSafe(t *testing.T) {
	assert.Equal(t, Zero, Zero.Normalize())
	n := New(0, 0, -7).Normalize()
	assert.InDelta(t, 1, n.Len(), eps)
	assert.InDelta(t, -1, n.Z, eps)
}

func TestClampLen(t *testing.T) {
	v := New(30, 0, 40).ClampLen(10)
	assert.InDelta(t, 10, v.Len(), eps)
	assert.InDelta(t, 6, v.X, eps)

	short := New(1, 1, 0)
	assert.Equal(t, short, short.ClampLen(10))
}

func TestForwardYawPitchRoundTrip(t *testing.T) {
	cases := []struct {
		name       string
		yaw, pitch float64
	}{
		{"straight", 0, 0},
		{"left quarter", math.Pi / 2, 0},
		{"climb", 0.3, 0.5},
		{"dive", -2.1, -0.7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := Forward(tc.yaw, tc.pitch)
			assert.InDelta(t, 1, f.Len(), eps)
			y, p := YawPitch(f)
			assert.InDelta(t, tc.yaw, y, 1e-9)
			assert.InDelta(t, tc.pitch, p, 1e-9)
		})
	}
	assert.InDelta(t, -1, Forward(0, 0).Z, eps)
}

func TestSlerpPreservesUnitLength(t *testing.T) {
	a := New(1, 0, 0)
	b := New(0, 0, 1)

	half := Slerp(a, b, 0.5)
	assert.InDelta(t, 1, half.Len(), eps)
	assert.InDelta(t, math.Pi/4, math.Acos(half.Dot(a)), 1e-9)

	assert.InDelta(t, 0, Slerp(a, b, 0).Sub(a).Len(), eps)
	assert.InDelta(t, 0, Slerp(a, b, 1).Sub(b).Len(), eps)
}

func TestSlerpOpposite(t *testing.T) {
	a := New(1, 0, 0)
	b := New(-1, 0, 0)
	s := Slerp(a, b, 0.02)
	assert.InDelta(t, 1, s.Len(), eps)
	assert.InDelta(t, 0.02*math.Pi, math.Acos(s.Dot(a)), 1e-6)
}

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, -math.Pi/2, NormalizeAngle(3*math.Pi/2), eps)
	assert.InDelta(t, math.Pi/2, NormalizeAngle(-3*math.Pi/2), eps)
	assert.InDelta(t, 0.5, NormalizeAngle(0.5), eps)
}

func TestRightIsHorizontal(t *testing.T) {
	r := Right(Forward(0, 0))
	assert.InDelta(t, 0, r.Y, eps)
	assert.InDelta(t, 1, r.Len(), eps)
	assert.InDelta(t, 0, r.Dot(Forward(0, 0)), eps)
}
