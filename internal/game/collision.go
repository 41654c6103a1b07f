package game

import "dogfight-arena/internal/vec"

// SpheresOverlap checks if two spheres overlap
func SpheresOverlap(a vec.Vec3, ra float64, b vec.Vec3, rb float64) bool {
	radSum := ra + rb
	return a.DistSq(b) <= radSum*radSum
}

// SegmentHitsSphere checks if the segment p0-p1 passes within r of c
func SegmentHitsSphere(p0, p1, c vec.Vec3, r float64) bool {
	d := p1.Sub(p0)
	f := p0.Sub(c)
	a := d.LenSq()
	if a == 0 {
		return f.LenSq() <= r*r
	}
	// closest point parameter, clamped to the segment
	t := -f.Dot(d) / a
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := p0.Add(d.Scale(t))
	return closest.DistSq(c) <= r*r
}
