package vec

import "math"

// Vec3 is a 3D vector. Y is altitude; the ground plane is XZ.
type Vec3 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
}

// Zero is the zero vector
var Zero = Vec3{}

// Up is the world up axis
var Up = Vec3{0, 1, 0}

// New builds a vector
func New(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// LenSq returns the squared length, avoiding the sqrt for comparisons
func (v Vec3) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// Dist returns the distance between two points
func (v Vec3) Dist(o Vec3) float64 {
	return v.Sub(o).Len()
}

// DistSq returns the squared distance between two points
func (v Vec3) DistSq(o Vec3) float64 {
	return v.Sub(o).LenSq()
}

// Normalize returns the unit vector, or the zero vector for zero input
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Zero
	}
	return v.Scale(1 / l)
}

// Lerp interpolates linearly between v and o
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return v.Add(o.Sub(v).Scale(t))
}

// IsZero reports whether all components are zero
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// ClampLen limits the vector length to max, keeping direction
func (v Vec3) ClampLen(max float64) Vec3 {
	l2 := v.LenSq()
	if l2 <= max*max || l2 == 0 {
		return v
	}
	return v.Scale(max / math.Sqrt(l2))
}

// Slerp rotates unit direction a toward unit direction b by fraction t of
// the angle between them. Inputs need not be normalized; the result is.
func Slerp(a, b Vec3, t float64) Vec3 {
	a = a.Normalize()
	b = b.Normalize()
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	dot := Clamp(a.Dot(b), -1, 1)
	theta := math.Acos(dot)
	if theta < 1e-6 {
		return a
	}
	if math.Pi-theta < 1e-6 {
		// Opposite directions: rotate about any axis perpendicular to a.
		axis := a.Cross(Up)
		if axis.LenSq() < 1e-12 {
			axis = a.Cross(Vec3{1, 0, 0})
		}
		axis = axis.Normalize()
		ang := theta * t
		return a.Scale(math.Cos(ang)).Add(axis.Cross(a).Scale(math.Sin(ang))).Normalize()
	}
	sinT := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sinT
	wb := math.Sin(t*theta) / sinT
	return a.Scale(wa).Add(b.Scale(wb)).Normalize()
}

// Forward returns the unit facing vector for yaw/pitch in radians.
// Yaw 0 faces -Z; positive pitch climbs.
func Forward(yaw, pitch float64) Vec3 {
	cp := math.Cos(pitch)
	return Vec3{
		X: -math.Sin(yaw) * cp,
		Y: math.Sin(pitch),
		Z: -math.Cos(yaw) * cp,
	}
}

// YawPitch is the inverse of Forward for a non-zero direction
func YawPitch(dir Vec3) (yaw, pitch float64) {
	d := dir.Normalize()
	if d.IsZero() {
		return 0, 0
	}
	yaw = math.Atan2(-d.X, -d.Z)
	pitch = math.Asin(Clamp(d.Y, -1, 1))
	return yaw, pitch
}

// Right returns the horizontal right-hand vector for a facing direction
func Right(forward Vec3) Vec3 {
	r := forward.Cross(Up)
	if r.LenSq() < 1e-12 {
		return Vec3{1, 0, 0}
	}
	return r.Normalize()
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// NormalizeAngle wraps angle to [-PI, PI]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Round1 rounds to one decimal place for compact wire output
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
