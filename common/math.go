package common

import "math"

// Vec is a 2D point or direction in gallery space.
type Vec struct {
	X, Y float64
}

func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec) Normalize() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{X: v.X / l, Y: v.Y / l}
}

func Distance(a, b Vec) float64 {
	return a.Sub(b).Len()
}

// MoveTowards steps from current toward target by at most maxDelta.
func MoveTowards(current, target Vec, maxDelta float64) Vec {
	d := target.Sub(current)
	dist := d.Len()
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return current.Add(d.Scale(maxDelta / dist))
}

// CeilScaled returns ceil(v * m) while tolerating float noise such as
// 10 * 1.1 evaluating to 11.000000000000002.
func CeilScaled(v int, m float64) int {
	const eps = 1e-9
	return int(math.Ceil(float64(v)*m - eps))
}
