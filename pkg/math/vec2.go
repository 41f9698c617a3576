package math

import "github.com/chewxy/math32"

// Vec2 is a 2D vector, used for texture coordinates.
type Vec2 struct {
	X, Y float32
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Key returns a comparable identity for v built from the raw float bits.
// Negative zero is folded into positive zero so that (0,0) and (-0,0)
// share a key; NaNs keep their bit pattern.
func (v Vec2) Key() [2]uint32 {
	x, y := v.X, v.Y
	if x == 0 {
		x = 0
	}
	if y == 0 {
		y = 0
	}
	return [2]uint32{math32.Float32bits(x), math32.Float32bits(y)}
}
