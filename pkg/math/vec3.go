// Package math provides float32 math types for the mesh editor.
package math

import "math"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// LengthSq returns the squared magnitude.
func (v Vec3) LengthSq() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize returns a unit vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Distance returns the distance to another point.
func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// DistanceSq returns the squared distance to another point.
func (v Vec3) DistanceSq(other Vec3) float32 {
	return v.Sub(other).LengthSq()
}

// Min returns the component-wise minimum.
func (v Vec3) Min(other Vec3) Vec3 {
	return Vec3{
		min32(v.X, other.X),
		min32(v.Y, other.Y),
		min32(v.Z, other.Z),
	}
}

// Max returns the component-wise maximum.
func (v Vec3) Max(other Vec3) Vec3 {
	return Vec3{
		max32(v.X, other.X),
		max32(v.Y, other.Y),
		max32(v.Z, other.Z),
	}
}

// Axis returns the component selected by axis index (0=X, 1=Y, 2=Z).
func (v Vec3) Axis(axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
