// Package geom provides the small 3D vector type and reference axes
// used by local frames. The geometry kernel keeps its own vector
// representation behind the kernel interface; these values never
// cross that boundary directly.
package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateAxis is returned when a zero-length vector is supplied
// where a direction is required.
var ErrDegenerateAxis = errors.New("geom: degenerate axis (zero-length vector)")

// Vec3 is a 3D vector with float64 components.
type Vec3 struct {
	X, Y, Z float64
}

// Canonical reference vectors, named after the conventions of the
// part catalog: V0 is the zero vector, VX/VY/VZ the positive unit
// axes, VXN/VYN/VZN their negatives.
var (
	V0  = Vec3{}
	VX  = Vec3{X: 1}
	VY  = Vec3{Y: 1}
	VZ  = Vec3{Z: 1}
	VXN = Vec3{X: -1}
	VYN = Vec3{Y: -1}
	VZN = Vec3{Z: -1}
)

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Negate returns -v.
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product v · o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Norm returns the Euclidean length ||v||.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// IsZero reports whether all components are exactly zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Normalize returns the unit vector v / ||v||. A zero-length input is
// a precondition violation and yields ErrDegenerateAxis; it is never
// silently replaced with a fallback direction.
func Normalize(v Vec3) (Vec3, error) {
	n := v.Norm()
	if n == 0 {
		return Vec3{}, ErrDegenerateAxis
	}
	inv := 1.0 / n
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}, nil
}

// Along scales an (already unit-length) axis by length.
func Along(axis Vec3, length float64) Vec3 {
	return axis.Scale(length)
}
