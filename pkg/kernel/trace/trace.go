// Package trace implements kernel.Kernel without any geometry
// library. Solids carry an analytic volume and bounding box instead
// of a surface representation, and the backend counts the operations
// applied to it. It backs dry-run validation ("check" builds) and
// tests that assert on volumes and composition structure.
//
// Volume bookkeeping assumes the catalog's usage pattern: unions of
// disjoint solids and subtraction of solids contained in the minuend.
// Under those assumptions union volume is the sum and difference
// volume is the (clamped) remainder.
package trace

import (
	"math"

	"github.com/chazu/partforge/pkg/kernel"
)

// Solid is an analytic stand-in for a backend solid.
type Solid struct {
	vol      float64
	min, max [3]float64
}

// BoundingBox returns the axis-aligned bounding box.
func (s *Solid) BoundingBox() (min, max [3]float64) {
	return s.min, s.max
}

// Volume returns the tracked analytic volume.
func (s *Solid) Volume() float64 {
	return s.vol
}

// Backend implements kernel.Kernel analytically and counts operations.
type Backend struct {
	Boxes         int
	Cylinders     int
	Unions        int
	Differences   int
	Intersections int
}

// Compile-time interface check.
var _ kernel.Kernel = (*Backend)(nil)

// New returns a new trace Backend.
func New() *Backend {
	return &Backend{}
}

// Box creates a d x w x h box with its minimum corner at the origin.
func (b *Backend) Box(d, w, h float64) kernel.Solid {
	b.Boxes++
	return &Solid{
		vol: d * w * h,
		max: [3]float64{d, w, h},
	}
}

// Cylinder creates a cylinder centered at the origin along Z.
func (b *Backend) Cylinder(height, radius float64) kernel.Solid {
	b.Cylinders++
	return &Solid{
		vol: math.Pi * radius * radius * height,
		min: [3]float64{-radius, -radius, -height / 2},
		max: [3]float64{radius, radius, height / 2},
	}
}

// Union returns the union of two solids, assuming they are disjoint.
func (b *Backend) Union(x, y kernel.Solid) kernel.Solid {
	b.Unions++
	sx, sy := x.(*Solid), y.(*Solid)
	out := &Solid{vol: sx.vol + sy.vol}
	for i := 0; i < 3; i++ {
		out.min[i] = math.Min(sx.min[i], sy.min[i])
		out.max[i] = math.Max(sx.max[i], sy.max[i])
	}
	return out
}

// Difference returns x - y, assuming y is contained in x.
func (b *Backend) Difference(x, y kernel.Solid) kernel.Solid {
	b.Differences++
	sx, sy := x.(*Solid), y.(*Solid)
	vol := sx.vol - sy.vol
	if vol < 0 {
		vol = 0
	}
	return &Solid{vol: vol, min: sx.min, max: sx.max}
}

// Intersection returns the intersection; its volume is approximated
// by the smaller operand.
func (b *Backend) Intersection(x, y kernel.Solid) kernel.Solid {
	b.Intersections++
	sx, sy := x.(*Solid), y.(*Solid)
	out := &Solid{vol: math.Min(sx.vol, sy.vol)}
	for i := 0; i < 3; i++ {
		out.min[i] = math.Max(sx.min[i], sy.min[i])
		out.max[i] = math.Min(sx.max[i], sy.max[i])
	}
	return out
}

// Translate moves a solid by (x, y, z).
func (b *Backend) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	in := s.(*Solid)
	d := [3]float64{x, y, z}
	out := &Solid{vol: in.vol}
	for i := 0; i < 3; i++ {
		out.min[i] = in.min[i] + d[i]
		out.max[i] = in.max[i] + d[i]
	}
	return out
}

// Rotate rotates a solid by Euler angles (degrees). Volume is
// invariant; the bounding box becomes the box of the rotated corners.
func (b *Backend) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	in := s.(*Solid)
	out := &Solid{
		vol: in.vol,
		min: [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)},
		max: [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	for _, cx := range []float64{in.min[0], in.max[0]} {
		for _, cy := range []float64{in.min[1], in.max[1]} {
			for _, cz := range []float64{in.min[2], in.max[2]} {
				rx, ry, rz := rotateXYZ(cx, cy, cz, x, y, z)
				out.min[0] = math.Min(out.min[0], rx)
				out.min[1] = math.Min(out.min[1], ry)
				out.min[2] = math.Min(out.min[2], rz)
				out.max[0] = math.Max(out.max[0], rx)
				out.max[1] = math.Max(out.max[1], ry)
				out.max[2] = math.Max(out.max[2], rz)
			}
		}
	}
	return out
}

// rotateXYZ applies Euler rotations (degrees) in X, Y, Z order to a
// point, matching the kernel's Rotate convention.
func rotateXYZ(x, y, z, xDeg, yDeg, zDeg float64) (float64, float64, float64) {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	// X
	sin, cos := math.Sincos(rad(xDeg))
	y, z = y*cos-z*sin, y*sin+z*cos
	// Y
	sin, cos = math.Sincos(rad(yDeg))
	x, z = x*cos+z*sin, -x*sin+z*cos
	// Z
	sin, cos = math.Sincos(rad(zDeg))
	x, y = x*cos-y*sin, x*sin+y*cos

	return x, y, z
}

// ToMesh returns an empty mesh: trace solids have no surface
// representation. Dry-run builds inspect volumes, not triangles.
func (b *Backend) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	return &kernel.Mesh{}, nil
}
