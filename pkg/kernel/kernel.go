// Package kernel defines the abstract geometry backend interface.
// The composition engine and the part catalog treat solids as opaque
// values supporting boolean operations and rigid placement; concrete
// backends (sdfx, trace) live in subpackages. Backends are assumed
// deterministic and total for well-formed positive dimensions, with
// union and difference associative and commutative over the solid
// algebra.
package kernel

import (
	"math"

	"github.com/chazu/partforge/pkg/geom"
)

// Solid is an opaque handle to a backend solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry backend.
type Kernel interface {
	// Box creates a d x w x h box with its minimum corner at the
	// origin, so edge-anchored catalog placements are plain
	// translations.
	Box(d, w, h float64) Solid
	// Cylinder creates a cylinder centered at the origin along the
	// Z axis. Use CylinderAt for axis/base placement.
	Cylinder(height, radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees, applied X then Y then Z

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// CylinderAt creates a cylinder of the given radius and height whose
// base center sits at pos, extending along axis. The axis must be
// non-degenerate; it does not need to be one of the global axes.
func CylinderAt(k Kernel, radius, height float64, axis, pos geom.Vec3) (Solid, error) {
	u, err := geom.Normalize(axis)
	if err != nil {
		return nil, err
	}

	s := k.Cylinder(height, radius)
	// Base at the origin instead of centered.
	s = k.Translate(s, 0, 0, height/2)

	xDeg, yDeg := alignZ(u)
	if xDeg != 0 || yDeg != 0 {
		s = k.Rotate(s, xDeg, yDeg, 0)
	}
	if !pos.IsZero() {
		s = k.Translate(s, pos.X, pos.Y, pos.Z)
	}
	return s, nil
}

// alignZ returns Euler angles (degrees, X then Y order) that rotate
// the +Z axis onto the unit vector u:
//
//	Ry(psi) * Rx(phi) * z = (sin(psi)cos(phi), -sin(phi), cos(psi)cos(phi))
//
// so phi = asin(-u.Y) and psi = atan2(u.X, u.Z). When u is parallel
// to Y, cos(phi) vanishes and psi is irrelevant.
func alignZ(u geom.Vec3) (xDeg, yDeg float64) {
	const eps = 1e-12

	y := u.Y
	if y > 1 {
		y = 1
	} else if y < -1 {
		y = -1
	}
	phi := math.Asin(-y)

	var psi float64
	if math.Sqrt(1-y*y) > eps {
		psi = math.Atan2(u.X, u.Z)
	}
	return phi * 180 / math.Pi, psi * 180 / math.Pi
}
