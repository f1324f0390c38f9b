// Package catalog defines concrete part families built on the frame
// and composition layers: plates, holes, and plates with drilled hole
// patterns. Each constructor populates the part's index maps from its
// geometric parameters, instantiates children, registers them and
// synthesizes the final solid.
//
// Catalog frames always use the orthonormal global axes, with the
// depth axis along X, width along Y and height along Z.
package catalog

import (
	"fmt"

	"github.com/chazu/partforge/pkg/frame"
	"github.com/chazu/partforge/pkg/geom"
	"github.com/chazu/partforge/pkg/kernel"
	"github.com/chazu/partforge/pkg/object"
)

// holeClearance extends subtractive hole height past the plate faces
// so the cut never leaves a zero-thickness skin.
const holeClearance = 0.1

// PlateParams describes a rectangular slab anchored by its minimum
// corner.
type PlateParams struct {
	Name    string
	D, W, H float64
	Pos     geom.Vec3
}

func (p PlateParams) validate() error {
	if p.D <= 0 || p.W <= 0 || p.H <= 0 {
		return fmt.Errorf("plate %q: dimensions must be positive, got %gx%gx%g", p.Name, p.D, p.W, p.H)
	}
	return nil
}

// plateFrame builds the slab frame: three entries per axis at the
// near edge, the middle and the far edge.
func plateFrame(p PlateParams) (*frame.Frame, error) {
	return frame.NewBuilder().
		Axes(geom.VX, geom.VY, geom.VZ).
		SetIndices(frame.AxisD, 0, p.D/2, p.D).
		SetIndices(frame.AxisW, 0, p.W/2, p.W).
		SetIndices(frame.AxisH, 0, p.H/2, p.H).
		At(p.Pos).
		AnchorAt(0, 0, 0).
		Build()
}

// NewPlate creates a rectangular slab with its minimum corner at Pos.
func NewPlate(k kernel.Kernel, p PlateParams) (*object.Object3D, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	f, err := plateFrame(p)
	if err != nil {
		return nil, fmt.Errorf("plate %q: %w", p.Name, err)
	}

	s := k.Box(p.D, p.W, p.H)
	if !p.Pos.IsZero() {
		s = k.Translate(s, p.Pos.X, p.Pos.Y, p.Pos.Z)
	}
	return object.New(p.Name, f, s), nil
}

// HoleParams describes a cylinder whose base center sits at Pos,
// extending along Axis.
type HoleParams struct {
	Name   string
	Radius float64
	Height float64
	Axis   geom.Vec3
	Pos    geom.Vec3
}

// NewHole creates a cylindrical part. Its depth and width maps index
// the radius ({0, r/2, r}) and its height map the length
// ({0, h/2, h}).
func NewHole(k kernel.Kernel, p HoleParams) (*object.Object3D, error) {
	if p.Radius <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("hole %q: radius and height must be positive, got r=%g h=%g", p.Name, p.Radius, p.Height)
	}

	axis, err := geom.Normalize(p.Axis)
	if err != nil {
		return nil, fmt.Errorf("hole %q: %w", p.Name, err)
	}
	f, err := frame.NewBuilder().
		Axes(geom.VX, geom.VY, axis).
		SetIndices(frame.AxisD, 0, p.Radius/2, p.Radius).
		SetIndices(frame.AxisW, 0, p.Radius/2, p.Radius).
		SetIndices(frame.AxisH, 0, p.Height/2, p.Height).
		At(p.Pos).
		AnchorAt(0, 0, 0).
		Build()
	if err != nil {
		return nil, fmt.Errorf("hole %q: %w", p.Name, err)
	}

	s, err := kernel.CylinderAt(k, p.Radius, p.Height, axis, p.Pos)
	if err != nil {
		return nil, fmt.Errorf("hole %q: %w", p.Name, err)
	}
	return object.New(p.Name, f, s), nil
}

// NewPerforatedPlate creates a slab with one hole of the given radius
// drilled through its center. The hole is registered subtractive with
// height extended by the drilling clearance.
func NewPerforatedPlate(k kernel.Kernel, p PlateParams, holeRadius float64) (*object.Object3D, error) {
	plate, err := NewPlate(k, p)
	if err != nil {
		return nil, err
	}

	center, err := plate.Frame.Position(1, 1, 0)
	if err != nil {
		return nil, fmt.Errorf("perforated plate %q: %w", p.Name, err)
	}
	// The hole base drops below the bottom face by half the clearance
	// so the cut overshoots both faces.
	hole, err := NewHole(k, HoleParams{
		Name:   p.Name + "-hole",
		Radius: holeRadius,
		Height: p.H + holeClearance,
		Axis:   geom.VZ,
		Pos:    center.Sub(geom.Along(geom.VZ, holeClearance/2)),
	})
	if err != nil {
		return nil, fmt.Errorf("perforated plate %q: %w", p.Name, err)
	}

	out := object.New(p.Name, plate.Frame, nil)
	if err := out.RegisterChild(plate, true, "plate"); err != nil {
		return nil, err
	}
	if err := out.RegisterChild(hole, false, "hole"); err != nil {
		return nil, err
	}
	if err := out.Synthesize(k); err != nil {
		return nil, err
	}
	return out, nil
}

// boltCorners addresses the four bolt centers in the bolted-plate
// index maps: inset from each corner by twice the bolt radius.
var boltCorners = [4][2]int{{1, 1}, {1, 3}, {3, 3}, {3, 1}}

// NewBoltedPlate creates a slab with a bolt hole near each corner.
// The depth and width maps gain inset entries:
//
//	0     2r       L/2      L-2r     L
//	|......o.................o.......|
//	0      1        2        3       4
func NewBoltedPlate(k kernel.Kernel, p PlateParams, boltRadius float64) (*object.Object3D, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	inset := 2 * boltRadius
	if inset >= p.D/2 || inset >= p.W/2 {
		return nil, fmt.Errorf("bolted plate %q: bolt radius %g too large for %gx%g plate", p.Name, boltRadius, p.D, p.W)
	}

	f, err := frame.NewBuilder().
		Axes(geom.VX, geom.VY, geom.VZ).
		SetIndices(frame.AxisD, 0, inset, p.D/2, p.D-inset, p.D).
		SetIndices(frame.AxisW, 0, inset, p.W/2, p.W-inset, p.W).
		SetIndices(frame.AxisH, 0, p.H/2, p.H).
		At(p.Pos).
		AnchorAt(0, 0, 0).
		Build()
	if err != nil {
		return nil, fmt.Errorf("bolted plate %q: %w", p.Name, err)
	}

	slab := PlateParams{Name: p.Name + "-slab", D: p.D, W: p.W, H: p.H, Pos: p.Pos}
	plate, err := NewPlate(k, slab)
	if err != nil {
		return nil, err
	}

	out := object.New(p.Name, f, nil)
	if err := out.RegisterChild(plate, true, "plate"); err != nil {
		return nil, err
	}

	for i, c := range boltCorners {
		center, err := f.Position(c[0], c[1], 0)
		if err != nil {
			return nil, fmt.Errorf("bolted plate %q: %w", p.Name, err)
		}
		name := fmt.Sprintf("bolt%d", i+1)
		hole, err := NewHole(k, HoleParams{
			Name:   p.Name + "-" + name,
			Radius: boltRadius,
			Height: p.H + holeClearance,
			Axis:   geom.VZ,
			Pos:    center.Sub(geom.Along(geom.VZ, holeClearance/2)),
		})
		if err != nil {
			return nil, fmt.Errorf("bolted plate %q: %w", p.Name, err)
		}
		if err := out.RegisterChild(hole, false, name); err != nil {
			return nil, err
		}
	}

	if err := out.Synthesize(k); err != nil {
		return nil, err
	}
	return out, nil
}
