package frame

import (
	"errors"
	"fmt"

	"github.com/chazu/partforge/pkg/geom"
)

// Builder assembles a Frame. Every setter is typed and validated;
// failures are collected and reported once from Build rather than
// per call, so a caller can chain the full configuration and handle
// errors in one place.
type Builder struct {
	axes     [3]geom.Vec3
	axisSet  [3]bool
	offsets  [3]map[int]float64
	centered [3]bool
	anchor   [3]int

	pos    geom.Vec3
	adjust bool
	errs   []error
}

// NewBuilder returns an empty Builder. All three axes must be set
// before Build; index maps default to empty.
func NewBuilder() *Builder {
	b := &Builder{}
	for i := range b.offsets {
		b.offsets[i] = make(map[int]float64)
	}
	return b
}

// SetAxis assigns the direction of one axis. The vector is normalized;
// a zero-length vector is recorded as a build error.
func (b *Builder) SetAxis(a Axis, v geom.Vec3) *Builder {
	u, err := geom.Normalize(v)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("axis %s: %w", a, err))
		return b
	}
	b.axes[a] = u
	b.axisSet[a] = true
	return b
}

// Axes assigns all three axis directions at once.
func (b *Builder) Axes(d, w, h geom.Vec3) *Builder {
	return b.SetAxis(AxisD, d).SetAxis(AxisW, w).SetAxis(AxisH, h)
}

// SetCentered marks an axis as centered: index 0 is the geometric
// middle and signed indices address the two sides of the mirror plane.
func (b *Builder) SetCentered(a Axis, centered bool) *Builder {
	b.centered[a] = centered
	return b
}

// SetIndex populates one entry of an axis index map. Keys must be
// non-negative; signed addressing is a property of centered lookup,
// not of the stored map.
func (b *Builder) SetIndex(a Axis, index int, offset float64) *Builder {
	if index < 0 {
		b.errs = append(b.errs, fmt.Errorf("axis %s: negative map key %d", a, index))
		return b
	}
	b.offsets[a][index] = offset
	return b
}

// SetIndices populates an axis index map from offsets listed in index
// order starting at 0.
func (b *Builder) SetIndices(a Axis, offsets ...float64) *Builder {
	for i, off := range offsets {
		b.SetIndex(a, i, off)
	}
	return b
}

// At sets the raw placement point the frame is anchored to.
func (b *Builder) At(pos geom.Vec3) *Builder {
	b.pos = pos
	return b
}

// AnchorAt selects which index along each axis the placement point
// refers to. The frame origin is derived from these at Build.
func (b *Builder) AnchorAt(d, w, h int) *Builder {
	b.anchor = [3]int{d, w, h}
	return b
}

// RecordAdjustment requests that the corrective offset between the
// placement point and the derived origin be stored on the frame, for
// solids that could not be constructed directly at the origin.
func (b *Builder) RecordAdjustment() *Builder {
	b.adjust = true
	return b
}

// Build validates the accumulated configuration and returns the
// immutable Frame. All collected errors are joined and returned
// together; on error no Frame is produced.
func (b *Builder) Build() (*Frame, error) {
	errs := b.errs

	for a := AxisD; a <= AxisH; a++ {
		if !b.axisSet[a] {
			errs = append(errs, fmt.Errorf("axis %s: not set", a))
		}
		if _, ok := b.offsets[a][0]; !ok {
			errs = append(errs, fmt.Errorf("axis %s: index 0 must be defined", a))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	f := &Frame{
		axes:     b.axes,
		centered: b.centered,
		anchor:   b.anchor,
		pos:      b.pos,
	}
	for a := range b.offsets {
		m := make(map[int]float64, len(b.offsets[a]))
		for i, off := range b.offsets[a] {
			m[i] = off
		}
		f.offsets[a] = m
	}

	// Derive the origin: pos_o = pos - (vector from origin to the
	// anchor indices).
	var toAnchor geom.Vec3
	for a := AxisD; a <= AxisH; a++ {
		v, err := f.OffsetVec(a, b.anchor[a])
		if err != nil {
			errs = append(errs, fmt.Errorf("anchor: %w", err))
			continue
		}
		toAnchor = toAnchor.Add(v)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	f.origin = b.pos.Sub(toAnchor)
	if b.adjust {
		f.originAdjust = f.origin.Sub(b.pos)
	}
	return f, nil
}
