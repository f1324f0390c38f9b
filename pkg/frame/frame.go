// Package frame implements the local reference frame at the core of
// part modeling. A frame owns three axes (depth, width, height), one
// index map per axis assigning scalar offsets to small integer
// indices, and a symmetry flag per axis. Geometry is addressed by
// index ("width-index 1") rather than by raw coordinate; the frame
// resolves indices to displacement vectors from its origin.
//
// Index maps are populated once through a Builder and are immutable
// afterwards. Lookups fail closed: a key that was never populated is
// an UndefinedIndexError, never a silently substituted zero.
package frame

import (
	"sort"

	"github.com/chazu/partforge/pkg/geom"
)

// Frame is a local 3-axis coordinate frame with indexed offset points.
//
// In centered mode an axis treats index 0 as the geometric middle:
//
//	  centered
//	       :
//	  _____:_____
//	 |     :     |   offsets[1] is the distance from origin to -1
//	 |_____:_____|......> axis
//	-2 -1  0  1  2
//
// A positive index i reflects the stored key around the center:
// offset(i) = offset(0) + (offset(0) - offsets[i]). In non-centered
// mode index 0 is the origin-side edge and lookups are direct.
type Frame struct {
	axes     [3]geom.Vec3
	offsets  [3]map[int]float64
	centered [3]bool
	anchor   [3]int

	pos          geom.Vec3 // raw placement point
	origin       geom.Vec3 // pos_o: anchor of the local frame
	originAdjust geom.Vec3 // zero unless adjustment was recorded at build
}

// IndexOffset is one entry of an axis index map, used when exposing
// the maps as ordered lists.
type IndexOffset struct {
	Index  int
	Offset float64
}

// Direction returns the unit vector of the given axis.
func (f *Frame) Direction(a Axis) geom.Vec3 {
	return f.axes[a]
}

// Centered reports whether index 0 is the geometric center of the
// given axis.
func (f *Frame) Centered(a Axis) bool {
	return f.centered[a]
}

// Pos returns the raw placement point the frame was built at.
func (f *Frame) Pos() geom.Vec3 {
	return f.pos
}

// Origin returns the frame origin pos_o, derived from the placement
// point and the anchor indices.
func (f *Frame) Origin() geom.Vec3 {
	return f.origin
}

// OriginAdjust returns the corrective offset recorded when the solid
// could not be physically constructed with its origin at pos_o. It is
// the zero vector unless adjustment recording was requested.
func (f *Frame) OriginAdjust() geom.Vec3 {
	return f.originAdjust
}

// Offsets returns the index map of an axis as a list ordered by
// index. The returned slice is a copy.
func (f *Frame) Offsets(a Axis) []IndexOffset {
	m := f.offsets[a]
	out := make([]IndexOffset, 0, len(m))
	for i, off := range m {
		out = append(out, IndexOffset{Index: i, Offset: off})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// VecD returns a vector along the depth axis with the given length.
func (f *Frame) VecD(length float64) geom.Vec3 {
	return geom.Along(f.axes[AxisD], length)
}

// VecW returns a vector along the width axis with the given length.
func (f *Frame) VecW(length float64) geom.Vec3 {
	return geom.Along(f.axes[AxisW], length)
}

// VecH returns a vector along the height axis with the given length.
func (f *Frame) VecH(length float64) geom.Vec3 {
	return geom.Along(f.axes[AxisH], length)
}

// PointAt combines raw lengths along all three axes into one vector.
func (f *Frame) PointAt(d, w, h float64) geom.Vec3 {
	return f.VecD(d).Add(f.VecW(w)).Add(f.VecH(h))
}

// Offset resolves an index along one axis to its scalar offset from
// the frame's logical zero.
//
// Non-centered axis: the index must be a populated key. Centered
// axis: index <= 0 reads the map keyed by absolute value (index 0 is
// the mirror plane itself); index > 0 reflects the stored key around
// the center, requiring both key 0 and the key itself.
func (f *Frame) Offset(a Axis, index int) (float64, error) {
	m := f.offsets[a]

	if !f.centered[a] {
		off, ok := m[index]
		if !ok {
			return 0, &UndefinedIndexError{Axis: a, Index: index}
		}
		return off, nil
	}

	if index <= 0 {
		off, ok := m[-index]
		if !ok {
			return 0, &UndefinedIndexError{Axis: a, Index: index}
		}
		return off, nil
	}

	center, ok := m[0]
	if !ok {
		return 0, &UndefinedIndexError{Axis: a, Index: 0}
	}
	off, ok := m[index]
	if !ok {
		return 0, &UndefinedIndexError{Axis: a, Index: index}
	}
	// Reflect around center: center + (center - off).
	return 2*center - off, nil
}

// OffsetVec resolves an index to a displacement vector from the
// origin along the axis.
func (f *Frame) OffsetVec(a Axis, index int) (geom.Vec3, error) {
	off, err := f.Offset(a, index)
	if err != nil {
		return geom.Vec3{}, err
	}
	return geom.Along(f.axes[a], off), nil
}

// Span returns the scalar displacement along an axis from index a to
// index b.
func (f *Frame) Span(ax Axis, a, b int) (float64, error) {
	from, err := f.Offset(ax, a)
	if err != nil {
		return 0, err
	}
	to, err := f.Offset(ax, b)
	if err != nil {
		return 0, err
	}
	return to - from, nil
}

// Position returns the absolute position of the point addressed by
// one index per axis: origin + offset vectors. If any axis resolution
// fails the whole position is undefined and the error is returned.
func (f *Frame) Position(d, w, h int) (geom.Vec3, error) {
	vd, err := f.OffsetVec(AxisD, d)
	if err != nil {
		return geom.Vec3{}, err
	}
	vw, err := f.OffsetVec(AxisW, w)
	if err != nil {
		return geom.Vec3{}, err
	}
	vh, err := f.OffsetVec(AxisH, h)
	if err != nil {
		return geom.Vec3{}, err
	}
	return f.origin.Add(vd).Add(vw).Add(vh), nil
}
