// Package object implements hierarchical part composition. An
// Object3D owns a local frame and an opaque solid; children register
// as additive or subtractive contributions and the parent's solid is
// synthesized as union(additive) minus union(subtractive).
//
// Registration snapshots the child by value: its index maps are deep
// copied and its shape handle captured at that moment. Mutating a
// child after registration never changes what the parent composes.
package object

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/chazu/partforge/pkg/frame"
	"github.com/chazu/partforge/pkg/geom"
	"github.com/chazu/partforge/pkg/kernel"
)

// ChildSnapshot is the value captured from a child at registration.
type ChildSnapshot struct {
	Name     string
	Additive bool
	Offsets  [3][]frame.IndexOffset
	Shape    kernel.Solid
}

// Object3D is a composable part: a named frame plus a solid.
//
// Shape may be nil, which represents the void solid. The void is the
// identity for union and annihilates as a difference minuend, so a
// parent with no additive children synthesizes to void.
type Object3D struct {
	Name  string
	Frame *frame.Frame
	Shape kernel.Solid

	children map[string]*ChildSnapshot
	order    []string // registration order, for deterministic composition
}

// New creates an object over the given frame and (possibly nil) shape.
func New(name string, f *frame.Frame, shape kernel.Solid) *Object3D {
	return &Object3D{
		Name:     name,
		Frame:    f,
		Shape:    shape,
		children: make(map[string]*ChildSnapshot),
	}
}

// RegisterChild snapshots child under the given name as an additive or
// subtractive contribution. Registering an existing name overwrites
// the previous snapshot, including across the additive/subtractive
// boundary, and logs a warning; the entry moves to the end of the
// composition order.
func (o *Object3D) RegisterChild(child *Object3D, additive bool, name string) error {
	if name == "" {
		return fmt.Errorf("register child in %q: empty name", o.Name)
	}
	if child == nil {
		return fmt.Errorf("register child %q in %q: nil child", name, o.Name)
	}
	if child.Shape == nil {
		return fmt.Errorf("register child %q in %q: child has no shape", name, o.Name)
	}

	snap := &ChildSnapshot{
		Name:     name,
		Additive: additive,
		Shape:    child.Shape,
	}
	if child.Frame != nil {
		for _, a := range []frame.Axis{frame.AxisD, frame.AxisW, frame.AxisH} {
			snap.Offsets[a] = child.Frame.Offsets(a)
		}
	}

	if prev, ok := o.children[name]; ok {
		slog.Warn("child overwritten",
			"parent", o.Name,
			"child", name,
			"wasAdditive", prev.Additive,
			"nowAdditive", additive)
		for i, n := range o.order {
			if n == name {
				o.order = append(o.order[:i], o.order[i+1:]...)
				break
			}
		}
	}
	o.children[name] = snap
	o.order = append(o.order, name)
	return nil
}

// Child returns the snapshot registered under name, if any.
func (o *Object3D) Child(name string) (*ChildSnapshot, bool) {
	c, ok := o.children[name]
	return c, ok
}

// AdditiveNames returns the additive child names in registration order.
func (o *Object3D) AdditiveNames() []string {
	return o.names(true)
}

// SubtractiveNames returns the subtractive child names in registration
// order.
func (o *Object3D) SubtractiveNames() []string {
	return o.names(false)
}

func (o *Object3D) names(additive bool) []string {
	var out []string
	for _, n := range o.order {
		if o.children[n].Additive == additive {
			out = append(out, n)
		}
	}
	return out
}

// Synthesize rebuilds the object's shape from its child snapshots:
// union of additive shapes minus union of subtractive shapes. With no
// children it is a no-op and the current (leaf) shape is kept. With
// children but no additive ones the result is the void solid.
//
// A backend failure surfaces as *CompositionError and leaves Shape
// unchanged; the call may be retried. Unchanged snapshots make the
// operation idempotent, and union/difference associativity makes the
// result independent of registration order.
func (o *Object3D) Synthesize(k kernel.Kernel) (err error) {
	if len(o.children) == 0 {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = &CompositionError{Object: o.Name, Cause: fmt.Errorf("backend panic: %v", r)}
		}
	}()

	var add, sub kernel.Solid
	for _, n := range o.order {
		c := o.children[n]
		if c.Additive {
			add = unite(k, add, c.Shape)
		} else {
			sub = unite(k, sub, c.Shape)
		}
	}

	o.Shape = subtract(k, add, sub)
	return nil
}

// unite folds a solid into an accumulator, treating nil as the void
// identity.
func unite(k kernel.Kernel, acc, s kernel.Solid) kernel.Solid {
	if acc == nil {
		return s
	}
	if s == nil {
		return acc
	}
	return k.Union(acc, s)
}

// subtract removes sub from base. Subtracting from the void yields the
// void; subtracting the void changes nothing.
func subtract(k kernel.Kernel, base, sub kernel.Solid) kernel.Solid {
	if base == nil || sub == nil {
		return base
	}
	return k.Difference(base, sub)
}

// CompositionError reports a failed synthesize. The object's shape is
// left as it was before the call.
type CompositionError struct {
	Object string
	Cause  error
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("compose %q: %v", e.Object, e.Cause)
}

func (e *CompositionError) Unwrap() error {
	return e.Cause
}

// AsCompositionError unwraps err into a *CompositionError if possible.
func AsCompositionError(err error) (*CompositionError, bool) {
	var ce *CompositionError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// Snapshot is the host-document view of an object: frame geometry,
// ordered offset lists, and the composition roster.
type Snapshot struct {
	Name         string                         `json:"name"`
	Axes         map[string][3]float64          `json:"axes"`
	Offsets      map[string][]frame.IndexOffset `json:"offsets"`
	Centered     map[string]bool                `json:"centered"`
	Pos          [3]float64                     `json:"pos"`
	Origin       [3]float64                     `json:"origin"`
	OriginAdjust [3]float64                     `json:"originAdjust"`
	Additive     []string                       `json:"additive,omitempty"`
	Subtractive  []string                       `json:"subtractive,omitempty"`
}

// Snapshot captures the object's externally visible state for
// persistence. It never exposes the kernel solid.
func (o *Object3D) Snapshot() *Snapshot {
	s := &Snapshot{
		Name:        o.Name,
		Axes:        make(map[string][3]float64, 3),
		Offsets:     make(map[string][]frame.IndexOffset, 3),
		Centered:    make(map[string]bool, 3),
		Additive:    o.AdditiveNames(),
		Subtractive: o.SubtractiveNames(),
	}
	if o.Frame != nil {
		for _, a := range []frame.Axis{frame.AxisD, frame.AxisW, frame.AxisH} {
			s.Axes[a.String()] = flat(o.Frame.Direction(a))
			s.Offsets[a.String()] = o.Frame.Offsets(a)
			s.Centered[a.String()] = o.Frame.Centered(a)
		}
		s.Pos = flat(o.Frame.Pos())
		s.Origin = flat(o.Frame.Origin())
		s.OriginAdjust = flat(o.Frame.OriginAdjust())
	}
	return s
}

func flat(v geom.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
