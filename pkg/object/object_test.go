package object_test

import (
	"math"
	"testing"

	"github.com/chazu/partforge/pkg/frame"
	"github.com/chazu/partforge/pkg/geom"
	"github.com/chazu/partforge/pkg/kernel"
	"github.com/chazu/partforge/pkg/kernel/trace"
	"github.com/chazu/partforge/pkg/object"
)

const tol = 1e-9

func boxObject(t *testing.T, k kernel.Kernel, name string, d, w, h float64) *object.Object3D {
	t.Helper()
	f, err := frame.NewBuilder().
		Axes(geom.VX, geom.VY, geom.VZ).
		SetIndices(frame.AxisD, 0, d/2, d).
		SetIndices(frame.AxisW, 0, w/2, w).
		SetIndices(frame.AxisH, 0, h/2, h).
		Build()
	if err != nil {
		t.Fatalf("build frame: %v", err)
	}
	return object.New(name, f, k.Box(d, w, h))
}

func volume(t *testing.T, s kernel.Solid) float64 {
	t.Helper()
	ts, ok := s.(*trace.Solid)
	if !ok {
		t.Fatalf("solid is %T, want *trace.Solid", s)
	}
	return ts.Volume()
}

func TestSynthesizeNoChildrenIsNoOp(t *testing.T) {
	k := trace.New()
	leaf := boxObject(t, k, "leaf", 2, 2, 2)
	before := leaf.Shape

	if err := leaf.Synthesize(k); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if leaf.Shape != before {
		t.Error("leaf shape changed on no-op synthesize")
	}
}

func TestSynthesizeAdditiveAndSubtractive(t *testing.T) {
	k := trace.New()
	parent := object.New("assembly", nil, nil)

	base := boxObject(t, k, "base", 4, 4, 4)
	bump := boxObject(t, k, "bump", 1, 1, 1)
	cut := boxObject(t, k, "cut", 2, 1, 1)

	for _, reg := range []struct {
		child    *object.Object3D
		additive bool
	}{
		{base, true}, {bump, true}, {cut, false},
	} {
		if err := parent.RegisterChild(reg.child, reg.additive, reg.child.Name); err != nil {
			t.Fatalf("RegisterChild(%s): %v", reg.child.Name, err)
		}
	}

	if err := parent.Synthesize(k); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if got := volume(t, parent.Shape); math.Abs(got-63) > tol {
		t.Errorf("volume = %f, want 64 + 1 - 2 = 63", got)
	}
}

func TestSynthesizeIdempotent(t *testing.T) {
	k := trace.New()
	parent := object.New("assembly", nil, nil)
	if err := parent.RegisterChild(boxObject(t, k, "a", 3, 3, 3), true, "a"); err != nil {
		t.Fatal(err)
	}
	if err := parent.RegisterChild(boxObject(t, k, "b", 1, 1, 1), false, "b"); err != nil {
		t.Fatal(err)
	}

	if err := parent.Synthesize(k); err != nil {
		t.Fatalf("first Synthesize: %v", err)
	}
	first := volume(t, parent.Shape)
	if err := parent.Synthesize(k); err != nil {
		t.Fatalf("second Synthesize: %v", err)
	}
	if second := volume(t, parent.Shape); math.Abs(second-first) > tol {
		t.Errorf("volumes differ across repeated synthesize: %f then %f", first, second)
	}
}

func TestSynthesizeOrderIndependent(t *testing.T) {
	k := trace.New()

	build := func(names []string) float64 {
		parent := object.New("assembly", nil, nil)
		children := map[string]*object.Object3D{
			"a": boxObject(t, k, "a", 2, 2, 2),
			"b": boxObject(t, k, "b", 3, 1, 1),
			"c": boxObject(t, k, "c", 1, 1, 1),
		}
		for _, n := range names {
			if err := parent.RegisterChild(children[n], n != "c", n); err != nil {
				t.Fatal(err)
			}
		}
		if err := parent.Synthesize(k); err != nil {
			t.Fatalf("Synthesize: %v", err)
		}
		return volume(t, parent.Shape)
	}

	v1 := build([]string{"a", "b", "c"})
	v2 := build([]string{"c", "b", "a"})
	if math.Abs(v1-v2) > tol {
		t.Errorf("registration order changed the result: %f vs %f", v1, v2)
	}
	if math.Abs(v1-10) > tol {
		t.Errorf("volume = %f, want 8 + 3 - 1 = 10", v1)
	}
}

func TestSynthesizeNoAdditiveIsVoid(t *testing.T) {
	k := trace.New()
	parent := object.New("assembly", nil, k.Box(1, 1, 1))
	if err := parent.RegisterChild(boxObject(t, k, "cut", 1, 1, 1), false, "cut"); err != nil {
		t.Fatal(err)
	}

	if err := parent.Synthesize(k); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if parent.Shape != nil {
		t.Error("subtract-only composition should produce the void solid")
	}
}

func TestRegisterChildValidation(t *testing.T) {
	k := trace.New()
	parent := object.New("assembly", nil, nil)
	child := boxObject(t, k, "c", 1, 1, 1)

	if err := parent.RegisterChild(child, true, ""); err == nil {
		t.Error("empty name should be rejected")
	}
	if err := parent.RegisterChild(nil, true, "x"); err == nil {
		t.Error("nil child should be rejected")
	}
	shapeless := object.New("shapeless", nil, nil)
	if err := parent.RegisterChild(shapeless, true, "x"); err == nil {
		t.Error("child without shape should be rejected")
	}
}

func TestRegisterChildOverwrite(t *testing.T) {
	k := trace.New()
	parent := object.New("assembly", nil, nil)

	first := boxObject(t, k, "first", 5, 5, 5)
	second := boxObject(t, k, "second", 1, 1, 1)

	if err := parent.RegisterChild(first, true, "slot"); err != nil {
		t.Fatal(err)
	}
	if err := parent.RegisterChild(second, false, "slot"); err != nil {
		t.Fatal(err)
	}

	if got := parent.AdditiveNames(); len(got) != 0 {
		t.Errorf("additive names = %v, want none after overwrite", got)
	}
	if got := parent.SubtractiveNames(); len(got) != 1 || got[0] != "slot" {
		t.Errorf("subtractive names = %v, want [slot]", got)
	}
	snap, ok := parent.Child("slot")
	if !ok {
		t.Fatal("child slot missing")
	}
	if snap.Shape != second.Shape {
		t.Error("overwrite kept the old snapshot shape")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	k := trace.New()
	parent := object.New("assembly", nil, nil)
	child := boxObject(t, k, "child", 2, 2, 2)

	if err := parent.RegisterChild(child, true, "child"); err != nil {
		t.Fatal(err)
	}
	captured := child.Shape
	child.Shape = k.Box(100, 100, 100)

	snap, _ := parent.Child("child")
	if snap.Shape != captured {
		t.Error("snapshot shape changed after child mutation")
	}
	if err := parent.Synthesize(k); err != nil {
		t.Fatal(err)
	}
	if got := volume(t, parent.Shape); math.Abs(got-8) > tol {
		t.Errorf("volume = %f, want the captured 8", got)
	}
}

// panicKernel panics on Union to exercise failure recovery.
type panicKernel struct {
	*trace.Backend
}

func (p *panicKernel) Union(a, b kernel.Solid) kernel.Solid {
	panic("backend exploded")
}

func TestSynthesizeBackendFailure(t *testing.T) {
	tk := trace.New()
	k := &panicKernel{Backend: tk}

	parent := object.New("assembly", nil, nil)
	if err := parent.RegisterChild(boxObject(t, tk, "a", 1, 1, 1), true, "a"); err != nil {
		t.Fatal(err)
	}
	if err := parent.RegisterChild(boxObject(t, tk, "b", 1, 1, 1), true, "b"); err != nil {
		t.Fatal(err)
	}

	err := parent.Synthesize(k)
	if err == nil {
		t.Fatal("expected composition error")
	}
	ce, ok := object.AsCompositionError(err)
	if !ok {
		t.Fatalf("error = %T, want *CompositionError", err)
	}
	if ce.Object != "assembly" {
		t.Errorf("CompositionError.Object = %q, want assembly", ce.Object)
	}
	if parent.Shape != nil {
		t.Error("shape should be left unset after a failed synthesize")
	}

	// Retry against the working backend succeeds.
	if err := parent.Synthesize(tk); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if got := volume(t, parent.Shape); math.Abs(got-2) > tol {
		t.Errorf("volume after retry = %f, want 2", got)
	}
}

func TestSnapshotContents(t *testing.T) {
	k := trace.New()
	obj := boxObject(t, k, "plate", 10, 10, 2)
	if err := obj.RegisterChild(boxObject(t, k, "rib", 1, 1, 1), true, "rib"); err != nil {
		t.Fatal(err)
	}
	if err := obj.RegisterChild(boxObject(t, k, "hole", 1, 1, 1), false, "hole"); err != nil {
		t.Fatal(err)
	}

	s := obj.Snapshot()
	if s.Name != "plate" {
		t.Errorf("Name = %q", s.Name)
	}
	if s.Axes["d"] != [3]float64{1, 0, 0} {
		t.Errorf("d axis = %v", s.Axes["d"])
	}
	offs := s.Offsets["w"]
	if len(offs) != 3 || offs[1].Index != 1 || offs[1].Offset != 5 {
		t.Errorf("w offsets = %v, want {0,0} {1,5} {2,10}", offs)
	}
	if len(s.Additive) != 1 || s.Additive[0] != "rib" {
		t.Errorf("Additive = %v", s.Additive)
	}
	if len(s.Subtractive) != 1 || s.Subtractive[0] != "hole" {
		t.Errorf("Subtractive = %v", s.Subtractive)
	}
}
