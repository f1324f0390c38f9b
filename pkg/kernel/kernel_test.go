package kernel_test

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/partforge/pkg/geom"
	"github.com/chazu/partforge/pkg/kernel"
	"github.com/chazu/partforge/pkg/kernel/trace"
)

const tol = 1e-9

func TestCylinderAtAlongZ(t *testing.T) {
	k := trace.New()
	s, err := kernel.CylinderAt(k, 2, 10, geom.VZ, geom.Vec3{X: 5, Y: 5, Z: 1})
	if err != nil {
		t.Fatalf("CylinderAt failed: %v", err)
	}

	min, max := s.BoundingBox()
	expectMin := [3]float64{3, 3, 1}
	expectMax := [3]float64{7, 7, 11}
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, want %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, want %f", i, max[i], expectMax[i])
		}
	}
}

func TestCylinderAtAlongX(t *testing.T) {
	k := trace.New()
	s, err := kernel.CylinderAt(k, 2, 10, geom.VX, geom.V0)
	if err != nil {
		t.Fatalf("CylinderAt failed: %v", err)
	}

	min, max := s.BoundingBox()
	// Base at the origin extending along +X: x in [0,10], y and z in [-2,2].
	if math.Abs(min[0]) > tol || math.Abs(max[0]-10) > tol {
		t.Errorf("x extent = [%f, %f], want [0, 10]", min[0], max[0])
	}
	if math.Abs(min[1]+2) > tol || math.Abs(max[1]-2) > tol {
		t.Errorf("y extent = [%f, %f], want [-2, 2]", min[1], max[1])
	}
	if math.Abs(min[2]+2) > tol || math.Abs(max[2]-2) > tol {
		t.Errorf("z extent = [%f, %f], want [-2, 2]", min[2], max[2])
	}
}

func TestCylinderAtAlongY(t *testing.T) {
	k := trace.New()
	s, err := kernel.CylinderAt(k, 1, 6, geom.VY, geom.V0)
	if err != nil {
		t.Fatalf("CylinderAt failed: %v", err)
	}

	min, max := s.BoundingBox()
	if math.Abs(min[1]) > tol || math.Abs(max[1]-6) > tol {
		t.Errorf("y extent = [%f, %f], want [0, 6]", min[1], max[1])
	}
}

func TestCylinderAtNegativeAxis(t *testing.T) {
	k := trace.New()
	s, err := kernel.CylinderAt(k, 1, 6, geom.VZN, geom.V0)
	if err != nil {
		t.Fatalf("CylinderAt failed: %v", err)
	}
	min, max := s.BoundingBox()
	if math.Abs(min[2]+6) > tol || math.Abs(max[2]) > tol {
		t.Errorf("z extent = [%f, %f], want [-6, 0]", min[2], max[2])
	}
}

func TestCylinderAtDegenerateAxis(t *testing.T) {
	k := trace.New()
	_, err := kernel.CylinderAt(k, 1, 6, geom.V0, geom.V0)
	if err == nil {
		t.Fatal("CylinderAt with a zero axis should fail")
	}
	if !errors.Is(err, geom.ErrDegenerateAxis) {
		t.Errorf("error = %v, want ErrDegenerateAxis", err)
	}
}

func TestCylinderAtUnnormalizedAxis(t *testing.T) {
	// The axis is normalized internally, so a scaled direction must
	// place the solid identically to the unit direction.
	k := trace.New()
	s, err := kernel.CylinderAt(k, 1, 4, geom.Vec3{Z: 25}, geom.V0)
	if err != nil {
		t.Fatalf("CylinderAt failed: %v", err)
	}
	_, max := s.BoundingBox()
	if math.Abs(max[2]-4) > tol {
		t.Errorf("max z = %f, want 4", max[2])
	}
}

func TestMeshAccessors(t *testing.T) {
	m := &kernel.Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2},
	}
	if m.IsEmpty() {
		t.Fatal("mesh should not be empty")
	}
	if m.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", m.VertexCount())
	}
	if m.TriangleCount() != 1 {
		t.Errorf("TriangleCount = %d, want 1", m.TriangleCount())
	}
	tri := m.Triangle(0)
	if tri[1] != [3]float32{1, 0, 0} {
		t.Errorf("Triangle vertex 1 = %v, want (1,0,0)", tri[1])
	}
	if m.TriangleNormal(0) != [3]float32{0, 0, 1} {
		t.Errorf("TriangleNormal = %v, want (0,0,1)", m.TriangleNormal(0))
	}
}
