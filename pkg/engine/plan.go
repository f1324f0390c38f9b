package engine

import (
	"fmt"

	"github.com/chazu/partforge/pkg/catalog"
	"github.com/chazu/partforge/pkg/kernel"
	"github.com/chazu/partforge/pkg/object"
)

// PartKind identifies which catalog constructor a request targets.
type PartKind int

const (
	PartPlate PartKind = iota
	PartHole
	PartPerforated
	PartBolted
)

func (k PartKind) String() string {
	switch k {
	case PartPlate:
		return "plate"
	case PartHole:
		return "hole"
	case PartPerforated:
		return "perforated-plate"
	case PartBolted:
		return "bolted-plate"
	}
	return fmt.Sprintf("PartKind(%d)", int(k))
}

// Request is one catalog build request produced by a script.
type Request struct {
	Kind  PartKind
	Plate catalog.PlateParams // plate-family kinds
	Hole  catalog.HoleParams  // PartHole only

	// Radius is the drill radius for PartPerforated and PartBolted.
	Radius float64
}

// Name returns the part name the request was declared with.
func (r Request) Name() string {
	if r.Kind == PartHole {
		return r.Hole.Name
	}
	return r.Plate.Name
}

// Plan is an ordered list of build requests accumulated during script
// evaluation.
type Plan struct {
	Requests []Request
}

// Build runs every request against the given kernel in declaration
// order. The first failure aborts the build.
func (p *Plan) Build(k kernel.Kernel) ([]*object.Object3D, error) {
	out := make([]*object.Object3D, 0, len(p.Requests))
	for _, r := range p.Requests {
		var (
			obj *object.Object3D
			err error
		)
		switch r.Kind {
		case PartPlate:
			obj, err = catalog.NewPlate(k, r.Plate)
		case PartHole:
			obj, err = catalog.NewHole(k, r.Hole)
		case PartPerforated:
			obj, err = catalog.NewPerforatedPlate(k, r.Plate, r.Radius)
		case PartBolted:
			obj, err = catalog.NewBoltedPlate(k, r.Plate, r.Radius)
		default:
			err = fmt.Errorf("unknown part kind %d", r.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("build %s %q: %w", r.Kind, r.Name(), err)
		}
		out = append(out, obj)
	}
	return out, nil
}
