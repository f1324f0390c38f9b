package frame

// Axis selects one of the three local frame directions.
type Axis int

const (
	AxisD Axis = iota // depth
	AxisW             // width
	AxisH             // height
)

func (a Axis) String() string {
	switch a {
	case AxisD:
		return "d"
	case AxisW:
		return "w"
	case AxisH:
		return "h"
	default:
		return "unknown"
	}
}
