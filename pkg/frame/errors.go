package frame

import "fmt"

// UndefinedIndexError reports a lookup into an axis index map with a
// key that was never populated. The axis resolution that triggered it
// is aborted; callers must not use a position if any axis failed.
type UndefinedIndexError struct {
	Axis  Axis
	Index int
}

func (e *UndefinedIndexError) Error() string {
	return fmt.Sprintf("frame: index %d not defined on axis %s", e.Index, e.Axis)
}
