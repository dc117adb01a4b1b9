package dof

import (
	"fmt"
	"math"
)

// GlobalIndex is the position of one degree of freedom in the system-wide
// unknown vector and matrix.
type GlobalIndex int64

// NoIndex marks an absent (Location, CompID) pair in query results. It is the
// maximum representable index and is never assigned to an existing Line.
const NoIndex GlobalIndex = math.MaxInt64

// Line records the global index assigned to one (location, component) pair.
// A MeshComponentMap holds at most one Line per pair.
type Line struct {
	Loc         Location
	CompID      int // Component id, the component's position at construction
	GlobalIndex GlobalIndex
}

func (ln Line) String() string {
	if ln.GlobalIndex == NoIndex {
		return fmt.Sprintf("%v comp %d -> <none>", ln.Loc, ln.CompID)
	}
	return fmt.Sprintf("%v comp %d -> %d", ln.Loc, ln.CompID, ln.GlobalIndex)
}

// compareKey orders a Line against a bare (location, component) key in the
// dictionary order: Location first, CompID as tie break.
func compareKey(ln Line, loc Location, compID int) int {
	if c := ln.Loc.Compare(loc); c != 0 {
		return c
	}
	switch {
	case ln.CompID < compID:
		return -1
	case ln.CompID > compID:
		return 1
	}
	return 0
}
