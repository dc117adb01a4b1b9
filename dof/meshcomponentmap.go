package dof

import (
	"fmt"
	"sort"

	"github.com/notargets/dofmap/mesh"
)

// ComponentOrder selects the global numbering produced at construction
type ComponentOrder uint8

const (
	// ByComponent numbers all unknowns of component 0 first, then all of
	// component 1, and so on (the construction walk order).
	ByComponent ComponentOrder = iota

	// ByLocation renumbers so that all components present at the same
	// location occupy a contiguous index block. Improves locality for
	// multi-physics systems sharing geometry.
	ByLocation
)

// MeshComponentMap assigns one global index to every (location, component)
// pair of a problem and answers the lookups assembly code needs. It is built
// once per problem configuration, optionally renumbered, and then queried
// concurrently without locks: all query methods are read-only.
//
// RenumberByLocation mutates the map and must be serialized by the caller
// against queries and against other renumbering calls on the same instance.
type MeshComponentMap struct {
	dict  componentGlobalIndexDict
	ncomp int
}

// NewMeshComponentMap numbers every (location, component) pair reachable from
// the given components. The component id of each entry is its position in the
// slice; a nil entry contributes no pairs but still consumes its id, keeping
// the numbering aligned with the caller's component layout.
//
// Walk order: components in slice order; within a component its subsets in
// order; within a subset all nodes, then all elements, each in subset-local
// order. Global indices count up from 0 along this walk, so ByComponent
// grouping is the construction default.
//
// A component's subsets must be pairwise disjoint. A duplicate (location,
// component) pair keeps its first assigned index; the later insertion is
// dropped and the index counter still advances past it.
func NewMeshComponentMap(components []*mesh.MeshSubsets, order ComponentOrder) *MeshComponentMap {
	col := newLineCollector()
	var globalIndex GlobalIndex
	for compID, c := range components {
		if c == nil {
			continue
		}
		for si := 0; si < c.Size(); si++ {
			ms := c.Subset(si)
			meshID := ms.MeshID()
			// Mesh items are numbered first by node, then by cell.
			for j := 0; j < ms.NNodes(); j++ {
				col.add(Line{Location{meshID, Node, ms.NodeID(j)}, compID, globalIndex})
				globalIndex++
			}
			for j := 0; j < ms.NElements(); j++ {
				col.add(Line{Location{meshID, Cell, ms.ElementID(j)}, compID, globalIndex})
				globalIndex++
			}
		}
	}

	m := &MeshComponentMap{dict: col.build(), ncomp: len(components)}
	if order == ByLocation {
		m.RenumberByLocation(0)
	}
	return m
}

// RenumberByLocation reassigns global indices as offset, offset+1, ... along
// the location order of the dictionary, component ids ascending within each
// location. Afterwards all components present at one location occupy a
// contiguous index block. The set of (location, component) pairs is
// unchanged; only the index labels move.
func (m *MeshComponentMap) RenumberByLocation(offset GlobalIndex) {
	globalIndex := offset
	for i := range m.dict.lines {
		m.dict.lines[i].GlobalIndex = globalIndex
		globalIndex++
	}
}

// GetSubset extracts a child map covering exactly the requested components.
// As at construction, the component id of each entry is its slice position
// and nil entries consume an id without contributing pairs. Every requested
// (location, component) pair must exist in m; a missing pair is a caller
// error and panics. Indices are copied verbatim, never renumbered, so the
// child shares the parent's index space and its results scatter into the
// same global system.
func (m *MeshComponentMap) GetSubset(components []*mesh.MeshSubsets) *MeshComponentMap {
	col := newLineCollector()
	for compID, c := range components {
		if c == nil {
			continue
		}
		for si := 0; si < c.Size(); si++ {
			ms := c.Subset(si)
			meshID := ms.MeshID()
			for j := 0; j < ms.NNodes(); j++ {
				col.add(m.GetLine(Location{meshID, Node, ms.NodeID(j)}, compID))
			}
			for j := 0; j < ms.NElements(); j++ {
				col.add(m.GetLine(Location{meshID, Cell, ms.ElementID(j)}, compID))
			}
		}
	}
	return &MeshComponentMap{dict: col.build(), ncomp: len(components)}
}

// Find returns the Line for the pair, reporting whether it exists.
func (m *MeshComponentMap) Find(l Location, compID int) (Line, bool) {
	i, ok := m.dict.find(l, compID)
	if !ok {
		return Line{}, false
	}
	return m.dict.lines[i], true
}

// GetLine returns the Line for the pair. The pair must exist; requesting an
// absent pair is a caller error and panics. Use Find or GetGlobalIndex where
// absence is an expected outcome.
func (m *MeshComponentMap) GetLine(l Location, compID int) Line {
	ln, ok := m.Find(l, compID)
	if !ok {
		panic(fmt.Sprintf("dof: no line for location %v component %d", l, compID))
	}
	return ln
}

// GetGlobalIndex returns the global index of the pair, or NoIndex if the
// pair does not exist. Absence is a valid result, never a failure; assembly
// loops test against NoIndex and skip such entries.
func (m *MeshComponentMap) GetGlobalIndex(l Location, compID int) GlobalIndex {
	if ln, ok := m.Find(l, compID); ok {
		return ln.GlobalIndex
	}
	return NoIndex
}

// GetComponentIDs returns the ids of all components present at the location,
// in ascending order.
func (m *MeshComponentMap) GetComponentIDs(l Location) []int {
	lo, hi := m.dict.locationRange(l)
	ids := make([]int, 0, hi-lo)
	for _, ln := range m.dict.lines[lo:hi] {
		ids = append(ids, ln.CompID)
	}
	return ids
}

// GetGlobalIndices returns the global indices of all components present at
// the location, ordered by ascending component id.
func (m *MeshComponentMap) GetGlobalIndices(l Location) []GlobalIndex {
	lo, hi := m.dict.locationRange(l)
	indices := make([]GlobalIndex, 0, hi-lo)
	for _, ln := range m.dict.lines[lo:hi] {
		indices = append(indices, ln.GlobalIndex)
	}
	return indices
}

// GetGlobalIndicesByLocation returns the concatenation of per-location index
// lists for the given locations, preserving the input location order. This
// is the layout of an element's local-to-global table when the local
// ordering runs over nodes first.
func (m *MeshComponentMap) GetGlobalIndicesByLocation(ls []Location) []GlobalIndex {
	indices := make([]GlobalIndex, 0, len(ls))
	for _, l := range ls {
		lo, hi := m.dict.locationRange(l)
		for _, ln := range m.dict.lines[lo:hi] {
			indices = append(indices, ln.GlobalIndex)
		}
	}
	return indices
}

// GetGlobalIndicesByComponent returns the same indices as
// GetGlobalIndicesByLocation, stably sorted by ascending component id:
// within one component the per-location order of the input is preserved.
// This is the layout of a local-to-global table when the local ordering runs
// over components first.
func (m *MeshComponentMap) GetGlobalIndicesByComponent(ls []Location) []GlobalIndex {
	type compIndexPair struct {
		compID int
		index  GlobalIndex
	}
	pairs := make([]compIndexPair, 0, len(ls))
	for _, l := range ls {
		lo, hi := m.dict.locationRange(l)
		for _, ln := range m.dict.lines[lo:hi] {
			pairs = append(pairs, compIndexPair{ln.CompID, ln.GlobalIndex})
		}
	}

	less := func(i, j int) bool { return pairs[i].compID < pairs[j].compID }
	if !sort.SliceIsSorted(pairs, less) {
		sort.SliceStable(pairs, less)
	}

	indices := make([]GlobalIndex, len(pairs))
	for i, p := range pairs {
		indices[i] = p.index
	}
	return indices
}

// Size returns the number of (location, component) pairs in the map, which
// is the number of unknowns it numbers.
func (m *MeshComponentMap) Size() int { return m.dict.len() }

// NumComponents returns the number of component slots the map was built
// with, counting nil slots.
func (m *MeshComponentMap) NumComponents() int { return m.ncomp }

// Verify checks the structural invariants of the map: strict dictionary
// ordering (which implies pair uniqueness), no line carrying NoIndex, and
// injectivity of the assigned global indices.
func (m *MeshComponentMap) Verify() error {
	seen := make(map[GlobalIndex]lineKey, len(m.dict.lines))
	for i, ln := range m.dict.lines {
		if i > 0 {
			prev := m.dict.lines[i-1]
			if compareKey(prev, ln.Loc, ln.CompID) >= 0 {
				return fmt.Errorf("dictionary order violated at position %d: %v !< %v", i, prev, ln)
			}
		}
		if ln.GlobalIndex == NoIndex {
			return fmt.Errorf("line %v carries the reserved absent index", ln)
		}
		if prev, dup := seen[ln.GlobalIndex]; dup {
			return fmt.Errorf("global index %d assigned to both %v comp %d and %v comp %d",
				ln.GlobalIndex, prev.loc, prev.compID, ln.Loc, ln.CompID)
		}
		seen[ln.GlobalIndex] = lineKey{ln.Loc, ln.CompID}
	}
	return nil
}

func (m *MeshComponentMap) String() string {
	if m.dict.len() == 0 {
		return fmt.Sprintf("MeshComponentMap: empty, %d component slots", m.ncomp)
	}
	lo := m.dict.lines[0].GlobalIndex
	hi := lo
	for _, ln := range m.dict.lines {
		if ln.GlobalIndex < lo {
			lo = ln.GlobalIndex
		}
		if ln.GlobalIndex > hi {
			hi = ln.GlobalIndex
		}
	}
	return fmt.Sprintf("MeshComponentMap: %d lines over %d component slots, indices [%d,%d]",
		m.dict.len(), m.ncomp, lo, hi)
}
