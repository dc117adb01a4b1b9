// Package dof builds and queries the global numbering of the unknowns in a
// finite-element system. A MeshComponentMap assigns one global index to every
// (mesh location, field component) pair and provides the bidirectional
// lookups assembly code needs to scatter local element contributions into the
// global matrix and right-hand side.
package dof

import "fmt"

// MeshItemType identifies the kind of mesh item a degree of freedom lives on
type MeshItemType uint8

const (
	Node MeshItemType = iota // Mesh node
	Cell                     // Mesh element
)

func (t MeshItemType) String() string {
	switch t {
	case Node:
		return "node"
	case Cell:
		return "cell"
	}
	return fmt.Sprintf("MeshItemType(%d)", uint8(t))
}

// Location identifies one mesh item across all meshes of a problem:
// the owning mesh, the item kind, and the item id within that mesh.
// Locations are small immutable values and order lexicographically on
// (MeshID, Item, ID).
type Location struct {
	MeshID int          // Owning mesh id
	Item   MeshItemType // Node or Cell
	ID     int          // Item id within the mesh
}

// Compare returns -1, 0 or +1 as l orders before, equal to, or after other
// in the lexicographic (MeshID, Item, ID) order.
func (l Location) Compare(other Location) int {
	switch {
	case l.MeshID < other.MeshID:
		return -1
	case l.MeshID > other.MeshID:
		return 1
	}
	switch {
	case l.Item < other.Item:
		return -1
	case l.Item > other.Item:
		return 1
	}
	switch {
	case l.ID < other.ID:
		return -1
	case l.ID > other.ID:
		return 1
	}
	return 0
}

// Less reports whether l orders before other.
func (l Location) Less(other Location) bool {
	return l.Compare(other) < 0
}

func (l Location) String() string {
	return fmt.Sprintf("(%d, %s, %d)", l.MeshID, l.Item, l.ID)
}
