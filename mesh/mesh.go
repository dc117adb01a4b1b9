// Package mesh holds the minimal mesh model the DOF numbering layer operates
// over: meshes owning nodes and elements, and named subsets of their items.
package mesh

import (
	"fmt"
	"sync/atomic"
)

// GeometryType identifies the shape of an element
type GeometryType uint8

const (
	// 3D element types
	Tet     GeometryType = iota // Tetrahedron
	Hex                         // Hexahedron
	Prism                       // Triangular prism
	Pyramid                     // Square-based pyramid

	// 2D element types
	Tri       // Triangle
	Rectangle // Rectangle/Quadrilateral

	// 1D element type
	Line // Line segment
)

func (g GeometryType) String() string {
	switch g {
	case Tet:
		return "tet"
	case Hex:
		return "hex"
	case Prism:
		return "prism"
	case Pyramid:
		return "pyramid"
	case Tri:
		return "tri"
	case Rectangle:
		return "rectangle"
	case Line:
		return "line"
	}
	return fmt.Sprintf("GeometryType(%d)", uint8(g))
}

// NumVertices returns the number of defining vertices for the geometry.
func (g GeometryType) NumVertices() int {
	switch g {
	case Tet:
		return 4
	case Hex:
		return 8
	case Prism:
		return 6
	case Pyramid:
		return 5
	case Tri:
		return 3
	case Rectangle:
		return 4
	case Line:
		return 2
	}
	return 0
}

// Node is one mesh node with its position
type Node struct {
	ID      int // Node id within the owning mesh; equals the node's position
	X, Y, Z float64
}

// Element is one mesh element defined by its vertex nodes
type Element struct {
	ID       int          // Element id within the owning mesh; equals the element's position
	Geometry GeometryType // Shape of the element
	Nodes    []int        // Node ids of the defining vertices, in geometry order
}

// meshIDCounter assigns each mesh a process-wide unique id, so Locations
// from different meshes of one problem never collide.
var meshIDCounter int64

func nextMeshID() int {
	return int(atomic.AddInt64(&meshIDCounter, 1)) - 1
}

// Mesh owns a set of nodes and elements and enumerates their ids for subset
// construction. The DOF numbering layer only ever consumes ids and counts;
// it never holds on to the mesh itself.
type Mesh struct {
	id       int
	name     string
	nodes    []Node
	elements []Element
}

// NewMesh creates a mesh from nodes and elements. Node and element ids are
// assigned from their positions; incoming ID fields are overwritten. Element
// vertex references are validated against the node set.
func NewMesh(name string, nodes []Node, elements []Element) (*Mesh, error) {
	m := &Mesh{
		id:   nextMeshID(),
		name: name,
	}
	for _, n := range nodes {
		m.AddNode(n)
	}
	for _, e := range elements {
		if _, err := m.AddElement(e); err != nil {
			return nil, fmt.Errorf("mesh %q: %w", name, err)
		}
	}
	return m, nil
}

// AddNode appends a node and returns its assigned id.
func (m *Mesh) AddNode(n Node) int {
	n.ID = len(m.nodes)
	m.nodes = append(m.nodes, n)
	return n.ID
}

// AddElement appends an element and returns its assigned id. The element's
// vertex count must match its geometry and all vertex node ids must exist.
func (m *Mesh) AddElement(e Element) (int, error) {
	if want := e.Geometry.NumVertices(); len(e.Nodes) != want {
		return 0, fmt.Errorf("element %d: %s needs %d vertices, got %d",
			len(m.elements), e.Geometry, want, len(e.Nodes))
	}
	for _, n := range e.Nodes {
		if n < 0 || n >= len(m.nodes) {
			return 0, fmt.Errorf("element %d: vertex node id %d out of range [0,%d)",
				len(m.elements), n, len(m.nodes))
		}
	}
	e.ID = len(m.elements)
	m.elements = append(m.elements, e)
	return e.ID, nil
}

// ID returns the process-wide unique mesh id.
func (m *Mesh) ID() int { return m.id }

// Name returns the mesh name.
func (m *Mesh) Name() string { return m.name }

// NNodes returns the number of nodes.
func (m *Mesh) NNodes() int { return len(m.nodes) }

// NElements returns the number of elements.
func (m *Mesh) NElements() int { return len(m.elements) }

// GetNode returns the node with the given id.
func (m *Mesh) GetNode(id int) Node { return m.nodes[id] }

// GetElement returns the element with the given id.
func (m *Mesh) GetElement(id int) Element { return m.elements[id] }

func (m *Mesh) String() string {
	return fmt.Sprintf("mesh %q (id %d): %d nodes, %d elements",
		m.name, m.id, len(m.nodes), len(m.elements))
}
