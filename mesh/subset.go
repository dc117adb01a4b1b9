package mesh

import "fmt"

// MeshSubset is a named group of node and element ids within one mesh. The
// DOF numbering layer walks subsets in their stored order, so the id
// sequences fix the reproducible construction order of the global numbering
// but carry no further meaning.
type MeshSubset struct {
	mesh     *Mesh
	name     string
	nodes    []int
	elements []int
}

// NewMeshSubset creates a subset of the given mesh. All ids are validated
// against the mesh bounds.
func NewMeshSubset(m *Mesh, name string, nodeIDs, elementIDs []int) (*MeshSubset, error) {
	if m == nil {
		return nil, fmt.Errorf("subset %q: mesh cannot be nil", name)
	}
	for _, id := range nodeIDs {
		if id < 0 || id >= m.NNodes() {
			return nil, fmt.Errorf("subset %q of mesh %q: node id %d out of range [0,%d)",
				name, m.Name(), id, m.NNodes())
		}
	}
	for _, id := range elementIDs {
		if id < 0 || id >= m.NElements() {
			return nil, fmt.Errorf("subset %q of mesh %q: element id %d out of range [0,%d)",
				name, m.Name(), id, m.NElements())
		}
	}
	return &MeshSubset{mesh: m, name: name, nodes: nodeIDs, elements: elementIDs}, nil
}

// AllNodes returns the subset covering every node of the mesh, in id order.
func AllNodes(m *Mesh, name string) *MeshSubset {
	ids := make([]int, m.NNodes())
	for i := range ids {
		ids[i] = i
	}
	return &MeshSubset{mesh: m, name: name, nodes: ids}
}

// AllElements returns the subset covering every element of the mesh, in id
// order.
func AllElements(m *Mesh, name string) *MeshSubset {
	ids := make([]int, m.NElements())
	for i := range ids {
		ids[i] = i
	}
	return &MeshSubset{mesh: m, name: name, elements: ids}
}

// MeshID returns the id of the owning mesh.
func (s *MeshSubset) MeshID() int { return s.mesh.ID() }

// Name returns the subset name.
func (s *MeshSubset) Name() string { return s.name }

// NNodes returns the number of nodes in the subset.
func (s *MeshSubset) NNodes() int { return len(s.nodes) }

// NElements returns the number of elements in the subset.
func (s *MeshSubset) NElements() int { return len(s.elements) }

// NodeID returns the i-th node id of the subset.
func (s *MeshSubset) NodeID(i int) int { return s.nodes[i] }

// ElementID returns the i-th element id of the subset.
func (s *MeshSubset) ElementID(i int) int { return s.elements[i] }

func (s *MeshSubset) String() string {
	return fmt.Sprintf("subset %q of mesh %d: %d nodes, %d elements",
		s.name, s.mesh.ID(), len(s.nodes), len(s.elements))
}

// MeshSubsets is the ordered sequence of subsets forming one component's full
// spatial support. A component may span several regions and several meshes.
type MeshSubsets struct {
	subsets []*MeshSubset
}

// NewMeshSubsets creates a component support from one or more subsets.
func NewMeshSubsets(subsets ...*MeshSubset) (*MeshSubsets, error) {
	for i, s := range subsets {
		if s == nil {
			return nil, fmt.Errorf("subset %d of %d cannot be nil", i, len(subsets))
		}
	}
	return &MeshSubsets{subsets: subsets}, nil
}

// Size returns the number of subsets.
func (s *MeshSubsets) Size() int { return len(s.subsets) }

// Subset returns the i-th subset.
func (s *MeshSubsets) Subset(i int) *MeshSubset { return s.subsets[i] }
