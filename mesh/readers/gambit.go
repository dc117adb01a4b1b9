// Package readers loads meshes from external file formats.
//
// The heavy lifting is delegated to the gocfd readers; this package
// converts their mesh representation into the indexing-oriented mesh
// used by the rest of the module.
package readers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/notargets/dofmap/mesh"
	gcfd "github.com/notargets/gocfd/DG3D/mesh"
	gcfdreaders "github.com/notargets/gocfd/DG3D/mesh/readers"
)

// ReadMeshFile reads a mesh file in any format the gocfd readers
// understand (Gambit .neu among them) and converts it. The mesh name is
// the file name without its extension.
func ReadMeshFile(meshfile string) (*mesh.Mesh, error) {
	gm, err := gcfdreaders.ReadMeshFile(meshfile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", meshfile, err)
	}
	return FromGocfd(gm, meshName(meshfile))
}

// ReadPartitionedMeshFile reads a mesh file and additionally groups its
// elements into per-partition subsets from the element-to-partition
// table the file carries. Files without partition information yield a
// nil subset list.
func ReadPartitionedMeshFile(meshfile string) (*mesh.Mesh, []*mesh.MeshSubset, error) {
	gm, err := gcfdreaders.ReadMeshFile(meshfile)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", meshfile, err)
	}
	name := meshName(meshfile)
	m, err := FromGocfd(gm, name)
	if err != nil {
		return nil, nil, err
	}
	if len(gm.EToP) == 0 {
		return m, nil, nil
	}
	subsets, err := mesh.PartitionSubsets(m, gm.EToP)
	if err != nil {
		return nil, nil, fmt.Errorf("mesh %q: %w", name, err)
	}
	return m, subsets, nil
}

func meshName(meshfile string) string {
	base := filepath.Base(meshfile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FromGocfd converts a gocfd volume mesh. Only tetrahedral elements are
// supported; the gocfd DG3D readers produce nothing else.
func FromGocfd(gm *gcfd.Mesh, name string) (*mesh.Mesh, error) {
	if gm == nil {
		return nil, fmt.Errorf("mesh %q: gocfd mesh cannot be nil", name)
	}

	nodes := make([]mesh.Node, len(gm.Vertices))
	for i := range gm.Vertices {
		v := gm.Vertices[i]
		nodes[i] = mesh.Node{X: v[0], Y: v[1], Z: v[2]}
	}

	elements := make([]mesh.Element, gm.NumElements)
	for k := 0; k < gm.NumElements; k++ {
		verts := make([]int, 0, 4)
		for _, v := range gm.EtoV[k] {
			verts = append(verts, int(v))
		}
		if len(verts) != 4 {
			return nil, fmt.Errorf("mesh %q element %d: %d vertices, only tetrahedra are supported",
				name, k, len(verts))
		}
		elements[k] = mesh.Element{Geometry: mesh.Tet, Nodes: verts}
	}

	m, err := mesh.NewMesh(name, nodes, elements)
	if err != nil {
		return nil, err
	}

	fmt.Printf("Mesh %q: %d vertices, %d tets", name, len(nodes), len(elements))
	if len(gm.BoundaryTags) > 0 {
		fmt.Printf(", %d boundary tags", len(gm.BoundaryTags))
	}
	fmt.Println()
	for _, tag := range gm.BoundaryTags {
		fmt.Printf("  boundary %q: %d faces\n", tag, len(gm.BoundaryElements[tag]))
	}

	return m, nil
}
