// Package assembly scatters element-local matrices and vectors into a
// global sparse system using the indices handed out by the dof package.
package assembly

import (
	"fmt"
	"strings"

	"github.com/notargets/dofmap/dof"
	"github.com/notargets/dofmap/mesh"
)

// LocalLayout fixes the ordering of an element's local degrees of freedom
type LocalLayout uint8

const (
	// NodeMajor interleaves components: all components of vertex 0, then
	// all components of vertex 1, and so on
	NodeMajor LocalLayout = iota

	// ComponentMajor blocks components: component 0 on every vertex, then
	// component 1 on every vertex
	ComponentMajor
)

func (l LocalLayout) String() string {
	switch l {
	case NodeMajor:
		return "node-major"
	case ComponentMajor:
		return "component-major"
	default:
		return fmt.Sprintf("LocalLayout(%d)", uint8(l))
	}
}

// LocalToGlobalIndexMap caches, per element, the global index of every
// (vertex, component) pair in the chosen local layout. Pairs the
// component map does not cover hold dof.NoIndex; assembly skips them.
type LocalToGlobalIndexMap struct {
	rows   [][]dof.GlobalIndex
	comps  []int
	layout LocalLayout
	ndofs  int
}

// NewLocalToGlobalIndexMap builds the element-wise index rows for the
// given components of a mesh. Global indices come from cmap and must be
// numbered compactly from zero, which is what a freshly built component
// map provides.
func NewLocalToGlobalIndexMap(cmap *dof.MeshComponentMap, m *mesh.Mesh, comps []int,
	layout LocalLayout) (*LocalToGlobalIndexMap, error) {

	if cmap == nil || m == nil {
		return nil, fmt.Errorf("local-to-global: component map and mesh cannot be nil")
	}
	if len(comps) == 0 {
		return nil, fmt.Errorf("local-to-global: no components selected")
	}
	for _, c := range comps {
		if c < 0 || c >= cmap.NumComponents() {
			return nil, fmt.Errorf("local-to-global: component %d out of range [0,%d)",
				c, cmap.NumComponents())
		}
	}

	l2g := &LocalToGlobalIndexMap{
		rows:   make([][]dof.GlobalIndex, m.NElements()),
		comps:  append([]int(nil), comps...),
		layout: layout,
		ndofs:  cmap.Size(),
	}

	for k := 0; k < m.NElements(); k++ {
		verts := m.GetElement(k).Nodes
		row := make([]dof.GlobalIndex, 0, len(verts)*len(comps))
		switch layout {
		case ComponentMajor:
			for _, c := range comps {
				for _, v := range verts {
					row = append(row, cmap.GetGlobalIndex(dof.Location{
						MeshID: m.ID(), Item: dof.Node, ID: v}, c))
				}
			}
		default:
			for _, v := range verts {
				for _, c := range comps {
					row = append(row, cmap.GetGlobalIndex(dof.Location{
						MeshID: m.ID(), Item: dof.Node, ID: v}, c))
				}
			}
		}
		l2g.rows[k] = row
	}

	return l2g, nil
}

// RowIndices returns element k's global indices in local layout order.
// Entries equal to dof.NoIndex mark local slots without a global dof.
func (l *LocalToGlobalIndexMap) RowIndices(k int) []dof.GlobalIndex {
	return l.rows[k]
}

// NumElements returns the number of element rows
func (l *LocalToGlobalIndexMap) NumElements() int { return len(l.rows) }

// NumLocalDOFs returns the local slot count of element k
func (l *LocalToGlobalIndexMap) NumLocalDOFs(k int) int { return len(l.rows[k]) }

// NumDOFs returns the size of the global index space
func (l *LocalToGlobalIndexMap) NumDOFs() int { return l.ndofs }

// Components returns the component ids the map was built for
func (l *LocalToGlobalIndexMap) Components() []int {
	return append([]int(nil), l.comps...)
}

// Layout returns the local dof ordering
func (l *LocalToGlobalIndexMap) Layout() LocalLayout { return l.layout }

// Verify checks structural consistency of the index rows
func (l *LocalToGlobalIndexMap) Verify() error {
	// Verify 1: Row shape - every row holds one slot per (vertex, component)
	for k, row := range l.rows {
		if len(row)%len(l.comps) != 0 {
			return fmt.Errorf("element %d: row length %d not divisible by %d components",
				k, len(row), len(l.comps))
		}
	}

	// Verify 2: Bounds - every resolved index fits the global system
	for k, row := range l.rows {
		for i, idx := range row {
			if idx == dof.NoIndex {
				continue
			}
			if idx < 0 || int(idx) >= l.ndofs {
				return fmt.Errorf("element %d slot %d: index %d outside [0,%d)",
					k, i, idx, l.ndofs)
			}
		}
	}

	// Verify 3: Injectivity - no global dof appears twice within one element
	for k, row := range l.rows {
		seen := make(map[dof.GlobalIndex]int, len(row))
		for i, idx := range row {
			if idx == dof.NoIndex {
				continue
			}
			if j, dup := seen[idx]; dup {
				return fmt.Errorf("element %d: slots %d and %d share index %d", k, j, i, idx)
			}
			seen[idx] = i
		}
	}

	return nil
}

func (l *LocalToGlobalIndexMap) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("local-to-global map: %d elements, %d dofs, %s layout, components %v\n",
		l.NumElements(), l.NumDOFs(), l.layout, l.comps))
	holes := 0
	for _, row := range l.rows {
		for _, idx := range row {
			if idx == dof.NoIndex {
				holes++
			}
		}
	}
	sb.WriteString(fmt.Sprintf("  unresolved local slots: %d\n", holes))
	return sb.String()
}
