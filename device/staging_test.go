package device

import (
	"fmt"
	"math"
	"testing"

	"github.com/notargets/dofmap/assembly"
	"github.com/notargets/dofmap/dof"
	"github.com/notargets/dofmap/mesh"
)

func buildLineMesh(t *testing.T, n int) *mesh.Mesh {
	t.Helper()
	nodes := make([]mesh.Node, n)
	for i := range nodes {
		nodes[i] = mesh.Node{X: float64(i)}
	}
	elements := make([]mesh.Element, 0, n-1)
	for i := 0; i+1 < n; i++ {
		elements = append(elements, mesh.Element{Geometry: mesh.Line, Nodes: []int{i, i + 1}})
	}
	m, err := mesh.NewMesh(fmt.Sprintf("line%d", n), nodes, elements)
	if err != nil {
		t.Fatalf("Failed to build mesh: %v", err)
	}
	return m
}

func nodeComponent(t *testing.T, m *mesh.Mesh, name string, ids []int) *mesh.MeshSubsets {
	t.Helper()
	s, err := mesh.NewMeshSubset(m, name, ids, nil)
	if err != nil {
		t.Fatalf("Failed to build subset %s: %v", name, err)
	}
	c, err := mesh.NewMeshSubsets(s)
	if err != nil {
		t.Fatalf("Failed to build component %s: %v", name, err)
	}
	return c
}

// lineIndexMap builds a 3-node, 2-element scalar index map: dof i on node i
func lineIndexMap(t *testing.T) *assembly.LocalToGlobalIndexMap {
	t.Helper()
	m := buildLineMesh(t, 3)
	cmap := dof.NewMeshComponentMap([]*mesh.MeshSubsets{
		nodeComponent(t, m, "u", []int{0, 1, 2}),
	}, dof.ByLocation)
	l2g, err := assembly.NewLocalToGlobalIndexMap(cmap, m, []int{0}, assembly.NodeMajor)
	if err != nil {
		t.Fatalf("Failed to build index map: %v", err)
	}
	return l2g
}

func TestStageIndexTable_Int64RoundTrip(t *testing.T) {
	device := CreateTestDevice()
	defer device.Free()

	l2g := lineIndexMap(t)
	tbl, err := StageIndexTable(device, l2g, Config{})
	if err != nil {
		t.Fatalf("Failed to stage index table: %v", err)
	}
	defer tbl.Free()

	if tbl.IndexType != Int64 {
		t.Errorf("Expected default Int64 staging, got %s", tbl.IndexType)
	}
	if tbl.NumElements != 2 || tbl.TotalSlots != 4 {
		t.Fatalf("Expected 2 elements with 4 slots, got %d and %d",
			tbl.NumElements, tbl.TotalSlots)
	}

	wantOffsets := []int64{0, 2, 4}
	for i, want := range wantOffsets {
		if tbl.Offsets[i] != want {
			t.Errorf("Offset %d: expected %d, got %d", i, want, tbl.Offsets[i])
		}
	}

	got, err := tbl.CopyBack()
	if err != nil {
		t.Fatalf("Failed to copy back: %v", err)
	}
	want := []int64{0, 1, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected staged indices %v, got %v", want, got)
			break
		}
	}
}

func TestStageIndexTable_Int32MarksAbsentSlots(t *testing.T) {
	device := CreateTestDevice()
	defer device.Free()

	// Component 1 misses node 2; its slot must stage as AbsentIndex.
	m := buildLineMesh(t, 3)
	cmap := dof.NewMeshComponentMap([]*mesh.MeshSubsets{
		nodeComponent(t, m, "u", []int{0, 1, 2}),
		nodeComponent(t, m, "v", []int{0, 1}),
	}, dof.ByLocation)
	l2g, err := assembly.NewLocalToGlobalIndexMap(cmap, m, []int{0, 1}, assembly.NodeMajor)
	if err != nil {
		t.Fatalf("Failed to build index map: %v", err)
	}

	tbl, err := StageIndexTable(device, l2g, Config{IndexType: Int32})
	if err != nil {
		t.Fatalf("Failed to stage index table: %v", err)
	}
	defer tbl.Free()

	got, err := tbl.CopyBack()
	if err != nil {
		t.Fatalf("Failed to copy back: %v", err)
	}

	// Element 1 slots: node 1 comps {0,1}, node 2 comp 0 resolved, comp 1 absent.
	start, end := tbl.RowSlice(1)
	row := got[start:end]
	if len(row) != 4 {
		t.Fatalf("Expected 4 slots in element 1, got %d", len(row))
	}
	if row[3] != AbsentIndex {
		t.Errorf("Expected AbsentIndex in last slot, got %v", row)
	}
	for i := 0; i < 3; i++ {
		if row[i] < 0 {
			t.Errorf("Unexpected sentinel at resolved slot %d: %v", i, row)
		}
	}
}

func TestStageIndexTable_Int32Overflow(t *testing.T) {
	device := CreateTestDevice()
	defer device.Free()

	m := buildLineMesh(t, 3)
	cmap := dof.NewMeshComponentMap([]*mesh.MeshSubsets{
		nodeComponent(t, m, "u", []int{0, 1, 2}),
	}, dof.ByComponent)
	cmap.RenumberByLocation(dof.GlobalIndex(math.MaxInt32) + 10)

	l2g, err := assembly.NewLocalToGlobalIndexMap(cmap, m, []int{0}, assembly.NodeMajor)
	if err != nil {
		t.Fatalf("Failed to build index map: %v", err)
	}

	if _, err := StageIndexTable(device, l2g, Config{IndexType: Int32}); err == nil {
		t.Error("Expected overflow error for Int32 staging")
	}
	tbl, err := StageIndexTable(device, l2g, Config{IndexType: Int64})
	if err != nil {
		t.Fatalf("Int64 staging should accept large indices: %v", err)
	}
	tbl.Free()
}

func TestStageIndexTable_Validation(t *testing.T) {
	l2g := lineIndexMap(t)
	if _, err := StageIndexTable(nil, l2g, Config{}); err == nil {
		t.Error("Expected error for nil device")
	}

	device := CreateTestDevice()
	defer device.Free()
	if _, err := StageIndexTable(device, nil, Config{}); err == nil {
		t.Error("Expected error for nil index map")
	}
}

func TestIndexTable_FreeIsIdempotent(t *testing.T) {
	device := CreateTestDevice()
	defer device.Free()

	tbl, err := StageIndexTable(device, lineIndexMap(t), Config{})
	if err != nil {
		t.Fatalf("Failed to stage index table: %v", err)
	}

	tbl.Free()
	tbl.Free()

	if _, err := tbl.CopyBack(); err == nil {
		t.Error("Expected error copying back from freed table")
	}
}
