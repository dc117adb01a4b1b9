// Package device stages element index tables into OCCA device memory so
// scatter kernels can resolve local slots to global dofs on the device.
package device

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/notargets/gocca"

	"github.com/notargets/dofmap/assembly"
	"github.com/notargets/dofmap/dof"
)

// IndexType selects the integer width of staged indices
type IndexType int

const (
	Int32 IndexType = iota + 1
	Int64
)

func (t IndexType) String() string {
	switch t {
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	default:
		return fmt.Sprintf("IndexType(%d)", int(t))
	}
}

// Size returns the width in bytes
func (t IndexType) Size() int {
	if t == Int32 {
		return 4
	}
	return 8
}

// AbsentIndex marks an unresolved local slot in staged tables. The host
// sentinel dof.NoIndex does not survive narrowing to int32, so staging
// remaps it; kernels test for negative indices the same way face tables
// encode boundary faces.
const AbsentIndex int64 = -1

// Config holds staging options
type Config struct {
	IndexType IndexType // defaults to Int64
}

// IndexTable is a flattened local-to-global index map resident on an
// OCCA device. Element k's slots live at [Offsets[k], Offsets[k+1]) in
// the index array.
type IndexTable struct {
	NumElements int
	TotalSlots  int
	IndexType   IndexType

	// Host copy of the element offsets, NumElements+1 entries
	Offsets []int64

	// Device allocations
	IndicesMem *gocca.OCCAMemory
	OffsetsMem *gocca.OCCAMemory

	mode string
}

// StageIndexTable flattens the index map and uploads it to the device.
// Unresolved slots are rewritten to AbsentIndex. With Int32 staging,
// indices beyond the int32 range are rejected.
func StageIndexTable(dev *gocca.OCCADevice, l2g *assembly.LocalToGlobalIndexMap,
	cfg Config) (*IndexTable, error) {

	if dev == nil {
		return nil, fmt.Errorf("staging: device cannot be nil")
	}
	if l2g == nil {
		return nil, fmt.Errorf("staging: index map cannot be nil")
	}
	indexType := cfg.IndexType
	if indexType == 0 {
		indexType = Int64
	}

	// Flatten rows with prefix-sum offsets.
	offsets := make([]int64, l2g.NumElements()+1)
	flat := make([]int64, 0)
	for k := 0; k < l2g.NumElements(); k++ {
		row := l2g.RowIndices(k)
		offsets[k+1] = offsets[k] + int64(len(row))
		for i, idx := range row {
			if idx == dof.NoIndex {
				flat = append(flat, AbsentIndex)
				continue
			}
			if indexType == Int32 && int64(idx) > math.MaxInt32 {
				return nil, fmt.Errorf("staging: element %d slot %d: index %d exceeds int32 range",
					k, i, idx)
			}
			flat = append(flat, int64(idx))
		}
	}
	if len(flat) == 0 {
		return nil, fmt.Errorf("staging: index map has no local slots")
	}

	tbl := &IndexTable{
		NumElements: l2g.NumElements(),
		TotalSlots:  len(flat),
		IndexType:   indexType,
		Offsets:     offsets,
		mode:        dev.Mode(),
	}

	if indexType == Int32 {
		// Convert to int32 for device
		flat32 := make([]int32, len(flat))
		for i, v := range flat {
			flat32[i] = int32(v)
		}
		offsets32 := make([]int32, len(offsets))
		for i, v := range offsets {
			offsets32[i] = int32(v)
		}
		tbl.IndicesMem = dev.Malloc(int64(len(flat32)*4), unsafe.Pointer(&flat32[0]), nil)
		tbl.OffsetsMem = dev.Malloc(int64(len(offsets32)*4), unsafe.Pointer(&offsets32[0]), nil)
	} else {
		tbl.IndicesMem = dev.Malloc(int64(len(flat)*8), unsafe.Pointer(&flat[0]), nil)
		tbl.OffsetsMem = dev.Malloc(int64(len(offsets)*8), unsafe.Pointer(&offsets[0]), nil)
	}

	return tbl, nil
}

// RowSlice returns the half-open slot range of element k
func (t *IndexTable) RowSlice(k int) (start, end int64) {
	return t.Offsets[k], t.Offsets[k+1]
}

// CopyBack reads the staged indices from the device, widening int32
// tables back to int64
func (t *IndexTable) CopyBack() ([]int64, error) {
	if t.IndicesMem == nil {
		return nil, fmt.Errorf("staging: table already freed")
	}

	if t.IndexType == Int32 {
		deviceData := make([]int32, t.TotalSlots)
		t.IndicesMem.CopyTo(unsafe.Pointer(&deviceData[0]), int64(t.TotalSlots*4))
		out := make([]int64, t.TotalSlots)
		for i, v := range deviceData {
			out[i] = int64(v)
		}
		return out, nil
	}

	out := make([]int64, t.TotalSlots)
	t.IndicesMem.CopyTo(unsafe.Pointer(&out[0]), int64(t.TotalSlots*8))
	return out, nil
}

// Free releases the device allocations
func (t *IndexTable) Free() {
	if t.IndicesMem != nil {
		t.IndicesMem.Free()
		t.IndicesMem = nil
	}
	if t.OffsetsMem != nil {
		t.OffsetsMem.Free()
		t.OffsetsMem = nil
	}
}

func (t *IndexTable) String() string {
	return fmt.Sprintf("index table on %s device: %d elements, %d slots, %s indices",
		t.mode, t.NumElements, t.TotalSlots, t.IndexType)
}
