package assembly

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/dofmap/dof"
)

// GlobalSystem holds a sparse global matrix and dense right-hand side
// under assembly. The matrix accumulates in DOK form; convert to CSR
// once assembly is finished.
type GlobalSystem struct {
	n int
	a *sparse.DOK
	b *mat.VecDense
}

// NewGlobalSystem allocates an empty n by n system
func NewGlobalSystem(n int) (*GlobalSystem, error) {
	if n <= 0 {
		return nil, fmt.Errorf("global system: size %d must be positive", n)
	}
	return &GlobalSystem{
		n: n,
		a: sparse.NewDOK(n, n),
		b: mat.NewVecDense(n, nil),
	}, nil
}

// NumDOFs returns the system size
func (s *GlobalSystem) NumDOFs() int { return s.n }

// At returns the accumulated matrix entry (i, j)
func (s *GlobalSystem) At(i, j int) float64 { return s.a.At(i, j) }

// Matrix finalizes the assembled matrix in CSR form
func (s *GlobalSystem) Matrix() *sparse.CSR { return s.a.ToCSR() }

// RHS returns the assembled right-hand side vector
func (s *GlobalSystem) RHS() *mat.VecDense { return s.b }

func (s *GlobalSystem) String() string {
	return fmt.Sprintf("global system: %d dofs, %d nonzeros", s.n, s.a.NNZ())
}

// Assembler adds element contributions into a global system using a
// local-to-global index map. Local slots holding dof.NoIndex are
// silently skipped, so element matrices may cover components the
// global system does not.
type Assembler struct {
	l2g *LocalToGlobalIndexMap
	sys *GlobalSystem
}

// NewAssembler pairs an index map with a matching global system
func NewAssembler(l2g *LocalToGlobalIndexMap, sys *GlobalSystem) (*Assembler, error) {
	if l2g == nil || sys == nil {
		return nil, fmt.Errorf("assembler: index map and system cannot be nil")
	}
	if sys.NumDOFs() != l2g.NumDOFs() {
		return nil, fmt.Errorf("assembler: system has %d dofs, index map expects %d",
			sys.NumDOFs(), l2g.NumDOFs())
	}
	return &Assembler{l2g: l2g, sys: sys}, nil
}

// Add scatters element k's local matrix Ke and load vector fe into the
// global system. Ke must be square with one row per local slot; fe may
// be nil when the element contributes no load.
func (a *Assembler) Add(k int, Ke mat.Matrix, fe []float64) error {
	if k < 0 || k >= a.l2g.NumElements() {
		return fmt.Errorf("assembler: element %d out of range [0,%d)", k, a.l2g.NumElements())
	}
	row := a.l2g.RowIndices(k)
	n := len(row)

	if Ke != nil {
		r, c := Ke.Dims()
		if r != n || c != n {
			return fmt.Errorf("assembler: element %d matrix is %dx%d, expected %dx%d",
				k, r, c, n, n)
		}
	}
	if fe != nil && len(fe) != n {
		return fmt.Errorf("assembler: element %d load vector has %d entries, expected %d",
			k, len(fe), n)
	}

	for i := 0; i < n; i++ {
		gi := row[i]
		if gi == dof.NoIndex {
			continue
		}
		if fe != nil {
			a.sys.b.SetVec(int(gi), a.sys.b.AtVec(int(gi))+fe[i])
		}
		if Ke == nil {
			continue
		}
		for j := 0; j < n; j++ {
			gj := row[j]
			if gj == dof.NoIndex {
				continue
			}
			v := Ke.At(i, j)
			if v == 0 {
				continue
			}
			a.sys.a.Set(int(gi), int(gj), a.sys.a.At(int(gi), int(gj))+v)
		}
	}
	return nil
}

// AddAll assembles every element, fetching the local contribution from
// the callback. Returning a nil matrix skips the element.
func (a *Assembler) AddAll(local func(k int) (mat.Matrix, []float64)) error {
	for k := 0; k < a.l2g.NumElements(); k++ {
		Ke, fe := local(k)
		if Ke == nil && fe == nil {
			continue
		}
		if err := a.Add(k, Ke, fe); err != nil {
			return err
		}
	}
	return nil
}
