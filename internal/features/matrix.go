package features

import (
	"gonum.org/v1/gonum/mat"
)

// Row is one sparse document vector. Indices are strictly increasing.
type Row struct {
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
}

// Matrix is a compressed-row document-term matrix. It satisfies
// mat.Matrix and mat.RowNonZeroDoer so it can be handed to gonum code
// without densifying.
type Matrix struct {
	NumRows int   `json:"rows"`
	NumCols int   `json:"cols"`
	Data    []Row `json:"data"`
}

var (
	_ mat.Matrix         = (*Matrix)(nil)
	_ mat.RowNonZeroDoer = (*Matrix)(nil)
)

func (m *Matrix) Dims() (r, c int) { return m.NumRows, m.NumCols }

func (m *Matrix) At(i, j int) float64 {
	if i < 0 || i >= m.NumRows || j < 0 || j >= m.NumCols {
		panic(mat.ErrIndexOutOfRange)
	}
	row := m.Data[i]
	for k, idx := range row.Indices {
		if idx == j {
			return row.Values[k]
		}
		if idx > j {
			break
		}
	}
	return 0
}

func (m *Matrix) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// DoRowNonZero calls fn for every stored entry of row i.
func (m *Matrix) DoRowNonZero(i int, fn func(i, j int, v float64)) {
	row := m.Data[i]
	for k, j := range row.Indices {
		fn(i, j, row.Values[k])
	}
}

// NNZ returns the number of stored entries.
func (m *Matrix) NNZ() int {
	n := 0
	for _, r := range m.Data {
		n += len(r.Indices)
	}
	return n
}
