package toolbox

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Topology fixes the widths of the three layers.
type Topology struct {
	InputUnits  int
	HiddenUnits int
	OutputUnits int
}

func (t Topology) check() {
	if t.InputUnits <= 0 || t.HiddenUnits <= 0 || t.OutputUnits <= 0 {
		panic(fmt.Sprintf("invalid topology: %+v", t))
	}
}

// Parameters holds the learnable tensors of the network.
type Parameters struct {
	W1 *mat.Dense    // Shape (InputUnits, HiddenUnits)
	B1 *mat.VecDense // Shape (HiddenUnits)
	W2 *mat.Dense    // Shape (HiddenUnits, OutputUnits)
	B2 *mat.VecDense // Shape (OutputUnits)
}

// Initialize creates parameters for t.  Weights are standard normal draws
// from NewNormalSource(seed), W1 first, each in row-major order.  Biases start
// at one.
func Initialize(t Topology, seed uint64) *Parameters {
	t.check()

	src := NewNormalSource(seed)

	p := &Parameters{
		W1: mat.NewDense(t.InputUnits, t.HiddenUnits, nil),
		B1: mat.NewVecDense(t.HiddenUnits, nil),
		W2: mat.NewDense(t.HiddenUnits, t.OutputUnits, nil),
		B2: mat.NewVecDense(t.OutputUnits, nil),
	}

	for i := 0; i < t.InputUnits; i++ {
		for j := 0; j < t.HiddenUnits; j++ {
			p.W1.Set(i, j, src.NormFloat64())
		}
	}
	for i := 0; i < t.HiddenUnits; i++ {
		for j := 0; j < t.OutputUnits; j++ {
			p.W2.Set(i, j, src.NormFloat64())
		}
	}
	for i := 0; i < t.HiddenUnits; i++ {
		p.B1.SetVec(i, 1)
	}
	for i := 0; i < t.OutputUnits; i++ {
		p.B2.SetVec(i, 1)
	}

	return p
}

// Topology reports the layer widths implied by the tensor shapes.  It panics
// if the tensors disagree with each other.
func (p *Parameters) Topology() Topology {
	in, hidden := p.W1.Dims()
	hidden2, out := p.W2.Dims()
	if hidden != hidden2 {
		panic(fmt.Sprintf("dimension mismatch: W1 is %dx%d but W2 is %dx%d", in, hidden, hidden2, out))
	}
	if p.B1.Len() != hidden {
		panic(fmt.Sprintf("dimension mismatch: len(B1)=%d, hidden units=%d", p.B1.Len(), hidden))
	}
	if p.B2.Len() != out {
		panic(fmt.Sprintf("dimension mismatch: len(B2)=%d, output units=%d", p.B2.Len(), out))
	}
	return Topology{InputUnits: in, HiddenUnits: hidden, OutputUnits: out}
}

// Clone returns a deep copy of p.
func (p *Parameters) Clone() *Parameters {
	return &Parameters{
		W1: mat.DenseCopyOf(p.W1),
		B1: mat.VecDenseCopyOf(p.B1),
		W2: mat.DenseCopyOf(p.W2),
		B2: mat.VecDenseCopyOf(p.B2),
	}
}

// Equal reports whether p and q hold identical values.
func (p *Parameters) Equal(q *Parameters) bool {
	return mat.Equal(p.W1, q.W1) &&
		mat.Equal(p.B1, q.B1) &&
		mat.Equal(p.W2, q.W2) &&
		mat.Equal(p.B2, q.B2)
}

// flatten appends every parameter value to dst in the order W1, B1, W2, B2.
func (p *Parameters) flatten(dst []float64) []float64 {
	dst = appendDense(dst, p.W1)
	dst = append(dst, p.B1.RawVector().Data...)
	dst = appendDense(dst, p.W2)
	dst = append(dst, p.B2.RawVector().Data...)
	return dst
}

// unflatten is the inverse of flatten.  It overwrites p in place.
func (p *Parameters) unflatten(src []float64) {
	src = readDense(p.W1, src)
	src = readVec(p.B1, src)
	src = readDense(p.W2, src)
	src = readVec(p.B2, src)
	if len(src) != 0 {
		panic("unflatten: trailing values")
	}
}

func appendDense(dst []float64, m *mat.Dense) []float64 {
	rows, _ := m.Dims()
	for i := 0; i < rows; i++ {
		dst = append(dst, m.RawRowView(i)...)
	}
	return dst
}

func readDense(m *mat.Dense, src []float64) []float64 {
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		copy(m.RawRowView(i), src[:cols])
		src = src[cols:]
	}
	return src
}

func readVec(v *mat.VecDense, src []float64) []float64 {
	for i := 0; i < v.Len(); i++ {
		v.SetVec(i, src[i])
	}
	return src[v.Len():]
}
