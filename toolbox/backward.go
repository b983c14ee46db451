package toolbox

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Gradients holds the derivative of the batch-averaged loss with respect to
// each parameter tensor.  Shapes match Parameters.
type Gradients struct {
	W1 *mat.Dense
	B1 *mat.VecDense
	W2 *mat.Dense
	B2 *mat.VecDense
}

// Backward computes the gradients of the loss for the forward pass recorded
// in c.
//
// x is the input.  Shape (batchSize, InputUnits)
// y is the one-hot ground truth.  Shape (batchSize, OutputUnits)
func Backward(x, y *mat.Dense, p *Parameters, c *Cache) *Gradients {
	t := p.Topology()
	checkLabels(x, y, t)

	batchSize, _ := x.Dims()
	if r, _ := c.A2.Dims(); r != batchSize {
		panic(fmt.Sprintf("dimension mismatch: cache holds %d examples, x has %d", r, batchSize))
	}
	m := float64(batchSize)

	// Softmax followed by cross-entropy has the combined derivative a - y
	// with respect to the output pre-activation.
	var dz2 mat.Dense
	dz2.Sub(c.A2, y)

	// Push the error back through W2, then through the ReLU.  The mask comes
	// from the cached pre-activation, not from the activation.
	var dz1 mat.Dense
	dz1.Mul(&dz2, p.W2.T())
	dz1.MulElem(&dz1, ReLUDerivative(c.Z1))

	g := &Gradients{}

	g.W2 = &mat.Dense{}
	g.W2.Mul(c.A1.T(), &dz2)
	g.W2.Scale(1/m, g.W2)
	g.B2 = columnMeans(&dz2)

	g.W1 = &mat.Dense{}
	g.W1.Mul(x.T(), &dz1)
	g.W1.Scale(1/m, g.W1)
	g.B1 = columnMeans(&dz1)

	return g
}

// columnMeans sums d over its rows and divides by the row count.
func columnMeans(d *mat.Dense) *mat.VecDense {
	rows, cols := d.Dims()
	sum := make([]float64, cols)
	for k := 0; k < rows; k++ {
		floats.Add(sum, d.RawRowView(k))
	}
	floats.Scale(1/float64(rows), sum)
	return mat.NewVecDense(cols, sum)
}
