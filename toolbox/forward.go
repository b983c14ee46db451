package toolbox

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// probabilityFloor clamps softmax outputs before taking the log, so the loss
// is finite even when a true class gets (numerically) zero probability.
//
// https://stackoverflow.com/a/70608107
const probabilityFloor = 1e-12

// Cache holds the forward intermediates that Backward needs.  It is only
// valid for the parameters and batch it was computed from.
type Cache struct {
	Z1 *mat.Dense // Hidden pre-activation.  Shape (batchSize, HiddenUnits)
	A1 *mat.Dense // Hidden activation.  Shape (batchSize, HiddenUnits)
	A2 *mat.Dense // Output probabilities.  Shape (batchSize, OutputUnits)
}

// Forward applies the network to x and computes the loss against y.
//
// x is the input.  Shape (batchSize, InputUnits)
// y is the one-hot ground truth.  Shape (batchSize, OutputUnits)
//
// The returned output is the same matrix as cache.A2.
func Forward(x, y *mat.Dense, p *Parameters) (*Cache, *mat.Dense, float64) {
	checkLabels(x, y, p.Topology())

	c := forward(x, p)
	return c, c.A2, CrossEntropy(y, c.A2)
}

// Predict returns the class probabilities for x.  Shape (batchSize,
// OutputUnits)
func Predict(x *mat.Dense, p *Parameters) *mat.Dense {
	return forward(x, p).A2
}

func forward(x *mat.Dense, p *Parameters) *Cache {
	t := p.Topology()
	if _, cols := x.Dims(); cols != t.InputUnits {
		panic(fmt.Sprintf("dimension mismatch: x has %d columns, want %d", cols, t.InputUnits))
	}

	c := &Cache{}
	c.Z1 = affine(x, p.W1, p.B1)
	c.A1 = ReLU(c.Z1)
	c.A2 = Softmax(affine(c.A1, p.W2, p.B2))
	return c
}

// affine computes a·w + bᵀ, broadcasting b across the rows.
func affine(a, w *mat.Dense, b *mat.VecDense) *mat.Dense {
	var z mat.Dense
	z.Mul(a, w)
	z.Apply(func(_, j int, v float64) float64 {
		return v + b.AtVec(j)
	}, &z)
	return &z
}

// CrossEntropy returns -Σ y·log(a), summed over the whole batch (not
// averaged).
//
// y is the one-hot ground truth.  Shape (batchSize, OutputUnits)
// a is the predicted probabilities.  Shape (batchSize, OutputUnits)
func CrossEntropy(y, a mat.Matrix) float64 {
	yr, yc := y.Dims()
	ar, ac := a.Dims()
	if yr != ar || yc != ac {
		panic(fmt.Sprintf("dimension mismatch: y is %dx%d, a is %dx%d", yr, yc, ar, ac))
	}

	loss := 0.0
	for k := 0; k < yr; k++ {
		for i := 0; i < yc; i++ {
			target := y.At(k, i)
			if target == 0 {
				continue
			}
			loss -= target * math.Log(math.Max(a.At(k, i), probabilityFloor))
		}
	}
	return loss
}

func checkLabels(x, y *mat.Dense, t Topology) {
	xr, _ := x.Dims()
	yr, yc := y.Dims()
	if xr != yr {
		panic(fmt.Sprintf("dimension mismatch: x has %d rows, y has %d", xr, yr))
	}
	if yc != t.OutputUnits {
		panic(fmt.Sprintf("dimension mismatch: y has %d columns, want %d", yc, t.OutputUnits))
	}
}
