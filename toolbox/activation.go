package toolbox

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ReLU returns a new matrix holding max(z, 0) elementwise.  NaN passes
// through unchanged.
func ReLU(z mat.Matrix) *mat.Dense {
	var a mat.Dense
	a.Apply(func(_, _ int, v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}, z)
	return &a
}

// ReLUDerivative returns a new matrix holding the derivative of ReLU at z.
//
// The derivative at exactly zero is taken to be 1, so an example whose
// pre-activation lands on the kink still propagates gradient.
func ReLUDerivative(z mat.Matrix) *mat.Dense {
	var d mat.Dense
	d.Apply(func(_, _ int, v float64) float64 {
		if v >= 0 {
			return 1
		}
		return 0
	}, z)
	return &d
}

// Softmax normalizes each row of z into a probability distribution over the
// columns.
func Softmax(z mat.Matrix) *mat.Dense {
	a := mat.DenseCopyOf(z)
	rows, _ := a.Dims()
	for k := 0; k < rows; k++ {
		softmaxRow(a.RawRowView(k))
	}
	return a
}

// softmaxRow replaces row with its softmax.
func softmaxRow(row []float64) {
	// For stability, use the identity softmax(v) = softmax(v - c), and
	// subtract the maximum element of the row before exponentiating.
	//
	// https://stackoverflow.com/questions/42599498/numerically-stable-softmax
	maxz := floats.Max(row)
	for i, v := range row {
		row[i] = math.Exp(v - maxz)
	}
	floats.Scale(1/floats.Sum(row), row)
}
