package toolbox

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// GradientCheckReport compares Backward against a numerical derivative.
// Each field is the largest absolute difference found in that tensor.
type GradientCheckReport struct {
	W1, B1, W2, B2 float64
}

// Max returns the largest difference over all tensors.
func (r GradientCheckReport) Max() float64 {
	return math.Max(math.Max(r.W1, r.B1), math.Max(r.W2, r.B2))
}

// GradientCheck differentiates the batch-averaged loss at p with centered
// finite differences and compares the result with Backward.  step is the
// finite difference step; zero selects the fd package default.
//
// The check only holds away from the ReLU kink: if a step moves some hidden
// pre-activation across zero, the two derivatives legitimately disagree.
func GradientCheck(x, y *mat.Dense, p *Parameters, step float64) GradientCheckReport {
	cache, _, _ := Forward(x, y, p)
	analytic := Backward(x, y, p, cache)

	batchSize, _ := x.Dims()
	trial := p.Clone()
	loss := func(theta []float64) float64 {
		trial.unflatten(theta)
		return CrossEntropy(y, Predict(x, trial)) / float64(batchSize)
	}

	theta := p.flatten(nil)
	numeric := fd.Gradient(nil, loss, theta, &fd.Settings{
		Formula: fd.Central,
		Step:    step,
	})

	got := p.Clone()
	got.unflatten(numeric)

	return GradientCheckReport{
		W1: maxAbsDiff(got.W1, analytic.W1),
		B1: maxAbsDiff(got.B1, analytic.B1),
		W2: maxAbsDiff(got.W2, analytic.W2),
		B2: maxAbsDiff(got.B2, analytic.B2),
	}
}

func maxAbsDiff(a, b mat.Matrix) float64 {
	var d mat.Dense
	d.Sub(a, b)
	rows, _ := d.Dims()
	maxDiff := 0.0
	for i := 0; i < rows; i++ {
		maxDiff = math.Max(maxDiff, floats.Norm(d.RawRowView(i), math.Inf(1)))
	}
	return maxDiff
}
