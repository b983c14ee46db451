package dataset

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Synthetic generates n points uniformly in the unit square, labeled 1 above
// the line x1 = x0 and 0 below it.  After labeling, every coordinate is
// perturbed by Gaussian noise with standard deviation noise, so a nonzero
// noise makes the classes overlap near the boundary.
func Synthetic(n int, noise float64, seed int64) *Dataset {
	r := rand.New(rand.NewSource(seed))

	features := mat.NewDense(n, 2, nil)
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		// Generate a point and classify it according to the "true"
		// boundary.
		x0 := r.Float64()
		x1 := r.Float64()
		if x1 > x0 {
			labels[i] = 1
		}

		features.Set(i, 0, x0+noise*r.NormFloat64())
		features.Set(i, 1, x1+noise*r.NormFloat64())
	}

	return &Dataset{
		FeatureNames: []string{"x0", "x1"},
		Features:     features,
		Labels:       labels,
		NumClasses:   2,
	}
}
