package toolbox

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

var irisTopology = Topology{InputUnits: 4, HiddenUnits: 3, OutputUnits: 3}

// irisBatch returns iris rows 60, 139, 33, 94 and 121, standardized per
// column with the population standard deviation, and their one-hot labels.
func irisBatch() (x, y *mat.Dense) {
	x = mat.NewDense(5, 4, []float64{
		-1.1418506634519927, -1.3385073276795851, -0.27215156654775052, -0.45920926234423326,
		1.871366365101875, 0.19519898528660634, 1.0886062661910028, 1.1193225769640684,
		-0.34889881383255406, 1.7289052982527977, -1.7761470658905829, -1.6072324182048163,
		-0.19030844390866689, -0.36251240124655404, 0.22918026656652704, -0.0287005788965146,
		-0.19030844390866689, -0.2230845546132644, 0.73051209968080466, 0.97581968248149542,
	})
	y = mat.NewDense(5, 3, []float64{
		0, 1, 0,
		0, 0, 1,
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
	return x, y
}

// randomBatch generates a small standardized-looking batch with random
// one-hot labels.
func randomBatch(r *rand.Rand, batchSize int, t Topology) (x, y *mat.Dense) {
	x = mat.NewDense(batchSize, t.InputUnits, nil)
	y = mat.NewDense(batchSize, t.OutputUnits, nil)
	for k := 0; k < batchSize; k++ {
		for j := 0; j < t.InputUnits; j++ {
			x.Set(k, j, r.NormFloat64())
		}
		y.Set(k, r.Intn(t.OutputUnits), 1)
	}
	return x, y
}

// rowsOf copies m into a slice of rows so it can be diffed with cmp.
func rowsOf(m mat.Matrix) [][]float64 {
	rows, cols := m.Dims()
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}
