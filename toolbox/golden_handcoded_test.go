package toolbox

import (
	"math"
	"math/rand"
	"testing"
)

func TestAgreesWithHandcodedNetwork(t *testing.T) {
	learningRate := 0.1
	beta := 0.001
	steps := 200

	topo := Topology{InputUnits: 3, HiddenUnits: 4, OutputUnits: 3}
	r := rand.New(rand.NewSource(12345))
	x, y := randomBatch(r, 12, topo)

	res, err := Train(x, y, Config{
		Topology:     topo,
		LearningRate: learningRate,
		Beta:         beta,
		Iterations:   steps,
		Seed:         12345,
	})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	init := Initialize(topo, 12345)
	h := &handNet{
		w1: rowsOf(init.W1),
		b1: append([]float64(nil), init.B1.RawVector().Data...),
		w2: rowsOf(init.W2),
		b2: append([]float64(nil), init.B2.RawVector().Data...),
	}
	xs, ys := rowsOf(x), rowsOf(y)
	var handLoss float64
	for s := 0; s < steps; s++ {
		handLoss = h.step(xs, ys, learningRate, beta)
	}

	t.Logf("toolbox loss=%v hand loss=%v", res.Losses[steps-1], handLoss)
	if math.Abs(res.Losses[steps-1]-handLoss) > 1e-9 {
		t.Errorf("Disagreement on final loss; got %v, want %v", res.Losses[steps-1], handLoss)
	}

	for i := range h.w1 {
		for j := range h.w1[i] {
			if math.Abs(res.Parameters.W1.At(i, j)-h.w1[i][j]) > 1e-9 {
				t.Errorf("Disagreement on W1[%d][%d]; got %v, want %v", i, j, res.Parameters.W1.At(i, j), h.w1[i][j])
			}
		}
	}
	for j := range h.b1 {
		if math.Abs(res.Parameters.B1.AtVec(j)-h.b1[j]) > 1e-9 {
			t.Errorf("Disagreement on B1[%d]; got %v, want %v", j, res.Parameters.B1.AtVec(j), h.b1[j])
		}
	}
	for i := range h.w2 {
		for j := range h.w2[i] {
			if math.Abs(res.Parameters.W2.At(i, j)-h.w2[i][j]) > 1e-9 {
				t.Errorf("Disagreement on W2[%d][%d]; got %v, want %v", i, j, res.Parameters.W2.At(i, j), h.w2[i][j])
			}
		}
	}
	for j := range h.b2 {
		if math.Abs(res.Parameters.B2.AtVec(j)-h.b2[j]) > 1e-9 {
			t.Errorf("Disagreement on B2[%d]; got %v, want %v", j, res.Parameters.B2.AtVec(j), h.b2[j])
		}
	}
}

// handNet is the same network written out one scalar at a time.
type handNet struct {
	w1 [][]float64 // [input][hidden]
	b1 []float64
	w2 [][]float64 // [hidden][output]
	b2 []float64
}

// step runs one forward/backward/update round and returns the loss it saw.
func (h *handNet) step(x, y [][]float64, learningRate, beta float64) float64 {
	batchSize := len(x)
	inputSize := len(h.w1)
	hiddenSize := len(h.b1)
	outputSize := len(h.b2)

	dw1 := make([][]float64, inputSize)
	for i := range dw1 {
		dw1[i] = make([]float64, hiddenSize)
	}
	db1 := make([]float64, hiddenSize)
	dw2 := make([][]float64, hiddenSize)
	for i := range dw2 {
		dw2[i] = make([]float64, outputSize)
	}
	db2 := make([]float64, outputSize)

	loss := 0.0
	for k := 0; k < batchSize; k++ {
		z1 := make([]float64, hiddenSize)
		a1 := make([]float64, hiddenSize)
		for j := 0; j < hiddenSize; j++ {
			z := h.b1[j]
			for i := 0; i < inputSize; i++ {
				z += x[k][i] * h.w1[i][j]
			}
			z1[j] = z
			a1[j] = math.Max(z, 0)
		}

		z2 := make([]float64, outputSize)
		maxz := math.Inf(-1)
		for c := 0; c < outputSize; c++ {
			z := h.b2[c]
			for j := 0; j < hiddenSize; j++ {
				z += a1[j] * h.w2[j][c]
			}
			z2[c] = z
			maxz = math.Max(maxz, z)
		}
		sum := 0.0
		a2 := make([]float64, outputSize)
		for c := range z2 {
			a2[c] = math.Exp(z2[c] - maxz)
			sum += a2[c]
		}
		for c := range a2 {
			a2[c] /= sum
			if y[k][c] == 1 {
				loss -= math.Log(a2[c])
			}
		}

		dz2 := make([]float64, outputSize)
		for c := range dz2 {
			dz2[c] = a2[c] - y[k][c]
			db2[c] += dz2[c] / float64(batchSize)
			for j := 0; j < hiddenSize; j++ {
				dw2[j][c] += a1[j] * dz2[c] / float64(batchSize)
			}
		}

		for j := 0; j < hiddenSize; j++ {
			if z1[j] < 0 {
				continue
			}
			dz1 := 0.0
			for c := 0; c < outputSize; c++ {
				dz1 += dz2[c] * h.w2[j][c]
			}
			db1[j] += dz1 / float64(batchSize)
			for i := 0; i < inputSize; i++ {
				dw1[i][j] += x[k][i] * dz1 / float64(batchSize)
			}
		}
	}

	for i := range h.w1 {
		for j := range h.w1[i] {
			h.w1[i][j] -= learningRate * (dw1[i][j] + beta*h.w1[i][j])
		}
	}
	for j := range h.b1 {
		h.b1[j] -= learningRate * (db1[j] + beta*h.b1[j])
	}
	for j := range h.w2 {
		for c := range h.w2[j] {
			h.w2[j][c] -= learningRate * (dw2[j][c] + beta*h.w2[j][c])
		}
	}
	for c := range h.b2 {
		h.b2[c] -= learningRate * (db2[c] + beta*h.b2[c])
	}

	return loss
}
