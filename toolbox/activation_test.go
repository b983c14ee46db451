package toolbox

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestReLU(t *testing.T) {
	z := mat.NewDense(2, 3, []float64{
		-2, 0, 3.5,
		1e-9, -1e-9, 7,
	})

	got := rowsOf(ReLU(z))
	want := [][]float64{
		{0, 0, 3.5},
		{1e-9, 0, 7},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("Wrong ReLU output; diff (-got +want)\n%s", diff)
	}
}

func TestReLUPropagatesNaN(t *testing.T) {
	z := mat.NewDense(1, 2, []float64{math.NaN(), -1})

	a := ReLU(z)
	if !math.IsNaN(a.At(0, 0)) {
		t.Errorf("relu(NaN) = %v, want NaN", a.At(0, 0))
	}
	if a.At(0, 1) != 0 {
		t.Errorf("relu(-1) = %v, want 0", a.At(0, 1))
	}
}

func TestReLUIsNonNegativeAndIdentityOnPositives(t *testing.T) {
	r := rand.New(rand.NewSource(12345))

	z := mat.NewDense(20, 7, nil)
	for i := 0; i < 20; i++ {
		for j := 0; j < 7; j++ {
			z.Set(i, j, 10*r.NormFloat64())
		}
	}

	a := ReLU(z)
	for i := 0; i < 20; i++ {
		for j := 0; j < 7; j++ {
			if a.At(i, j) < 0 {
				t.Errorf("relu(%v) = %v, want >= 0", z.At(i, j), a.At(i, j))
			}
			if z.At(i, j) >= 0 && a.At(i, j) != z.At(i, j) {
				t.Errorf("relu(%v) = %v, want identity", z.At(i, j), a.At(i, j))
			}
		}
	}
}

func TestReLUDerivative(t *testing.T) {
	z := mat.NewDense(1, 5, []float64{-3, -1e-12, 0, 1e-12, 4})

	got := rowsOf(ReLUDerivative(z))
	want := [][]float64{{0, 0, 1, 1, 1}}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("Wrong ReLU derivative; diff (-got +want)\n%s", diff)
	}
}

func TestSoftmaxRowsSumToOne(t *testing.T) {
	r := rand.New(rand.NewSource(12345))

	z := mat.NewDense(50, 4, nil)
	for i := 0; i < 50; i++ {
		for j := 0; j < 4; j++ {
			z.Set(i, j, 5*r.NormFloat64())
		}
	}
	// Logits this large overflow exp() without the max-subtraction.
	z.SetRow(0, []float64{1000, 999, -1000, 0})
	z.SetRow(1, []float64{-1e6, -1e6, -1e6, -1e6})

	a := Softmax(z)
	for i := 0; i < 50; i++ {
		row := a.RawRowView(i)
		if sum := floats.Sum(row); math.Abs(sum-1) > 1e-12 {
			t.Errorf("row %d sums to %v, want 1", i, sum)
		}
		for j, v := range row {
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Errorf("row %d col %d: probability %v out of range", i, j, v)
			}
		}
	}

	if diff := cmp.Diff(a.RawRowView(1), []float64{0.25, 0.25, 0.25, 0.25}, cmpopts.EquateApprox(0, 1e-15)); diff != "" {
		t.Errorf("Wrong softmax of equal logits; diff (-got +want)\n%s", diff)
	}
}

func TestSoftmaxDoesNotModifyInput(t *testing.T) {
	z := mat.NewDense(1, 3, []float64{1, 2, 3})
	_ = Softmax(z)

	if diff := cmp.Diff(z.RawRowView(0), []float64{1, 2, 3}); diff != "" {
		t.Fatalf("Softmax modified its input; diff (-got +want)\n%s", diff)
	}
}

func TestSoftmaxKnownValues(t *testing.T) {
	z := mat.NewDense(1, 2, []float64{2, 1})

	e := math.Exp(1)
	want := []float64{e / (e + 1), 1 / (e + 1)}
	if diff := cmp.Diff(Softmax(z).RawRowView(0), want, cmpopts.EquateApprox(0, 1e-15)); diff != "" {
		t.Fatalf("Wrong softmax; diff (-got +want)\n%s", diff)
	}
}
