package toolbox

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Update takes one regularized gradient descent step and returns the new
// parameters.  p and g are not modified.
//
// Every tensor, biases included, moves by
//
//	θ ← θ - learningRate·(dθ + beta·θ)
//
// so beta acts as L2 weight decay.
func Update(p *Parameters, g *Gradients, learningRate, beta float64) *Parameters {
	checkSameShape("W1", p.W1, g.W1)
	checkSameShape("B1", p.B1, g.B1)
	checkSameShape("W2", p.W2, g.W2)
	checkSameShape("B2", p.B2, g.B2)

	return &Parameters{
		W1: stepDense(p.W1, g.W1, learningRate, beta),
		B1: stepVec(p.B1, g.B1, learningRate, beta),
		W2: stepDense(p.W2, g.W2, learningRate, beta),
		B2: stepVec(p.B2, g.B2, learningRate, beta),
	}
}

func stepDense(theta, grad *mat.Dense, learningRate, beta float64) *mat.Dense {
	var next mat.Dense
	next.Apply(func(i, j int, v float64) float64 {
		return v - learningRate*(grad.At(i, j)+beta*v)
	}, theta)
	return &next
}

func stepVec(theta, grad *mat.VecDense, learningRate, beta float64) *mat.VecDense {
	next := mat.NewVecDense(theta.Len(), nil)
	for i := 0; i < theta.Len(); i++ {
		v := theta.AtVec(i)
		next.SetVec(i, v-learningRate*(grad.AtVec(i)+beta*v))
	}
	return next
}

func checkSameShape(name string, theta, grad mat.Matrix) {
	tr, tc := theta.Dims()
	gr, gc := grad.Dims()
	if tr != gr || tc != gc {
		panic(fmt.Sprintf("dimension mismatch: %s is %dx%d, gradient is %dx%d", name, tr, tc, gr, gc))
	}
}
