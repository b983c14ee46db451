package toolbox

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

// ErrNonFiniteLoss is returned when the loss becomes NaN or infinite.  This
// usually means the learning rate is too large or the input is not
// standardized.
var ErrNonFiniteLoss = errors.New("loss is not finite")

// Config controls a training run.
type Config struct {
	Topology

	LearningRate float64
	Beta         float64 // L2 weight decay
	Iterations   int
	Seed         uint64 // Only used by Train.

	// OnIteration, if set, is called after every update.  The values it
	// receives must not be modified.
	OnIteration func(Iteration)
}

// Iteration describes one completed forward/backward/update round.
type Iteration struct {
	Index      int // 0-based
	Loss       float64
	Output     *mat.Dense  // Forward output, computed before the update.
	Parameters *Parameters // Parameters after the update.
}

// Result is the outcome of a training run.
type Result struct {
	// Output is the forward output of the last round.  It was computed with
	// the parameters from before that round's update, so it does not reflect
	// the final Parameters.  Nil if no round ran.
	Output *mat.Dense

	// Parameters after the last update.
	Parameters *Parameters

	// Losses[i] is the loss of round i.
	Losses []float64

	Timings Timings
}

// Timings accumulates wall time spent in each phase of training.
type Timings struct {
	Overall  time.Duration
	Forward  time.Duration
	Backward time.Duration
	Update   time.Duration
}

// Train initializes parameters from cfg.Seed and trains them on (x, y).
//
// x is the standardized input.  Shape (batchSize, cfg.InputUnits)
// y is the one-hot ground truth.  Shape (batchSize, cfg.OutputUnits)
func Train(x, y *mat.Dense, cfg Config) (*Result, error) {
	return TrainFrom(x, y, Initialize(cfg.Topology, cfg.Seed), cfg)
}

// TrainFrom runs exactly cfg.Iterations rounds of full-batch gradient descent
// starting from p.  p itself is left untouched.  cfg.Topology and cfg.Seed are
// ignored; the topology comes from p.
func TrainFrom(x, y *mat.Dense, p *Parameters, cfg Config) (*Result, error) {
	checkLabels(x, y, p.Topology())

	res := &Result{
		Parameters: p.Clone(),
	}
	if cfg.Iterations > 0 {
		res.Losses = make([]float64, 0, cfg.Iterations)
	}

	start := time.Now()
	defer func() {
		res.Timings.Overall += time.Since(start)
	}()

	for i := 0; i < cfg.Iterations; i++ {
		forwardStart := time.Now()
		cache, output, loss := Forward(x, y, res.Parameters)
		res.Timings.Forward += time.Since(forwardStart)

		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return res, fmt.Errorf("iteration %d: %w (got %v)", i, ErrNonFiniteLoss, loss)
		}

		backwardStart := time.Now()
		grads := Backward(x, y, res.Parameters, cache)
		res.Timings.Backward += time.Since(backwardStart)

		updateStart := time.Now()
		res.Parameters = Update(res.Parameters, grads, cfg.LearningRate, cfg.Beta)
		res.Timings.Update += time.Since(updateStart)

		res.Output = output
		res.Losses = append(res.Losses, loss)

		if cfg.OnIteration != nil {
			cfg.OnIteration(Iteration{
				Index:      i,
				Loss:       loss,
				Output:     output,
				Parameters: res.Parameters,
			})
		}
	}

	return res, nil
}
