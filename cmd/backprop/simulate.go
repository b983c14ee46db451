package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/ahmedtd/backprop/dataset"
	"github.com/google/subcommands"
)

type SimulateCommand struct {
	outputFile string
	numPoints  int
	noise      float64
	seed       int64
}

var _ subcommands.Command = (*SimulateCommand)(nil)

func (*SimulateCommand) Name() string {
	return "simulate"
}

func (*SimulateCommand) Synopsis() string {
	return "Generate a two-class synthetic data set"
}

func (*SimulateCommand) Usage() string {
	return `simulate --output-file=points.npz:
  Write points of the unit square labeled by the line x1 = x0.  Train on them
  with --data-file=points.npz and a config with input_units: 2 and
  output_units: 2.
`
}

func (c *SimulateCommand) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputFile, "output-file", "synthetic.npz", "Path of the .npz file to write")
	f.IntVar(&c.numPoints, "points", 1000, "Number of points")
	f.Float64Var(&c.noise, "noise", 0, "Standard deviation of the noise added to each coordinate")
	f.Int64Var(&c.seed, "seed", 12345, "Random seed")
}

func (c *SimulateCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.executeErr(ctx); err != nil {
		log.Printf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *SimulateCommand) executeErr(ctx context.Context) error {
	if c.numPoints <= 0 {
		return fmt.Errorf("points must be > 0 (got %d)", c.numPoints)
	}

	ds := dataset.Synthetic(c.numPoints, c.noise, c.seed)

	numOnes := 0
	for _, l := range ds.Labels {
		numOnes += l
	}
	log.Printf("data set has %d 1s and %d 0s", numOnes, ds.Len()-numOnes)

	// Same array names as config.Default, so only data_file needs setting.
	if err := dataset.WriteNPZ(c.outputFile, ds, "x.npy", "y.npy"); err != nil {
		return fmt.Errorf("while writing data set: %w", err)
	}
	log.Printf("Wrote %s", c.outputFile)
	return nil
}
