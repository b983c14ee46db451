package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/ahmedtd/backprop/dataset"
	"github.com/google/subcommands"
)

type SampleCommand struct {
	population int
	size       int
	seed       uint64
}

var _ subcommands.Command = (*SampleCommand)(nil)

func (*SampleCommand) Name() string {
	return "sample"
}

func (*SampleCommand) Synopsis() string {
	return "Print the row indices drawn for a training subset"
}

func (*SampleCommand) Usage() string {
	return ``
}

func (c *SampleCommand) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.population, "population", 149, "Draw from [0, population)")
	f.IntVar(&c.size, "size", 5, "Number of indices to draw")
	f.Uint64Var(&c.seed, "seed", 3, "Seed, as passed to Python's random.seed")
}

func (c *SampleCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.executeErr(ctx); err != nil {
		log.Printf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *SampleCommand) executeErr(ctx context.Context) error {
	indices, err := dataset.SampleIndices(c.population, c.size, c.seed)
	if err != nil {
		return fmt.Errorf("while drawing indices: %w", err)
	}
	fmt.Println(indices)
	return nil
}
