package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/ahmedtd/backprop/dataset"
	"github.com/ahmedtd/backprop/toolbox"
	"github.com/google/subcommands"
	"gonum.org/v1/gonum/mat"
)

type TrainCommand struct {
	runFlags

	predictionsFile string
	verbose         bool

	cpuProfileFile string
}

var _ subcommands.Command = (*TrainCommand)(nil)

func (*TrainCommand) Name() string {
	return "train"
}

func (*TrainCommand) Synopsis() string {
	return "Train the network and report its predictions"
}

func (*TrainCommand) Usage() string {
	return `train [flags]:
  Train on the configured rows and log the loss of every iteration.
`
}

func (c *TrainCommand) SetFlags(f *flag.FlagSet) {
	c.runFlags.SetFlags(f)
	f.StringVar(&c.predictionsFile, "predictions-file", "", "Write the final output probabilities to this .npy file")
	f.BoolVar(&c.verbose, "verbose", false, "Log the weights and biases after every update")

	f.StringVar(&c.cpuProfileFile, "cpu-profile", "", "Write a CPU profile")
}

func (c *TrainCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.executeErr(ctx); err != nil {
		log.Printf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *TrainCommand) executeErr(ctx context.Context) error {
	if c.cpuProfileFile != "" {
		f, err := os.Create(c.cpuProfileFile)
		if err != nil {
			return fmt.Errorf("while creating CPU profile file: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("while starting CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	b, err := loadBatch(cfg)
	if err != nil {
		return err
	}
	log.Printf("Training on %d rows %v", len(b.indices), b.indices)

	trainCfg := cfg.TrainConfig()
	trainCfg.OnIteration = func(it toolbox.Iteration) {
		log.Printf("iteration %d loss=%f", it.Index, it.Loss)
		if c.verbose {
			logParameters(it.Parameters)
		}
	}

	result, err := toolbox.Train(b.x, b.y, trainCfg)
	if err != nil {
		return fmt.Errorf("while training: %w", err)
	}

	log.Printf("timings overall=%s forward=%s backward=%s update=%s",
		result.Timings.Overall,
		result.Timings.Forward,
		result.Timings.Backward,
		result.Timings.Update,
	)

	if result.Output == nil {
		log.Printf("No iterations ran")
		return nil
	}

	log.Printf("final probabilities:\n%v", mat.Formatted(result.Output, mat.Squeeze()))
	log.Printf("predicted=%v labels=%v accuracy-pct=%.1f",
		predictedClasses(result.Output),
		b.labels,
		accuracy(result.Output, b.labels),
	)

	if c.predictionsFile != "" {
		if err := dataset.WriteNPYFile(c.predictionsFile, result.Output); err != nil {
			return fmt.Errorf("while writing predictions: %w", err)
		}
		log.Printf("Wrote predictions to %s", c.predictionsFile)
	}

	return nil
}

func logParameters(p *toolbox.Parameters) {
	log.Printf("W1:\n%v", mat.Formatted(p.W1, mat.Squeeze()))
	log.Printf("b1: %v", mat.Formatted(p.B1.T(), mat.Squeeze()))
	log.Printf("W2:\n%v", mat.Formatted(p.W2, mat.Squeeze()))
	log.Printf("b2: %v", mat.Formatted(p.B2.T(), mat.Squeeze()))
}
