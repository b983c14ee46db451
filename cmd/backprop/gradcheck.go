package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/ahmedtd/backprop/toolbox"
	"github.com/google/subcommands"
)

type GradCheckCommand struct {
	runFlags

	step      float64
	tolerance float64
}

var _ subcommands.Command = (*GradCheckCommand)(nil)

func (*GradCheckCommand) Name() string {
	return "gradcheck"
}

func (*GradCheckCommand) Synopsis() string {
	return "Compare backpropagated gradients with finite differences"
}

func (*GradCheckCommand) Usage() string {
	return ``
}

func (c *GradCheckCommand) SetFlags(f *flag.FlagSet) {
	c.runFlags.SetFlags(f)
	f.Float64Var(&c.step, "step", 0, "Finite difference step (0 selects the default for centered differences)")
	f.Float64Var(&c.tolerance, "tolerance", 1e-4, "Largest acceptable absolute difference")
}

func (c *GradCheckCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.executeErr(ctx); err != nil {
		log.Printf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *GradCheckCommand) executeErr(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	b, err := loadBatch(cfg)
	if err != nil {
		return err
	}

	p := toolbox.Initialize(cfg.Topology(), cfg.Seed)
	report := toolbox.GradientCheck(b.x, b.y, p, c.step)

	log.Printf("max-abs-diff W1=%g b1=%g W2=%g b2=%g", report.W1, report.B1, report.W2, report.B2)

	if report.Max() > c.tolerance {
		return fmt.Errorf("gradient mismatch %g exceeds tolerance %g", report.Max(), c.tolerance)
	}
	log.Printf("Gradients agree within %g", c.tolerance)
	return nil
}
