package main

import (
	"flag"
	"fmt"

	"github.com/ahmedtd/backprop/config"
	"github.com/ahmedtd/backprop/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// runFlags are the flags shared by every command that builds a training
// batch.
type runFlags struct {
	configFile string

	dataFile     string
	learningRate float64
	beta         float64
	iterations   int
	hiddenUnits  int
	seed         uint64
	sampleSize   int
	sampleSeed   uint64

	// fs records which flags were given, so that an explicit zero overrides
	// the configuration.
	fs *flag.FlagSet
}

func (r *runFlags) SetFlags(f *flag.FlagSet) {
	r.fs = f
	f.StringVar(&r.configFile, "config", "", "Path to a YAML run configuration (defaults to the classic iris run)")
	f.StringVar(&r.dataFile, "data-file", "", "Path to an .npz data set (defaults to the embedded iris data); rows are drawn from the whole file")
	f.Float64Var(&r.learningRate, "learning-rate", 0, "Learning rate (overrides the configuration when given)")
	f.Float64Var(&r.beta, "beta", 0, "L2 regularization strength (overrides the configuration when given)")
	f.IntVar(&r.iterations, "iterations", 0, "Number of gradient descent rounds (overrides the configuration when given)")
	f.IntVar(&r.hiddenUnits, "hidden-units", 0, "Hidden layer width (overrides the configuration when given)")
	f.Uint64Var(&r.seed, "seed", 0, "Parameter initialization seed (overrides the configuration when given)")
	f.IntVar(&r.sampleSize, "sample-size", 0, "Draw this many training rows instead of the configured ones")
	f.Uint64Var(&r.sampleSeed, "sample-seed", 0, "Seed for drawing training rows (overrides the configuration when given)")
}

// overrides returns the flags that were given on the command line.
func (r *runFlags) overrides() config.Overrides {
	o := config.Overrides{DataFile: r.dataFile}
	if r.fs == nil {
		return o
	}
	r.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "learning-rate":
			o.LearningRate = &r.learningRate
		case "beta":
			o.Beta = &r.beta
		case "iterations":
			o.Iterations = &r.iterations
		case "hidden-units":
			o.HiddenUnits = &r.hiddenUnits
		case "seed":
			o.Seed = &r.seed
		case "sample-size":
			o.SampleSize = &r.sampleSize
		case "sample-seed":
			o.SampleSeed = &r.sampleSeed
		}
	})
	return o
}

func (r *runFlags) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if r.configFile != "" {
		var err error
		cfg, err = config.Load(r.configFile)
		if err != nil {
			return nil, err
		}
	}

	cfg.ApplyOverrides(r.overrides())
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// batch is a standardized, one-hot encoded training set.
type batch struct {
	indices []int
	x       *mat.Dense
	y       *mat.Dense
	labels  []int
}

func loadBatch(cfg *config.Config) (*batch, error) {
	ds, err := cfg.LoadDataset()
	if err != nil {
		return nil, fmt.Errorf("while loading data set: %w", err)
	}

	indices, err := cfg.SelectIndices(ds.Len())
	if err != nil {
		return nil, fmt.Errorf("while selecting training rows: %w", err)
	}

	sub, err := ds.Subset(indices)
	if err != nil {
		return nil, fmt.Errorf("while selecting training rows: %w", err)
	}

	_, numFeatures := sub.Features.Dims()
	if numFeatures != cfg.InputUnits {
		return nil, fmt.Errorf("data set has %d features, input_units is %d", numFeatures, cfg.InputUnits)
	}
	if sub.NumClasses > cfg.OutputUnits {
		return nil, fmt.Errorf("data set has %d classes, output_units is %d", sub.NumClasses, cfg.OutputUnits)
	}

	y, err := dataset.OneHot(sub.Labels, cfg.OutputUnits)
	if err != nil {
		return nil, fmt.Errorf("while encoding labels: %w", err)
	}

	return &batch{
		indices: indices,
		x:       dataset.Standardize(sub.Features),
		y:       y,
		labels:  sub.Labels,
	}, nil
}

// predictedClasses returns the most probable class of every row.
func predictedClasses(probs *mat.Dense) []int {
	rows, _ := probs.Dims()
	out := make([]int, rows)
	for k := range out {
		out[k] = floats.MaxIdx(probs.RawRowView(k))
	}
	return out
}

// accuracy returns the percentage of rows whose most probable class matches
// the label.
func accuracy(probs *mat.Dense, labels []int) float64 {
	numCorrect := 0
	for k, c := range predictedClasses(probs) {
		if c == labels[k] {
			numCorrect++
		}
	}
	return float64(numCorrect) / float64(len(labels)) * 100
}
