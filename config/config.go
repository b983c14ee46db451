// Package config holds the knobs of a training run and loads them from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ahmedtd/backprop/dataset"
	"github.com/ahmedtd/backprop/toolbox"
	"gopkg.in/yaml.v3"
)

// Config captures the runtime knobs for a training run.
type Config struct {
	// Data source.  An empty DataFile selects the embedded iris data set;
	// otherwise DataFile is an .npz archive holding FeaturesName and
	// LabelsName.
	DataFile     string `yaml:"data_file"`
	FeaturesName string `yaml:"features_name"`
	LabelsName   string `yaml:"labels_name"`

	// Training rows.  Explicit Indices win; otherwise SampleSize rows are
	// drawn from [0, SamplePopulation) with SampleSeed.  A zero
	// SamplePopulation means the whole data set.
	Indices          []int  `yaml:"indices"`
	SampleSize       int    `yaml:"sample_size"`
	SampleSeed       uint64 `yaml:"sample_seed"`
	SamplePopulation int    `yaml:"sample_population"`

	InputUnits  int `yaml:"input_units"`
	HiddenUnits int `yaml:"hidden_units"`
	OutputUnits int `yaml:"output_units"`

	LearningRate float64 `yaml:"learning_rate"`
	Beta         float64 `yaml:"beta"`
	Iterations   int     `yaml:"iterations"`
	Seed         uint64  `yaml:"seed"`
}

// Overrides captures CLI supplied values.  Nil fields are left alone, so an
// explicit zero (say, beta 0) still overrides.
type Overrides struct {
	DataFile     string
	LearningRate *float64
	Beta         *float64
	Iterations   *int
	HiddenUnits  *int
	Seed         *uint64
	SampleSize   *int
	SampleSeed   *uint64
}

// irisSamplePopulation draws the classic rows from [0, 149) of the embedded
// iris set.  It has no meaning for any other data file.
const irisSamplePopulation = 149

// Default returns the classic run: five iris rows, a 4-3-3 network, two
// rounds of gradient descent.
func Default() *Config {
	return &Config{
		FeaturesName:     "x.npy",
		LabelsName:       "y.npy",
		SampleSize:       5,
		SampleSeed:       3,
		SamplePopulation: irisSamplePopulation,
		InputUnits:       4,
		HiddenUnits:      3,
		OutputUnits:      3,
		LearningRate:     0.5,
		Beta:             0.00001,
		Iterations:       2,
		Seed:             3,
	}
}

// Load reads a Config from YAML on top of Default and validates it.  Unknown
// keys are an error.  A file that names a data_file without a
// sample_population samples from the whole of that file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("while opening config: %w", err)
	}
	defer f.Close()

	cfg, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("while parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parse(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if cfg.DataFile != "" {
		var set struct {
			SamplePopulation *int `yaml:"sample_population"`
		}
		if err := yaml.Unmarshal(raw, &set); err != nil {
			return nil, err
		}
		if set.SamplePopulation == nil {
			cfg.SamplePopulation = 0
		}
	}

	return cfg, nil
}

// ApplyOverrides updates c using every override that is set.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.DataFile != "" && o.DataFile != c.DataFile {
		c.DataFile = o.DataFile
		// The configured population belongs to the previous data source.
		c.SamplePopulation = 0
	}
	if o.LearningRate != nil {
		c.LearningRate = *o.LearningRate
	}
	if o.Beta != nil {
		c.Beta = *o.Beta
	}
	if o.Iterations != nil {
		c.Iterations = *o.Iterations
	}
	if o.HiddenUnits != nil {
		c.HiddenUnits = *o.HiddenUnits
	}
	if o.Seed != nil {
		c.Seed = *o.Seed
	}
	if o.SampleSize != nil {
		c.SampleSize = *o.SampleSize
		// A sample size on the command line means "draw", not "use the
		// configured rows".
		c.Indices = nil
	}
	if o.SampleSeed != nil {
		c.SampleSeed = *o.SampleSeed
	}
}

// Validate verifies the config is runnable.  Every problem found is
// reported, not only the first.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	var errs []error
	if c.DataFile != "" && (c.FeaturesName == "" || c.LabelsName == "") {
		errs = append(errs, errors.New("features_name and labels_name must be set with data_file"))
	}
	if c.InputUnits <= 0 {
		errs = append(errs, fmt.Errorf("input_units must be > 0 (got %d)", c.InputUnits))
	}
	if c.HiddenUnits <= 0 {
		errs = append(errs, fmt.Errorf("hidden_units must be > 0 (got %d)", c.HiddenUnits))
	}
	if c.OutputUnits <= 0 {
		errs = append(errs, fmt.Errorf("output_units must be > 0 (got %d)", c.OutputUnits))
	}
	if math.IsNaN(c.LearningRate) || math.IsInf(c.LearningRate, 0) || c.LearningRate < 0 {
		errs = append(errs, fmt.Errorf("learning_rate must be finite and >= 0 (got %v)", c.LearningRate))
	}
	if math.IsNaN(c.Beta) || math.IsInf(c.Beta, 0) || c.Beta < 0 {
		errs = append(errs, fmt.Errorf("beta must be finite and >= 0 (got %v)", c.Beta))
	}
	if c.Iterations < 0 {
		errs = append(errs, fmt.Errorf("iterations must be >= 0 (got %d)", c.Iterations))
	}

	if len(c.Indices) > 0 {
		for i, idx := range c.Indices {
			if idx < 0 {
				errs = append(errs, fmt.Errorf("indices[%d] is negative (%d)", i, idx))
			}
		}
	} else {
		if c.SampleSize <= 0 {
			errs = append(errs, fmt.Errorf("sample_size must be > 0 when indices is empty (got %d)", c.SampleSize))
		}
		if c.SamplePopulation < 0 {
			errs = append(errs, fmt.Errorf("sample_population must be >= 0 (got %d)", c.SamplePopulation))
		}
		if c.SamplePopulation > 0 && c.SampleSize > c.SamplePopulation {
			errs = append(errs, fmt.Errorf("sample_size %d exceeds sample_population %d", c.SampleSize, c.SamplePopulation))
		}
	}

	return errors.Join(errs...)
}

// Topology returns the network shape.
func (c *Config) Topology() toolbox.Topology {
	return toolbox.Topology{
		InputUnits:  c.InputUnits,
		HiddenUnits: c.HiddenUnits,
		OutputUnits: c.OutputUnits,
	}
}

// TrainConfig returns the toolbox settings for this run.
func (c *Config) TrainConfig() toolbox.Config {
	return toolbox.Config{
		Topology:     c.Topology(),
		LearningRate: c.LearningRate,
		Beta:         c.Beta,
		Iterations:   c.Iterations,
		Seed:         c.Seed,
	}
}

// LoadDataset opens the configured data source.
func (c *Config) LoadDataset() (*dataset.Dataset, error) {
	if c.DataFile == "" {
		return dataset.Iris(), nil
	}
	return dataset.LoadNPZ(c.DataFile, c.FeaturesName, c.LabelsName)
}

// SelectIndices returns the training rows for a data set of datasetLen
// examples.
func (c *Config) SelectIndices(datasetLen int) ([]int, error) {
	if len(c.Indices) > 0 {
		for _, idx := range c.Indices {
			if idx < 0 || idx >= datasetLen {
				return nil, fmt.Errorf("index %d out of range [0, %d)", idx, datasetLen)
			}
		}
		return append([]int(nil), c.Indices...), nil
	}

	population := c.SamplePopulation
	if population == 0 {
		population = datasetLen
	}
	if population > datasetLen {
		return nil, fmt.Errorf("sample_population %d exceeds data set size %d", population, datasetLen)
	}
	return dataset.SampleIndices(population, c.SampleSize, c.SampleSeed)
}
