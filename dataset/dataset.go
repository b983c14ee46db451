// Package dataset loads labeled feature tables and prepares them for
// training: subset selection, per-column standardization and one-hot label
// encoding.
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

//go:embed iris.csv
var irisCSV []byte

// Dataset is a feature matrix with one integer class label per row.
type Dataset struct {
	FeatureNames []string
	Features     *mat.Dense // Shape (numExamples, len(FeatureNames))
	Labels       []int      // Values in [0, NumClasses)
	NumClasses   int
}

// Iris returns Fisher's iris data set: 150 examples, 4 features (sepal
// length, sepal width, petal length, petal width, in cm) and 3 classes
// (setosa, versicolor, virginica).
func Iris() *Dataset {
	ds, err := LoadCSV(bytes.NewReader(irisCSV))
	if err != nil {
		panic(fmt.Sprintf("embedded iris.csv is corrupt: %v", err))
	}
	return ds
}

// LoadCSV reads a table with a header row.  Every column but the last is a
// numeric feature; the last column is a non-negative integer class label.
func LoadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("need at least one feature and a label column, got %d columns", len(header))
	}
	numFeatures := len(header) - 1

	var values []float64
	var labels []int
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("while reading row %d: %w", len(labels)+1, err)
		}

		for j := 0; j < numFeatures; j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", len(labels)+1, header[j], err)
			}
			values = append(values, v)
		}

		label, err := strconv.Atoi(record[numFeatures])
		if err != nil {
			return nil, fmt.Errorf("row %d label: %w", len(labels)+1, err)
		}
		labels = append(labels, label)
	}

	if len(labels) == 0 {
		return nil, errors.New("no examples")
	}

	return newDataset(header[:numFeatures], mat.NewDense(len(labels), numFeatures, values), labels)
}

func newDataset(names []string, features *mat.Dense, labels []int) (*Dataset, error) {
	numClasses := 0
	for i, l := range labels {
		if l < 0 {
			return nil, fmt.Errorf("example %d has negative label %d", i, l)
		}
		if l+1 > numClasses {
			numClasses = l + 1
		}
	}

	return &Dataset{
		FeatureNames: names,
		Features:     features,
		Labels:       labels,
		NumClasses:   numClasses,
	}, nil
}

// Len returns the number of examples.
func (ds *Dataset) Len() int {
	return len(ds.Labels)
}

// Subset returns the examples at the given indices, in that order.  The
// returned data set does not share storage with ds.
func (ds *Dataset) Subset(indices []int) (*Dataset, error) {
	if len(indices) == 0 {
		return nil, errors.New("empty subset")
	}

	_, cols := ds.Features.Dims()
	features := mat.NewDense(len(indices), cols, nil)
	labels := make([]int, len(indices))
	for k, idx := range indices {
		if idx < 0 || idx >= ds.Len() {
			return nil, fmt.Errorf("index %d out of range [0, %d)", idx, ds.Len())
		}
		features.SetRow(k, ds.Features.RawRowView(idx))
		labels[k] = ds.Labels[idx]
	}

	return &Dataset{
		FeatureNames: ds.FeatureNames,
		Features:     features,
		Labels:       labels,
		NumClasses:   ds.NumClasses,
	}, nil
}

// Standardize returns a copy of x with every column shifted to zero mean and
// scaled to unit population standard deviation.  A constant column is only
// shifted.
func Standardize(x mat.Matrix) *mat.Dense {
	rows, cols := x.Dims()
	out := mat.NewDense(rows, cols, nil)

	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, x)
		mean, std := stat.PopMeanStdDev(col, nil)

		floats.AddConst(-mean, col)
		if std > 0 {
			for i := range col {
				col[i] /= std
			}
		}
		out.SetCol(j, col)
	}

	return out
}

// OneHot encodes labels as rows of a (len(labels), numClasses) matrix with a
// single 1 per row.
func OneHot(labels []int, numClasses int) (*mat.Dense, error) {
	if len(labels) == 0 {
		return nil, errors.New("no labels")
	}
	if numClasses <= 0 {
		return nil, fmt.Errorf("invalid class count %d", numClasses)
	}

	y := mat.NewDense(len(labels), numClasses, nil)
	for k, l := range labels {
		if l < 0 || l >= numClasses {
			return nil, fmt.Errorf("label %d of example %d out of range [0, %d)", l, k, numClasses)
		}
		y.Set(k, l, 1)
	}
	return y, nil
}
