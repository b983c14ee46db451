package dataset

import (
	"fmt"
	"io"
	"os"

	"github.com/sbinet/npyio"
	"github.com/sbinet/npyio/npz"
	"gonum.org/v1/gonum/mat"
)

// LoadNPZ reads a data set from a NumPy .npz archive, such as one written by
// np.savez(path, x=features, y=labels).
//
// featuresName must name a 2-D float64 array of shape (numExamples,
// numFeatures).  labelsName must name an int64 array holding numExamples
// class labels.
func LoadNPZ(path, featuresName, labelsName string) (*Dataset, error) {
	r, err := npz.Open(path)
	if err != nil {
		return nil, fmt.Errorf("while opening data file: %w", err)
	}
	defer r.Close()

	// numpy always writes C-style (row-major) layouts, which is what
	// mat.NewDense expects.
	header := r.Header(featuresName)
	if header == nil {
		return nil, fmt.Errorf("no array %q in %s", featuresName, path)
	}
	shape := header.Descr.Shape
	if len(shape) != 2 {
		return nil, fmt.Errorf("array %q has shape %v, want 2 dimensions", featuresName, shape)
	}

	var raw []float64
	if err := r.Read(featuresName, &raw); err != nil {
		return nil, fmt.Errorf("while reading %s: %w", featuresName, err)
	}

	if r.Header(labelsName) == nil {
		return nil, fmt.Errorf("no array %q in %s", labelsName, path)
	}
	var rawLabels []int64
	if err := r.Read(labelsName, &rawLabels); err != nil {
		return nil, fmt.Errorf("while reading %s: %w", labelsName, err)
	}
	if len(rawLabels) != shape[0] {
		return nil, fmt.Errorf("%d labels for %d examples", len(rawLabels), shape[0])
	}

	labels := make([]int, len(rawLabels))
	for i, l := range rawLabels {
		labels[i] = int(l)
	}

	names := make([]string, shape[1])
	for j := range names {
		names[j] = fmt.Sprintf("x%d", j)
	}

	return newDataset(names, mat.NewDense(shape[0], shape[1], raw), labels)
}

// WriteNPZ writes ds to a new .npz archive that LoadNPZ can read back: the
// features as a float64 array named featuresName and the labels as an int64
// array named labelsName.
func WriteNPZ(path string, ds *Dataset, featuresName, labelsName string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("while creating %s: %w", path, err)
	}
	defer f.Close()

	w := npz.NewWriter(f)
	if err := w.Write(featuresName, ds.Features); err != nil {
		return fmt.Errorf("while writing %s: %w", featuresName, err)
	}

	labels := make([]int64, len(ds.Labels))
	for i, l := range ds.Labels {
		labels[i] = int64(l)
	}
	if err := w.Write(labelsName, labels); err != nil {
		return fmt.Errorf("while writing %s: %w", labelsName, err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("while finishing %s: %w", path, err)
	}
	return f.Close()
}

// WriteNPY writes m to w as a NumPy .npy array of float64.
func WriteNPY(w io.Writer, m *mat.Dense) error {
	if err := npyio.Write(w, m); err != nil {
		return fmt.Errorf("while writing npy array: %w", err)
	}
	return nil
}

// WriteNPYFile is WriteNPY to a newly created file.
func WriteNPYFile(path string, m *mat.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("while creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteNPY(f, m); err != nil {
		return err
	}
	return f.Close()
}
