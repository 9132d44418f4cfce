/*
Package dataset provides the expression matrix and the sample label
containers consumed by the statistic functions and the permutation
calibration.
*/
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gonum/matrix/mat64"
)

// ErrFormat is returned for malformed input files.
var ErrFormat = errors.New("invalid input format")

// Data is an expression matrix with one row per feature (hypothesis)
// and one column per sample.
type Data struct {
	M *mat64.Dense
	// Names holds one feature name per row; empty if the input had
	// no name column.
	Names []string
	// Samples holds one sample name per column; empty if the input
	// had no header row.
	Samples []string
}

// New creates a Data from row-major values.
func New(values []float64, nFeatures, nSamples int) (*Data, error) {
	if nFeatures < 1 || nSamples < 1 {
		return nil, fmt.Errorf("%w: %dx%d matrix", ErrFormat, nFeatures, nSamples)
	}
	if len(values) != nFeatures*nSamples {
		return nil, fmt.Errorf("%w: %d values for a %dx%d matrix",
			ErrFormat, len(values), nFeatures, nSamples)
	}
	return &Data{M: mat64.NewDense(nFeatures, nSamples, values)}, nil
}

// NFeatures returns the number of rows.
func (d *Data) NFeatures() int {
	r, _ := d.M.Dims()
	return r
}

// NSamples returns the number of columns.
func (d *Data) NSamples() int {
	_, c := d.M.Dims()
	return c
}

// Row returns a view of the i-th feature.
func (d *Data) Row(i int) []float64 {
	return d.M.RawRowView(i)
}

// ReadTSV parses a tab- or space-separated matrix, one feature per
// line. If the first field of a line is not a number it is taken as
// the feature name. An optional first line holding more than one
// non-numeric field is taken as a header of sample names; the header
// may carry an extra leading field above the name column. All data
// lines must have the same number of values.
func ReadTSV(r io.Reader) (*Data, error) {
	var (
		values   []float64
		names    []string
		samples  []string
		nSamples int
		nLine    int
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)
	for scanner.Scan() {
		nLine++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(values) == 0 && samples == nil && isHeader(fields) {
			samples = fields
			continue
		}
		name := ""
		if _, err := strconv.ParseFloat(fields[0], 64); err != nil {
			name = fields[0]
			fields = fields[1:]
		}
		if nSamples == 0 {
			nSamples = len(fields)
		}
		if len(fields) != nSamples {
			return nil, fmt.Errorf("%w: line %d has %d values, expected %d",
				ErrFormat, nLine, len(fields), nSamples)
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, nLine, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrFormat)
	}
	d, err := New(values, len(names), nSamples)
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		if n != "" {
			d.Names = names
			break
		}
	}
	if samples != nil {
		if len(samples) == nSamples+1 {
			// field above the feature name column
			samples = samples[1:]
		}
		if len(samples) != nSamples {
			return nil, fmt.Errorf("%w: header has %d sample names for %d samples",
				ErrFormat, len(samples), nSamples)
		}
		d.Samples = samples
	}
	return d, nil
}

// isHeader reports whether a line holds sample names rather than
// values: a data line has numbers everywhere except possibly the
// first field.
func isHeader(fields []string) bool {
	for _, f := range fields[1:] {
		if _, err := strconv.ParseFloat(f, 64); err != nil {
			return true
		}
	}
	return false
}

// ReadVector reads one float per line (whitespace separated values
// are accepted too).
func ReadVector(r io.Reader) ([]float64, error) {
	var values []float64
	scanner := bufio.NewScanner(r)
	nLine := 0
	for scanner.Scan() {
		nLine++
		for _, f := range strings.Fields(scanner.Text()) {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, nLine, err)
			}
			values = append(values, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return values, nil
}
