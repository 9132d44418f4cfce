/*
Package tstat implements the Welch two-sample t statistic with
two-sided p-values, computed independently for every feature of an
expression matrix. It is the default statistic function for the
permutation calibration; any function with the same signature can be
injected instead.
*/
package tstat

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"bitbucket.org/Davydov/postsel/dataset"
)

// PValues returns the two-sided Welch t-test p-value for every
// feature of data, comparing the two groups given by labels. The
// labels vector must contain exactly two distinct codes, each with at
// least two samples.
func PValues(data *dataset.Data, labels []int) ([]float64, error) {
	return compute(data, labels, true)
}

// Statistics returns the signed Welch t statistic for every feature.
func Statistics(data *dataset.Data, labels []int) ([]float64, error) {
	return compute(data, labels, false)
}

func compute(data *dataset.Data, labels []int, pvalues bool) ([]float64, error) {
	if len(labels) != data.NSamples() {
		return nil, fmt.Errorf("%d labels for %d samples", len(labels), data.NSamples())
	}
	a, b, err := groupCodes(labels)
	if err != nil {
		return nil, err
	}
	m := data.NFeatures()
	res := make([]float64, m)
	x := make([]float64, 0, len(labels))
	y := make([]float64, 0, len(labels))
	for i := 0; i < m; i++ {
		row := data.Row(i)
		x = x[:0]
		y = y[:0]
		for j, c := range labels {
			switch c {
			case a:
				x = append(x, row[j])
			case b:
				y = append(y, row[j])
			}
		}
		t, df := welch(x, y)
		if pvalues {
			res[i] = pValue(t, df)
		} else {
			res[i] = t
		}
	}
	return res, nil
}

// groupCodes returns the two distinct codes of the label vector.
func groupCodes(labels []int) (a, b int, err error) {
	na, nb := 0, 0
	a, b = -1, -1
	for _, c := range labels {
		switch {
		case a == -1 || c == a:
			a = c
			na++
		case b == -1 || c == b:
			b = c
			nb++
		default:
			return 0, 0, fmt.Errorf("more than two groups in labels")
		}
	}
	if b == -1 {
		return 0, 0, fmt.Errorf("only one group in labels")
	}
	if na < 2 || nb < 2 {
		return 0, 0, fmt.Errorf("need at least two samples per group, got %d and %d", na, nb)
	}
	return a, b, nil
}

// welch returns the Welch t statistic and the Satterthwaite degrees
// of freedom. Zero-variance features give t=0 (equal means) or an
// infinite statistic.
func welch(x, y []float64) (t, df float64) {
	mx := stat.Mean(x, nil)
	my := stat.Mean(y, nil)
	sex := stat.Variance(x, nil) / float64(len(x))
	sey := stat.Variance(y, nil) / float64(len(y))
	se2 := sex + sey
	if se2 == 0 {
		if mx == my {
			return 0, 1
		}
		return math.Inf(sign(mx - my)), 1
	}
	t = (mx - my) / math.Sqrt(se2)
	df = se2 * se2 / (sex*sex/float64(len(x)-1) + sey*sey/float64(len(y)-1))
	return t, df
}

// pValue returns the two-sided p-value of a t statistic.
func pValue(t, df float64) float64 {
	if math.IsInf(t, 0) {
		return 0
	}
	d := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * d.CDF(-math.Abs(t))
}

func sign(x float64) int {
	if x < 0 {
		return -1
	}
	return 1
}
