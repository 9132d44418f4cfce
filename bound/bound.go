/*
Package bound computes simultaneous post hoc upper bounds on the
number of false positives inside arbitrary subsets of tested
hypotheses.

Given a reference family whose joint error rate is controlled at level
alpha, the returned bounds are valid for every subset simultaneously
with probability at least 1-alpha. For the uncalibrated Simes family
this requires independence or positive regression dependence (PRDS) of
the test statistics; PRDS cannot be verified from the data alone.
Permutation calibration (package perm) replaces that assumption by
exchangeability of the samples.
*/
package bound

import (
	"fmt"
	"sort"

	"bitbucket.org/Davydov/postsel/family"
)

// ErrDomain is returned when an input is outside of its domain.
var ErrDomain = family.ErrDomain

// Bound is the post hoc bound for a single subset.
type Bound struct {
	// Size is the number of hypotheses in the subset.
	Size int `json:"size"`
	// FP is the upper bound on the number of false positives.
	FP int `json:"maxFP"`
	// TP is the lower bound on the number of true positives.
	TP int `json:"minTP"`
}

// FalsePositives returns an upper bound on the number of false
// positives among the hypotheses of subset (0-based indices into
// pvalues). Duplicate indices are counted once. An empty subset
// yields 0.
//
// Every threshold of the family is compared against all p-values of
// the subset:
//
//	min over k=1..m of (k - 1 + #{i in S: p_i > t_k}),
//
// capped at |S|. This is the closed testing shortcut for monotone
// threshold families; thresholds are never matched to the p-value of
// the same rank only.
func FalsePositives(fam family.Family, pvalues []float64, subset []int) (int, error) {
	if err := checkPValues(fam, pvalues); err != nil {
		return 0, err
	}
	ps, err := subsetPValues(pvalues, subset)
	if err != nil {
		return 0, err
	}
	sort.Float64s(ps)
	return scan(fam, ps)
}

// Subset returns the full bound triple for a subset.
func Subset(fam family.Family, pvalues []float64, subset []int) (Bound, error) {
	if err := checkPValues(fam, pvalues); err != nil {
		return Bound{}, err
	}
	ps, err := subsetPValues(pvalues, subset)
	if err != nil {
		return Bound{}, err
	}
	sort.Float64s(ps)
	fp, err := scan(fam, ps)
	if err != nil {
		return Bound{}, err
	}
	return Bound{Size: len(ps), FP: fp, TP: len(ps) - fp}, nil
}

// subsetPValues extracts the p-values of a subset, dropping duplicate
// indices.
func subsetPValues(pvalues []float64, subset []int) ([]float64, error) {
	if len(subset) == 0 {
		return nil, nil
	}
	idx := make([]int, len(subset))
	copy(idx, subset)
	sort.Ints(idx)
	ps := make([]float64, 0, len(idx))
	for i, h := range idx {
		if h < 0 || h >= len(pvalues) {
			return nil, fmt.Errorf("%w: hypothesis index %d, must be in [0, %d)",
				ErrDomain, h, len(pvalues))
		}
		if i > 0 && h == idx[i-1] {
			continue
		}
		ps = append(ps, pvalues[h])
	}
	return ps, nil
}

// scan computes the bound for the sorted p-values of a subset. Both
// the p-values and the thresholds are non-decreasing, so the
// exceedance counts follow from a single sweep. Once k-1 reaches the
// running minimum no later threshold can improve it.
func scan(fam family.Family, sorted []float64) (int, error) {
	s := len(sorted)
	bound := s
	below := 0 // #{j: p_(j) <= t_k}, non-decreasing in k
	for k := 1; k <= fam.Size() && k-1 < bound; k++ {
		t, err := fam.Threshold(k)
		if err != nil {
			return 0, err
		}
		for below < s && sorted[below] <= t {
			below++
		}
		if v := k - 1 + s - below; v < bound {
			bound = v
		}
	}
	return bound, nil
}

// checkPValues validates the p-value vector against the family.
func checkPValues(fam family.Family, pvalues []float64) error {
	if len(pvalues) != fam.Size() {
		return fmt.Errorf("%w: %d p-values for a family of size %d",
			ErrDomain, len(pvalues), fam.Size())
	}
	for i, p := range pvalues {
		if p < 0 || p > 1 || p != p {
			return fmt.Errorf("%w: p-value %v at index %d, must be in [0, 1]",
				ErrDomain, p, i)
		}
	}
	return nil
}
