/*
Package family implements reference families: non-decreasing sequences
of p-value thresholds t_1 <= ... <= t_m used by the post hoc false
positive bounds.

A family is parameterized by the confidence level alpha and a
calibration factor lambda. The factor lambda=1 corresponds to the
conservative family valid under independence or positive regression
dependence; permutation calibration (package perm) typically selects a
larger factor for positively dependent data.
*/
package family

import (
	"errors"
	"fmt"
)

// ErrDomain is returned when a parameter is outside of its domain.
var ErrDomain = errors.New("parameter out of domain")

// Family is a non-decreasing sequence of p-value thresholds for a
// fixed hypothesis count, confidence level and calibration factor.
type Family interface {
	// Name returns the template name.
	Name() string
	// Size returns the number of hypotheses m.
	Size() int
	// Threshold returns t_k, k=1..m.
	Threshold(k int) (float64, error)
	// Thresholds returns the full sequence t_1..t_m.
	Thresholds() []float64
}

// New creates a family of the given template.
func New(template string, m int, alpha, lambda float64) (Family, error) {
	switch template {
	case "simes":
		return NewSimes(m, alpha, lambda)
	case "beta":
		return NewBeta(m, alpha, lambda)
	}
	return nil, fmt.Errorf("unknown family template: %s", template)
}

// checkParameters validates parameters shared by all templates.
func checkParameters(m int, alpha, lambda float64) error {
	if m < 1 {
		return fmt.Errorf("%w: m=%d, must be positive", ErrDomain, m)
	}
	if alpha <= 0 || alpha >= 1 {
		return fmt.Errorf("%w: alpha=%v, must be in (0, 1)", ErrDomain, alpha)
	}
	if lambda <= 0 {
		return fmt.Errorf("%w: lambda=%v, must be positive", ErrDomain, lambda)
	}
	return nil
}

// checkK validates a threshold index.
func checkK(k, m int) error {
	if k < 1 || k > m {
		return fmt.Errorf("%w: k=%d, must be in [1, %d]", ErrDomain, k, m)
	}
	return nil
}
