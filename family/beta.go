package family

import (
	"bitbucket.org/Davydov/postsel/dist"
)

// Beta is the order-statistic reference family: t_k is the
// lambda*alpha quantile of Beta(k, m+1-k), the distribution of the
// k-th order statistic of m independent uniform p-values. The
// sequence is non-decreasing in k for a fixed quantile level.
type Beta struct {
	m      int
	alpha  float64
	lambda float64
}

// NewBeta creates a Beta family for m hypotheses.
func NewBeta(m int, alpha, lambda float64) (*Beta, error) {
	if err := checkParameters(m, alpha, lambda); err != nil {
		return nil, err
	}
	return &Beta{m: m, alpha: alpha, lambda: lambda}, nil
}

// Name returns the template name.
func (f *Beta) Name() string {
	return "beta"
}

// Size returns the number of hypotheses.
func (f *Beta) Size() int {
	return f.m
}

// level is the quantile level; a calibrated lambda can push it above
// one, in which case the threshold saturates at one.
func (f *Beta) level() float64 {
	l := f.lambda * f.alpha
	if l > 1 {
		return 1
	}
	return l
}

// Threshold returns the lambda*alpha quantile of Beta(k, m+1-k).
func (f *Beta) Threshold(k int) (float64, error) {
	if err := checkK(k, f.m); err != nil {
		return 0, err
	}
	return dist.QuantileBeta(f.level(), float64(k), float64(f.m+1-k)), nil
}

// Thresholds returns the full threshold sequence.
func (f *Beta) Thresholds() []float64 {
	t := make([]float64, f.m)
	for k := 1; k <= f.m; k++ {
		t[k-1] = dist.QuantileBeta(f.level(), float64(k), float64(f.m+1-k))
	}
	return t
}
