package family

// Simes is the linear reference family: t_k = lambda*alpha*k/m.
type Simes struct {
	m      int
	alpha  float64
	lambda float64
}

// NewSimes creates a Simes family for m hypotheses.
func NewSimes(m int, alpha, lambda float64) (*Simes, error) {
	if err := checkParameters(m, alpha, lambda); err != nil {
		return nil, err
	}
	return &Simes{m: m, alpha: alpha, lambda: lambda}, nil
}

// Name returns the template name.
func (f *Simes) Name() string {
	return "simes"
}

// Size returns the number of hypotheses.
func (f *Simes) Size() int {
	return f.m
}

// Threshold returns t_k = lambda*alpha*k/m.
func (f *Simes) Threshold(k int) (float64, error) {
	if err := checkK(k, f.m); err != nil {
		return 0, err
	}
	return f.lambda * f.alpha * float64(k) / float64(f.m), nil
}

// Thresholds returns the full threshold sequence.
func (f *Simes) Thresholds() []float64 {
	t := make([]float64, f.m)
	for k := 1; k <= f.m; k++ {
		t[k-1] = f.lambda * f.alpha * float64(k) / float64(f.m)
	}
	return t
}
