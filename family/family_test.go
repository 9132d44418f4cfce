package family

import (
	"errors"
	"math"
	"testing"
)

const smallDiff = 1e-9

func appreq(a, b float64) bool {
	return math.Abs(a-b) <= smallDiff
}

func TestSimesThresholds(tst *testing.T) {
	f, err := NewSimes(10, 0.1, 1)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	for k := 1; k <= 10; k++ {
		t, err := f.Threshold(k)
		if err != nil {
			tst.Fatal("Error: ", err)
		}
		ref := 0.01 * float64(k)
		if !appreq(t, ref) {
			tst.Error("Expected ", ref, ", got", t)
		}
	}
}

func TestSimesLambdaScaling(tst *testing.T) {
	f, err := NewSimes(100, 0.05, 1.7)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	t, err := f.Threshold(100)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if !appreq(t, 1.7*0.05) {
		tst.Error("Expected ", 1.7*0.05, ", got", t)
	}
}

func TestMonotone(tst *testing.T) {
	for _, template := range []string{"simes", "beta"} {
		for _, m := range []int{1, 2, 10, 1000} {
			for _, alpha := range []float64{0.01, 0.05, 0.5} {
				for _, lambda := range []float64{0.3, 1, 2.5} {
					f, err := New(template, m, alpha, lambda)
					if err != nil {
						tst.Fatal("Error: ", err)
					}
					thr := f.Thresholds()
					if len(thr) != m {
						tst.Fatalf("Expected %d thresholds, got %d", m, len(thr))
					}
					for k := 1; k < m; k++ {
						if thr[k] < thr[k-1] {
							tst.Errorf("%s family not monotone: t_%d=%v > t_%d=%v (m=%d, alpha=%v, lambda=%v)",
								template, k, thr[k-1], k+1, thr[k], m, alpha, lambda)
						}
					}
					if thr[0] < 0 || thr[m-1] > 1 {
						tst.Errorf("%s family out of [0,1]: t_1=%v, t_m=%v", template, thr[0], thr[m-1])
					}
				}
			}
		}
	}
}

func TestThresholdsMatch(tst *testing.T) {
	// Thresholds() agrees with Threshold(k).
	for _, template := range []string{"simes", "beta"} {
		f, err := New(template, 20, 0.1, 0.8)
		if err != nil {
			tst.Fatal("Error: ", err)
		}
		thr := f.Thresholds()
		for k := 1; k <= 20; k++ {
			t, err := f.Threshold(k)
			if err != nil {
				tst.Fatal("Error: ", err)
			}
			if !appreq(t, thr[k-1]) {
				tst.Error("Expected ", thr[k-1], ", got", t)
			}
		}
	}
}

func TestBetaMedianCase(tst *testing.T) {
	// For m=1 the beta family is the alpha*lambda quantile of
	// Beta(1, 1), i.e. alpha*lambda itself.
	f, err := NewBeta(1, 0.1, 0.5)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	t, err := f.Threshold(1)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if !appreq(t, 0.05) {
		tst.Error("Expected 0.05, got", t)
	}
}

func TestDomainErrors(tst *testing.T) {
	cases := []struct {
		m             int
		alpha, lambda float64
	}{
		{0, 0.1, 1},
		{-5, 0.1, 1},
		{10, 0, 1},
		{10, 1, 1},
		{10, -0.1, 1},
		{10, 0.1, 0},
		{10, 0.1, -1},
	}
	for _, template := range []string{"simes", "beta"} {
		for _, c := range cases {
			_, err := New(template, c.m, c.alpha, c.lambda)
			if !errors.Is(err, ErrDomain) {
				tst.Errorf("Expected domain error for %s(m=%d, alpha=%v, lambda=%v), got %v",
					template, c.m, c.alpha, c.lambda, err)
			}
		}
	}
}

func TestThresholdOutOfRange(tst *testing.T) {
	f, err := NewSimes(10, 0.1, 1)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	for _, k := range []int{0, -1, 11} {
		if _, err := f.Threshold(k); !errors.Is(err, ErrDomain) {
			tst.Errorf("Expected domain error for k=%d, got %v", k, err)
		}
	}
}

func TestUnknownTemplate(tst *testing.T) {
	if _, err := New("holm", 10, 0.1, 1); err == nil {
		tst.Error("Expected error for unknown template")
	}
}
