package dist

import (
	"math"
	"testing"
)

const smallDiff = 1e-6

/*** Tests if a and b are approximately equal ***/
func appreq(a, b float64) bool {
	return math.Abs(a-b) <= smallDiff
}

func TestQuantileBetaSymmetric(tst *testing.T) {
	// Beta(2, 2) is symmetric around 0.5.
	q := QuantileBeta(0.5, 2, 2)
	if !appreq(q, 0.5) {
		tst.Error("Expected 0.5, got", q)
	}
}

func TestQuantileBetaMinimum(tst *testing.T) {
	// Beta(1, 10) is the minimum of ten uniforms,
	// quantile(p) = 1-(1-p)^(1/10).
	q := QuantileBeta(0.05, 1, 10)
	ref := 1 - math.Pow(0.95, 0.1)
	if !appreq(q, ref) {
		tst.Error("Expected ", ref, ", got", q)
	}
}

func TestCDFBeta(tst *testing.T) {
	// Beta(2, 2) CDF is 3x^2-2x^3.
	c := CDFBeta(0.3, 2, 2)
	ref := 3*0.3*0.3 - 2*0.3*0.3*0.3
	if !appreq(c, ref) {
		tst.Error("Expected ", ref, ", got", c)
	}
}

func TestQuantileCDFRoundtrip(tst *testing.T) {
	for _, prob := range []float64{0.01, 0.1, 0.5, 0.9, 0.99} {
		q := QuantileBeta(prob, 3, 7)
		c := CDFBeta(q, 3, 7)
		if !appreq(c, prob) {
			tst.Error("Expected ", prob, ", got", c)
		}
	}
}

func TestLnBeta(tst *testing.T) {
	// B(2, 3) = 1*2/24 = 1/12.
	b := LnBeta(2, 3)
	ref := math.Log(1. / 12)
	if !appreq(b, ref) {
		tst.Error("Expected ", ref, ", got", b)
	}
}

func TestQuantileNormal(tst *testing.T) {
	q := QuantileNormal(0.975)
	ref := 1.959963984540054
	if !appreq(q, ref) {
		tst.Error("Expected ", ref, ", got", q)
	}
}
