package bound

import (
	"fmt"
	"io"
	"sort"

	"bitbucket.org/Davydov/postsel/family"
)

// EnvelopeTable holds simultaneous bounds for every top-k prefix of
// the p-value ranking, k=0..m. All rows are valid at once: the
// confidence statement covers the whole table, not individual rows.
type EnvelopeTable struct {
	order []int
	fp    []int
	tp    []int
	fdp   []float64
}

// Envelope ranks the hypotheses by ascending p-value (ties broken by
// hypothesis index) and computes the false positive upper bound, true
// positive lower bound and false discovery proportion upper bound for
// every prefix of the ranking.
//
// The per-prefix bound min over k of (k-1 + #{j <= K: p_(j) > t_k})
// admits a linear computation: with N_k = #{j: p_(j) <= t_k} counted
// over all m hypotheses, the prefix of size K contains min(K, N_k)
// p-values below t_k, so
//
//	maxFP(K) = min(K, K + min over k of (k - 1 - min(K, N_k))).
//
// The inner minimum splits at the first k with N_k > K; the left part
// is a precomputed prefix minimum and the split point only moves
// right as K grows. The result matches FalsePositives on every
// prefix.
func Envelope(fam family.Family, pvalues []float64) (*EnvelopeTable, error) {
	if err := checkPValues(fam, pvalues); err != nil {
		return nil, err
	}
	m := len(pvalues)
	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return pvalues[order[i]] < pvalues[order[j]]
	})

	thr := fam.Thresholds()

	// below[k-1] = N_k, non-decreasing in k
	below := make([]int, m)
	n := 0
	for k := 0; k < m; k++ {
		for n < m && pvalues[order[n]] <= thr[k] {
			n++
		}
		below[k] = n
	}

	// prefMin[k-1] = min over l<=k of (l - 1 - N_l)
	prefMin := make([]int, m)
	for k := 0; k < m; k++ {
		g := k - below[k]
		if k > 0 && prefMin[k-1] < g {
			g = prefMin[k-1]
		}
		prefMin[k] = g
	}

	e := &EnvelopeTable{
		order: order,
		fp:    make([]int, m+1),
		tp:    make([]int, m+1),
		fdp:   make([]float64, m+1),
	}

	split := 0 // first index with below[split] > K
	for k := 1; k <= m; k++ {
		for split < m && below[split] <= k {
			split++
		}
		d := 0 // min(K, K+d) = K for d >= 0
		if split > 0 {
			d = prefMin[split-1]
		}
		if split < m && split-k < d {
			d = split - k
		}
		fp := k
		if d < 0 {
			fp = k + d
		}
		e.fp[k] = fp
		e.tp[k] = k - fp
		e.fdp[k] = float64(fp) / float64(k)
	}
	return e, nil
}

// Len returns the number of hypotheses m; the table has m+1 rows.
func (e *EnvelopeTable) Len() int {
	return len(e.order)
}

// Order returns the hypothesis indices sorted by ascending p-value,
// so Order()[:k] is the subset bounded by row k.
func (e *EnvelopeTable) Order() []int {
	o := make([]int, len(e.order))
	copy(o, e.order)
	return o
}

// FP returns the false positive upper bound for the top-k prefix.
func (e *EnvelopeTable) FP(k int) int {
	return e.fp[k]
}

// TP returns the true positive lower bound for the top-k prefix.
func (e *EnvelopeTable) TP(k int) int {
	return e.tp[k]
}

// FDP returns the false discovery proportion upper bound for the
// top-k prefix; FDP(0) is 0.
func (e *EnvelopeTable) FDP(k int) float64 {
	return e.fdp[k]
}

// FPs returns a copy of the false positive bound column.
func (e *EnvelopeTable) FPs() []int {
	return append([]int(nil), e.fp...)
}

// TPs returns a copy of the true positive bound column.
func (e *EnvelopeTable) TPs() []int {
	return append([]int(nil), e.tp...)
}

// FDPs returns a copy of the false discovery proportion column.
func (e *EnvelopeTable) FDPs() []float64 {
	return append([]float64(nil), e.fdp...)
}

// MonotoneTPs returns the running maximum of the true positive
// column. A lower bound for a prefix also holds for every larger
// prefix, so the smoothed column stays simultaneously valid.
func (e *EnvelopeTable) MonotoneTPs() []int {
	tp := e.TPs()
	for k := 1; k < len(tp); k++ {
		if tp[k] < tp[k-1] {
			tp[k] = tp[k-1]
		}
	}
	return tp
}

// WriteTSV writes the table with a header row.
func (e *EnvelopeTable) WriteTSV(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "k\tmaxFP\tminTP\tmaxFDP"); err != nil {
		return err
	}
	for k := 0; k <= e.Len(); k++ {
		_, err := fmt.Fprintf(w, "%d\t%d\t%d\t%g\n", k, e.fp[k], e.tp[k], e.fdp[k])
		if err != nil {
			return err
		}
	}
	return nil
}
