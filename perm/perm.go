/*
Package perm calibrates the reference family tightening factor by
permutation of the sample labels.

For every permutation of the labels the per-feature statistic is
recomputed and the smallest factor that keeps the lambda=1 family
below all permuted p-value order statistics is extracted:

	lambda_b = min over k of p_(k) / t_k(alpha, 1).

The empirical alpha-quantile of these factors is the tightest factor
that still controls the joint error rate at level alpha under
exchangeability of the samples within groups. For positively dependent
features the selected factor typically exceeds one, making the
resulting bounds less conservative than the worst-case family.
*/
package perm

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"github.com/montanaflynn/stats"
	"github.com/op/go-logging"
	"golang.org/x/sync/errgroup"

	"bitbucket.org/Davydov/postsel/checkpoint"
	"bitbucket.org/Davydov/postsel/dataset"
	"bitbucket.org/Davydov/postsel/family"
)

// log is the global logging variable.
var log = logging.MustGetLogger("perm")

// ErrDomain is returned when a parameter is outside of its domain.
var ErrDomain = family.ErrDomain

// minLambda floors the selected factor away from zero so the
// calibrated family stays non-degenerate.
const minLambda = 1e-10

// StatFunc recomputes the per-feature p-values for a label
// assignment. It must be a pure function of its arguments: results
// for a permutation are cached by checkpoints and reused on resume.
type StatFunc func(data *dataset.Data, labels []int) ([]float64, error)

// Calibrator runs the permutation loop. The zero values of the
// optional fields select the defaults.
type Calibrator struct {
	// B is the number of permutations (1000 by default).
	B int
	// Template is the family template ("simes" by default).
	Template string
	// NWorkers limits the number of parallel permutations;
	// GOMAXPROCS by default.
	NWorkers int
	// Seed seeds the permutation generator. Runs with equal seed
	// and B give identical results regardless of NWorkers.
	Seed int64
	// Checkpoint, if set, persists finished permutations.
	Checkpoint *checkpoint.IO

	alpha  float64
	data   *dataset.Data
	labels *dataset.Labels
	stat   StatFunc
}

// Result is the outcome of a calibration run.
type Result struct {
	// Lambda is the selected calibration factor.
	Lambda float64 `json:"lambda"`
	// Lambdas is the empirical permutation sample, sorted ascending.
	Lambdas []float64 `json:"lambdas,omitempty"`
	// Median is the sample median, for diagnostics.
	Median float64 `json:"median"`
	// B is the number of permutations used.
	B int `json:"B"`
	// Alpha is the target joint error rate level.
	Alpha float64 `json:"alpha"`
}

// New creates a Calibrator for the given data, labels, statistic
// function and level, with default settings.
func New(data *dataset.Data, labels *dataset.Labels, stat StatFunc, alpha float64) *Calibrator {
	return &Calibrator{
		B:        1000,
		Template: "simes",
		alpha:    alpha,
		data:     data,
		labels:   labels,
		stat:     stat,
	}
}

// Run executes the permutation loop and returns the calibrated
// factor. Cancelling the context aborts the run without a result.
func (c *Calibrator) Run(ctx context.Context) (*Result, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	b := c.B
	template := c.Template
	if template == "" {
		template = "simes"
	}
	nWorkers := c.NWorkers
	if nWorkers <= 0 {
		nWorkers = runtime.GOMAXPROCS(0)
	}

	// thresholds of the uncalibrated family
	fam, err := family.New(template, c.data.NFeatures(), c.alpha, 1)
	if err != nil {
		return nil, err
	}
	thr := fam.Thresholds()

	lambdas := make([]float64, b)
	done := make([]bool, b)
	c.resume(b, lambdas, done)

	log.Noticef("Calibrating %s family: %d permutations, alpha=%g, %d workers",
		template, b, c.alpha, nWorkers)

	jobs := make(chan int, b)
	for i := 0; i < b; i++ {
		if !done[i] {
			jobs <- i
		}
	}
	close(jobs)

	var mu sync.Mutex // guards done for checkpoint snapshots

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < nWorkers; w++ {
		g.Go(func() error {
			for i := range jobs {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				lambda, err := c.permutation(i, thr)
				if err != nil {
					return err
				}
				lambdas[i] = lambda
				mu.Lock()
				done[i] = true
				c.save(b, lambdas, done, false)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sorted := append([]float64(nil), lambdas...)
	sort.Float64s(sorted)
	lambda := sorted[quantileIndex(c.alpha, b)]
	if lambda < minLambda {
		lambda = minLambda
	}

	median, _ := stats.Median(sorted)
	log.Noticef("Calibrated lambda=%g (median %g)", lambda, median)

	c.saveFinal(b, lambdas, done)

	return &Result{
		Lambda:  lambda,
		Lambdas: sorted,
		Median:  median,
		B:       b,
		Alpha:   c.alpha,
	}, nil
}

// permutation computes the calibration factor of the i-th
// permutation. Every permutation draws from its own random stream, so
// the result does not depend on worker scheduling.
func (c *Calibrator) permutation(i int, thr []float64) (float64, error) {
	rng := rand.New(rand.NewSource(c.Seed + int64(i)))
	perm := rng.Perm(len(c.labels.Codes))
	labels := make([]int, len(perm))
	for j, p := range perm {
		labels[j] = c.labels.Codes[p]
	}

	pv, err := c.stat(c.data, labels)
	if err != nil {
		return 0, fmt.Errorf("permutation %d: %w", i, err)
	}
	if len(pv) != len(thr) {
		return 0, fmt.Errorf("permutation %d: statistic returned %d values, expected %d",
			i, len(pv), len(thr))
	}

	sorted := append([]float64(nil), pv...)
	sort.Float64s(sorted)

	lambda := math.Inf(1)
	for k, p := range sorted {
		if l := p / thr[k]; l < lambda {
			lambda = l
		}
	}
	return lambda, nil
}

// quantileIndex returns the index of the empirical alpha-quantile
// order statistic in a sorted sample of size b.
func quantileIndex(alpha float64, b int) int {
	i := int(math.Ceil(alpha * float64(b)))
	if i < 1 {
		i = 1
	}
	if i > b {
		i = b
	}
	return i - 1
}

// check validates the calibration inputs.
func (c *Calibrator) check() error {
	if c.data == nil || c.labels == nil || c.stat == nil {
		return fmt.Errorf("%w: calibrator needs data, labels and a statistic function", ErrDomain)
	}
	if c.alpha <= 0 || c.alpha >= 1 {
		return fmt.Errorf("%w: alpha=%v, must be in (0, 1)", ErrDomain, c.alpha)
	}
	if c.B < 1 {
		return fmt.Errorf("%w: B=%d, must be positive", ErrDomain, c.B)
	}
	if c.labels.NSamples() != c.data.NSamples() {
		return fmt.Errorf("%w: %d labels for %d samples",
			ErrDomain, c.labels.NSamples(), c.data.NSamples())
	}
	if c.labels.NGroups() < 2 {
		return fmt.Errorf("%w: need at least two groups", ErrDomain)
	}
	return nil
}

// resume loads finished permutations from the checkpoint.
func (c *Calibrator) resume(b int, lambdas []float64, done []bool) {
	if c.Checkpoint == nil {
		return
	}
	data, err := c.Checkpoint.Load()
	if err != nil {
		log.Error("Error loading checkpoint:", err)
		return
	}
	if data == nil {
		return
	}
	if !data.Matches(c.alpha, b, c.Seed) {
		log.Warning("Checkpoint settings mismatch, starting from scratch")
		return
	}
	for i, l := range data.Lambdas {
		if i >= 0 && i < b {
			lambdas[i] = l
			done[i] = true
		}
	}
}

// save stores a checkpoint if the last one is old enough. The caller
// holds the mutex protecting done.
func (c *Calibrator) save(b int, lambdas []float64, done []bool, final bool) {
	if c.Checkpoint == nil {
		return
	}
	if !final && !c.Checkpoint.Old() {
		return
	}
	data := &checkpoint.Data{
		Alpha:   c.alpha,
		B:       b,
		Seed:    c.Seed,
		Lambdas: make(map[int]float64),
		Final:   final,
	}
	for i, d := range done {
		if d {
			data.Lambdas[i] = lambdas[i]
		}
	}
	if err := c.Checkpoint.Save(data); err != nil {
		log.Error("Error saving checkpoint:", err)
	}
}

// saveFinal stores the completed run.
func (c *Calibrator) saveFinal(b int, lambdas []float64, done []bool) {
	if c.Checkpoint == nil {
		return
	}
	c.save(b, lambdas, done, true)
}
