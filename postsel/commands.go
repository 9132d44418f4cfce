package main

import (
	"context"
	"os"
	"strconv"
	"strings"

	bolt "go.etcd.io/bbolt"

	"bitbucket.org/Davydov/postsel/bound"
	"bitbucket.org/Davydov/postsel/checkpoint"
	"bitbucket.org/Davydov/postsel/dataset"
	"bitbucket.org/Davydov/postsel/family"
	"bitbucket.org/Davydov/postsel/perm"
	"bitbucket.org/Davydov/postsel/tstat"
)

// readPValues loads a p-value vector from a file.
func readPValues(fn string) []float64 {
	f, err := os.Open(fn)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	pv, err := dataset.ReadVector(f)
	if err != nil {
		log.Fatal(err)
	}
	if len(pv) == 0 {
		log.Fatal("Empty p-value vector")
	}
	log.Infof("Read %d p-values", len(pv))
	return pv
}

// parseSelection parses comma-separated 1-based hypothesis indices.
func parseSelection(s string, m int) []int {
	if s == "" {
		subset := make([]int, m)
		for i := range subset {
			subset[i] = i
		}
		return subset
	}
	var subset []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		h, err := strconv.Atoi(field)
		if err != nil {
			log.Fatal("Error parsing selection:", err)
		}
		// the API is 0-based, the command line 1-based
		subset = append(subset, h-1)
	}
	return subset
}

// runBound computes the post hoc bound for a subset of hypotheses.
func runBound(summary *RunSummary) {
	pv := readPValues(*boundPValuesFN)

	fam, err := family.New(*boundTemplate, len(pv), *boundAlpha, *boundLambda)
	if err != nil {
		log.Fatal(err)
	}

	subset := parseSelection(*boundSelect, len(pv))
	b, err := bound.Subset(fam, pv, subset)
	if err != nil {
		log.Fatal(err)
	}

	log.Noticef("Selection of %d hypotheses: maxFP=%d, minTP=%d (%s family, alpha=%g, lambda=%g)",
		b.Size, b.FP, b.TP, fam.Name(), *boundAlpha, *boundLambda)
	summary.Bound = &b
}

// envelope computes and optionally writes the confidence envelope.
func envelope(pv []float64, template string, alpha, lambda float64, outFN string) *EnvelopeSummary {
	fam, err := family.New(template, len(pv), alpha, lambda)
	if err != nil {
		log.Fatal(err)
	}
	e, err := bound.Envelope(fam, pv)
	if err != nil {
		log.Fatal(err)
	}

	f := os.Stdout
	if outFN != "" {
		f, err = os.Create(outFN)
		if err != nil {
			log.Fatal("Error creating envelope output file:", err)
		}
		defer f.Close()
	}
	if err := e.WriteTSV(f); err != nil {
		log.Fatal("Error writing envelope:", err)
	}

	s := &EnvelopeSummary{
		M:        e.Len(),
		Alpha:    alpha,
		Lambda:   lambda,
		Template: template,
	}
	for k := 1; k <= e.Len(); k++ {
		if e.TP(k) > s.MaxTP {
			s.MaxTP = e.TP(k)
			s.ArgMaxTP = k
		}
	}
	log.Noticef("Envelope: at most %d hypotheses with at least %d true positives (k=%d)",
		s.ArgMaxTP, s.MaxTP, s.ArgMaxTP)
	return s
}

// runEnvelope computes the confidence envelope for all top-k lists.
func runEnvelope(summary *RunSummary) {
	pv := readPValues(*envelopePValuesFN)
	summary.Envelope = envelope(pv, *envelopeTemplate, *envelopeAlpha, *envelopeLambda, *envelopeOutF)
}

// runCalibrate calibrates the family by permutation and optionally
// computes the envelope with the calibrated factor.
func runCalibrate(summary *RunSummary) {
	mf, err := os.Open(*calibrateMatrixFN)
	if err != nil {
		log.Fatal(err)
	}
	defer mf.Close()
	data, err := dataset.ReadTSV(mf)
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("Read expression matrix: %d features, %d samples",
		data.NFeatures(), data.NSamples())

	lf, err := os.Open(*calibrateLabelsFN)
	if err != nil {
		log.Fatal(err)
	}
	defer lf.Close()
	labels, err := dataset.ReadLabels(lf)
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("Read %d labels, %d groups %v",
		labels.NSamples(), labels.NGroups(), labels.GroupSizes())

	c := perm.New(data, labels, tstat.PValues, *calibrateAlpha)
	c.B = *calibrateB
	c.Template = *calibrateTemplate
	c.Seed = *seed
	c.NWorkers = *nThreads

	if *calibrateCPFN != "" {
		db, err := bolt.Open(*calibrateCPFN, 0644, nil)
		if err != nil {
			log.Fatal("Error opening checkpoint database:", err)
		}
		defer db.Close()
		key := checkpoint.Key(*calibrateAlpha, *calibrateB, *seed)
		c.Checkpoint = checkpoint.NewIO(db, key, *calibrateCPSec)
	}

	res, err := c.Run(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	if !*calibrateLambdas {
		res.Lambdas = nil
	}
	summary.Calibration = res

	if *calibrateEnvelope {
		pv, err := tstat.PValues(data, labels.Codes)
		if err != nil {
			log.Fatal(err)
		}
		summary.Envelope = envelope(pv, *calibrateTemplate, *calibrateAlpha, res.Lambda, *calibrateOutF)
	}
}
