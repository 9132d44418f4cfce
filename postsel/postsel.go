/*

Postsel computes simultaneous post hoc confidence bounds on the number
of false positives for multiple hypothesis testing (e.g. differential
gene expression). For any subset of hypotheses, selected before or
after seeing the data, it bounds the number of false positives at a
fixed confidence level, simultaneously over all possible subsets.

Bound the false positives in a subset of hypotheses:

	postsel bound pvalues.txt --alpha 0.05 --select 1,5,9

Compute the confidence envelope over all top-k lists:

	postsel envelope pvalues.txt --alpha 0.05

Calibrate the reference family by permutation and compute the
envelope with the calibrated family:

	postsel calibrate expr.tsv labels.txt --alpha 0.05 --perm 1000 --envelope

To see all the options run:

	postsel -h

*/
package main

import (
	"encoding/json"
	"math/rand"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/op/go-logging"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = "branch: " + gitbranch + ", revision: " + githash + ", build time: " + buildstamp

// Logger settings.
var log = logging.MustGetLogger("postsel")
var formatter = logging.MustStringFormatter(`%{message}`)

// command-line options
var (
	// application
	app = kingpin.New("postsel", "simultaneous post hoc bounds on false positives for multiple testing").Version(version)

	// technical
	nThreads   = app.Flag("nt", "number of threads to use").Int()
	seed       = app.Flag("seed", "random generator seed, default time based").Default("-1").Int64()
	cpuProfile = app.Flag("cpuprofile", "write cpu profile to file").String()

	// input/output
	outLogF  = app.Flag("log", "write log to a file").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")
	jsonF = app.Flag("json", "write json output to a file").String()

	// bound command
	cmdBound       = app.Command("bound", "bound the false positives in a subset of hypotheses")
	boundPValuesFN = cmdBound.Arg("pvalues", "p-value vector, one value per hypothesis").Required().ExistingFile()
	boundAlpha     = cmdBound.Flag("alpha", "confidence level is 1-alpha").Default("0.05").Float64()
	boundLambda    = cmdBound.Flag("lambda", "calibration factor of the reference family").Default("1").Float64()
	boundTemplate  = cmdBound.Flag("template", "reference family template (simes or beta)").Default("simes").Enum("simes", "beta")
	boundSelect    = cmdBound.Flag("select", "comma-separated 1-based hypothesis indices; all hypotheses by default").String()

	// envelope command
	cmdEnvelope       = app.Command("envelope", "compute the confidence envelope over all top-k lists")
	envelopePValuesFN = cmdEnvelope.Arg("pvalues", "p-value vector, one value per hypothesis").Required().ExistingFile()
	envelopeAlpha     = cmdEnvelope.Flag("alpha", "confidence level is 1-alpha").Default("0.05").Float64()
	envelopeLambda    = cmdEnvelope.Flag("lambda", "calibration factor of the reference family").Default("1").Float64()
	envelopeTemplate  = cmdEnvelope.Flag("template", "reference family template (simes or beta)").Default("simes").Enum("simes", "beta")
	envelopeOutF      = cmdEnvelope.Flag("out", "write the envelope table to a file").String()

	// calibrate command
	cmdCalibrate      = app.Command("calibrate", "calibrate the reference family by permutation")
	calibrateMatrixFN = cmdCalibrate.Arg("matrix", "expression matrix, one feature per line").Required().ExistingFile()
	calibrateLabelsFN = cmdCalibrate.Arg("labels", "group labels, one per sample").Required().ExistingFile()
	calibrateAlpha    = cmdCalibrate.Flag("alpha", "confidence level is 1-alpha").Default("0.05").Float64()
	calibrateB        = cmdCalibrate.Flag("perm", "number of permutations").Default("1000").Int()
	calibrateTemplate = cmdCalibrate.Flag("template", "reference family template (simes or beta)").Default("simes").Enum("simes", "beta")
	calibrateCPFN     = cmdCalibrate.Flag("checkpoint", "checkpoint database file").String()
	calibrateCPSec    = cmdCalibrate.Flag("cpinterval", "checkpoint interval in seconds").Default("30").Float64()
	calibrateEnvelope = cmdCalibrate.Flag("envelope", "compute the confidence envelope with the calibrated family").Bool()
	calibrateLambdas  = cmdCalibrate.Flag("lambdas", "keep the full permutation sample in the json output").Bool()
	calibrateOutF     = cmdCalibrate.Flag("out", "write the envelope table to a file").String()
)

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	// logging
	logging.SetFormatter(formatter)

	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		defer f.Close()
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	logging.SetLevel(level, "postsel")
	logging.SetLevel(level, "perm")
	logging.SetLevel(level, "checkpoint")

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	if *seed == -1 {
		*seed = time.Now().UnixNano()
		log.Debug("Random seed from time")
	}
	log.Infof("Random seed=%v", *seed)

	rand.Seed(*seed)
	runtime.GOMAXPROCS(*nThreads)

	effectiveNThreads := runtime.GOMAXPROCS(0)
	log.Infof("Using threads: %d.", effectiveNThreads)

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	startTime := time.Now()
	summary := &RunSummary{
		Version:     version,
		CommandLine: os.Args,
		Seed:        *seed,
		NThreads:    effectiveNThreads,
	}

	switch cmd {
	case cmdBound.FullCommand():
		runBound(summary)
	case cmdEnvelope.FullCommand():
		runEnvelope(summary)
	case cmdCalibrate.FullCommand():
		runCalibrate(summary)
	}

	summary.TotalTime = time.Since(startTime).Seconds()
	log.Noticef("Running time: %v", time.Since(startTime))

	// output summary in json format
	if *jsonF != "" {
		j, err := json.Marshal(summary)
		if err != nil {
			log.Error(err)
		} else {
			log.Debug(string(j))
			f, err := os.Create(*jsonF)
			if err != nil {
				log.Error("Error creating json output file:", err)
			} else {
				f.Write(j)
				f.Close()
			}
		}
	}
}
