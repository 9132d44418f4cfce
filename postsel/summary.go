package main

import (
	"bitbucket.org/Davydov/postsel/bound"
	"bitbucket.org/Davydov/postsel/perm"
)

// RunSummary is storing postsel run summary information.
type RunSummary struct {
	// Version stores postsel version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// Seed is the seed used for random number generation initialization.
	Seed int64 `json:"seed"`
	// NThreads is the number of processes used.
	NThreads int `json:"nThreads"`
	// TotalTime is the computations time in seconds.
	TotalTime float64 `json:"time"`
	// Bound is the subset bound result, if computed.
	Bound *bound.Bound `json:"bound,omitempty"`
	// Envelope is the envelope summary, if computed.
	Envelope *EnvelopeSummary `json:"envelope,omitempty"`
	// Calibration is the permutation calibration result, if computed.
	Calibration *perm.Result `json:"calibration,omitempty"`
}

// EnvelopeSummary is storing summary information for a confidence
// envelope computation.
type EnvelopeSummary struct {
	// M is the number of hypotheses.
	M int `json:"m"`
	// Alpha is the confidence level parameter.
	Alpha float64 `json:"alpha"`
	// Lambda is the calibration factor of the family.
	Lambda float64 `json:"lambda"`
	// Template is the family template name.
	Template string `json:"template"`
	// MaxTP is the largest true positive lower bound in the table.
	MaxTP int `json:"maxTP"`
	// ArgMaxTP is the smallest k attaining MaxTP.
	ArgMaxTP int `json:"argMaxTP"`
}
