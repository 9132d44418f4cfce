// plotenv creates a plot of the confidence envelope for a p-value vector.
package main

import (
	"flag"
	"fmt"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"bitbucket.org/Davydov/postsel/bound"
	"bitbucket.org/Davydov/postsel/dataset"
	"bitbucket.org/Davydov/postsel/family"
)

func main() {
	alpha := flag.Float64("alpha", 0.05, "alpha")
	lambda := flag.Float64("lambda", 1, "lambda")
	template := flag.String("template", "simes", "family template (simes or beta)")
	out := flag.String("out", "envelope.png", "output file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: plotenv [options] pvalues.txt")
		os.Exit(1)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		panic(err)
	}
	defer f.Close()
	pv, err := dataset.ReadVector(f)
	if err != nil {
		panic(err)
	}

	fam, err := family.New(*template, len(pv), *alpha, *lambda)
	if err != nil {
		panic(err)
	}
	e, err := bound.Envelope(fam, pv)
	if err != nil {
		panic(err)
	}

	p := plot.New()
	p.X.Label.Text = "k"
	p.Title.Text = fmt.Sprintf("%s envelope, alpha=%g, lambda=%g", *template, *alpha, *lambda)

	tp := make(plotter.XYs, e.Len()+1)
	fp := make(plotter.XYs, e.Len()+1)
	for k := 0; k <= e.Len(); k++ {
		tp[k].X = float64(k)
		tp[k].Y = float64(e.TP(k))
		fp[k].X = float64(k)
		fp[k].Y = float64(e.FP(k))
	}

	err = plotutil.AddLinePoints(p,
		"TP lower bound", tp,
		"FP upper bound", fp)
	if err != nil {
		panic(err)
	}

	if err := p.Save(4*vg.Inch, 4*vg.Inch, *out); err != nil {
		panic(err)
	}
}
