package peakfit_test

import (
	"fmt"
	"log"

	"github.com/cwbudde/algo-spectro/measure/peakfit"
	"github.com/cwbudde/algo-spectro/spectro/synth"
)

func ExampleAnalyze() {
	x, err := synth.Axis(0, 300, 601)
	if err != nil {
		log.Fatal(err)
	}

	y := synth.Lorentzians(x, []synth.Line{
		{Center: 100, Height: 0.8, Sigma: 5},
		{Center: 200, Height: 0.5, Sigma: 8},
	})

	summary, err := peakfit.Analyze(x, y, peakfit.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("peaks: %d\n", len(summary.Records))
	for i, rec := range summary.Records {
		fmt.Printf("peak %d: center %.0f, fwhm %.0f\n", i+1, rec.Center, rec.FWHM)
	}

	// Output:
	// peaks: 2
	// peak 1: center 100, fwhm 10
	// peak 2: center 200, fwhm 16
}
