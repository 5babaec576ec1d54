package gan_go

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Callback Per-epoch side effects hook for FitGenerator (plotting, logging and such).
// Returned errors abort training.
type Callback interface {
	OnEpochBegin(epoch int, logs Logs) error
	OnEpochEnd(epoch int, logs Logs) error
}

// PlotSamples Renders the reference dataset alongside freshly generated
// samples as scatter PNG files: once before training starts and once after
// every epoch. Works for 2-dimensional data only.
type PlotSamples struct {
	gan        *GAN
	reference  *tensor.Dense
	outDir     string
	numSamples int
}

// NewPlotSamples Constructor for PlotSamples.
//
// reference - (n, 2) dense of real samples drawn on every chart
// outDir - created if missing
// numSamples - how many samples to generate per chart
//
func NewPlotSamples(definedGAN *GAN, reference *tensor.Dense, outDir string, numSamples int) (*PlotSamples, error) {
	if definedGAN == nil {
		return nil, fmt.Errorf("GAN must be provided")
	}
	if reference == nil || len(reference.Shape()) != 2 || reference.Shape()[1] != 2 {
		return nil, fmt.Errorf("Reference samples must have shape (n, 2)")
	}
	if numSamples < 1 {
		return nil, fmt.Errorf("Number of samples must be positive, but got %d", numSamples)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "Can't create output directory")
	}
	return &PlotSamples{
		gan:        definedGAN,
		reference:  reference,
		outDir:     outDir,
		numSamples: numSamples,
	}, nil
}

// OnEpochBegin Plots the untrained generator's output once, before the first epoch.
func (p *PlotSamples) OnEpochBegin(epoch int, logs Logs) error {
	if epoch == 0 {
		return p.plot("on_begin_0.png")
	}
	return nil
}

// OnEpochEnd Plots generated samples against the reference dataset.
func (p *PlotSamples) OnEpochEnd(epoch int, logs Logs) error {
	return p.plot(fmt.Sprintf("on_end_%d.png", epoch))
}

func (p *PlotSamples) plot(outName string) error {
	generated, err := p.gan.Generate(p.numSamples)
	if err != nil {
		return errors.Wrap(err, "Can't generate samples for chart")
	}
	fname := filepath.Join(p.outDir, outName)
	if err := PlotScatterSets(p.reference, generated, fname); err != nil {
		return errors.Wrap(err, fmt.Sprintf("Can't plot chart '%s'", fname))
	}
	return nil
}
