package gan_go

import (
	"fmt"
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gorgonia.org/tensor"
)

// PlotXY Plot chart for input y(x)
func PlotXY(x, y tensor.Tensor, fname string) error {
	if x.Dims() != 1 {
		return fmt.Errorf("X must have one dimension, but got %d", x.Dims())
	}
	if y.Dims() != 1 {
		return fmt.Errorf("Y(X) must have one dimension, but got %d", y.Dims())
	}
	if x.DataSize() != y.DataSize() {
		return fmt.Errorf("X and Y(X) must have same number of elements, but X has %d elements and Y(X) has %d elements", x.DataSize(), y.DataSize())
	}
	scatterData := make(plotter.XYs, x.DataSize())
	for i := 0; i < x.DataSize(); i++ {
		xval, err := x.At(i)
		if err != nil {
			return errors.Wrap(err, "Can't select X-value")
		}
		yval, err := y.At(i)
		if err != nil {
			return errors.Wrap(err, "Can't select Y(x)-value")
		}
		// Do no cast interfaces{} to any type when you are not sure about types
		scatterData[i].X = xval.(float64)
		scatterData[i].Y = yval.(float64)
	}
	scatter, err := plotter.NewScatter(scatterData)
	if err != nil {
		return errors.Wrap(err, "Can't init new scatter")
	}
	scatter.GlyphStyle.Color = color.RGBA{R: 255, B: 128, A: 255}
	p := plot.New()
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.Add(plotter.NewGrid())
	p.Add(scatter)
	if err := p.Save(4*vg.Inch, 4*vg.Inch, fname); err != nil {
		return errors.Wrap(err, "Can't save plot")
	}
	return nil
}

// PlotScatterSets Renders two 2-D sample sets on one chart: reference samples
// in blue, generated samples in red. Both tensors must have shape (n, 2).
func PlotScatterSets(reference, generated *tensor.Dense, fname string) error {
	referenceXYs, err := scatterXYs(reference)
	if err != nil {
		return errors.Wrap(err, "Bad reference samples")
	}
	generatedXYs, err := scatterXYs(generated)
	if err != nil {
		return errors.Wrap(err, "Bad generated samples")
	}
	referenceScatter, err := plotter.NewScatter(referenceXYs)
	if err != nil {
		return errors.Wrap(err, "Can't init reference scatter")
	}
	referenceScatter.GlyphStyle.Color = color.RGBA{B: 255, A: 128}
	generatedScatter, err := plotter.NewScatter(generatedXYs)
	if err != nil {
		return errors.Wrap(err, "Can't init generated scatter")
	}
	generatedScatter.GlyphStyle.Color = color.RGBA{R: 255, A: 128}
	p := plot.New()
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.Add(plotter.NewGrid())
	p.Add(referenceScatter)
	p.Add(generatedScatter)
	p.Legend.Add("reference", referenceScatter)
	p.Legend.Add("generated", generatedScatter)
	if err := p.Save(4*vg.Inch, 4*vg.Inch, fname); err != nil {
		return errors.Wrap(err, "Can't save plot")
	}
	return nil
}

func scatterXYs(samples *tensor.Dense) (plotter.XYs, error) {
	if samples == nil {
		return nil, fmt.Errorf("Samples must be provided")
	}
	shape := samples.Shape()
	if len(shape) != 2 || shape[1] != 2 {
		return nil, fmt.Errorf("Samples must have shape (n, 2), but got %v", shape)
	}
	data, ok := samples.Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("Samples must be Float64-backed")
	}
	xys := make(plotter.XYs, shape[0])
	for i := 0; i < shape[0]; i++ {
		xys[i].X = data[2*i]
		xys[i].Y = data[2*i+1]
	}
	return xys, nil
}
