package main

import (
	"fmt"
	"math"
	"math/rand"

	gan "github.com/adversarial-go/gan-go"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

var (
	outputFolder    = "./output"
	batchSize       = 64
	latentSpaceSize = 20
	stepsPerEpoch   = 100
	numEpoches      = 10
	numPlotSamples  = 2048
)

// sampleCircle Draws points from a noisy ring of radius ~0.5 around (0.2, 0.2)
func sampleCircle(rnd *rand.Rand, n int) *tensor.Dense {
	data := make([]float64, 2*n)
	for i := 0; i < n; i++ {
		r := 0.5 + 0.1*rnd.NormFloat64()
		angle := 2 * math.Pi * rnd.Float64()
		data[2*i] = r*math.Cos(angle) + 0.2
		data[2*i+1] = r*math.Sin(angle) + 0.2
	}
	return tensor.New(tensor.WithShape(n, 2), tensor.WithBacking(data))
}

func main() {
	// Initialize seed with constant value to reproduce results
	rand.Seed(1337)
	rnd := rand.New(rand.NewSource(1337))

	definedGAN, err := gan.NewGAN(defineGenerator, defineDiscriminator, gan.Config{
		BatchSize: batchSize,
		LatentDim: latentSpaceSize,
		DataDim:   2,
		Prior:     gan.PriorUniform,
		Verbose:   true,
	})
	if err != nil {
		panic(err)
	}
	defer definedGAN.Close()

	source := func() (*gan.Batch, error) {
		return &gan.Batch{
			Real: sampleCircle(rnd, batchSize),
			Z:    definedGAN.SampleZ(batchSize),
		}, nil
	}

	plotCallback, err := gan.NewPlotSamples(definedGAN, sampleCircle(rnd, numPlotSamples), fmt.Sprintf("%s/epoches_plot", outputFolder), 512)
	if err != nil {
		panic(err)
	}

	if _, err := definedGAN.FitGenerator(source, stepsPerEpoch, numEpoches, batchSize, plotCallback); err != nil {
		panic(err)
	}

	// Inspect latent-space smoothness along a random path
	walked, err := definedGAN.Interpolate(definedGAN.RandomZPoint(), definedGAN.RandomZPoint(), 32)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Interpolated %v samples along a latent path\n", walked.Shape()[0])

	if err := definedGAN.SaveWeights(fmt.Sprintf("%s/{}.gob", outputFolder)); err != nil {
		panic(err)
	}
	fmt.Println("Weights saved")
}

func defineGenerator(g *gorgonia.ExprGraph) *gan.GeneratorNet {
	return gan.Generator(
		linearLayer(g, "generator_0", 4*latentSpaceSize, latentSpaceSize, gan.Rectify),
		linearLayer(g, "generator_1", 4*latentSpaceSize, 4*latentSpaceSize, gan.Rectify),
		linearLayer(g, "generator_2", 2, 4*latentSpaceSize, gan.NoActivation),
	)
}

func defineDiscriminator(g *gorgonia.ExprGraph) *gan.DiscriminatorNet {
	return gan.Discriminator(
		linearLayer(g, "discriminator_0", 400, 2, gan.LeakyRectifyWith(0.3)),
		linearLayer(g, "discriminator_1", 400, 400, gan.LeakyRectifyWith(0.3)),
		linearLayer(g, "discriminator_2", 1, 400, gan.Sigmoid),
	)
}

func linearLayer(g *gorgonia.ExprGraph, name string, out, in int, activation gan.ActivationFunc) *gan.Layer {
	w := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(out, in), gorgonia.WithName(name+"_w"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	b := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(1, out), gorgonia.WithName(name+"_b"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	return &gan.Layer{WeightNode: w, BiasNode: b, Type: gan.LayerLinear, Activation: activation}
}
