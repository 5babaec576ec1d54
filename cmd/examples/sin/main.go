package main

import (
	"fmt"
	"math"
	"math/rand"

	gan "github.com/adversarial-go/gan-go"
	"gorgonia.org/gorgonia"
)

func generateX() float64 {
	return 2 * math.Pi * rand.Float64()
}

func generateY(x float64) float64 {
	return math.Sin(x)
}

var (
	outputFolder    = "./output"
	batchSize       = 16
	latentSpaceSize = 2
	numEpoches      = 400
	numTestSamples  = 4800
)

func main() {
	// Initialize seed with constant value to reproduce results
	rand.Seed(1337)

	// Prepare synthetic data
	trainDataLength := 1024
	trainSet, err := gan.GenerateTrainingSet(trainDataLength, generateX, generateY)
	if err != nil {
		panic(err)
	}

	// Extract X and Y(X) values for charts plotting
	slicedXAxis, err := trainSet.TrainData.Slice(nil, gorgonia.S(0))
	if err != nil {
		panic(err)
	}
	slicedYAxis, err := trainSet.TrainData.Slice(nil, gorgonia.S(1))
	if err != nil {
		panic(err)
	}

	// Plot reference function
	err = gan.PlotXY(slicedXAxis.Materialize(), slicedYAxis.Materialize(), fmt.Sprintf("%s/reference_function.png", outputFolder))
	if err != nil {
		panic(err)
	}

	definedGAN, err := gan.NewGAN(defineGenerator, defineDiscriminator, gan.Config{
		BatchSize: batchSize,
		LatentDim: latentSpaceSize,
		DataDim:   2,
		Prior:     gan.PriorNormal,
		Verbose:   true,
	})
	if err != nil {
		panic(err)
	}
	defer definedGAN.Close()

	stepsPerEpoch := trainDataLength / batchSize
	source := definedGAN.DataSource(trainSet)
	if _, err := definedGAN.FitGenerator(source, stepsPerEpoch, numEpoches, batchSize); err != nil {
		panic(err)
	}

	// Final test of Generator
	fmt.Println("Start testing generator after final epoch")
	testSamplesTensor, err := definedGAN.Generate(numTestSamples)
	if err != nil {
		panic(err)
	}
	slicedXAxis, err = testSamplesTensor.Slice(nil, gorgonia.S(0))
	if err != nil {
		panic(err)
	}
	slicedYAxis, err = testSamplesTensor.Slice(nil, gorgonia.S(1))
	if err != nil {
		panic(err)
	}
	err = gan.PlotXY(slicedXAxis.Materialize(), slicedYAxis.Materialize(), fmt.Sprintf("%s/gen_reference_func_final.png", outputFolder))
	if err != nil {
		panic(err)
	}
}

func defineDiscriminator(g *gorgonia.ExprGraph) *gan.DiscriminatorNet {
	return gan.Discriminator(
		linearLayer(g, "discriminator_train_0", 256, 2, gan.Rectify),
		linearLayer(g, "discriminator_train_1", 128, 256, gan.Rectify),
		linearLayer(g, "discriminator_train_2", 64, 128, gan.Rectify),
		linearLayer(g, "discriminator_train_3", 32, 64, gan.Rectify),
		linearLayer(g, "discriminator_train_4", 1, 32, gan.Sigmoid),
	)
}

func defineGenerator(g *gorgonia.ExprGraph) *gan.GeneratorNet {
	return gan.Generator(
		linearLayer(g, "generator_0", 16, latentSpaceSize, gan.Rectify),
		linearLayer(g, "generator_1", 32, 16, gan.Rectify),
		linearLayer(g, "generator_2", 16, 32, gan.Rectify),
		linearLayer(g, "generator_3", 2, 16, gan.NoActivation),
	)
}

func linearLayer(g *gorgonia.ExprGraph, name string, out, in int, activation gan.ActivationFunc) *gan.Layer {
	w := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(out, in), gorgonia.WithName(name+"_w"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	b := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(1, out), gorgonia.WithName(name+"_b"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	return &gan.Layer{WeightNode: w, BiasNode: b, Type: gan.LayerLinear, Activation: activation}
}
