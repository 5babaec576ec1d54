package gan_go

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

const (
	testBatchSize = 16
	testLatentDim = 8
	testDataDim   = 2
)

func linearLayer(g *gorgonia.ExprGraph, name string, out, in int, activation ActivationFunc) *Layer {
	w := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(out, in), gorgonia.WithName(name+"_w"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	b := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(1, out), gorgonia.WithName(name+"_b"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	return &Layer{WeightNode: w, BiasNode: b, Type: LayerLinear, Activation: activation}
}

func simpleGenerator(g *gorgonia.ExprGraph) *GeneratorNet {
	return Generator(
		linearLayer(g, "generator_l0", 16, testLatentDim, Rectify),
		linearLayer(g, "generator_l1", 16, 16, Rectify),
		linearLayer(g, "generator_l2", testDataDim, 16, NoActivation),
	)
}

func simpleDiscriminator(g *gorgonia.ExprGraph) *DiscriminatorNet {
	return Discriminator(
		linearLayer(g, "discriminator_l0", 32, testDataDim, LeakyRectifyWith(0.3)),
		linearLayer(g, "discriminator_l1", 16, 32, LeakyRectifyWith(0.3)),
		linearLayer(g, "discriminator_l2", 1, 16, Sigmoid),
	)
}

func newSimpleGAN(t *testing.T) *GAN {
	t.Helper()
	definedGAN, err := NewGAN(simpleGenerator, simpleDiscriminator, Config{
		BatchSize: testBatchSize,
		LatentDim: testLatentDim,
		DataDim:   testDataDim,
	})
	require.NoError(t, err)
	t.Cleanup(func() { definedGAN.Close() })
	return definedGAN
}

// circleBatch Draws points from a noisy ring around (0.2, 0.2).
func circleBatch(rnd *rand.Rand, n int) *tensor.Dense {
	data := make([]float64, 2*n)
	for i := 0; i < n; i++ {
		r := 0.5 + 0.1*rnd.NormFloat64()
		angle := 2 * math.Pi * rnd.Float64()
		data[2*i] = r*math.Cos(angle) + 0.2
		data[2*i+1] = r*math.Sin(angle) + 0.2
	}
	return tensor.New(tensor.WithShape(n, 2), tensor.WithBacking(data))
}

type countingCallback struct {
	begins, ends int
}

func (c *countingCallback) OnEpochBegin(epoch int, logs Logs) error {
	c.begins++
	return nil
}

func (c *countingCallback) OnEpochEnd(epoch int, logs Logs) error {
	c.ends++
	return nil
}

func rowOf(t *testing.T, d *tensor.Dense, i int) []float64 {
	t.Helper()
	width := d.Shape()[1]
	data, ok := d.Data().([]float64)
	require.True(t, ok)
	return data[i*width : (i+1)*width]
}

func stackPoints(points ...*tensor.Dense) *tensor.Dense {
	dim := points[0].Shape().TotalSize()
	data := make([]float64, 0, len(points)*dim)
	for _, p := range points {
		data = append(data, p.Data().([]float64)...)
	}
	return tensor.New(tensor.WithShape(len(points), dim), tensor.WithBacking(data))
}

func TestMetricsNames(t *testing.T) {
	definedGAN := newSimpleGAN(t)
	assert.Equal(t, []string{"g_loss", "d_loss"}, definedGAN.MetricsNames())

	named, err := NewGAN(simpleGenerator, simpleDiscriminator, Config{
		BatchSize:             testBatchSize,
		LatentDim:             testLatentDim,
		DataDim:               testDataDim,
		GeneratorLossName:     "gen_mse",
		DiscriminatorLossName: "dis_mse",
	})
	require.NoError(t, err)
	defer named.Close()
	assert.Equal(t, []string{"gen_mse", "dis_mse"}, named.MetricsNames())
}

func TestFitGeneratorLearnSimpleDistribution(t *testing.T) {
	definedGAN := newSimpleGAN(t)
	rnd := rand.New(rand.NewSource(42))
	source := func() (*Batch, error) {
		return &Batch{
			Real: circleBatch(rnd, testBatchSize),
			Z:    definedGAN.SampleZ(testBatchSize),
		}, nil
	}
	counter := &countingCallback{}
	outDir := filepath.Join(t.TempDir(), "epoches_plot")
	plotCallback, err := NewPlotSamples(definedGAN, circleBatch(rnd, 256), outDir, 64)
	require.NoError(t, err)

	history, err := definedGAN.FitGenerator(source, 20, 2, testBatchSize, counter, plotCallback)
	require.NoError(t, err)
	require.Len(t, history.Epochs, 2)
	for _, logs := range history.Epochs {
		for _, name := range definedGAN.MetricsNames() {
			val, ok := logs[name]
			require.True(t, ok)
			assert.False(t, math.IsNaN(val), "loss '%s' is NaN", name)
			assert.False(t, math.IsInf(val, 0), "loss '%s' is Inf", name)
		}
	}
	assert.Equal(t, 2, counter.begins)
	assert.Equal(t, 2, counter.ends)
	for _, name := range []string{"on_begin_0.png", "on_end_0.png", "on_end_1.png"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, "chart '%s' is missing", name)
	}
}

func TestFitGeneratorBatchSizeMismatch(t *testing.T) {
	definedGAN := newSimpleGAN(t)
	source := func() (*Batch, error) {
		return &Batch{Real: circleBatch(rand.New(rand.NewSource(1)), testBatchSize), Z: definedGAN.SampleZ(testBatchSize)}, nil
	}
	_, err := definedGAN.FitGenerator(source, 1, 1, testBatchSize/2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match configured batch size")
}

func TestFitGeneratorMalformedBatch(t *testing.T) {
	definedGAN := newSimpleGAN(t)
	rnd := rand.New(rand.NewSource(7))

	t.Run("MissingReal", func(t *testing.T) {
		source := func() (*Batch, error) {
			return &Batch{Z: definedGAN.SampleZ(testBatchSize)}, nil
		}
		_, err := definedGAN.FitGenerator(source, 1, 1, testBatchSize)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing real data")
	})

	t.Run("MissingLatent", func(t *testing.T) {
		source := func() (*Batch, error) {
			return &Batch{Real: circleBatch(rnd, testBatchSize)}, nil
		}
		_, err := definedGAN.FitGenerator(source, 1, 1, testBatchSize)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing latent data")
	})

	t.Run("WrongRowCount", func(t *testing.T) {
		source := func() (*Batch, error) {
			return &Batch{Real: circleBatch(rnd, testBatchSize/2), Z: definedGAN.SampleZ(testBatchSize)}, nil
		}
		_, err := definedGAN.FitGenerator(source, 1, 1, testBatchSize)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rows")
	})
}

func TestGanUtilityFuncs(t *testing.T) {
	definedGAN := newSimpleGAN(t)

	x := tensor.New(tensor.WithShape(testLatentDim), tensor.WithBacking(make([]float64, testLatentDim)))
	y := tensor.New(tensor.WithShape(testLatentDim), tensor.WithBacking(make([]float64, testLatentDim)))
	interpolated, err := definedGAN.Interpolate(x, y, 5)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{5, testDataDim}, interpolated.Shape())

	zPoint := definedGAN.RandomZPoint()
	assert.Equal(t, tensor.Shape{testLatentDim}, zPoint.Shape())

	neighbors, err := definedGAN.Neighborhood(zPoint, 0.01, 12)
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{12, testDataDim}, neighbors.Shape())

	// Local continuity: tiny latent perturbations stay close in data space
	first := rowOf(t, neighbors, 0)
	totalAbsDiff := 0.0
	for i := 0; i < 12; i++ {
		row := rowOf(t, neighbors, i)
		for j := range row {
			totalAbsDiff += math.Abs(row[j] - first[j])
		}
	}
	meanAbsDiff := totalAbsDiff / float64(12*testDataDim)
	assert.Less(t, meanAbsDiff, 0.25)
}

func TestInterpolateEndpoints(t *testing.T) {
	definedGAN := newSimpleGAN(t)
	x := definedGAN.RandomZPoint()
	y := definedGAN.RandomZPoint()

	interpolated, err := definedGAN.Interpolate(x, y, 4)
	require.NoError(t, err)
	exact, err := definedGAN.GenerateLatent(stackPoints(x, y))
	require.NoError(t, err)

	assert.Equal(t, rowOf(t, exact, 0), rowOf(t, interpolated, 0))
	assert.Equal(t, rowOf(t, exact, 1), rowOf(t, interpolated, 3))
}

func TestGenerate(t *testing.T) {
	definedGAN := newSimpleGAN(t)

	// More rows than one graph batch to exercise chunked generation
	samples, err := definedGAN.Generate(3*testBatchSize + 5)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3*testBatchSize + 5, testDataDim}, samples.Shape())

	_, err = definedGAN.Generate(0)
	require.Error(t, err)
}

func TestGenerateLatentBadShape(t *testing.T) {
	definedGAN := newSimpleGAN(t)
	wrong := tensor.New(tensor.WithShape(2, testLatentDim+1), tensor.WithBacking(make([]float64, 2*(testLatentDim+1))))
	_, err := definedGAN.GenerateLatent(wrong)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shape")
}

func TestShapeMismatchFailsFast(t *testing.T) {
	wideGenerator := func(g *gorgonia.ExprGraph) *GeneratorNet {
		return Generator(linearLayer(g, "generator_l0", testDataDim+1, testLatentDim, NoActivation))
	}
	_, err := NewGAN(wideGenerator, simpleDiscriminator, Config{
		BatchSize: testBatchSize,
		LatentDim: testLatentDim,
		DataDim:   testDataDim,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match Discriminator input width")
}

func learnablesData(definedGAN *GAN) [][]float64 {
	nodes := append(definedGAN.GeneratorLearnables(), definedGAN.DiscriminatorLearnables()...)
	result := make([][]float64, 0, len(nodes))
	for _, node := range nodes {
		result = append(result, node.Value().Data().([]float64))
	}
	return result
}

func learnablesEqual(a, b *GAN) bool {
	aData, bData := learnablesData(a), learnablesData(b)
	if len(aData) != len(bData) {
		return false
	}
	for i := range aData {
		if len(aData[i]) != len(bData[i]) {
			return false
		}
		for j := range aData[i] {
			if aData[i][j] != bData[i][j] {
				return false
			}
		}
	}
	return true
}

func TestGanSaveWeights(t *testing.T) {
	saved := newSimpleGAN(t)
	loaded := newSimpleGAN(t)

	// Fresh models start from independent random init
	require.False(t, learnablesEqual(saved, loaded))

	pathTemplate := filepath.Join(t.TempDir(), "{}.gob")
	require.NoError(t, saved.SaveWeights(pathTemplate))
	require.NoError(t, loaded.LoadWeights(pathTemplate))
	assert.True(t, learnablesEqual(saved, loaded))
}

func TestSaveWeightsBadTemplate(t *testing.T) {
	definedGAN := newSimpleGAN(t)
	err := definedGAN.SaveWeights(filepath.Join(t.TempDir(), "weights.gob"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "placeholder")
}

func TestLoadWeightsMissingFile(t *testing.T) {
	definedGAN := newSimpleGAN(t)
	err := definedGAN.LoadWeights(filepath.Join(t.TempDir(), "{}.gob"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generator weights")
}

func TestDataSource(t *testing.T) {
	definedGAN := newSimpleGAN(t)
	trainSet, err := GenerateTrainingSet(testBatchSize*3, func() float64 { return 2 * math.Pi * rand.Float64() }, math.Sin)
	require.NoError(t, err)

	source := definedGAN.DataSource(trainSet)
	for i := 0; i < 5; i++ {
		batch, err := source()
		require.NoError(t, err)
		require.NoError(t, batch.validate(testBatchSize, testLatentDim))
		assert.Equal(t, tensor.Shape{testBatchSize, testDataDim}, batch.Real.Shape())
	}
}
