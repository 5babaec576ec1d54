package gan_go

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Config Knobs for the GAN orchestrator. Zero values are filled by withDefaults.
type Config struct {
	// BatchSize Fixes graph shapes; FitGenerator's batchSize argument must match it.
	BatchSize int
	// LatentDim Width of latent vectors fed to the generator.
	LatentDim int
	// DataDim Width of data-space samples; must match both generator output and discriminator input.
	DataDim int
	// Prior Latent distribution for Generate/RandomZPoint and friends.
	Prior Prior
	// LearnRate Adam learning rate for both solvers. Default 0.0002.
	LearnRate float64
	// Beta1 Adam first-moment decay. Default 0.5.
	Beta1 float64
	// GeneratorLoss / DiscriminatorLoss Default to MSELoss (least-squares GAN).
	GeneratorLoss     LossFunc
	DiscriminatorLoss LossFunc
	// GeneratorLossName / DiscriminatorLossName Reported metric names, default "g_loss" / "d_loss".
	GeneratorLossName     string
	DiscriminatorLossName string
	// Seed Seeds every latent-space draw. Default 1337.
	Seed int64
	// Verbose Enables per-epoch progress printing.
	Verbose bool
}

func (cfg Config) withDefaults() Config {
	if cfg.LearnRate == 0.0 {
		cfg.LearnRate = 0.0002
	}
	if cfg.Beta1 == 0.0 {
		cfg.Beta1 = 0.5
	}
	if cfg.GeneratorLoss == nil {
		cfg.GeneratorLoss = MSELoss
	}
	if cfg.DiscriminatorLoss == nil {
		cfg.DiscriminatorLoss = MSELoss
	}
	if cfg.GeneratorLossName == "" {
		cfg.GeneratorLossName = "g_loss"
	}
	if cfg.DiscriminatorLossName == "" {
		cfg.DiscriminatorLossName = "d_loss"
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1337
	}
	return cfg
}

func (cfg Config) validate() error {
	if cfg.BatchSize < 1 {
		return fmt.Errorf("Config.BatchSize must be positive, but got %d", cfg.BatchSize)
	}
	if cfg.LatentDim < 1 {
		return fmt.Errorf("Config.LatentDim must be positive, but got %d", cfg.LatentDim)
	}
	if cfg.DataDim < 1 {
		return fmt.Errorf("Config.DataDim must be positive, but got %d", cfg.DataDim)
	}
	return nil
}

// GAN Pairs a generator and a discriminator and owns their joint training loop.
//
// The generator and a frozen copy of the discriminator live on one expression
// graph; the trained discriminator lives on its own graph and sees batches of
// 2*BatchSize rows (real half plus generated half). The frozen copy's weight
// nodes share backing tensors with the trained discriminator, so solver steps
// on the latter are visible to the former without explicit synchronization.
type GAN struct {
	cfg Config

	generatorPart     *GeneratorNet
	discriminatorPart *DiscriminatorNet

	modifiedDiscriminator *Network

	ganGraph *gorgonia.ExprGraph
	disGraph *gorgonia.ExprGraph

	inputGenerator      *gorgonia.Node
	inputDiscriminator  *gorgonia.Node
	targetGAN           *gorgonia.Node
	targetDiscriminator *gorgonia.Node

	generatedOut gorgonia.Value
	costGANVal   gorgonia.Value
	costDisVal   gorgonia.Value

	// vmGeneratorFwd is compiled before the frozen discriminator and losses are
	// added to the graph, so it evaluates the generator forward pass only.
	vmGeneratorFwd gorgonia.VM
	vmGAN          gorgonia.VM
	vmDis          gorgonia.VM

	solverGenerator     gorgonia.Solver
	solverDiscriminator gorgonia.Solver

	sampler *latentSampler
}

// Logs Per-epoch metric values keyed by MetricsNames entries.
type Logs map[string]float64

// History Per-epoch training logs returned by FitGenerator.
type History struct {
	Epochs []Logs
}

// NewGAN Wires generator and discriminator into a trainable pair.
//
// defineGenerator and defineDiscriminator create the sub-models' layers on the
// provided graphs; NewGAN owns graph construction, loss wiring, tape machines
// and solvers. Fails fast when generator output width does not match the
// discriminator input width.
func NewGAN(defineGenerator func(g *gorgonia.ExprGraph) *GeneratorNet, defineDiscriminator func(g *gorgonia.ExprGraph) *DiscriminatorNet, cfg Config) (*GAN, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if defineGenerator == nil || defineDiscriminator == nil {
		return nil, fmt.Errorf("Both generator and discriminator definitions must be provided")
	}

	definedGAN := &GAN{
		cfg:      cfg,
		ganGraph: gorgonia.NewGraph(),
		disGraph: gorgonia.NewGraph(),
		sampler:  newLatentSampler(cfg.Prior, cfg.LatentDim, cfg.Seed),
	}

	// Generator on the GAN evaluation graph
	definedGAN.generatorPart = defineGenerator(definedGAN.ganGraph)
	if definedGAN.generatorPart == nil {
		return nil, fmt.Errorf("Generator definition returned nil")
	}
	definedGAN.inputGenerator = gorgonia.NewMatrix(definedGAN.ganGraph, gorgonia.Float64, gorgonia.WithShape(cfg.BatchSize, cfg.LatentDim), gorgonia.WithName("generator_input"))
	if err := definedGAN.generatorPart.Fwd(definedGAN.inputGenerator, cfg.BatchSize); err != nil {
		return nil, errors.Wrap(err, "Can't initialize Generator feedforward")
	}
	generatorOutShape := definedGAN.generatorPart.Out().Shape()
	if len(generatorOutShape) != 2 || generatorOutShape[1] != cfg.DataDim {
		return nil, fmt.Errorf("Generator output shape %v does not match Discriminator input width %d", generatorOutShape, cfg.DataDim)
	}

	gorgonia.Read(definedGAN.generatorPart.Out(), &definedGAN.generatedOut)
	// Compiled now, before any discriminator or loss node joins the graph.
	definedGAN.vmGeneratorFwd = gorgonia.NewTapeMachine(definedGAN.ganGraph)

	// Discriminator in training mode on its own graph, fed 2*BatchSize rows
	definedGAN.discriminatorPart = defineDiscriminator(definedGAN.disGraph)
	if definedGAN.discriminatorPart == nil {
		return nil, fmt.Errorf("Discriminator definition returned nil")
	}
	definedGAN.inputDiscriminator = gorgonia.NewMatrix(definedGAN.disGraph, gorgonia.Float64, gorgonia.WithShape(2*cfg.BatchSize, cfg.DataDim), gorgonia.WithName("discriminator_train_input"))
	if err := definedGAN.discriminatorPart.Fwd(definedGAN.inputDiscriminator, 2*cfg.BatchSize); err != nil {
		return nil, errors.Wrap(err, "Can't initialize Discriminator feedforward")
	}

	// Frozen discriminator copy stacked on the generator's output. Weight nodes
	// share values with the trained discriminator.
	frozen, err := definedGAN.cloneDiscriminator()
	if err != nil {
		return nil, err
	}
	definedGAN.modifiedDiscriminator = frozen
	if err := frozen.Fwd(definedGAN.generatorPart.Out(), cfg.BatchSize); err != nil {
		return nil, errors.Wrap(err, "Can't stack Discriminator part on Generator output")
	}

	if err := definedGAN.buildTraining(); err != nil {
		return nil, err
	}
	return definedGAN, nil
}

// cloneDiscriminator Copies the trained discriminator's structure onto the GAN
// graph. Weight and bias nodes are created with the same backing values.
func (gan *GAN) cloneDiscriminator() (*Network, error) {
	source := gan.discriminatorPart.private
	frozen := &Network{
		Name:   "gan_discriminator",
		Layers: make([]*Layer, len(source.Layers)),
	}
	for i, l := range source.Layers {
		if l == nil {
			return nil, fmt.Errorf("Discriminator's layer #%d is nil", i)
		}
		if l.WeightNode == nil && !noWeightsAllowed(l.Type) {
			return nil, fmt.Errorf("Discriminator's Layer %d has nil weight node", i)
		}
		frozen.Layers[i] = &Layer{
			Activation:   l.Activation,
			Type:         l.Type,
			KernelHeight: l.KernelHeight,
			KernelWidth:  l.KernelWidth,
			Padding:      l.Padding,
			Stride:       l.Stride,
			Dilation:     l.Dilation,
			ReshapeDims:  l.ReshapeDims,
		}
		if l.WeightNode != nil {
			frozen.Layers[i].WeightNode = gorgonia.NewTensor(gan.ganGraph, gorgonia.Float64, l.WeightNode.Dims(), gorgonia.WithShape(l.WeightNode.Shape()...), gorgonia.WithName(l.WeightNode.Name()+"_gan"), gorgonia.WithValue(l.WeightNode.Value()))
		}
		if l.BiasNode != nil {
			frozen.Layers[i].BiasNode = gorgonia.NewTensor(gan.ganGraph, gorgonia.Float64, l.BiasNode.Dims(), gorgonia.WithShape(l.BiasNode.Shape()...), gorgonia.WithName(l.BiasNode.Name()+"_gan"), gorgonia.WithValue(l.BiasNode.Value()))
		}
	}
	return frozen, nil
}

// buildTraining Wires losses, gradients, tape machines and solvers for both sub-models.
func (gan *GAN) buildTraining() error {
	cfg := gan.cfg

	// Generator trains against all-real labels through the frozen discriminator
	gan.targetGAN = gorgonia.NewTensor(gan.ganGraph, gorgonia.Float64, gan.modifiedDiscriminator.Out().Dims(), gorgonia.WithShape(gan.modifiedDiscriminator.Out().Shape()...), gorgonia.WithName("gan_discriminator_target"))
	costGAN, err := cfg.GeneratorLoss(gan.modifiedDiscriminator.Out(), gan.targetGAN)
	if err != nil {
		return errors.Wrap(err, "Can't build Generator loss")
	}
	gorgonia.WithName("gan_discriminator_loss")(costGAN)
	if _, err := gorgonia.Grad(costGAN, gan.generatorPart.Learnables()...); err != nil {
		return errors.Wrap(err, "Can't define gradients for Generator")
	}
	gorgonia.Read(costGAN, &gan.costGANVal)
	gan.vmGAN = gorgonia.NewTapeMachine(gan.ganGraph, gorgonia.BindDualValues(gan.generatorPart.Learnables()...))
	gan.solverGenerator = gorgonia.NewAdamSolver(gorgonia.WithBatchSize(float64(cfg.BatchSize)), gorgonia.WithLearnRate(cfg.LearnRate), gorgonia.WithBeta1(cfg.Beta1))

	// Generator's target never changes: generated samples labeled as real
	if err := gorgonia.Let(gan.targetGAN, tensor.Ones(tensor.Float64, gan.modifiedDiscriminator.Out().Shape()...)); err != nil {
		return errors.Wrap(err, "Can't init Generator target value")
	}

	// Discriminator trains on concatenated real (label 1) and generated (label 0) halves
	gan.targetDiscriminator = gorgonia.NewTensor(gan.disGraph, gorgonia.Float64, gan.discriminatorPart.Out().Dims(), gorgonia.WithShape(gan.discriminatorPart.Out().Shape()...), gorgonia.WithName("discriminator_target"))
	costDis, err := cfg.DiscriminatorLoss(gan.discriminatorPart.Out(), gan.targetDiscriminator)
	if err != nil {
		return errors.Wrap(err, "Can't build Discriminator loss")
	}
	gorgonia.WithName("discriminator_loss")(costDis)
	if _, err := gorgonia.Grad(costDis, gan.discriminatorPart.Learnables()...); err != nil {
		return errors.Wrap(err, "Can't define gradients for Discriminator")
	}
	gorgonia.Read(costDis, &gan.costDisVal)
	gan.vmDis = gorgonia.NewTapeMachine(gan.disGraph, gorgonia.BindDualValues(gan.discriminatorPart.Learnables()...))
	gan.solverDiscriminator = gorgonia.NewAdamSolver(gorgonia.WithBatchSize(float64(cfg.BatchSize)), gorgonia.WithLearnRate(cfg.LearnRate), gorgonia.WithBeta1(cfg.Beta1))
	return nil
}

// Generator Returns reference to generator part
func (gan *GAN) Generator() *GeneratorNet {
	return gan.generatorPart
}

// Discriminator Returns reference to discriminator part
func (gan *GAN) Discriminator() *DiscriminatorNet {
	return gan.discriminatorPart
}

// GeneratorLearnables Returns learnables nodes of generator part
func (gan *GAN) GeneratorLearnables() gorgonia.Nodes {
	return gan.generatorPart.Learnables()
}

// DiscriminatorLearnables Returns learnables nodes of discriminator part (training instance)
func (gan *GAN) DiscriminatorLearnables() gorgonia.Nodes {
	return gan.discriminatorPart.Learnables()
}

// MetricsNames Ordered list of loss names reported during training.
// Always exactly two entries: generator loss name then discriminator loss name.
func (gan *GAN) MetricsNames() []string {
	return []string{gan.cfg.GeneratorLossName, gan.cfg.DiscriminatorLossName}
}

// Close Releases tape machines.
func (gan *GAN) Close() error {
	if err := gan.vmGeneratorFwd.Close(); err != nil {
		return err
	}
	if err := gan.vmGAN.Close(); err != nil {
		return err
	}
	return gan.vmDis.Close()
}

// FitGenerator Runs the adversarial training loop.
//
// source - yields one Batch per step
// stepsPerEpoch - discriminator/generator update pairs per epoch
// epochs - number of epochs
// batchSize - must equal Config.BatchSize (graph shapes are fixed at construction)
// callbacks - invoked at epoch boundaries; a callback error aborts training
//
func (gan *GAN) FitGenerator(source BatchSource, stepsPerEpoch, epochs, batchSize int, callbacks ...Callback) (*History, error) {
	if source == nil {
		return nil, fmt.Errorf("Batch source must be provided")
	}
	if stepsPerEpoch < 1 {
		return nil, fmt.Errorf("Steps per epoch must be positive, but got %d", stepsPerEpoch)
	}
	if epochs < 1 {
		return nil, fmt.Errorf("Number of epochs must be positive, but got %d", epochs)
	}
	if batchSize != gan.cfg.BatchSize {
		return nil, fmt.Errorf("Batch size %d does not match configured batch size %d", batchSize, gan.cfg.BatchSize)
	}

	history := &History{Epochs: make([]Logs, 0, epochs)}
	lastLogs := Logs{}
	st := time.Now()
	for epoch := 0; epoch < epochs; epoch++ {
		for _, callback := range callbacks {
			if err := callback.OnEpochBegin(epoch, lastLogs); err != nil {
				return history, errors.Wrap(err, fmt.Sprintf("Callback failed on epoch %d begin", epoch))
			}
		}
		sumG, sumD := 0.0, 0.0
		for step := 0; step < stepsPerEpoch; step++ {
			gLoss, dLoss, err := gan.trainStep(source)
			if err != nil {
				return history, errors.Wrap(err, fmt.Sprintf("Training step %d of epoch %d failed", step, epoch))
			}
			sumG += gLoss
			sumD += dLoss
		}
		epochLogs := Logs{
			gan.cfg.GeneratorLossName:     sumG / float64(stepsPerEpoch),
			gan.cfg.DiscriminatorLossName: sumD / float64(stepsPerEpoch),
		}
		history.Epochs = append(history.Epochs, epochLogs)
		lastLogs = epochLogs
		if gan.cfg.Verbose {
			fmt.Printf("Epoch %d:\n", epoch)
			fmt.Printf("\tDiscriminator's loss: %v\n", epochLogs[gan.cfg.DiscriminatorLossName])
			fmt.Printf("\tGenerator's loss: %v\n", epochLogs[gan.cfg.GeneratorLossName])
			fmt.Printf("\tTaken time: %v\n", time.Since(st))
			st = time.Now()
		}
		for _, callback := range callbacks {
			if err := callback.OnEpochEnd(epoch, epochLogs); err != nil {
				return history, errors.Wrap(err, fmt.Sprintf("Callback failed on epoch %d end", epoch))
			}
		}
	}
	return history, nil
}

// trainStep One discriminator update followed by one generator update.
func (gan *GAN) trainStep(source BatchSource) (gLoss, dLoss float64, err error) {
	batchSize := gan.cfg.BatchSize
	batch, err := source()
	if err != nil {
		return 0, 0, errors.Wrap(err, "Can't draw batch from source")
	}
	if err := batch.validate(batchSize, gan.cfg.LatentDim); err != nil {
		return 0, 0, err
	}

	// Generate fake samples for the discriminator's second half
	if err := gorgonia.Let(gan.inputGenerator, batch.Z); err != nil {
		return 0, 0, errors.Wrap(err, "Can't init Generator input value")
	}
	if err := gan.vmGeneratorFwd.RunAll(); err != nil {
		return 0, 0, errors.Wrap(err, "Can't run Generator forward pass")
	}
	gan.vmGeneratorFwd.Reset()
	generated, ok := gan.generatedOut.(tensor.Tensor)
	if !ok {
		return 0, 0, fmt.Errorf("Generator output is not a tensor")
	}

	realLabels := tensor.Ones(tensor.Float64, batchSize, 1)
	fakeLabels := tensor.Ones(tensor.Float64, batchSize, 1)
	fakeLabels.Zero()
	allSamples, err := tensor.Concat(0, batch.Real, generated)
	if err != nil {
		return 0, 0, errors.Wrap(err, "Can't concat real and generated samples")
	}
	allLabels, err := tensor.Concat(0, realLabels, fakeLabels)
	if err != nil {
		return 0, 0, errors.Wrap(err, "Can't concat real and generated labels")
	}

	// Discriminator update
	if err := gorgonia.Let(gan.inputDiscriminator, allSamples); err != nil {
		return 0, 0, errors.Wrap(err, "Can't init Discriminator input value")
	}
	if err := gorgonia.Let(gan.targetDiscriminator, allLabels); err != nil {
		return 0, 0, errors.Wrap(err, "Can't init Discriminator target value")
	}
	if err := gan.vmDis.RunAll(); err != nil {
		return 0, 0, errors.Wrap(err, "Can't do Discriminator training step")
	}
	if err := gan.solverDiscriminator.Step(gorgonia.NodesToValueGrads(gan.discriminatorPart.Learnables())); err != nil {
		return 0, 0, errors.Wrap(err, "Can't do Discriminator solver step")
	}
	gan.vmDis.Reset()

	// Generator update against the refreshed discriminator
	if err := gorgonia.Let(gan.inputGenerator, gan.sampler.batch(batchSize)); err != nil {
		return 0, 0, errors.Wrap(err, "Can't init Generator input value")
	}
	if err := gan.vmGAN.RunAll(); err != nil {
		return 0, 0, errors.Wrap(err, "Can't do Generator training step")
	}
	if err := gan.solverGenerator.Step(gorgonia.NodesToValueGrads(gan.generatorPart.Learnables())); err != nil {
		return 0, 0, errors.Wrap(err, "Can't do Generator solver step")
	}
	gan.vmGAN.Reset()

	return scalarValue(gan.costGANVal), scalarValue(gan.costDisVal), nil
}

// Generate Samples n latent points from the configured prior and passes them
// through the generator. Returns (n, DataDim) dense.
func (gan *GAN) Generate(n int) (*tensor.Dense, error) {
	if n < 1 {
		return nil, fmt.Errorf("Number of samples must be positive, but got %d", n)
	}
	return gan.generateFrom(gan.sampler.batch(n))
}

// GenerateLatent Passes explicit latent points through the generator.
//
// z - (n, LatentDim) matrix of latent points
//
func (gan *GAN) GenerateLatent(z *tensor.Dense) (*tensor.Dense, error) {
	if z == nil {
		return nil, fmt.Errorf("Latent points must be provided")
	}
	zShape := z.Shape()
	if len(zShape) != 2 || zShape[1] != gan.cfg.LatentDim {
		return nil, fmt.Errorf("Latent points must have shape (n, %d), but got %v", gan.cfg.LatentDim, zShape)
	}
	return gan.generateFrom(z)
}

// RandomZPoint Draws one latent vector of shape (LatentDim) from the configured prior.
func (gan *GAN) RandomZPoint() *tensor.Dense {
	return gan.sampler.point()
}

// Interpolate Walks the straight line between latent points x and y (inclusive)
// and returns the generator outputs along the path. Rows for path fractions 0
// and 1 reproduce GenerateLatent outputs for x and y exactly.
//
// x, y - latent vectors of shape (LatentDim)
// steps - number of points on the path, including both ends
//
func (gan *GAN) Interpolate(x, y *tensor.Dense, steps int) (*tensor.Dense, error) {
	if steps < 2 {
		return nil, fmt.Errorf("Interpolation needs two steps atleast, but got %d", steps)
	}
	xData, err := latentVector(x, gan.cfg.LatentDim)
	if err != nil {
		return nil, errors.Wrap(err, "Bad latent point X")
	}
	yData, err := latentVector(y, gan.cfg.LatentDim)
	if err != nil {
		return nil, errors.Wrap(err, "Bad latent point Y")
	}
	dim := gan.cfg.LatentDim
	path := make([]float64, steps*dim)
	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps-1)
		for j := 0; j < dim; j++ {
			// (1-t)*x + t*y keeps both endpoints exact
			path[i*dim+j] = (1.0-t)*xData[j] + t*yData[j]
		}
	}
	return gan.generateFrom(tensor.New(tensor.WithShape(steps, dim), tensor.WithBacking(path)))
}

// Neighborhood Perturbs latent point z with isotropic gaussian noise of given
// standard deviation and returns n generator outputs.
func (gan *GAN) Neighborhood(z *tensor.Dense, std float64, n int) (*tensor.Dense, error) {
	if n < 1 {
		return nil, fmt.Errorf("Number of neighbors must be positive, but got %d", n)
	}
	zData, err := latentVector(z, gan.cfg.LatentDim)
	if err != nil {
		return nil, errors.Wrap(err, "Bad latent point Z")
	}
	perturbed, err := gan.sampler.neighborhood(zData, std, n)
	if err != nil {
		return nil, err
	}
	return gan.generateFrom(perturbed)
}

// DataSource Wraps a finite dataset into an endless BatchSource cycling its
// rows and drawing fresh latent noise from the configured prior per batch.
func (gan *GAN) DataSource(set *TrainSet) BatchSource {
	batchSize := gan.cfg.BatchSize
	cursor := 0
	return func() (*Batch, error) {
		if set == nil || set.TrainData == nil {
			return nil, fmt.Errorf("Training set must be provided")
		}
		if set.DataLength < batchSize {
			return nil, fmt.Errorf("Training set of length %d can't fill a batch of size %d", set.DataLength, batchSize)
		}
		if cursor+batchSize > set.DataLength {
			cursor = 0
		}
		real, err := sliceRows(set.TrainData, cursor, cursor+batchSize, gan.cfg.DataDim)
		if err != nil {
			return nil, err
		}
		cursor += batchSize
		return &Batch{Real: real, Z: gan.sampler.batch(batchSize)}, nil
	}
}

// SampleZ Draws an (n, LatentDim) latent batch from the configured prior.
// Handy for custom BatchSource implementations.
func (gan *GAN) SampleZ(n int) *tensor.Dense {
	return gan.sampler.batch(n)
}

// generateFrom Feeds arbitrary many latent rows through the generator in
// fixed-size chunks (graph shapes are bound to BatchSize) and vstacks results.
func (gan *GAN) generateFrom(z *tensor.Dense) (*tensor.Dense, error) {
	batchSize := gan.cfg.BatchSize
	dim := gan.cfg.LatentDim
	rows := z.Shape()[0]
	zData := z.Data().([]float64)

	var result *tensor.Dense
	for start := 0; start < rows; start += batchSize {
		end := start + batchSize
		if end > rows {
			end = rows
		}
		chunk := make([]float64, batchSize*dim)
		copy(chunk, zData[start*dim:end*dim])
		chunkTensor := tensor.New(tensor.WithShape(batchSize, dim), tensor.WithBacking(chunk))
		if err := gorgonia.Let(gan.inputGenerator, chunkTensor); err != nil {
			return nil, errors.Wrap(err, "Can't init Generator input value")
		}
		if err := gan.vmGeneratorFwd.RunAll(); err != nil {
			return nil, errors.Wrap(err, "Can't run Generator forward pass")
		}
		gan.vmGeneratorFwd.Reset()
		out, ok := gan.generatedOut.(*tensor.Dense)
		if !ok {
			return nil, fmt.Errorf("Generator output is not a dense tensor")
		}
		produced := out.Clone().(*tensor.Dense)
		if end-start < batchSize {
			trimmed, err := sliceRows(produced, 0, end-start, gan.cfg.DataDim)
			if err != nil {
				return nil, errors.Wrap(err, "Can't trim padded generator output")
			}
			produced = trimmed
		}
		if result == nil {
			result = produced
			continue
		}
		stacked, err := result.Vstack(produced)
		if err != nil {
			return nil, errors.Wrap(err, "Can't stack generated batches")
		}
		result = stacked
	}
	return result, nil
}

// latentVector Validates a latent point and returns its backing data.
// Accepts shapes (dim) and (1, dim).
func latentVector(z *tensor.Dense, dim int) ([]float64, error) {
	if z == nil {
		return nil, fmt.Errorf("Latent point must be provided")
	}
	shape := z.Shape()
	switch {
	case len(shape) == 1 && shape[0] == dim:
	case len(shape) == 2 && shape[0] == 1 && shape[1] == dim:
	default:
		return nil, fmt.Errorf("Latent point must have %d elements, but got shape %v", dim, shape)
	}
	data, ok := z.Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("Latent point must be Float64-backed")
	}
	return data, nil
}

func scalarValue(v gorgonia.Value) float64 {
	if v == nil {
		return math.NaN()
	}
	switch data := v.Data().(type) {
	case float64:
		return data
	case []float64:
		if len(data) > 0 {
			return data[0]
		}
	}
	return math.NaN()
}
