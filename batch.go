package gan_go

import (
	"fmt"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Batch One training step worth of paired data: a real-data batch and a latent batch.
type Batch struct {
	Real *tensor.Dense
	Z    *tensor.Dense
}

// BatchSource External data-generator abstraction. Called once per training step.
type BatchSource func() (*Batch, error)

// validate Rejects malformed batches before they reach the graph. No retries: a bad batch fails the step.
func (b *Batch) validate(batchSize, latentDim int) error {
	if b == nil {
		return fmt.Errorf("Batch is nil")
	}
	if b.Real == nil {
		return fmt.Errorf("Batch is missing real data")
	}
	if b.Z == nil {
		return fmt.Errorf("Batch is missing latent data")
	}
	realShape := b.Real.Shape()
	if len(realShape) < 1 || realShape[0] != batchSize {
		return fmt.Errorf("Real data must have %d rows, but got shape %v", batchSize, realShape)
	}
	zShape := b.Z.Shape()
	if len(zShape) != 2 || zShape[0] != batchSize || zShape[1] != latentDim {
		return fmt.Errorf("Latent data must have shape (%d, %d), but got %v", batchSize, latentDim, zShape)
	}
	return nil
}

// TrainSet Finite dataset with optional labels.
type TrainSet struct {
	TrainData  *tensor.Dense
	TrainLabel *tensor.Dense
	DataLength int
}

type ReferenceFunction func(float64) float64
type ArgumentFunction func() float64

// GenerateTrainingSet Synthesizes a (numSamples, 2) dataset of [x, y(x)] rows.
func GenerateTrainingSet(numSamples int, xFunc ArgumentFunction, yFunc ReferenceFunction) (*TrainSet, error) {
	dataXAxis := make([]float64, numSamples)
	dataYAxis := make([]float64, numSamples)
	for i := range dataXAxis {
		dataXAxis[i] = xFunc()
		dataYAxis[i] = yFunc(dataXAxis[i])
	}
	inputTensor := tensor.New(tensor.WithShape(numSamples, 1), tensor.WithBacking(dataXAxis))
	outputTensor := tensor.New(tensor.WithShape(numSamples, 1), tensor.WithBacking(dataYAxis))
	hstack, err := inputTensor.Hstack(outputTensor)
	if err != nil {
		return nil, err
	}
	zeros := tensor.Ones(tensor.Float64, numSamples, 1)
	zeros.Zero()
	return &TrainSet{
		TrainData:  hstack,
		TrainLabel: zeros,
		DataLength: numSamples,
	}, nil
}

// SlicerOneStep Just iterator with step size = 1
type SlicerOneStep struct {
	StartIdx, EndIdx int
}

func (s SlicerOneStep) Start() int { return s.StartIdx }
func (s SlicerOneStep) End() int   { return s.EndIdx }
func (s SlicerOneStep) Step() int  { return 1 }

// sliceRows Materializes rows [start;end) of a dataset as a fresh (end-start, width) dense.
func sliceRows(data *tensor.Dense, start, end, width int) (*tensor.Dense, error) {
	sliced, err := data.Slice(SlicerOneStep{StartIdx: start, EndIdx: end})
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("Can't slice rows [%d;%d)", start, end))
	}
	materialized := sliced.Materialize().(*tensor.Dense)
	if err := materialized.Reshape(end-start, width); err != nil {
		return nil, errors.Wrap(err, "Can't reshape sliced rows to matrix")
	}
	return materialized, nil
}
