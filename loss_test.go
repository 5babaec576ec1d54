package gan_go

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func evalLoss(t *testing.T, loss LossFunc, aData, bData []float64, reduction ...LossReduction) float64 {
	t.Helper()
	g := gorgonia.NewGraph()
	a := gorgonia.NewVector(g, gorgonia.Float64, gorgonia.WithShape(len(aData)), gorgonia.WithName("a"), gorgonia.WithValue(tensor.New(tensor.WithShape(len(aData)), tensor.WithBacking(aData))))
	b := gorgonia.NewVector(g, gorgonia.Float64, gorgonia.WithShape(len(bData)), gorgonia.WithName("b"), gorgonia.WithValue(tensor.New(tensor.WithShape(len(bData)), tensor.WithBacking(bData))))
	lossNode, err := loss(a, b, reduction...)
	require.NoError(t, err)
	var lossVal gorgonia.Value
	gorgonia.Read(lossNode, &lossVal)
	vm := gorgonia.NewTapeMachine(g)
	defer vm.Close()
	require.NoError(t, vm.RunAll())
	return scalarValue(lossVal)
}

func TestMSELoss(t *testing.T) {
	got := evalLoss(t, MSELoss, []float64{1.0, 2.0}, []float64{0.0, 0.0})
	assert.InDelta(t, 2.5, got, 1e-12)

	sum := evalLoss(t, MSELoss, []float64{1.0, 2.0}, []float64{0.0, 0.0}, LossReductionSum)
	assert.InDelta(t, 5.0, sum, 1e-12)
}

func TestL1Loss(t *testing.T) {
	got := evalLoss(t, L1Loss, []float64{1.0, -2.0}, []float64{0.0, 0.0})
	assert.InDelta(t, 1.5, got, 1e-12)
}

func TestBinaryCrossEntropyLoss(t *testing.T) {
	got := evalLoss(t, BinaryCrossEntropyLoss, []float64{0.5, 0.5}, []float64{1.0, 0.0})
	assert.InDelta(t, math.Log(2.0), got, 1e-12)
}
