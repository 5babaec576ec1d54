package gan_go

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func TestNetworkFwdShapes(t *testing.T) {
	g := gorgonia.NewGraph()
	net := &Network{
		Name: "test_network",
		Layers: []*Layer{
			linearLayer(g, "test_network_l0", 5, 3, Rectify),
			linearLayer(g, "test_network_l1", 1, 5, Sigmoid),
		},
	}
	input := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(4, 3), gorgonia.WithName("test_network_input"))
	require.NoError(t, net.Fwd(input, 4))
	require.NotNil(t, net.Out())
	assert.Equal(t, tensor.Shape{4, 1}, net.Out().Shape())

	var outVal gorgonia.Value
	gorgonia.Read(net.Out(), &outVal)
	vm := gorgonia.NewTapeMachine(g)
	defer vm.Close()
	require.NoError(t, gorgonia.Let(input, tensor.Ones(tensor.Float64, 4, 3)))
	require.NoError(t, vm.RunAll())
	outData := outVal.Data().([]float64)
	require.Len(t, outData, 4)
	for _, v := range outData {
		// Sigmoid keeps the realness score in (0;1)
		assert.Greater(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestNetworkLearnablesOrder(t *testing.T) {
	g := gorgonia.NewGraph()
	net := &Network{
		Name: "ordered",
		Layers: []*Layer{
			linearLayer(g, "ordered_l0", 2, 2, NoActivation),
			linearLayer(g, "ordered_l1", 1, 2, NoActivation),
		},
	}
	learnables := net.Learnables()
	require.Len(t, learnables, 4)
	names := make([]string, 0, len(learnables))
	for _, node := range learnables {
		names = append(names, node.Name())
	}
	assert.Equal(t, []string{"ordered_l0_w", "ordered_l0_b", "ordered_l1_w", "ordered_l1_b"}, names)
}

func TestNetworkFwdErrors(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		g := gorgonia.NewGraph()
		net := &Network{Name: "empty"}
		input := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(2, 2), gorgonia.WithName("empty_input"))
		require.Error(t, net.Fwd(input, 2))
	})

	t.Run("NilLayer", func(t *testing.T) {
		g := gorgonia.NewGraph()
		net := &Network{Name: "holey", Layers: []*Layer{nil}}
		input := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(2, 2), gorgonia.WithName("holey_input"))
		require.Error(t, net.Fwd(input, 2))
	})

	t.Run("MissingWeights", func(t *testing.T) {
		g := gorgonia.NewGraph()
		net := &Network{Name: "weightless", Layers: []*Layer{{Type: LayerLinear, Activation: NoActivation}}}
		input := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(2, 2), gorgonia.WithName("weightless_input"))
		err := net.Fwd(input, 2)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "weight node")
	})
}
