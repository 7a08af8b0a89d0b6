package classifier

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LayerState is the serializable form of a dense layer. Weights are stored
// row-major, In rows by Out columns.
type LayerState struct {
	In      int       `json:"in"`
	Out     int       `json:"out"`
	Weights []float64 `json:"weights"`
	Bias    []float64 `json:"bias"`
}

// NetworkState is the serializable form of a Network.
type NetworkState struct {
	Dropout float64      `json:"dropout"`
	Layers  []LayerState `json:"layers"`
}

// State exports a copy of the network parameters.
func (n *Network) State() NetworkState {
	state := NetworkState{Dropout: n.dropout}
	for _, layer := range n.layers {
		in, out := layer.dims()
		weights := make([]float64, 0, in*out)
		for r := 0; r < in; r++ {
			weights = append(weights, layer.weights.RawRowView(r)...)
		}
		state.Layers = append(state.Layers, LayerState{
			In:      in,
			Out:     out,
			Weights: weights,
			Bias:    append([]float64(nil), layer.bias...),
		})
	}
	return state
}

// NetworkFromState rebuilds a network, checking that consecutive layers
// fit together.
func NetworkFromState(state NetworkState) (*Network, error) {
	if len(state.Layers) == 0 {
		return nil, fmt.Errorf("network state has no layers")
	}

	n := &Network{dropout: state.Dropout}
	for i, ls := range state.Layers {
		if ls.In <= 0 || ls.Out <= 0 {
			return nil, fmt.Errorf("layer %d has invalid shape %dx%d", i, ls.In, ls.Out)
		}
		if len(ls.Weights) != ls.In*ls.Out || len(ls.Bias) != ls.Out {
			return nil, fmt.Errorf("layer %d parameters do not match shape %dx%d", i, ls.In, ls.Out)
		}
		if i > 0 && state.Layers[i-1].Out != ls.In {
			return nil, fmt.Errorf("layer %d input %d does not match previous output %d", i, ls.In, state.Layers[i-1].Out)
		}
		n.layers = append(n.layers, &dense{
			weights: mat.NewDense(ls.In, ls.Out, append([]float64(nil), ls.Weights...)),
			bias:    append([]float64(nil), ls.Bias...),
		})
	}
	return n, nil
}
