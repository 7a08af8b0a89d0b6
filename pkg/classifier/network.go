package classifier

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/budgetbot/budget/pkg/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// dense is a fully connected layer: out = in·W + b.
type dense struct {
	weights *mat.Dense // in × out
	bias    []float64
}

func newDense(in, out int, rng *rand.Rand) *dense {
	// Glorot uniform initialization
	limit := math.Sqrt(6 / float64(in+out))
	data := make([]float64, in*out)
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * limit
	}
	return &dense{
		weights: mat.NewDense(in, out, data),
		bias:    make([]float64, out),
	}
}

func (d *dense) dims() (int, int) {
	return d.weights.Dims()
}

func (d *dense) forward(x mat.Matrix) *mat.Dense {
	var z mat.Dense
	z.Mul(x, d.weights)
	rows, _ := z.Dims()
	for i := 0; i < rows; i++ {
		floats.Add(z.RawRowView(i), d.bias)
	}
	return &z
}

// Network is a feed-forward classifier: ReLU hidden layers and a softmax
// output layer. Dropout applies between hidden layers during training only.
// A trained Network is read-only and safe for concurrent Probabilities calls.
type Network struct {
	layers  []*dense
	dropout float64
}

// NewNetwork creates a randomly initialized network with the given input
// size, hidden layer sizes and number of classes.
func NewNetwork(inputs int, hidden []int, classes int, dropout float64, rng *rand.Rand) (*Network, error) {
	if inputs <= 0 || classes <= 0 {
		return nil, fmt.Errorf("network needs positive input (%d) and class (%d) counts", inputs, classes)
	}
	if dropout < 0 || dropout >= 1 {
		return nil, fmt.Errorf("dropout rate %v outside [0, 1)", dropout)
	}

	sizes := make([]int, 0, len(hidden)+2)
	sizes = append(sizes, inputs)
	for _, h := range hidden {
		if h <= 0 {
			return nil, fmt.Errorf("hidden layer size %d must be positive", h)
		}
		sizes = append(sizes, h)
	}
	sizes = append(sizes, classes)

	n := &Network{dropout: dropout}
	for i := 0; i+1 < len(sizes); i++ {
		n.layers = append(n.layers, newDense(sizes[i], sizes[i+1], rng))
	}
	return n, nil
}

// InputDim is the vector length the network accepts.
func (n *Network) InputDim() int {
	in, _ := n.layers[0].dims()
	return in
}

// OutputDim is the number of classes.
func (n *Network) OutputDim() int {
	_, out := n.layers[len(n.layers)-1].dims()
	return out
}

// Probabilities runs inference on one vector and returns the softmax
// distribution over classes.
func (n *Network) Probabilities(vec []float64) ([]float64, error) {
	if len(vec) != n.InputDim() {
		return nil, models.NewShapeMismatchError(n.InputDim(), len(vec))
	}

	x := mat.NewDense(1, len(vec), append([]float64(nil), vec...))
	out := n.forward(x, nil)
	return append([]float64(nil), out.RawRowView(0)...), nil
}

// forwardCache keeps the intermediate activations needed by backprop.
type forwardCache struct {
	rng    *rand.Rand
	inputs []mat.Matrix // input of each layer
	pre    []*mat.Dense // pre-activation of each hidden layer
	masks  []*mat.Dense // scaled dropout mask per hidden layer, nil when unused
}

// forward computes row-wise class probabilities. When cache is non-nil
// the pass runs in training mode: dropout is applied and activations are
// recorded.
func (n *Network) forward(x mat.Matrix, cache *forwardCache) *mat.Dense {
	a := x
	last := len(n.layers) - 1
	for i, layer := range n.layers {
		if cache != nil {
			cache.inputs = append(cache.inputs, a)
		}
		z := layer.forward(a)
		if i == last {
			softmaxRows(z)
			return z
		}

		if cache != nil {
			cache.pre = append(cache.pre, mat.DenseCopyOf(z))
		}
		z.Apply(func(_, _ int, v float64) float64 { return math.Max(v, 0) }, z)

		var mask *mat.Dense
		if cache != nil && n.dropout > 0 && i+1 < last {
			mask = cache.dropoutMask(z, n.dropout)
			z.MulElem(z, mask)
		}
		if cache != nil {
			cache.masks = append(cache.masks, mask)
		}
		a = z
	}
	return nil
}

func (c *forwardCache) dropoutMask(like *mat.Dense, rate float64) *mat.Dense {
	rows, cols := like.Dims()
	keep := 1 / (1 - rate)
	data := make([]float64, rows*cols)
	for i := range data {
		if c.rng.Float64() >= rate {
			data[i] = keep
		}
	}
	return mat.NewDense(rows, cols, data)
}

func softmaxRows(m *mat.Dense) {
	rows, _ := m.Dims()
	for i := 0; i < rows; i++ {
		row := m.RawRowView(i)
		maxVal := floats.Max(row)
		var sum float64
		for j, v := range row {
			e := math.Exp(v - maxVal)
			row[j] = e
			sum += e
		}
		floats.Scale(1/sum, row)
	}
}

// argmax returns the index of the largest value; ties go to the lowest index.
func argmax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
