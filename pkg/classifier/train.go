package classifier

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/budgetbot/budget/internal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var log = internal.GetLogger()

const (
	adamBeta1   = 0.9
	adamBeta2   = 0.999
	adamEpsilon = 1e-7
	minProb     = 1e-12
)

// Stats describes a finished training run.
type Stats struct {
	Samples  int     `json:"samples"`
	Epochs   int     `json:"epochs"`
	Loss     float64 `json:"loss"`
	Accuracy float64 `json:"accuracy"`
}

type layerGrad struct {
	weights *mat.Dense
	bias    []float64
}

// Train fits a new network on inputs (one row per sample) and their class
// indices, minimizing sparse categorical cross-entropy with Adam over
// shuffled mini-batches.
func Train(inputs [][]float64, targets []int, classes int, opts Options) (*Network, *Stats, error) {
	opts, err := opts.WithDefaults()
	if err != nil {
		return nil, nil, err
	}
	if err := validateTrainingSet(inputs, targets, classes); err != nil {
		return nil, nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	network, err := NewNetwork(len(inputs[0]), opts.HiddenUnits, classes, opts.Dropout, rng)
	if err != nil {
		return nil, nil, err
	}

	optimizer := newAdam(network, opts.LearningRate)
	order := make([]int, len(inputs))
	for i := range order {
		order[i] = i
	}

	var epochLoss float64
	for epoch := 0; epoch < opts.Epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		epochLoss = 0
		for start := 0; start < len(order); start += opts.BatchSize {
			end := start + opts.BatchSize
			if end > len(order) {
				end = len(order)
			}
			batch := order[start:end]
			x, y := gatherBatch(inputs, targets, batch)

			cache := &forwardCache{rng: rng}
			probs := network.forward(x, cache)
			epochLoss += crossEntropy(probs, y) * float64(len(batch))
			optimizer.step(network.layers, network.backward(probs, y, cache))
		}
		epochLoss /= float64(len(order))

		log.Debugf("epoch %d/%d loss=%.4f", epoch+1, opts.Epochs, epochLoss)
	}

	stats := &Stats{
		Samples:  len(inputs),
		Epochs:   opts.Epochs,
		Loss:     epochLoss,
		Accuracy: accuracy(network, inputs, targets),
	}
	return network, stats, nil
}

func validateTrainingSet(inputs [][]float64, targets []int, classes int) error {
	if len(inputs) == 0 {
		return fmt.Errorf("empty training set")
	}
	if len(inputs) != len(targets) {
		return fmt.Errorf("%d inputs but %d targets", len(inputs), len(targets))
	}
	dim := len(inputs[0])
	if dim == 0 {
		return fmt.Errorf("input vectors are empty")
	}
	for i, row := range inputs {
		if len(row) != dim {
			return fmt.Errorf("input %d has %d dimensions, expected %d", i, len(row), dim)
		}
		if targets[i] < 0 || targets[i] >= classes {
			return fmt.Errorf("target %d of sample %d outside [0, %d)", targets[i], i, classes)
		}
	}
	return nil
}

func gatherBatch(inputs [][]float64, targets []int, batch []int) (*mat.Dense, []int) {
	dim := len(inputs[0])
	data := make([]float64, 0, len(batch)*dim)
	y := make([]int, len(batch))
	for i, idx := range batch {
		data = append(data, inputs[idx]...)
		y[i] = targets[idx]
	}
	return mat.NewDense(len(batch), dim, data), y
}

func crossEntropy(probs *mat.Dense, targets []int) float64 {
	var loss float64
	for i, y := range targets {
		loss -= math.Log(math.Max(probs.At(i, y), minProb))
	}
	return loss / float64(len(targets))
}

func accuracy(network *Network, inputs [][]float64, targets []int) float64 {
	var hits int
	for i, row := range inputs {
		probs, err := network.Probabilities(row)
		if err == nil && argmax(probs) == targets[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(inputs))
}

// backward returns the loss gradients of every layer for a batch whose
// forward pass was recorded in cache.
func (n *Network) backward(probs *mat.Dense, targets []int, cache *forwardCache) []layerGrad {
	grads := make([]layerGrad, len(n.layers))

	// softmax + cross-entropy gradient: (p - onehot(y)) / batch
	delta := mat.DenseCopyOf(probs)
	for i, y := range targets {
		delta.Set(i, y, delta.At(i, y)-1)
	}
	delta.Scale(1/float64(len(targets)), delta)

	for l := len(n.layers) - 1; l >= 0; l-- {
		var dW mat.Dense
		dW.Mul(cache.inputs[l].T(), delta)

		_, out := n.layers[l].dims()
		db := make([]float64, out)
		rows, _ := delta.Dims()
		for r := 0; r < rows; r++ {
			floats.Add(db, delta.RawRowView(r))
		}
		grads[l] = layerGrad{weights: &dW, bias: db}

		if l == 0 {
			break
		}

		var dA mat.Dense
		dA.Mul(delta, n.layers[l].weights.T())
		if mask := cache.masks[l-1]; mask != nil {
			dA.MulElem(&dA, mask)
		}
		pre := cache.pre[l-1]
		dA.Apply(func(i, j int, v float64) float64 {
			if pre.At(i, j) > 0 {
				return v
			}
			return 0
		}, &dA)
		delta = &dA
	}

	return grads
}

// adam keeps first and second moment estimates per parameter.
type adam struct {
	lr     float64
	t      int
	mW, vW [][]float64
	mb, vb [][]float64
}

func newAdam(n *Network, lr float64) *adam {
	a := &adam{lr: lr}
	for _, layer := range n.layers {
		in, out := layer.dims()
		a.mW = append(a.mW, make([]float64, in*out))
		a.vW = append(a.vW, make([]float64, in*out))
		a.mb = append(a.mb, make([]float64, out))
		a.vb = append(a.vb, make([]float64, out))
	}
	return a
}

func (a *adam) step(layers []*dense, grads []layerGrad) {
	a.t++
	c1 := 1 - math.Pow(adamBeta1, float64(a.t))
	c2 := 1 - math.Pow(adamBeta2, float64(a.t))

	for l, layer := range layers {
		rows, cols := layer.dims()
		for r := 0; r < rows; r++ {
			off := r * cols
			a.update(
				layer.weights.RawRowView(r),
				grads[l].weights.RawRowView(r),
				a.mW[l][off:off+cols],
				a.vW[l][off:off+cols],
				c1, c2,
			)
		}
		a.update(layer.bias, grads[l].bias, a.mb[l], a.vb[l], c1, c2)
	}
}

func (a *adam) update(param, grad, m, v []float64, c1, c2 float64) {
	for i, g := range grad {
		m[i] = adamBeta1*m[i] + (1-adamBeta1)*g
		v[i] = adamBeta2*v[i] + (1-adamBeta2)*g*g
		mHat := m[i] / c1
		vHat := v[i] / c2
		param[i] -= a.lr * mHat / (math.Sqrt(vHat) + adamEpsilon)
	}
}
