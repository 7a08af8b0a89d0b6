package classifier

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/budgetbot/budget/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func separableSet() ([][]float64, []int) {
	inputs := [][]float64{
		{1, 1, 0, 0, 0, 0},
		{1, 0, 1, 0, 0, 0},
		{0, 1, 1, 0, 0, 0},
		{0, 0, 0, 1, 1, 0},
		{0, 0, 0, 1, 0, 1},
		{0, 0, 0, 0, 1, 1},
	}
	targets := []int{0, 0, 0, 1, 1, 1}
	return inputs, targets
}

func testOptions() Options {
	return Options{
		Epochs:      150,
		BatchSize:   4,
		HiddenUnits: []int{16, 8},
		Seed:        7,
	}
}

func TestLabelEncoder_SortedAndStable(t *testing.T) {
	enc := FitLabels([]string{"tva", "greeting", "tva", "bilan"})

	assert.Equal(t, []string{"bilan", "greeting", "tva"}, enc.Classes())
	assert.Equal(t, 3, enc.Len())

	i, ok := enc.Encode("greeting")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = enc.Encode("absent")
	assert.False(t, ok)

	assert.Equal(t, []int{2, 0}, enc.EncodeAll([]string{"tva", "bilan"}))
	assert.Equal(t, "tva", enc.Decode(2))
	assert.Equal(t, "", enc.Decode(3))
	assert.Equal(t, "", enc.Decode(-1))
}

func TestOptions_WithDefaults(t *testing.T) {
	opts, err := Options{Epochs: 5}.WithDefaults()
	require.NoError(t, err)

	assert.Equal(t, 5, opts.Epochs)
	assert.Equal(t, 8, opts.BatchSize)
	assert.Equal(t, 0.01, opts.LearningRate)
	assert.Equal(t, []int{128, 64}, opts.HiddenUnits)
	assert.Equal(t, 0.5, opts.Dropout)
}

func TestNetwork_ProbabilitiesSumToOne(t *testing.T) {
	network, err := NewNetwork(6, []int{8, 4}, 3, 0.5, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	probs, err := network.Probabilities([]float64{1, 0, 1, 0, 0, 1})
	require.NoError(t, err)

	assert.Len(t, probs, 3)
	assert.InDelta(t, 1.0, floats.Sum(probs), 1e-9)
	for _, p := range probs {
		assert.GreaterOrEqual(t, p, 0.0)
	}
}

func TestNetwork_ShapeMismatch(t *testing.T) {
	network, err := NewNetwork(4, []int{3}, 2, 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	_, err = network.Probabilities([]float64{1, 0})

	assert.True(t, errors.Is(err, models.ErrShapeMismatch))
	var shapeErr *models.ShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, 4, shapeErr.Expected)
	assert.Equal(t, 2, shapeErr.Got)
}

func TestNewNetwork_InvalidArguments(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := NewNetwork(0, nil, 2, 0, rng)
	assert.Error(t, err)
	_, err = NewNetwork(3, []int{0}, 2, 0, rng)
	assert.Error(t, err)
	_, err = NewNetwork(3, nil, 2, 1, rng)
	assert.Error(t, err)
}

func TestTrain_LearnsSeparableSet(t *testing.T) {
	inputs, targets := separableSet()

	network, stats, err := Train(inputs, targets, 2, testOptions())
	require.NoError(t, err)

	assert.Equal(t, 6, stats.Samples)
	assert.Equal(t, 150, stats.Epochs)
	assert.Equal(t, 1.0, stats.Accuracy)

	model, err := NewModel(network, NewLabelEncoder([]string{"bilan", "greeting"}))
	require.NoError(t, err)

	label, confidence, err := model.Predict([]float64{1, 1, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, "bilan", label)
	assert.Greater(t, confidence, 0.6)

	label, confidence, err = model.Predict([]float64{0, 0, 0, 1, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, "greeting", label)
	assert.Greater(t, confidence, 0.6)
}

func TestTrain_SeedIsDeterministic(t *testing.T) {
	inputs, targets := separableSet()
	opts := testOptions()
	opts.Epochs = 10

	a, _, err := Train(inputs, targets, 2, opts)
	require.NoError(t, err)
	b, _, err := Train(inputs, targets, 2, opts)
	require.NoError(t, err)

	assert.Equal(t, a.State(), b.State())
}

func TestTrain_RejectsInvalidSets(t *testing.T) {
	_, _, err := Train(nil, nil, 2, testOptions())
	assert.Error(t, err)

	_, _, err = Train([][]float64{{1, 0}}, []int{0, 1}, 2, testOptions())
	assert.Error(t, err)

	_, _, err = Train([][]float64{{1, 0}, {1}}, []int{0, 1}, 2, testOptions())
	assert.Error(t, err)

	_, _, err = Train([][]float64{{1, 0}}, []int{2}, 2, testOptions())
	assert.Error(t, err)
}

func TestNetworkState_RoundTripKeepsPredictions(t *testing.T) {
	inputs, targets := separableSet()
	opts := testOptions()
	opts.Epochs = 20
	network, _, err := Train(inputs, targets, 2, opts)
	require.NoError(t, err)

	restored, err := NetworkFromState(network.State())
	require.NoError(t, err)

	for _, row := range inputs {
		want, err := network.Probabilities(row)
		require.NoError(t, err)
		got, err := restored.Probabilities(row)
		require.NoError(t, err)
		assert.InDeltaSlice(t, want, got, 1e-12)
	}
}

func TestNetworkFromState_RejectsBrokenLayers(t *testing.T) {
	_, err := NetworkFromState(NetworkState{})
	assert.Error(t, err)

	_, err = NetworkFromState(NetworkState{Layers: []LayerState{
		{In: 2, Out: 2, Weights: []float64{1, 2, 3}, Bias: []float64{0, 0}},
	}})
	assert.Error(t, err)

	_, err = NetworkFromState(NetworkState{Layers: []LayerState{
		{In: 2, Out: 3, Weights: make([]float64, 6), Bias: make([]float64, 3)},
		{In: 2, Out: 2, Weights: make([]float64, 4), Bias: make([]float64, 2)},
	}})
	assert.Error(t, err)
}

func TestNewModel_LabelCountMismatch(t *testing.T) {
	network, err := NewNetwork(3, nil, 2, 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	_, err = NewModel(network, FitLabels([]string{"a", "b", "c"}))
	assert.Error(t, err)
}

func TestArgmax_TieGoesToLowestIndex(t *testing.T) {
	assert.Equal(t, 1, argmax([]float64{0.2, 0.4, 0.4}))
	assert.Equal(t, 0, argmax([]float64{0.5, 0.5}))
}
