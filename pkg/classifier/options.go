package classifier

import (
	"dario.cat/mergo"
)

// Options are the training hyperparameters. Zero fields take the value
// from DefaultOptions.
type Options struct {
	Epochs       int
	BatchSize    int
	LearningRate float64
	HiddenUnits  []int
	Dropout      float64
	// Seed fixes initialization, dropout and batch order when non-zero.
	Seed int64
}

func DefaultOptions() Options {
	return Options{
		Epochs:       200,
		BatchSize:    8,
		LearningRate: 0.01,
		HiddenUnits:  []int{128, 64},
		Dropout:      0.5,
	}
}

// WithDefaults fills the zero fields of o from DefaultOptions.
func (o Options) WithDefaults() (Options, error) {
	if err := mergo.Merge(&o, DefaultOptions()); err != nil {
		return Options{}, err
	}
	return o, nil
}
