package classifier

import (
	"fmt"
)

// Model pairs a trained network with the label encoding it was trained on.
type Model struct {
	network *Network
	labels  *LabelEncoder
}

// NewModel fails when the network output does not have one unit per label.
func NewModel(network *Network, labels *LabelEncoder) (*Model, error) {
	if network.OutputDim() != labels.Len() {
		return nil, fmt.Errorf(
			"network has %d outputs but label set has %d classes",
			network.OutputDim(),
			labels.Len(),
		)
	}
	return &Model{network: network, labels: labels}, nil
}

// Predict returns the most probable label and its probability. Ties go to
// the label with the lowest class index. A vector of the wrong length
// yields a models.ErrShapeMismatch error.
func (m *Model) Predict(vec []float64) (string, float64, error) {
	probs, err := m.network.Probabilities(vec)
	if err != nil {
		return "", 0, err
	}
	best := argmax(probs)
	return m.labels.Decode(best), probs[best], nil
}

// Probabilities returns the full distribution, indexed like Labels.
func (m *Model) Probabilities(vec []float64) ([]float64, error) {
	return m.network.Probabilities(vec)
}

func (m *Model) Labels() []string {
	return m.labels.Classes()
}

func (m *Model) InputDim() int {
	return m.network.InputDim()
}

func (m *Model) Network() *Network {
	return m.network
}
