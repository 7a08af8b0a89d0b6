// Package artifact persists a trained classifier together with the
// vocabulary and label set it was trained on, as a single JSON document.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/budgetbot/budget/internal"
	"github.com/budgetbot/budget/pkg/classifier"
	"github.com/budgetbot/budget/pkg/models"
	"github.com/budgetbot/budget/pkg/vectorizer"
	"github.com/google/uuid"
)

var log = internal.GetLogger()

// Artifact is the output of a training run.
type Artifact struct {
	ID         uuid.UUID               `json:"id"`
	CreatedAt  time.Time               `json:"created_at"`
	Vocabulary []string                `json:"vocabulary"`
	Labels     []string                `json:"labels"`
	Network    classifier.NetworkState `json:"network"`
	Stats      classifier.Stats        `json:"stats"`
}

// New captures a trained model and its vocabulary.
func New(vocab *vectorizer.Vocabulary, model *classifier.Model, stats classifier.Stats) *Artifact {
	return &Artifact{
		ID:         uuid.New(),
		CreatedAt:  time.Now().UTC(),
		Vocabulary: vocab.Tokens(),
		Labels:     model.Labels(),
		Network:    model.Network().State(),
		Stats:      stats,
	}
}

// Restore rebuilds the vocabulary and model. It fails when the network
// input does not match the vocabulary size or its output does not match
// the label count.
func (a *Artifact) Restore() (*vectorizer.Vocabulary, *classifier.Model, error) {
	network, err := classifier.NetworkFromState(a.Network)
	if err != nil {
		return nil, nil, fmt.Errorf("artifact %s: %w", a.ID, err)
	}

	vocab := vectorizer.NewVocabulary(a.Vocabulary)
	if network.InputDim() != vocab.Len() {
		return nil, nil, fmt.Errorf(
			"artifact %s: %w",
			a.ID,
			models.NewShapeMismatchError(network.InputDim(), vocab.Len()),
		)
	}

	model, err := classifier.NewModel(network, classifier.NewLabelEncoder(a.Labels))
	if err != nil {
		return nil, nil, fmt.Errorf("artifact %s: %w", a.ID, err)
	}
	return vocab, model, nil
}

// Save writes the artifact to path, atomically replacing any previous one.
func Save(path string, a *Artifact) error {
	data, err := json.Marshal(a)
	if err != nil {
		return models.NewPersistenceError("encode artifact", path, err)
	}
	if err := internal.WriteFileAtomic(path, data, 0o644); err != nil {
		return models.NewPersistenceError("write artifact", path, err)
	}

	log.Infof(
		"saved model artifact %s to %s (%d tokens, %d labels)",
		a.ID,
		path,
		len(a.Vocabulary),
		len(a.Labels),
	)
	return nil
}

// Load reads the artifact at path.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, models.NewPersistenceError("read artifact", path, models.NewNotFoundError("model artifact"))
		}
		return nil, models.NewPersistenceError("read artifact", path, err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, models.NewPersistenceError("decode artifact", path, err)
	}
	return &a, nil
}
