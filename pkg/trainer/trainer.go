// Package trainer builds a model artifact from the intent corpus.
package trainer

import (
	"context"
	"fmt"

	"github.com/budgetbot/budget/config"
	"github.com/budgetbot/budget/internal"
	"github.com/budgetbot/budget/pkg/artifact"
	"github.com/budgetbot/budget/pkg/classifier"
	"github.com/budgetbot/budget/pkg/intentstore"
	"github.com/budgetbot/budget/pkg/models"
	"github.com/budgetbot/budget/pkg/nlp"
	"github.com/budgetbot/budget/pkg/vectorizer"
)

var log = internal.GetLogger()

// TrainingSet holds one normalized document per pattern and its tag.
type TrainingSet struct {
	Documents [][]string
	Tags      []string
}

func (ts *TrainingSet) Len() int {
	return len(ts.Tags)
}

// BuildTrainingSet normalizes every pattern of every intent. Intents
// without patterns contribute nothing.
func BuildTrainingSet(intents []models.Intent, normalizer *nlp.Normalizer) *TrainingSet {
	ts := &TrainingSet{}
	for _, intent := range intents {
		for _, pattern := range intent.Patterns {
			ts.Documents = append(ts.Documents, normalizer.Normalize(pattern))
			ts.Tags = append(ts.Tags, intent.Tag)
		}
	}
	return ts
}

type Trainer struct {
	store        *intentstore.Store
	normalizer   *nlp.Normalizer
	artifactPath string
	options      classifier.Options
}

func NewTrainer(
	cfg *config.Config,
	store *intentstore.Store,
	normalizer *nlp.Normalizer,
) *Trainer {
	return &Trainer{
		store:        store,
		normalizer:   normalizer,
		artifactPath: cfg.Model.ArtifactPath,
		options:      OptionsFromConfig(cfg.Model),
	}
}

// OptionsFromConfig maps the model section of the configuration onto
// training options. Unset values take the classifier defaults.
func OptionsFromConfig(cfg config.ModelConfig) classifier.Options {
	return classifier.Options{
		Epochs:       cfg.Epochs,
		BatchSize:    cfg.BatchSize,
		LearningRate: cfg.LearningRate,
		HiddenUnits:  cfg.HiddenUnits,
		Dropout:      cfg.Dropout,
		Seed:         cfg.Seed,
	}
}

// Retrain trains a new model on the current corpus and saves it to the
// artifact path. The previous artifact is only replaced once training has
// succeeded. A running predictor keeps its loaded model until it reloads.
func (t *Trainer) Retrain(ctx context.Context) (*artifact.Artifact, error) {
	intents, err := t.store.Load()
	if err != nil {
		return nil, err
	}

	ts := BuildTrainingSet(intents, t.normalizer)
	if ts.Len() == 0 {
		return nil, models.NewTrainingError("the intent corpus has no patterns")
	}

	labels := classifier.FitLabels(ts.Tags)
	if labels.Len() < 2 {
		return nil, models.NewTrainingError(
			fmt.Sprintf("at least 2 trainable intents are required, found %d", labels.Len()),
		)
	}

	vocab := vectorizer.Fit(ts.Documents)
	if vocab.Len() == 0 {
		return nil, models.NewTrainingError("no pattern contains a usable token")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Infof(
		"training on %d patterns, %d labels, %d vocabulary tokens",
		ts.Len(),
		labels.Len(),
		vocab.Len(),
	)

	network, stats, err := classifier.Train(
		vectorizer.VectorizeAll(ts.Documents, vocab),
		labels.EncodeAll(ts.Tags),
		labels.Len(),
		t.options,
	)
	if err != nil {
		return nil, models.NewTrainingError(err.Error())
	}

	model, err := classifier.NewModel(network, labels)
	if err != nil {
		return nil, models.NewTrainingError(err.Error())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a := artifact.New(vocab, model, *stats)
	if err := artifact.Save(t.artifactPath, a); err != nil {
		return nil, err
	}

	log.Infof(
		"training finished: loss=%.4f accuracy=%.2f artifact=%s",
		stats.Loss,
		stats.Accuracy,
		a.ID,
	)
	return a, nil
}
