// Package editor maintains the intent corpus and keeps the served model in
// step with it.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/budgetbot/budget/internal"
	"github.com/budgetbot/budget/pkg/artifact"
	"github.com/budgetbot/budget/pkg/intentstore"
	"github.com/budgetbot/budget/pkg/models"
	"github.com/go-playground/validator/v10"
)

var log = internal.GetLogger()

var validate = validator.New()

var errReload = errors.New("reload failed")

// Retrainer produces a new model artifact from the current corpus.
type Retrainer interface {
	Retrain(ctx context.Context) (*artifact.Artifact, error)
}

var _ models.IntentEditor = &Service{}

// Service serializes corpus writes. Training runs one at a time: an
// explicit Retrain fails fast while another is running, an automatic
// retrain after an edit waits for it.
type Service struct {
	store       *intentstore.Store
	trainer     Retrainer
	reloader    models.Reloader
	autoRetrain bool

	mu       sync.Mutex
	training sync.Mutex
}

// NewService wires the editor. reloader may be nil when no running model
// needs to pick up new artifacts.
func NewService(
	store *intentstore.Store,
	trainer Retrainer,
	reloader models.Reloader,
	autoRetrain bool,
) *Service {
	return &Service{
		store:       store,
		trainer:     trainer,
		reloader:    reloader,
		autoRetrain: autoRetrain,
	}
}

func (s *Service) List(_ context.Context) ([]models.Intent, error) {
	return s.store.Load()
}

func (s *Service) Upsert(ctx context.Context, req *models.UpsertIntentRequest) (*models.MutationResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, models.NewInvalidRequestError(err.Error())
	}

	s.mu.Lock()
	intents, err := s.store.Replace(req.OriginalTag, req.Tag, req.Patterns, req.Responses)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	return s.afterMutation(ctx, intents), nil
}

// Delete removes the intent with tag. An unknown tag leaves the corpus
// and the model untouched.
func (s *Service) Delete(ctx context.Context, tag string) (*models.MutationResult, error) {
	s.mu.Lock()
	intents, err := s.store.Load()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if _, ok := models.FindIntent(intents, tag); !ok {
		s.mu.Unlock()
		return &models.MutationResult{Intents: intents}, nil
	}
	intents, err = s.store.Delete(tag)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	return s.afterMutation(ctx, intents), nil
}

// Retrain trains and reloads the model. It returns
// models.ErrTrainingInProgress when another training run is active.
func (s *Service) Retrain(ctx context.Context) (*models.TrainingResult, error) {
	if !s.training.TryLock() {
		return nil, models.ErrTrainingInProgress
	}
	defer s.training.Unlock()

	return s.retrainAndReload(ctx)
}

// afterMutation brings the served model in line with a saved corpus. When
// no new model can be trained the current artifact is reloaded against the
// new corpus, so removed or emptied intents stop being served.
func (s *Service) afterMutation(ctx context.Context, intents []models.Intent) *models.MutationResult {
	result := &models.MutationResult{Intents: intents}
	var warnings []string

	if s.autoRetrain {
		s.training.Lock()
		training, err := s.retrainAndReload(ctx)
		s.training.Unlock()
		if err == nil {
			result.Training = training
			return result
		}
		log.Warnf("corpus saved but automatic retrain failed: %v", err)
		warnings = append(warnings, fmt.Sprintf("corpus saved but the model was not updated: %v", err))
		if errors.Is(err, errReload) {
			result.Warning = strings.Join(warnings, "; ")
			return result
		}
	}

	if s.reloader != nil {
		if err := s.reloader.Reload(ctx); err != nil {
			log.Warnf("corpus saved but the served corpus was not refreshed: %v", err)
			warnings = append(warnings, fmt.Sprintf("served corpus not refreshed: %v", err))
		}
	}

	result.Warning = strings.Join(warnings, "; ")
	return result
}

func (s *Service) retrainAndReload(ctx context.Context) (*models.TrainingResult, error) {
	a, err := s.trainer.Retrain(ctx)
	if err != nil {
		return nil, err
	}

	message := "model trained"
	if s.reloader != nil {
		if err := s.reloader.Reload(ctx); err != nil {
			return nil, fmt.Errorf("model %s trained but %w: %w", a.ID, errReload, err)
		}
		message = "model trained and reloaded"
	}

	return &models.TrainingResult{
		Status:     models.ReloadStatusOK,
		Message:    message,
		ArtifactID: a.ID.String(),
		Samples:    a.Stats.Samples,
		Labels:     a.Labels,
		Loss:       a.Stats.Loss,
		Accuracy:   a.Stats.Accuracy,
	}, nil
}
