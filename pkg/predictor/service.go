// Package predictor serves chatbot replies from the currently loaded model.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/budgetbot/budget/config"
	"github.com/budgetbot/budget/internal"
	"github.com/budgetbot/budget/pkg/artifact"
	"github.com/budgetbot/budget/pkg/intentstore"
	"github.com/budgetbot/budget/pkg/models"
	"github.com/budgetbot/budget/pkg/nlp"
	"github.com/budgetbot/budget/pkg/responder"
	"github.com/budgetbot/budget/pkg/vectorizer"
	"gonum.org/v1/gonum/floats"
)

var log = internal.GetLogger()

const (
	readyMessage   = "Service operational"
	unreadyMessage = "Model not loaded"
)

var _ models.Predictor = &Service{}

// Service is Unready until the first successful Reload. Predict reads the
// current bundle without locking; Reload calls are serialized.
type Service struct {
	normalizer   *nlp.Normalizer
	selector     *responder.Selector
	store        *intentstore.Store
	artifactPath string

	bundle   atomic.Pointer[ResourceBundle]
	reloadMu sync.Mutex
}

func NewService(
	cfg *config.Config,
	store *intentstore.Store,
	normalizer *nlp.Normalizer,
	selector *responder.Selector,
) *Service {
	return &Service{
		normalizer:   normalizer,
		selector:     selector,
		store:        store,
		artifactPath: cfg.Model.ArtifactPath,
	}
}

// Predict normalizes, vectorizes and classifies text, then applies the
// confidence gate against the corpus snapshot of the loaded bundle. Text
// with no token in the model vocabulary always gets the fallback.
func (s *Service) Predict(_ context.Context, text string) (*models.Prediction, error) {
	bundle := s.bundle.Load()
	if bundle == nil {
		return nil, fmt.Errorf("model not loaded: %w", models.ErrServiceUnavailable)
	}
	if strings.TrimSpace(text) == "" {
		return nil, models.NewInvalidRequestError("missing 'text' parameter")
	}

	tokens := s.normalizer.Normalize(text)
	vec := vectorizer.Vectorize(tokens, bundle.vocab)

	label, confidence, err := bundle.model.Predict(vec)
	if err != nil {
		if errors.Is(err, models.ErrShapeMismatch) {
			log.Errorf("vocabulary and model of artifact %s disagree: %v", bundle.artifactID, err)
		}
		return nil, err
	}

	if floats.Sum(vec) == 0 {
		log.Debugf("no known token in %v, %s (%.4f) not served", tokens, label, confidence)
		prediction := responder.Fallback(confidence)
		return &prediction, nil
	}

	prediction := s.selector.Select(label, confidence, bundle.intents)
	log.Debugf("prediction: %s (%.4f), tokens=%v", label, confidence, tokens)
	return &prediction, nil
}

// Reload loads the artifact and the corpus into a new bundle. On failure
// the current bundle, if any, stays in service.
func (s *Service) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	bundle, err := s.buildBundle(ctx)
	if err != nil {
		log.Errorf("failed to load model resources: %v", err)
		return err
	}

	s.bundle.Store(bundle)

	log.Infof("intents loaded: %d", bundle.IntentCount())
	log.Infof("classes recognized by the model: %d", len(bundle.Labels()))
	return nil
}

func (s *Service) buildBundle(ctx context.Context) (*ResourceBundle, error) {
	a, err := artifact.Load(s.artifactPath)
	if err != nil {
		return nil, err
	}
	vocab, model, err := a.Restore()
	if err != nil {
		return nil, err
	}

	intents, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &ResourceBundle{
		vocab:      vocab,
		model:      model,
		intents:    intentstore.Clone(intents),
		artifactID: a.ID,
		loadedAt:   time.Now().UTC(),
	}, nil
}

// Health reports readiness. It never triggers a load.
func (s *Service) Health() models.HealthStatus {
	status := models.HealthStatus{
		Status:    models.StateReady,
		Message:   readyMessage,
		Timestamp: time.Now().UTC(),
	}
	if s.bundle.Load() == nil {
		status.Status = models.StateUnready
		status.Message = unreadyMessage
	}
	return status
}

// Bundle returns the bundle currently in service, or nil when Unready.
func (s *Service) Bundle() *ResourceBundle {
	return s.bundle.Load()
}

// Labels returns the labels of the loaded model, or nil when Unready.
func (s *Service) Labels() []string {
	bundle := s.bundle.Load()
	if bundle == nil {
		return nil
	}
	return bundle.Labels()
}
