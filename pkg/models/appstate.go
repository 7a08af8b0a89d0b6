package models

import (
	"context"

	"github.com/budgetbot/budget/config"
)

// Predictor is the prediction service as seen by the HTTP layer.
type Predictor interface {
	Predict(ctx context.Context, text string) (*Prediction, error)
	Reload(ctx context.Context) error
	Health() HealthStatus
}

// Reloader activates the artifact produced by the last training run.
type Reloader interface {
	Reload(ctx context.Context) error
}

// IntentEditor maintains the corpus and drives retraining.
type IntentEditor interface {
	List(ctx context.Context) ([]Intent, error)
	Upsert(ctx context.Context, req *UpsertIntentRequest) (*MutationResult, error)
	Delete(ctx context.Context, tag string) (*MutationResult, error)
	Retrain(ctx context.Context) (*TrainingResult, error)
}

// AppState holds the state of the application.
// Use cmd.NewAppState to create a new instance.
type AppState struct {
	Config    *config.Config
	Predictor Predictor
	Editor    IntentEditor
}
