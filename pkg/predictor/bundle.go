package predictor

import (
	"time"

	"github.com/budgetbot/budget/pkg/classifier"
	"github.com/budgetbot/budget/pkg/models"
	"github.com/budgetbot/budget/pkg/vectorizer"
	"github.com/google/uuid"
)

// ResourceBundle is everything a prediction reads. A bundle is never
// modified after it is built; a reload builds a new one and swaps it in.
type ResourceBundle struct {
	vocab      *vectorizer.Vocabulary
	model      *classifier.Model
	intents    []models.Intent
	artifactID uuid.UUID
	loadedAt   time.Time
}

func (b *ResourceBundle) ArtifactID() uuid.UUID {
	return b.artifactID
}

func (b *ResourceBundle) LoadedAt() time.Time {
	return b.loadedAt
}

func (b *ResourceBundle) Labels() []string {
	return b.model.Labels()
}

// IntentCount is the number of intents in the corpus snapshot.
func (b *ResourceBundle) IntentCount() int {
	return len(b.intents)
}
