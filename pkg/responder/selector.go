// Package responder turns a classifier decision into the reply served to
// the user.
package responder

import (
	"math/rand"
	"sync"
	"time"

	"github.com/budgetbot/budget/pkg/models"
)

// ConfidenceThreshold must be strictly exceeded for a label to be served.
const ConfidenceThreshold = 0.6

const FallbackResponse = "Désolé, je n'ai pas compris votre requête."

// Selector picks a response for a predicted label. It is safe for
// concurrent use.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector uses src to choose among an intent's responses. A nil src is
// seeded from the clock.
func NewSelector(src rand.Source) *Selector {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Selector{rng: rand.New(src)}
}

// Select applies the confidence gate. The label is served only when
// confidence exceeds ConfidenceThreshold and an intent with that tag and at
// least one response exists in intents. Otherwise the fallback is returned
// with a nil tag. Confidence is always reported as given.
func (s *Selector) Select(label string, confidence float64, intents []models.Intent) models.Prediction {
	fallback := Fallback(confidence)

	if !(confidence > ConfidenceThreshold) {
		return fallback
	}
	intent, ok := models.FindIntent(intents, label)
	if !ok || len(intent.Responses) == 0 {
		return fallback
	}

	tag := intent.Tag
	return models.Prediction{
		Tag:        &tag,
		Response:   intent.Responses[s.intn(len(intent.Responses))],
		Confidence: confidence,
	}
}

// Fallback is the reply served when no intent can be answered.
func Fallback(confidence float64) models.Prediction {
	return models.Prediction{
		Tag:        nil,
		Response:   FallbackResponse,
		Confidence: confidence,
	}
}

func (s *Selector) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
