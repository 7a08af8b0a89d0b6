package responder

import (
	"math"
	"math/rand"
	"testing"

	"github.com/budgetbot/budget/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var corpus = []models.Intent{
	{
		Tag:       "greeting",
		Patterns:  []string{"bonjour"},
		Responses: []string{"Bonjour !", "Salut !", "Coucou !"},
	},
	{
		Tag:      "silent",
		Patterns: []string{"..."},
	},
}

func TestSelect_ConfidenceGate(t *testing.T) {
	s := NewSelector(rand.NewSource(1))

	testCases := []struct {
		name       string
		confidence float64
		pass       bool
	}{
		{name: "exactly at threshold", confidence: 0.6, pass: false},
		{name: "just above threshold", confidence: 0.61, pass: true},
		{name: "below threshold", confidence: 0.2, pass: false},
		{name: "certain", confidence: 1, pass: true},
		{name: "nan", confidence: math.NaN(), pass: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := s.Select("greeting", tc.confidence, corpus)

			if tc.pass {
				require.NotNil(t, p.Tag)
				assert.Equal(t, "greeting", *p.Tag)
				assert.Contains(t, corpus[0].Responses, p.Response)
			} else {
				assert.Nil(t, p.Tag)
				assert.Equal(t, FallbackResponse, p.Response)
			}
		})
	}
}

func TestSelect_ReportsRawConfidence(t *testing.T) {
	s := NewSelector(rand.NewSource(1))

	assert.Equal(t, 0.42, s.Select("greeting", 0.42, corpus).Confidence)
	assert.Equal(t, 0.93, s.Select("greeting", 0.93, corpus).Confidence)
}

func TestSelect_LabelAbsentFromStore(t *testing.T) {
	s := NewSelector(rand.NewSource(1))

	p := s.Select("tva", 0.99, corpus)

	assert.Nil(t, p.Tag)
	assert.Equal(t, FallbackResponse, p.Response)
	assert.Equal(t, 0.99, p.Confidence)
}

func TestSelect_EmptyResponsesFallsBack(t *testing.T) {
	s := NewSelector(rand.NewSource(1))

	p := s.Select("silent", 0.99, corpus)

	assert.Nil(t, p.Tag)
	assert.Equal(t, FallbackResponse, p.Response)
}

func TestSelect_SameSeedSameChoices(t *testing.T) {
	a := NewSelector(rand.NewSource(99))
	b := NewSelector(rand.NewSource(99))

	for i := 0; i < 20; i++ {
		assert.Equal(t,
			a.Select("greeting", 0.9, corpus).Response,
			b.Select("greeting", 0.9, corpus).Response,
		)
	}
}

func TestSelect_CoversAllResponses(t *testing.T) {
	s := NewSelector(rand.NewSource(5))
	seen := map[string]bool{}

	for i := 0; i < 200; i++ {
		seen[s.Select("greeting", 0.9, corpus).Response] = true
	}

	assert.Len(t, seen, 3)
}

func TestSelect_DoesNotMutateIntents(t *testing.T) {
	s := NewSelector(nil)
	intents := []models.Intent{{Tag: "a", Responses: []string{"r"}}}

	p := s.Select("a", 0.9, intents)
	*p.Tag = "changed"

	assert.Equal(t, "a", intents[0].Tag)
}
