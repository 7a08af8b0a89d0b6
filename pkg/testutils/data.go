package testutils

import (
	"github.com/budgetbot/budget/pkg/models"
	"github.com/jinzhu/copier"
)

var testIntents = []models.Intent{
	{
		Tag: "greeting",
		Patterns: []string{
			"bonjour",
			"Salut !",
			"bonjour à toi",
			"salut, comment ça va ?",
			"coucou",
		},
		Responses: []string{
			"Bonjour ! Comment puis-je vous aider ?",
			"Salut ! Une question de comptabilité ?",
		},
	},
	{
		Tag: "tva",
		Patterns: []string{
			"Qu'est-ce que la TVA ?",
			"comment calculer la TVA",
			"quel est le taux de TVA",
			"taux de TVA normal",
			"déclarer la TVA",
		},
		Responses: []string{
			"La TVA est un impôt indirect sur la consommation.",
		},
	},
	{
		Tag: "bilan",
		Patterns: []string{
			"Qu'est-ce qu'un bilan comptable ?",
			"comment lire un bilan",
			"actif et passif du bilan",
			"établir le bilan annuel",
		},
		Responses: []string{
			"Le bilan présente l'actif et le passif de l'entreprise à une date donnée.",
		},
	},
}

// TestIntents returns a deep copy of a small French accounting corpus.
func TestIntents() []models.Intent {
	var out []models.Intent
	if err := copier.CopyWithOption(&out, testIntents, copier.Option{DeepCopy: true}); err != nil {
		panic(err)
	}
	return out
}
