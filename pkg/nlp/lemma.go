package nlp

import (
	"github.com/kljensen/snowball/french"
)

// Lemmatizer reduces a lowercased word to its base form.
type Lemmatizer interface {
	Lemma(word string) string
}

// irregularLemmas maps frequent inflected forms that a suffix stemmer
// cannot relate to their infinitive, plus the elided function words.
var irregularLemmas = map[string]string{
	"qu'":     "que",
	"jusqu'":  "jusque",
	"lorsqu'": "lorsque",
	"puisqu'": "puisque",
	"l'":      "le",
	"d'":      "de",
	"j'":      "je",
	"n'":      "ne",
	"s'":      "se",
	"c'":      "ce",
	"m'":      "me",
	"t'":      "te",
	"suis":    "être",
	"es":      "être",
	"est":     "être",
	"sommes":  "être",
	"êtes":    "être",
	"sont":    "être",
	"été":     "être",
	"était":   "être",
	"serait":  "être",
	"sera":    "être",
	"ai":      "avoir",
	"as":      "avoir",
	"a":       "avoir",
	"avons":   "avoir",
	"avez":    "avoir",
	"ont":     "avoir",
	"eu":      "avoir",
	"avait":   "avoir",
	"aura":    "avoir",
	"fais":    "faire",
	"fait":    "faire",
	"faisons": "faire",
	"faites":  "faire",
	"font":    "faire",
	"vais":    "aller",
	"vas":     "aller",
	"va":      "aller",
	"allons":  "aller",
	"allez":   "aller",
	"vont":    "aller",
	"peux":    "pouvoir",
	"peut":    "pouvoir",
	"pouvons": "pouvoir",
	"pouvez":  "pouvoir",
	"peuvent": "pouvoir",
	"dois":    "devoir",
	"doit":    "devoir",
	"devons":  "devoir",
	"devez":   "devoir",
	"doivent": "devoir",
	"sais":    "savoir",
	"sait":    "savoir",
	"savez":   "savoir",
	"veux":    "vouloir",
	"veut":    "vouloir",
	"voulez":  "vouloir",
	"veulent": "vouloir",
	"quelle":  "quel",
	"quels":   "quel",
	"quelles": "quel",
}

// SnowballLemmatizer approximates lemmas with a dictionary of irregular
// forms and the Snowball French stemmer for everything else.
type SnowballLemmatizer struct{}

func (SnowballLemmatizer) Lemma(word string) string {
	if lemma, ok := irregularLemmas[word]; ok {
		return lemma
	}
	return french.Stem(word, true)
}
