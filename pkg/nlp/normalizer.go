package nlp

import (
	"strings"

	"github.com/budgetbot/budget/pkg/models"
)

// Normalizer turns raw French text into the token sequence the vectorizer
// and classifier work with. It is safe for concurrent use.
type Normalizer struct {
	stopwords  *Stopwords
	lemmatizer Lemmatizer
}

// NewNormalizer uses the default stopword list and lemmatizer when nil.
func NewNormalizer(stopwords *Stopwords, lemmatizer Lemmatizer) *Normalizer {
	if stopwords == nil {
		stopwords = DefaultStopwords()
	}
	if lemmatizer == nil {
		lemmatizer = SnowballLemmatizer{}
	}
	return &Normalizer{stopwords: stopwords, lemmatizer: lemmatizer}
}

// Tokenize returns every token of text, including the ones Normalize drops.
func (n *Normalizer) Tokenize(text string) []models.Token {
	raw := splitText(text)
	tokens := make([]models.Token, 0, len(raw))
	for _, s := range raw {
		tokens = append(tokens, newToken(s, n.stopwords, n.lemmatizer))
	}
	return tokens
}

// Normalize keeps the lemmas of non-space, non-punctuation, non-stopword
// tokens, trimmed and lowercased, in input order.
func (n *Normalizer) Normalize(text string) []string {
	tokens := n.Tokenize(text)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !tok.Allowed() {
			continue
		}
		lemma := strings.TrimSpace(lower(tok.Lemma))
		if lemma == "" {
			continue
		}
		out = append(out, lemma)
	}
	return out
}
