package vectorizer

import (
	"sort"
)

// Vocabulary is the ordered token basis of every vectorized input. It is
// fixed by a training run and never modified afterwards.
type Vocabulary struct {
	tokens []string
	index  map[string]int
}

// NewVocabulary builds a vocabulary from tokens in the given order.
// Duplicates keep their first position.
func NewVocabulary(tokens []string) *Vocabulary {
	v := &Vocabulary{
		tokens: make([]string, 0, len(tokens)),
		index:  make(map[string]int, len(tokens)),
	}
	for _, tok := range tokens {
		if _, ok := v.index[tok]; ok {
			continue
		}
		v.index[tok] = len(v.tokens)
		v.tokens = append(v.tokens, tok)
	}
	return v
}

// Fit derives the vocabulary from normalized training documents: every
// distinct non-empty token, sorted so that the same corpus always yields
// the same basis.
func Fit(documents [][]string) *Vocabulary {
	seen := make(map[string]struct{})
	for _, doc := range documents {
		for _, tok := range doc {
			if tok == "" {
				continue
			}
			seen[tok] = struct{}{}
		}
	}

	tokens := make([]string, 0, len(seen))
	for tok := range seen {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)

	return NewVocabulary(tokens)
}

func (v *Vocabulary) Len() int {
	return len(v.tokens)
}

// Index returns the dimension of token, or -1 if it is out of vocabulary.
func (v *Vocabulary) Index(token string) int {
	if i, ok := v.index[token]; ok {
		return i
	}
	return -1
}

// Tokens returns a copy of the ordered basis.
func (v *Vocabulary) Tokens() []string {
	out := make([]string, len(v.tokens))
	copy(out, v.tokens)
	return out
}
