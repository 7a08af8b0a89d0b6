package vectorizer

// Vectorize maps tokens to a binary bag-of-words over vocab: dimension i is
// 1 when vocab token i occurs at least once. Unknown tokens are ignored.
func Vectorize(tokens []string, vocab *Vocabulary) []float64 {
	vec := make([]float64, vocab.Len())
	for _, tok := range tokens {
		if i := vocab.Index(tok); i >= 0 {
			vec[i] = 1
		}
	}
	return vec
}

// VectorizeAll vectorizes a batch of documents.
func VectorizeAll(documents [][]string, vocab *Vocabulary) [][]float64 {
	out := make([][]float64, len(documents))
	for i, doc := range documents {
		out[i] = Vectorize(doc, vocab)
	}
	return out
}
