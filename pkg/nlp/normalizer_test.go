package nlp

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lemmas(words ...string) []string {
	l := SnowballLemmatizer{}
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, strings.TrimSpace(lower(l.Lemma(w))))
	}
	return out
}

func TestNormalize_DropsPunctuationAndStopwords(t *testing.T) {
	n := NewNormalizer(nil, nil)

	got := n.Normalize("Bonjour, ça va ?")

	assert.Equal(t, lemmas("bonjour"), got)
}

func TestNormalize_KeepsInterrogativeOverrides(t *testing.T) {
	n := NewNormalizer(nil, nil)

	got := n.Normalize("Qu'est-ce que la TVA ?")

	assert.Equal(t, lemmas("qu'", "est", "ce", "que", "tva"), got)
	assert.Equal(t, "que", got[0])
	assert.Equal(t, "être", got[1])
}

func TestNormalize_CurlyApostrophe(t *testing.T) {
	n := NewNormalizer(nil, nil)

	assert.Equal(t, n.Normalize("Qu'est-ce qu'un bilan"), n.Normalize("Qu’est-ce qu’un bilan"))
}

func TestNormalize_ElisionIsSplit(t *testing.T) {
	n := NewNormalizer(nil, nil)

	got := n.Normalize("l'entreprise d'Alice")

	assert.Equal(t, lemmas("entreprise", "alice"), got)
}

func TestNormalize_PreservesOrderWithoutDedup(t *testing.T) {
	n := NewNormalizer(nil, nil)

	got := n.Normalize("bilan bilan compte")

	assert.Equal(t, lemmas("bilan", "bilan", "compte"), got)
}

func TestNormalize_Empty(t *testing.T) {
	n := NewNormalizer(nil, nil)

	assert.Empty(t, n.Normalize(""))
	assert.Empty(t, n.Normalize("   \n\t "))
	assert.Empty(t, n.Normalize("?!..."))
}

func TestNormalize_OutputIsClean(t *testing.T) {
	n := NewNormalizer(nil, nil)
	sw := DefaultStopwords()

	patterns := []string{
		"Bonjour !",
		"Quel est le taux de TVA en 2024 ?",
		"Comment  calculer\tmon bilan comptable...",
		"Tu es qui, toi ?",
		"Je voudrais déclarer 5,5 % de TVA — c'est possible ?",
	}
	for _, p := range patterns {
		for _, tok := range n.Tokenize(p) {
			if !tok.Allowed() {
				continue
			}
			assert.False(t, sw.Contains(lower(tok.Text)), "stopword %q kept in %q", tok.Text, p)
		}
		for _, out := range n.Normalize(p) {
			assert.NotEmpty(t, out)
			assert.Equal(t, out, strings.TrimSpace(out))
			assert.Equal(t, lower(out), out)
			for _, r := range out {
				assert.False(t, unicode.IsSpace(r), "whitespace in %q", out)
			}
			assert.False(t, isPunctToken(out), "punctuation token %q", out)
		}
	}
}

func TestTokenize_Flags(t *testing.T) {
	n := NewNormalizer(nil, nil)

	tokens := n.Tokenize("Salut  le monde !")
	require.Len(t, tokens, 5)

	assert.Equal(t, "Salut", tokens[0].Text)
	assert.True(t, tokens[0].Allowed())
	assert.True(t, tokens[1].IsSpace)
	assert.Equal(t, "le", tokens[2].Text)
	assert.True(t, tokens[2].IsStop)
	assert.Equal(t, "monde", tokens[3].Text)
	assert.True(t, tokens[4].IsPunct)
}

func TestTokenize_Numbers(t *testing.T) {
	n := NewNormalizer(nil, nil)

	tokens := n.Tokenize("5,5 %")
	require.NotEmpty(t, tokens)
	assert.Equal(t, "5,5", tokens[0].Text)
}

type upperLemmatizer struct{}

func (upperLemmatizer) Lemma(word string) string {
	return "  " + strings.ToUpper(word) + " "
}

func TestNormalize_CustomLemmatizer(t *testing.T) {
	n := NewNormalizer(nil, upperLemmatizer{})

	assert.Equal(t, []string{"bilan", "annuel"}, n.Normalize("Bilan annuel"))
}
