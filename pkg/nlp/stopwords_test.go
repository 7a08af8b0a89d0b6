package nlp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStopwords_RemovesKeptWords(t *testing.T) {
	sw := DefaultStopwords()

	assert.Greater(t, sw.Len(), 100)
	assert.True(t, sw.Contains("le"))
	assert.True(t, sw.Contains("la"))
	assert.True(t, sw.Contains("l'"))
	for _, w := range KeptStopwords {
		assert.False(t, sw.Contains(w), "%q should not be a stopword", w)
	}
}

func TestReadStopwords(t *testing.T) {
	sw, err := ReadStopwords(strings.NewReader("# comment\nLe\n\nque\nD’\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, sw.Len())
	assert.True(t, sw.Contains("le"))
	assert.True(t, sw.Contains("d'"))
	assert.False(t, sw.Contains("que"))
}

func TestLoadStopwords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stop.txt")
	require.NoError(t, os.WriteFile(path, []byte("bilan\nest\n"), 0o600))

	sw, err := LoadStopwords(path)
	require.NoError(t, err)
	assert.True(t, sw.Contains("bilan"))
	assert.False(t, sw.Contains("est"))

	n := NewNormalizer(sw, nil)
	assert.Equal(t, lemmas("est", "annuel"), n.Normalize("bilan est annuel"))

	_, err = LoadStopwords(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
