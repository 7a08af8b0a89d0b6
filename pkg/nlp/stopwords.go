package nlp

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed stopwords_fr.txt
var defaultStopwordsFR string

// KeptStopwords are removed from the default list: short interrogative and
// auxiliary words that tell question intents apart in the corpus.
var KeptStopwords = []string{"tu", "es", "ce", "que", "quoi", "quel", "quelle", "qu'", "est"}

// Stopwords is an immutable set of lowercase words.
type Stopwords struct {
	words map[string]struct{}
}

// DefaultStopwords returns the built-in French list minus KeptStopwords.
func DefaultStopwords() *Stopwords {
	sw, err := ReadStopwords(strings.NewReader(defaultStopwordsFR))
	if err != nil {
		// the embedded list is plain text; a read error is a build defect
		panic(err)
	}
	return sw
}

// LoadStopwords reads a one-word-per-line list from path. KeptStopwords are
// removed from it as well.
func LoadStopwords(path string) (*Stopwords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stopwords: %w", err)
	}
	defer f.Close()

	return ReadStopwords(f)
}

// ReadStopwords parses a one-word-per-line list. Blank lines and lines
// starting with '#' are skipped.
func ReadStopwords(r io.Reader) (*Stopwords, error) {
	words := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words[normalizeApostrophe(lower(line))] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stopwords: %w", err)
	}

	for _, w := range KeptStopwords {
		delete(words, w)
	}

	return &Stopwords{words: words}, nil
}

// Contains expects an already lowercased word.
func (s *Stopwords) Contains(word string) bool {
	_, ok := s.words[word]
	return ok
}

func (s *Stopwords) Len() int {
	return len(s.words)
}
