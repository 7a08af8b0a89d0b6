package nlp

import (
	"strings"
	"unicode"

	"github.com/budgetbot/budget/pkg/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// elisions are the French clitics written with an apostrophe and split off
// the following word, e.g. "qu'est" -> "qu'" "est".
var elisions = map[string]struct{}{
	"qu": {}, "l": {}, "d": {}, "j": {}, "n": {}, "s": {}, "c": {}, "m": {}, "t": {},
	"jusqu": {}, "lorsqu": {}, "puisqu": {},
}

// inversionClitics follow a verb after a hyphen in questions, e.g.
// "est-ce", "peut-on"; they are split off as separate words.
var inversionClitics = map[string]struct{}{
	"ce": {}, "je": {}, "tu": {}, "il": {}, "ils": {}, "elle": {}, "elles": {},
	"on": {}, "nous": {}, "vous": {}, "t": {},
}

// lower builds a Caser per call: a Caser keeps state and must not be shared
// between goroutines.
func lower(s string) string {
	return cases.Lower(language.French).String(s)
}

func normalizeApostrophe(s string) string {
	return strings.ReplaceAll(s, "’", "'")
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’'
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// splitText segments NFC-normalized text into raw token strings. Whitespace
// runs other than a single space are kept as their own tokens so callers
// can flag them.
func splitText(text string) []string {
	runes := []rune(norm.NFC.String(text))
	var tokens []string
	var word []rune

	flush := func() {
		if len(word) > 0 {
			tokens = append(tokens, string(word))
			word = word[:0]
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch {
		case unicode.IsSpace(r):
			flush()
			j := i
			for j+1 < len(runes) && unicode.IsSpace(runes[j+1]) {
				j++
			}
			if run := string(runes[i : j+1]); run != " " {
				tokens = append(tokens, run)
			}
			i = j
		case isWordRune(r):
			word = append(word, r)
		case isApostrophe(r) && len(word) > 0:
			if _, ok := elisions[lower(string(word))]; ok {
				word = append(word, '\'')
				flush()
				continue
			}
			if isWordRune(next) {
				word = append(word, '\'')
				continue
			}
			flush()
			tokens = append(tokens, string(r))
		case r == '-' && len(word) > 0 && unicode.IsLetter(next):
			if _, ok := inversionClitics[lower(letterRun(runes, i+1))]; ok {
				flush()
				tokens = append(tokens, string(r))
				continue
			}
			word = append(word, r)
		case (r == ',' || r == '.') && len(word) > 0 &&
			unicode.IsDigit(word[len(word)-1]) && unicode.IsDigit(next):
			word = append(word, r)
		default:
			flush()
			tokens = append(tokens, string(r))
		}
	}
	flush()

	return tokens
}

// letterRun returns the letters starting at runes[from].
func letterRun(runes []rune, from int) string {
	end := from
	for end < len(runes) && unicode.IsLetter(runes[end]) {
		end++
	}
	return string(runes[from:end])
}

func isPunctToken(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) {
			return false
		}
	}
	return s != ""
}

func isSpaceToken(s string) bool {
	return strings.TrimSpace(s) == ""
}

func newToken(text string, stopwords *Stopwords, lemmatizer Lemmatizer) models.Token {
	tok := models.Token{Text: text}
	switch {
	case isSpaceToken(text):
		tok.IsSpace = true
		return tok
	case isPunctToken(text):
		tok.IsPunct = true
		tok.Lemma = text
		return tok
	}

	lowered := normalizeApostrophe(lower(text))
	tok.IsStop = stopwords.Contains(lowered)
	tok.Lemma = lemmatizer.Lemma(lowered)
	return tok
}
