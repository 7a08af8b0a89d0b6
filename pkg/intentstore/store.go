// Package intentstore reads and writes the intent corpus document.
//
// Every mutation loads the whole document, edits it and writes it back
// atomically. The store holds no lock; callers serialize writers.
package intentstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/budgetbot/budget/internal"
	"github.com/budgetbot/budget/pkg/models"
	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"
)

var log = internal.GetLogger()

const indent = "    "

// Store is a JSON intent document at a fixed path.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns the intents in document order. A missing document is an
// empty store.
func (s *Store) Load() ([]models.Intent, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debugf("intent document %s not found, starting empty", s.path)
			return []models.Intent{}, nil
		}
		return nil, models.NewPersistenceError("read intents", s.path, err)
	}

	intents, err := decodeJSON(data)
	if err != nil {
		return nil, models.NewPersistenceError("decode intents", s.path, err)
	}
	if err := checkTags(intents); err != nil {
		return nil, models.NewPersistenceError("validate intents", s.path, err)
	}
	return intents, nil
}

// Save replaces the whole document.
func (s *Store) Save(intents []models.Intent) error {
	doc := models.IntentDocument{Intents: intents}
	if doc.Intents == nil {
		doc.Intents = []models.Intent{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(doc); err != nil {
		return models.NewPersistenceError("encode intents", s.path, err)
	}

	if err := internal.WriteFileAtomic(s.path, buf.Bytes(), 0o644); err != nil {
		return models.NewPersistenceError("write intents", s.path, err)
	}
	return nil
}

// Upsert trims the tag and every pattern and response, drops blank lines,
// then replaces the intent with the same tag in place or appends a new one.
// It returns the updated corpus.
func (s *Store) Upsert(tag string, patterns, responses []string) ([]models.Intent, error) {
	return s.Replace(tag, tag, patterns, responses)
}

// Replace is Upsert for the intent named oldTag, which is stored under tag
// at the same position. Renaming an unknown intent or renaming onto a tag
// already in use fails. An empty oldTag means tag.
func (s *Store) Replace(oldTag, tag string, patterns, responses []string) ([]models.Intent, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, models.NewInvalidRequestError("intent tag is required")
	}
	oldTag = strings.TrimSpace(oldTag)
	if oldTag == "" {
		oldTag = tag
	}

	intents, err := s.Load()
	if err != nil {
		return nil, err
	}

	intent := models.Intent{
		Tag:       tag,
		Patterns:  cleanLines(patterns),
		Responses: cleanLines(responses),
	}

	pos := indexOf(intents, oldTag)
	if oldTag != tag {
		if pos < 0 {
			return nil, models.NewNotFoundError(fmt.Sprintf("intent %q", oldTag))
		}
		if indexOf(intents, tag) >= 0 {
			return nil, models.NewTagConflictError(tag)
		}
	}
	if pos >= 0 {
		intents[pos] = intent
	} else {
		intents = append(intents, intent)
	}

	if err := s.Save(intents); err != nil {
		return nil, err
	}

	if oldTag != tag {
		log.Infof("renamed intent %q to %q (%d patterns, %d responses)", oldTag, tag, len(intent.Patterns), len(intent.Responses))
	} else {
		log.Infof("upserted intent %q (%d patterns, %d responses)", tag, len(intent.Patterns), len(intent.Responses))
	}
	return Clone(intents), nil
}

// Delete removes the first intent with the tag. Deleting an absent tag is
// not an error and leaves the document untouched.
func (s *Store) Delete(tag string) ([]models.Intent, error) {
	intents, err := s.Load()
	if err != nil {
		return nil, err
	}

	for i := range intents {
		if intents[i].Tag == tag {
			intents = append(intents[:i], intents[i+1:]...)
			if err := s.Save(intents); err != nil {
				return nil, err
			}
			log.Infof("deleted intent %q", tag)
			return Clone(intents), nil
		}
	}

	log.Debugf("delete of unknown intent %q ignored", tag)
	return intents, nil
}

// Import replaces the corpus with the intents read from a .json, .yaml or
// .yml document.
func (s *Store) Import(path string) ([]models.Intent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, models.NewPersistenceError("read import", path, err)
	}

	var intents []models.Intent
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		intents, err = decodeJSON(data)
	case ".yaml", ".yml":
		intents, err = decodeYAML(data)
	default:
		return nil, models.NewInvalidRequestError(fmt.Sprintf("unsupported import format %q", ext))
	}
	if err != nil {
		return nil, models.NewPersistenceError("decode import", path, err)
	}

	cleaned := make([]models.Intent, 0, len(intents))
	for _, intent := range intents {
		cleaned = append(cleaned, models.Intent{
			Tag:       strings.TrimSpace(intent.Tag),
			Patterns:  cleanLines(intent.Patterns),
			Responses: cleanLines(intent.Responses),
		})
	}
	if err := checkTags(cleaned); err != nil {
		return nil, models.NewInvalidRequestError(err.Error())
	}

	if err := s.Save(cleaned); err != nil {
		return nil, err
	}

	log.Infof("imported %d intents from %s", len(cleaned), path)
	return cleaned, nil
}

// Clone deep-copies a corpus so callers cannot alias a shared slice.
func Clone(intents []models.Intent) []models.Intent {
	out := make([]models.Intent, 0, len(intents))
	if err := copier.CopyWithOption(&out, intents, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched kinds
		panic(err)
	}
	return out
}

func decodeJSON(data []byte) ([]models.Intent, error) {
	var doc models.IntentDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Intents == nil {
		doc.Intents = []models.Intent{}
	}
	return doc.Intents, nil
}

func decodeYAML(data []byte) ([]models.Intent, error) {
	var doc models.IntentDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Intents == nil {
		doc.Intents = []models.Intent{}
	}
	return doc.Intents, nil
}

// checkTags reports the first blank or repeated tag.
func checkTags(intents []models.Intent) error {
	seen := make(map[string]struct{}, len(intents))
	for i, intent := range intents {
		if strings.TrimSpace(intent.Tag) == "" {
			return fmt.Errorf("intent %d has no tag", i)
		}
		if _, ok := seen[intent.Tag]; ok {
			return fmt.Errorf("duplicate intent tag %q", intent.Tag)
		}
		seen[intent.Tag] = struct{}{}
	}
	return nil
}

func indexOf(intents []models.Intent, tag string) int {
	for i := range intents {
		if intents[i].Tag == tag {
			return i
		}
	}
	return -1
}

func cleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
