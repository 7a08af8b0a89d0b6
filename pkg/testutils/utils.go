package testutils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/budgetbot/budget/config"
	"github.com/budgetbot/budget/pkg/models"
)

// NewTestConfig returns a configuration whose store and artifact live in a
// fresh temporary directory. Training is seeded and kept small so tests
// run quickly and reproducibly.
func NewTestConfig(t testing.TB) *config.Config {
	t.Helper()

	dir := t.TempDir()
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Log:    config.LogConfig{Level: "info"},
		Store: config.StoreConfig{
			IntentsPath: filepath.Join(dir, "intents.json"),
		},
		Model: config.ModelConfig{
			ArtifactPath: filepath.Join(dir, "model", "chatbrain.json"),
			Epochs:       120,
			BatchSize:    4,
			HiddenUnits:  []int{32, 16},
			Seed:         42,
		},
		Editor: config.EditorConfig{AutoRetrain: false},
	}
}

// WriteIntents persists intents at the configured store path.
func WriteIntents(t testing.TB, cfg *config.Config, intents []models.Intent) {
	t.Helper()

	data, err := json.MarshalIndent(models.IntentDocument{Intents: intents}, "", "    ")
	if err != nil {
		t.Fatalf("failed to encode intents: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Store.IntentsPath), 0o755); err != nil {
		t.Fatalf("failed to create store directory: %v", err)
	}
	if err := os.WriteFile(cfg.Store.IntentsPath, data, 0o644); err != nil {
		t.Fatalf("failed to write intents: %v", err)
	}
}

// FindProjectRoot returns the absolute path to the project root directory.
func FindProjectRoot() (string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("could not get current file path")
	}

	dir := filepath.Dir(currentFilePath)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		if dir == filepath.Dir(dir) {
			return "", fmt.Errorf("project root not found")
		}

		dir = filepath.Dir(dir)
	}
}
