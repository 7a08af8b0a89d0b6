package config

// Config holds the configuration of the application.
// Use LoadConfig to create a new instance.
type Config struct {
	Server ServerConfig `mapstructure:"server" json:"server"`
	Log    LogConfig    `mapstructure:"log"    json:"log"`
	Store  StoreConfig  `mapstructure:"store"  json:"store"`
	Model  ModelConfig  `mapstructure:"model"  json:"model"`
	NLP    NLPConfig    `mapstructure:"nlp"    json:"nlp"`
	Editor EditorConfig `mapstructure:"editor" json:"editor"`
}

type ServerConfig struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
}

// StoreConfig locates the intent corpus document.
type StoreConfig struct {
	IntentsPath string `mapstructure:"intents_path" json:"intents_path"`
}

// ModelConfig locates the trained artifact and carries the training
// hyperparameters. Zero values fall back to the trainer defaults.
type ModelConfig struct {
	ArtifactPath string  `mapstructure:"artifact_path" json:"artifact_path"`
	Epochs       int     `mapstructure:"epochs"        json:"epochs,omitempty"`
	BatchSize    int     `mapstructure:"batch_size"    json:"batch_size,omitempty"`
	LearningRate float64 `mapstructure:"learning_rate" json:"learning_rate,omitempty"`
	HiddenUnits  []int   `mapstructure:"hidden_units"  json:"hidden_units,omitempty"`
	Dropout      float64 `mapstructure:"dropout"       json:"dropout,omitempty"`
	// Seed makes training reproducible when non-zero.
	Seed int64 `mapstructure:"seed" json:"seed,omitempty"`
}

type NLPConfig struct {
	// StopwordsPath replaces the built-in French stopword list when set.
	StopwordsPath string `mapstructure:"stopwords_path" json:"stopwords_path,omitempty"`
}

type EditorConfig struct {
	// AutoRetrain retrains and reloads the model after every corpus edit.
	AutoRetrain bool `mapstructure:"auto_retrain" json:"auto_retrain"`
	// ReloadURL is the base URL of a running server, used by CLI commands
	// to call reload_model after training or editing. Empty disables the
	// call from CLI edits.
	ReloadURL string `mapstructure:"reload_url" json:"reload_url"`
}
