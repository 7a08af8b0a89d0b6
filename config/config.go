package config

import (
	"errors"
	"strings"

	"github.com/budgetbot/budget/internal"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var log = internal.GetLogger()

const envPrefix = "BUDGET"

// LoadConfig loads the config file, .env and BUDGET_* environment variables
// into a Config struct. A missing config file is not an error: the defaults
// are enough to run locally.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, err
		}
		log.Debug("no config file found, using defaults")
	}

	// Environment variables take precedence over config file
	loadDotEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5120)
	v.SetDefault("log.level", "info")
	v.SetDefault("store.intents_path", "data/intents.json")
	v.SetDefault("model.artifact_path", "data/model/chatbrain.json")
	v.SetDefault("nlp.stopwords_path", "")
	v.SetDefault("editor.auto_retrain", true)
	v.SetDefault("editor.reload_url", "http://127.0.0.1:5120")
	// Hyperparameters are left unset so the trainer defaults apply; the
	// keys are still registered so BUDGET_MODEL_* env overrides unmarshal.
	v.SetDefault("model.epochs", 0)
	v.SetDefault("model.batch_size", 0)
	v.SetDefault("model.learning_rate", 0.0)
	v.SetDefault("model.dropout", 0.0)
	v.SetDefault("model.seed", 0)
}

// loadDotEnv loads environment variables from .env file
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Debug(".env file not found or unable to load")
	}
}

// SetLogLevel sets the log level based on the config file. Defaults to INFO if not set or invalid
func SetLogLevel(cfg *Config) {
	level := internal.ParseLogLevel(cfg.Log.Level)
	internal.SetLogLevel(level)
	log.Debug("Log level set to: ", level)
}
