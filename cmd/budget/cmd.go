package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/budgetbot/budget/config"
	"github.com/budgetbot/budget/internal"
	"github.com/sirupsen/logrus"

	"github.com/spf13/cobra"
)

var (
	log = internal.GetLogger()

	cfgFile     string
	showVersion bool
	dumpConfig  bool
	reloadAfter bool
)

var cmd = &cobra.Command{
	Use:   "budget",
	Short: "budget answers French accounting questions from a trained intent classifier",
	Run:   func(cmd *cobra.Command, args []string) { run() },
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chatbot HTTP server (default)",
	Run:   func(cmd *cobra.Command, args []string) { run() },
}

var dumpJsonSchemaCmd = &cobra.Command{
	Use:     "json-schema",
	Short:   "Generates JSON Schema for budget's configuration file",
	Example: "budget json-schema > budget_config_schema.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := config.JSONSchema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(schema))
		return nil
	},
}

func init() {
	cmd.AddCommand(serveCmd)
	cmd.AddCommand(trainCmd)
	cmd.AddCommand(intentsCmd)
	cmd.AddCommand(dumpJsonSchemaCmd)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default config.yaml)")
	cmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "print version number")
	cmd.PersistentFlags().BoolVarP(&dumpConfig, "dump-config", "d", false, "dump config")

	trainCmd.Flags().
		BoolVar(&reloadAfter, "reload", false, "ask the running server to reload the new model")
}

// Execute executes the root cobra command.
func Execute() {
	log.SetLevel(logrus.InfoLevel)

	err := cmd.Execute()

	if err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies its log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error configuring budget: %w", err)
	}
	config.SetLogLevel(cfg)
	return cfg, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}
