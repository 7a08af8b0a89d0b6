package cmd

import (
	"github.com/budgetbot/budget/config"
	"github.com/budgetbot/budget/pkg/editor"
	"github.com/budgetbot/budget/pkg/intentstore"
	"github.com/budgetbot/budget/pkg/models"
	"github.com/budgetbot/budget/pkg/trainer"
	"github.com/spf13/cobra"
)

var (
	intentPatterns  []string
	intentResponses []string
	intentRename    string
)

var intentsCmd = &cobra.Command{
	Use:   "intents",
	Short: "Inspect and edit the intent corpus",
}

var intentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the intent corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		intents, err := intentstore.NewStore(cfg.Store.IntentsPath).Load()
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), intents)
	},
}

var intentsUpsertCmd = &cobra.Command{
	Use:     "upsert TAG",
	Short:   "Add or replace an intent",
	Example: `budget intents upsert tva -p "taux de TVA" -p "calculer la TVA" -r "La TVA est..."
budget intents upsert tva --rename taxe -p "taux de TVA" -r "La TVA est..."`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := newCLIEditor()
		if err != nil {
			return err
		}
		req := &models.UpsertIntentRequest{
			Tag:         args[0],
			Patterns:    intentPatterns,
			Responses:   intentResponses,
			OriginalTag: args[0],
		}
		if intentRename != "" {
			req.Tag = intentRename
		}
		result, err := ed.Upsert(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printMutation(cmd, result)
	},
}

var intentsDeleteCmd = &cobra.Command{
	Use:   "delete TAG",
	Short: "Delete an intent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := newCLIEditor()
		if err != nil {
			return err
		}
		result, err := ed.Delete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printMutation(cmd, result)
	},
}

var intentsImportCmd = &cobra.Command{
	Use:     "import FILE",
	Short:   "Replace the corpus with a .json, .yaml or .yml document",
	Example: "budget intents import corpus.yaml",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		intents, err := intentstore.NewStore(cfg.Store.IntentsPath).Import(args[0])
		if err != nil {
			return err
		}
		log.Info("corpus replaced, run `budget train --reload` to update the model")
		return printJSON(cmd.OutOrStdout(), intents)
	},
}

func init() {
	intentsCmd.AddCommand(intentsListCmd)
	intentsCmd.AddCommand(intentsUpsertCmd)
	intentsCmd.AddCommand(intentsDeleteCmd)
	intentsCmd.AddCommand(intentsImportCmd)

	intentsUpsertCmd.Flags().
		StringArrayVarP(&intentPatterns, "pattern", "p", nil, "example sentence (repeatable)")
	intentsUpsertCmd.Flags().
		StringArrayVarP(&intentResponses, "response", "r", nil, "reply (repeatable)")
	intentsUpsertCmd.Flags().
		StringVar(&intentRename, "rename", "", "new tag for the edited intent")
}

// newCLIEditor builds an editor that trains locally and asks the running
// server at editor.reload_url to reload. An empty URL skips the server.
func newCLIEditor() (*editor.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newEditor(cfg)
}

func newEditor(cfg *config.Config) (*editor.Service, error) {
	normalizer, err := newNormalizer(cfg)
	if err != nil {
		return nil, err
	}
	store := intentstore.NewStore(cfg.Store.IntentsPath)
	var reloader models.Reloader
	if cfg.Editor.ReloadURL != "" {
		reloader = newReloadClient(cfg.Editor.ReloadURL)
	}
	return editor.NewService(
		store,
		trainer.NewTrainer(cfg, store, normalizer),
		reloader,
		cfg.Editor.AutoRetrain,
	), nil
}

func printMutation(cmd *cobra.Command, result *models.MutationResult) error {
	if result.Warning != "" {
		log.Warn(result.Warning)
	}
	return printJSON(cmd.OutOrStdout(), result)
}
