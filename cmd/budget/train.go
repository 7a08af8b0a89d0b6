package cmd

import (
	"errors"
	"fmt"

	"github.com/budgetbot/budget/pkg/client"
	"github.com/budgetbot/budget/pkg/intentstore"
	"github.com/budgetbot/budget/pkg/models"
	"github.com/budgetbot/budget/pkg/trainer"
	"github.com/spf13/cobra"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a model on the intent corpus and save the artifact",
	Example: "budget train\n" +
		"budget train --reload",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		normalizer, err := newNormalizer(cfg)
		if err != nil {
			return err
		}

		store := intentstore.NewStore(cfg.Store.IntentsPath)
		a, err := trainer.NewTrainer(cfg, store, normalizer).Retrain(cmd.Context())
		if err != nil {
			return err
		}

		result := &models.TrainingResult{
			Status:     models.ReloadStatusOK,
			Message:    "model trained",
			ArtifactID: a.ID.String(),
			Samples:    a.Stats.Samples,
			Labels:     a.Labels,
			Loss:       a.Stats.Loss,
			Accuracy:   a.Stats.Accuracy,
		}

		if reloadAfter {
			if cfg.Editor.ReloadURL == "" {
				return errors.New("model saved but editor.reload_url is not set, cannot reload")
			}
			if err := newReloadClient(cfg.Editor.ReloadURL).Reload(cmd.Context()); err != nil {
				return fmt.Errorf("model saved but reload failed: %w", err)
			}
			result.Message = "model trained and reloaded"
		}

		return printJSON(cmd.OutOrStdout(), result)
	},
}

func newReloadClient(baseURL string) *client.ReloadClient {
	return client.NewReloadClient(baseURL, client.DefaultRetryMax, client.DefaultTimeout)
}
