package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/budgetbot/budget/config"
	"github.com/budgetbot/budget/pkg/editor"
	"github.com/budgetbot/budget/pkg/intentstore"
	"github.com/budgetbot/budget/pkg/models"
	"github.com/budgetbot/budget/pkg/nlp"
	"github.com/budgetbot/budget/pkg/predictor"
	"github.com/budgetbot/budget/pkg/responder"
	"github.com/budgetbot/budget/pkg/server"
	"github.com/budgetbot/budget/pkg/trainer"
)

const shutdownTimeout = 30 * time.Second

// run is the entrypoint for the budget server
func run() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	handleCLIOptions(cfg)

	log.Infof("Starting budget server version %s", config.VersionString)

	appState, err := NewAppState(cfg)
	if err != nil {
		log.Fatal(err)
	}

	srv := server.Create(appState)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Listening on: %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Error during shutdown: %v", err)
		}
	}
}

// NewAppState wires the prediction service and the corpus editor from the
// config and loads the current model. A missing or broken model is not
// fatal: the server starts Unready and a later reload can recover.
func NewAppState(cfg *config.Config) (*models.AppState, error) {
	normalizer, err := newNormalizer(cfg)
	if err != nil {
		return nil, err
	}

	store := intentstore.NewStore(cfg.Store.IntentsPath)
	svc := predictor.NewService(
		cfg,
		store,
		normalizer,
		responder.NewSelector(rand.NewSource(time.Now().UnixNano())),
	)
	ed := editor.NewService(
		store,
		trainer.NewTrainer(cfg, store, normalizer),
		svc,
		cfg.Editor.AutoRetrain,
	)

	if err := svc.Reload(context.Background()); err != nil {
		log.Warnf("starting without a model, train one and call /reload_model: %v", err)
	}

	return &models.AppState{
		Config:    cfg,
		Predictor: svc,
		Editor:    ed,
	}, nil
}

func newNormalizer(cfg *config.Config) (*nlp.Normalizer, error) {
	if cfg.NLP.StopwordsPath == "" {
		return nlp.NewNormalizer(nil, nil), nil
	}
	stopwords, err := nlp.LoadStopwords(cfg.NLP.StopwordsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load stopwords: %w", err)
	}
	log.Infof("Using %d stopwords from %s", stopwords.Len(), cfg.NLP.StopwordsPath)
	return nlp.NewNormalizer(stopwords, nil), nil
}

// handleCLIOptions handles CLI options that don't require the server to run
func handleCLIOptions(cfg *config.Config) {
	if showVersion {
		fmt.Println(config.VersionString)
		os.Exit(0)
	}
	if dumpConfig {
		if err := printJSON(os.Stdout, cfg); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}
}
