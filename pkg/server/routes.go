package server

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/budgetbot/budget/internal"
	"github.com/budgetbot/budget/pkg/models"
	"github.com/budgetbot/budget/pkg/server/apihandlers"

	httpLogger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

var log = internal.GetLogger()

const (
	ReadHeaderTimeout = 5 * time.Second
	ReadTimeout       = 15 * time.Second
	// WriteTimeout bounds the train endpoint, which trains synchronously.
	WriteTimeout   = 10 * time.Minute
	MaxRequestSize = 1 << 20
)

// Create creates a new HTTP server with the given app state
func Create(appState *models.AppState) *http.Server {
	addr := net.JoinHostPort(
		appState.Config.Server.Host,
		strconv.Itoa(appState.Config.Server.Port),
	)
	router := setupRouter(appState)
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
	}
}

// @title			Budget chatbot API
// @version		0.x
// @license.name	Apache 2.0
// @license.url	http://www.apache.org/licenses/LICENSE-2.0.html
// @schemes		http https
func setupRouter(appState *models.AppState) *chi.Mux {
	router := chi.NewRouter()
	router.Use(httpLogger.Logger("router", log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(SendVersion)
	router.Use(middleware.RequestSize(MaxRequestSize))
	router.Use(middleware.Heartbeat("/healthz"))

	router.Get("/health", apihandlers.HealthHandler(appState))
	router.Post("/process_prediction", apihandlers.ProcessPredictionHandler(appState))
	router.Post("/reload_model", apihandlers.ReloadModelHandler(appState))

	router.Route("/api/v1", func(r chi.Router) {
		// Corpus editor routes
		r.Route("/intents", func(r chi.Router) {
			r.Get("/", apihandlers.ListIntentsHandler(appState))
			r.Post("/", apihandlers.CreateIntentHandler(appState))
			r.Route("/{tag}", func(r chi.Router) {
				r.Put("/", apihandlers.PutIntentHandler(appState))
				r.Delete("/", apihandlers.DeleteIntentHandler(appState))
			})
		})
		r.Post("/train", apihandlers.TrainHandler(appState))
	})

	return router
}
