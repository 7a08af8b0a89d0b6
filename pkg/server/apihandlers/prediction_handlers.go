package apihandlers

import (
	"net/http"

	"github.com/budgetbot/budget/internal"
	"github.com/budgetbot/budget/pkg/models"
	"github.com/budgetbot/budget/pkg/server/handlertools"
)

var log = internal.GetLogger()

const (
	reloadOKMessage    = "Modèle et ressources rechargés avec succès !"
	reloadErrorMessage = "Échec lors du chargement du modèle"
)

// HealthHandler godoc
//
//	@Summary		Service health
//	@Description	reports whether a model is loaded; always answers 200
//	@Tags			chatbot
//	@Produce		json
//	@Success		200	{object}	models.HealthStatus
//	@Router			/health [get]
func HealthHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := handlertools.EncodeJSON(w, appState.Predictor.Health()); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// ProcessPredictionHandler godoc
//
//	@Summary		Answer a user message
//	@Description	classifies the text and returns the reply for the detected intent
//	@Tags			chatbot
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.PredictionRequest	true	"User message"
//	@Success		200		{object}	models.Prediction
//	@Failure		400		{object}	APIError	"Bad Request"
//	@Failure		503		{object}	APIError	"Model not loaded"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Router			/process_prediction [post]
func ProcessPredictionHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.PredictionRequest
		if err := handlertools.DecodeJSON(r, &req); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		if err := handlertools.Validate(&req); err != nil {
			handlertools.RenderError(
				w,
				models.NewInvalidRequestError("missing 'text' parameter"),
				http.StatusBadRequest,
			)
			return
		}

		prediction, err := appState.Predictor.Predict(r.Context(), req.Text)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := handlertools.EncodeJSON(w, prediction); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// ReloadModelHandler godoc
//
//	@Summary		Reload the model
//	@Description	loads the latest artifact and corpus; the current model keeps serving on failure
//	@Tags			chatbot
//	@Produce		json
//	@Success		200	{object}	models.ReloadResult
//	@Failure		500	{object}	models.ReloadResult
//	@Router			/reload_model [post]
func ReloadModelHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := appState.Predictor.Reload(r.Context()); err != nil {
			log.Errorf("reload_model failed: %v", err)
			_ = handlertools.EncodeJSONStatus(w, http.StatusInternalServerError, models.ReloadResult{
				Status:  models.ReloadStatusError,
				Message: reloadErrorMessage,
			})
			return
		}

		_ = handlertools.EncodeJSON(w, models.ReloadResult{
			Status:  models.ReloadStatusOK,
			Message: reloadOKMessage,
		})
	}
}
