package apihandlers

import (
	"net/http"

	"github.com/budgetbot/budget/pkg/models"
	"github.com/budgetbot/budget/pkg/server/handlertools"
	"github.com/go-chi/chi/v5"
)

// intentBody is the PUT payload. The edited tag comes from the path; a
// different Tag renames the intent in place.
type intentBody struct {
	Tag       string   `json:"tag,omitempty"`
	Patterns  []string `json:"patterns"`
	Responses []string `json:"responses"`
}

// ListIntentsHandler godoc
//
//	@Summary		List intents
//	@Tags			intents
//	@Produce		json
//	@Success		200	{array}		models.Intent
//	@Failure		500	{object}	APIError	"Internal Server Error"
//	@Router			/api/v1/intents [get]
func ListIntentsHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		intents, err := appState.Editor.List(r.Context())
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := handlertools.EncodeJSON(w, intents); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// CreateIntentHandler godoc
//
//	@Summary		Add or replace an intent
//	@Description	trims every line and drops blank ones; retrains when auto retrain is on
//	@Tags			intents
//	@Accept			json
//	@Produce		json
//	@Param			intent	body		models.UpsertIntentRequest	true	"Intent"
//	@Success		200		{object}	models.MutationResult
//	@Failure		400		{object}	APIError	"Bad Request"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Router			/api/v1/intents [post]
func CreateIntentHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.UpsertIntentRequest
		if err := handlertools.DecodeJSON(r, &req); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		upsertIntent(w, r, appState, &req)
	}
}

// PutIntentHandler godoc
//
//	@Summary		Add, replace or rename the intent with the given tag
//	@Description	a body tag different from the path tag renames the intent
//	@Tags			intents
//	@Accept			json
//	@Produce		json
//	@Param			tag		path		string		true	"Intent tag"
//	@Param			intent	body		intentBody	true	"Patterns and responses"
//	@Success		200		{object}	models.MutationResult
//	@Failure		400		{object}	APIError	"Bad Request"
//	@Failure		404		{object}	APIError	"Renamed intent not found"
//	@Failure		409		{object}	APIError	"New tag already in use"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Router			/api/v1/intents/{tag} [put]
func PutIntentHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body intentBody
		if err := handlertools.DecodeJSON(r, &body); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		tag := chi.URLParam(r, "tag")
		req := &models.UpsertIntentRequest{
			Tag:         tag,
			Patterns:    body.Patterns,
			Responses:   body.Responses,
			OriginalTag: tag,
		}
		if body.Tag != "" {
			req.Tag = body.Tag
		}

		upsertIntent(w, r, appState, req)
	}
}

func upsertIntent(
	w http.ResponseWriter,
	r *http.Request,
	appState *models.AppState,
	req *models.UpsertIntentRequest,
) {
	if err := handlertools.Validate(req); err != nil {
		handlertools.RenderError(w, err, http.StatusBadRequest)
		return
	}

	result, err := appState.Editor.Upsert(r.Context(), req)
	if err != nil {
		handlertools.RenderError(w, err, http.StatusInternalServerError)
		return
	}

	if err := handlertools.EncodeJSON(w, result); err != nil {
		handlertools.RenderError(w, err, http.StatusInternalServerError)
		return
	}
}

// DeleteIntentHandler godoc
//
//	@Summary		Delete an intent
//	@Description	deleting an unknown tag is a no-op
//	@Tags			intents
//	@Produce		json
//	@Param			tag	path		string	true	"Intent tag"
//	@Success		200	{object}	models.MutationResult
//	@Failure		500	{object}	APIError	"Internal Server Error"
//	@Router			/api/v1/intents/{tag} [delete]
func DeleteIntentHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := appState.Editor.Delete(r.Context(), chi.URLParam(r, "tag"))
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := handlertools.EncodeJSON(w, result); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// TrainHandler godoc
//
//	@Summary		Retrain and reload the model
//	@Tags			intents
//	@Produce		json
//	@Success		200	{object}	models.TrainingResult
//	@Failure		409	{object}	APIError	"Training already in progress"
//	@Failure		422	{object}	APIError	"Corpus cannot be trained"
//	@Failure		500	{object}	APIError	"Internal Server Error"
//	@Router			/api/v1/train [post]
func TrainHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := appState.Editor.Retrain(r.Context())
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := handlertools.EncodeJSON(w, result); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}
