package handlertools

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/budgetbot/budget/internal"
	"github.com/budgetbot/budget/pkg/models"

	"github.com/go-playground/validator/v10"
)

var log = internal.GetLogger()

var validate = validator.New()

// EncodeJSON encodes data into JSON and writes it to the response writer.
func EncodeJSON(w http.ResponseWriter, data interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(data)
}

// EncodeJSONStatus writes data with the given status code.
func EncodeJSONStatus(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// DecodeJSON decodes a JSON request body into the provided data struct.
// Malformed bodies are reported as models.ErrInvalidRequest.
func DecodeJSON(r *http.Request, data interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(data); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return models.NewInvalidRequestError(fmt.Sprintf("malformed JSON body: %v", err))
	}
	return nil
}

// Validate checks the validate struct tags of data.
func Validate(data interface{}) error {
	if err := validate.Struct(data); err != nil {
		return models.NewInvalidRequestError(err.Error())
	}
	return nil
}

// StatusFromError maps the error taxonomy onto HTTP status codes. Errors
// outside the taxonomy get fallback.
func StatusFromError(err error, fallback int) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, models.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, models.ErrTrainingInProgress), errors.Is(err, models.ErrTagConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrTrainingFailure):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrPersistence), errors.Is(err, models.ErrShapeMismatch):
		return http.StatusInternalServerError
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	default:
		return fallback
	}
}

// RenderError maps err to a status code and writes it as a JSON APIError.
// Internal errors are logged and their details are not sent to the client.
func RenderError(w http.ResponseWriter, err error, fallback int) {
	status := StatusFromError(err, fallback)

	message := err.Error()
	switch {
	case errors.Is(err, models.ErrShapeMismatch):
		log.Errorf("model does not match its vocabulary, retrain required: %v", err)
		message = "internal server error"
	case status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable:
		log.Error(err)
		message = "internal server error"
	case status != http.StatusNotFound:
		log.Debug(err)
	}

	_ = EncodeJSONStatus(w, status, models.APIError{Message: message})
}
