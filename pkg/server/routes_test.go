package server

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/budgetbot/budget/config"
	"github.com/budgetbot/budget/pkg/editor"
	"github.com/budgetbot/budget/pkg/intentstore"
	"github.com/budgetbot/budget/pkg/models"
	"github.com/budgetbot/budget/pkg/nlp"
	"github.com/budgetbot/budget/pkg/predictor"
	"github.com/budgetbot/budget/pkg/responder"
	"github.com/budgetbot/budget/pkg/testutils"
	"github.com/budgetbot/budget/pkg/trainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var normalizer = nlp.NewNormalizer(nil, nil)

func newTestAppState(t *testing.T, autoRetrain bool) *models.AppState {
	t.Helper()

	cfg := testutils.NewTestConfig(t)
	cfg.Editor.AutoRetrain = autoRetrain
	testutils.WriteIntents(t, cfg, testutils.TestIntents())

	store := intentstore.NewStore(cfg.Store.IntentsPath)
	svc := predictor.NewService(cfg, store, normalizer, responder.NewSelector(rand.NewSource(1)))
	ed := editor.NewService(store, trainer.NewTrainer(cfg, store, normalizer), svc, cfg.Editor.AutoRetrain)

	return &models.AppState{Config: cfg, Predictor: svc, Editor: ed}
}

func newTrainedAppState(t *testing.T) *models.AppState {
	t.Helper()

	appState := newTestAppState(t, false)
	_, err := appState.Editor.Retrain(context.Background())
	require.NoError(t, err)
	return appState
}

func do(t *testing.T, appState *models.AppState, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	setupRouter(appState).ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestHealth_AlwaysOK(t *testing.T) {
	appState := newTestAppState(t, false)

	rr := do(t, appState, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.StateUnready, decode[models.HealthStatus](t, rr).Status)

	_, err := appState.Editor.Retrain(context.Background())
	require.NoError(t, err)

	rr = do(t, appState, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	health := decode[models.HealthStatus](t, rr)
	assert.Equal(t, models.StateReady, health.Status)
	assert.Equal(t, "Service operational", health.Message)
	assert.False(t, health.Timestamp.IsZero())
}

func TestProcessPrediction_Greeting(t *testing.T) {
	appState := newTrainedAppState(t)

	rr := do(t, appState, http.MethodPost, "/process_prediction", `{"text":"bonjour"}`)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	p := decode[models.Prediction](t, rr)
	require.NotNil(t, p.Tag)
	assert.Equal(t, "greeting", *p.Tag)
	assert.Greater(t, p.Confidence, 0.6)
}

func TestProcessPrediction_NullTagOnFallback(t *testing.T) {
	appState := newTrainedAppState(t)
	_, err := appState.Editor.Delete(context.Background(), "greeting")
	require.NoError(t, err)

	rr := do(t, appState, http.MethodPost, "/process_prediction", `{"text":"bonjour"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	assert.Contains(t, raw, "tag")
	assert.Nil(t, raw["tag"])
	assert.Equal(t, responder.FallbackResponse, raw["response"])
}

func TestProcessPrediction_BadRequests(t *testing.T) {
	appState := newTrainedAppState(t)

	for _, body := range []string{`{}`, `{"text":""}`, `{"text":`, `not json`} {
		rr := do(t, appState, http.MethodPost, "/process_prediction", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.NotEmpty(t, decode[models.APIError](t, rr).Message)
	}

	rr := do(t, appState, http.MethodPost, "/process_prediction", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProcessPrediction_Unready(t *testing.T) {
	appState := newTestAppState(t, false)

	rr := do(t, appState, http.MethodPost, "/process_prediction", `{"text":"bonjour"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestReloadModel(t *testing.T) {
	appState := newTestAppState(t, false)

	rr := do(t, appState, http.MethodPost, "/reload_model", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, models.ReloadStatusError, decode[models.ReloadResult](t, rr).Status)

	_, err := appState.Editor.Retrain(context.Background())
	require.NoError(t, err)

	rr = do(t, appState, http.MethodPost, "/reload_model", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	result := decode[models.ReloadResult](t, rr)
	assert.Equal(t, models.ReloadStatusOK, result.Status)
	assert.NotEmpty(t, result.Message)
}

func TestIntentsCRUD(t *testing.T) {
	appState := newTestAppState(t, false)

	rr := do(t, appState, http.MethodGet, "/api/v1/intents", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]models.Intent](t, rr), 3)

	rr = do(t, appState, http.MethodPost, "/api/v1/intents",
		`{"tag":"facture","patterns":["mentions d'une facture"," "],"responses":["Date, numéro..."]}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	result := decode[models.MutationResult](t, rr)
	require.Len(t, result.Intents, 4)
	assert.Equal(t, []string{"mentions d'une facture"}, result.Intents[3].Patterns)

	rr = do(t, appState, http.MethodPut, "/api/v1/intents/facture",
		`{"patterns":["numéro de facture"],"responses":["Unique et chronologique."]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	result = decode[models.MutationResult](t, rr)
	assert.Equal(t, []string{"numéro de facture"}, result.Intents[3].Patterns)

	rr = do(t, appState, http.MethodDelete, "/api/v1/intents/facture", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[models.MutationResult](t, rr).Intents, 3)

	rr = do(t, appState, http.MethodPost, "/api/v1/intents", `{"patterns":["x"]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestIntents_RenameInPlace(t *testing.T) {
	appState := newTestAppState(t, false)

	rr := do(t, appState, http.MethodPut, "/api/v1/intents/tva",
		`{"tag":"taxe","patterns":["taux de TVA"],"responses":["La TVA est un impôt indirect."]}`)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	result := decode[models.MutationResult](t, rr)
	require.Len(t, result.Intents, 3)
	assert.Equal(t, "taxe", result.Intents[1].Tag)
	assert.Equal(t, []string{"taux de TVA"}, result.Intents[1].Patterns)

	rr = do(t, appState, http.MethodPut, "/api/v1/intents/taxe",
		`{"tag":"bilan","patterns":["x"],"responses":["y"]}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, appState, http.MethodPut, "/api/v1/intents/inconnu",
		`{"tag":"autre","patterns":["x"],"responses":["y"]}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, appState, http.MethodGet, "/api/v1/intents", "")
	tags := []string{}
	for _, intent := range decode[[]models.Intent](t, rr) {
		tags = append(tags, intent.Tag)
	}
	assert.Equal(t, []string{"greeting", "taxe", "bilan"}, tags)
}

func TestIntents_AutoRetrain(t *testing.T) {
	appState := newTestAppState(t, true)

	rr := do(t, appState, http.MethodPut, "/api/v1/intents/facture",
		`{"patterns":["mentions obligatoires d'une facture","numéro de facture"],"responses":["Date, numéro..."]}`)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	result := decode[models.MutationResult](t, rr)
	require.NotNil(t, result.Training)
	assert.Contains(t, result.Training.Labels, "facture")
	assert.Equal(t, models.StateReady, appState.Predictor.Health().Status)
}

func TestTrain(t *testing.T) {
	appState := newTestAppState(t, false)

	rr := do(t, appState, http.MethodPost, "/api/v1/train", "")

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	result := decode[models.TrainingResult](t, rr)
	assert.Equal(t, models.ReloadStatusOK, result.Status)
	assert.NotEmpty(t, result.ArtifactID)
	assert.Equal(t, []string{"bilan", "greeting", "tva"}, result.Labels)
}

func TestTrain_UntrainableCorpus(t *testing.T) {
	appState := newTestAppState(t, false)
	testutils.WriteIntents(t, appState.Config, testutils.TestIntents()[:1])

	rr := do(t, appState, http.MethodPost, "/api/v1/train", "")

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestHeartbeat(t *testing.T) {
	rr := do(t, newTestAppState(t, false), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSendVersion(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	handler := SendVersion(nextHandler)

	req, err := http.NewRequest("GET", "/", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Header().Get(versionHeader) != config.VersionString {
		t.Errorf("handler returned wrong version header: got %v want %v",
			rr.Header().Get(versionHeader), config.VersionString)
	}
}

func TestCreate_Address(t *testing.T) {
	appState := newTestAppState(t, false)
	appState.Config.Server = config.ServerConfig{Host: "127.0.0.1", Port: 5120}

	srv := Create(appState)

	assert.Equal(t, "127.0.0.1:5120", srv.Addr)
	assert.NotNil(t, srv.Handler)
}
