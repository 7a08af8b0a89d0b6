package models

import "time"

// Token is the normalizer's view of one unit of text, independent of the
// tokenizer and lemmatizer behind it.
type Token struct {
	Text    string
	Lemma   string
	IsSpace bool
	IsPunct bool
	IsStop  bool
}

// Allowed reports whether the token survives normalization.
func (t Token) Allowed() bool {
	return t.Text != "" && !t.IsSpace && !t.IsPunct && !t.IsStop
}

type PredictionRequest struct {
	Text string `json:"text" validate:"required"`
}

// Prediction is the chatbot reply. Tag is nil when the confidence gate
// rejected the classifier output.
type Prediction struct {
	Tag        *string `json:"tag"`
	Response   string  `json:"response"`
	Confidence float64 `json:"confidence"`
}

type ServiceState string

const (
	StateReady   ServiceState = "OK"
	StateUnready ServiceState = "UNREADY"
)

type HealthStatus struct {
	Status    ServiceState `json:"status"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
}

const (
	ReloadStatusOK    = "ok"
	ReloadStatusError = "error"
)

type ReloadResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// TrainingResult summarizes a retrain run.
type TrainingResult struct {
	Status     string   `json:"status"`
	Message    string   `json:"message"`
	ArtifactID string   `json:"artifact_id,omitempty"`
	Samples    int      `json:"samples"`
	Labels     []string `json:"labels,omitempty"`
	Loss       float64  `json:"loss"`
	Accuracy   float64  `json:"accuracy"`
}

// MutationResult is returned by editor writes. Warning carries a failed
// automatic retrain; the edit itself is already persisted.
type MutationResult struct {
	Intents  []Intent        `json:"intents"`
	Training *TrainingResult `json:"training,omitempty"`
	Warning  string          `json:"warning,omitempty"`
}

// APIError represents an error response.
type APIError struct {
	Message string `json:"message"`
}
