package models

// Intent is one entry of the corpus: a unique tag, the example sentences the
// classifier learns from and the canned replies served for it.
type Intent struct {
	Tag       string   `json:"tag"       yaml:"tag"       validate:"required"`
	Patterns  []string `json:"patterns"  yaml:"patterns"`
	Responses []string `json:"responses" yaml:"responses"`
}

// IntentDocument is the persisted form of the corpus.
type IntentDocument struct {
	Intents []Intent `json:"intents" yaml:"intents"`
}

// FindIntent returns the first intent with the given tag.
func FindIntent(intents []Intent, tag string) (Intent, bool) {
	for _, intent := range intents {
		if intent.Tag == tag {
			return intent, true
		}
	}
	return Intent{}, false
}

// UpsertIntentRequest is the editor payload. OriginalTag names the intent
// being edited when it is renamed to Tag; it comes from the URL on
// PUT /api/v1/intents/{tag}.
type UpsertIntentRequest struct {
	Tag         string   `json:"tag"       validate:"required"`
	Patterns    []string `json:"patterns"`
	Responses   []string `json:"responses"`
	OriginalTag string   `json:"-"`
}
