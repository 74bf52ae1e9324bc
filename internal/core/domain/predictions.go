package domain

// RawPredictions is the provider's nested prediction tree, already decoded
// into explicit records (one type per nesting level) so the aggregator never
// probes loosely-typed maps.
type RawPredictions struct {
	Sources []SourceResult `json:"sources"`
}

// SourceResult is the top level of the tree: one submitted media source.
type SourceResult struct {
	Results InferenceResults `json:"results"`
}

// InferenceResults holds per-file predictions plus any provider-side errors.
type InferenceResults struct {
	Predictions []FilePrediction `json:"predictions"`
	Errors      []string         `json:"errors,omitempty"`
}

// FilePrediction is the output for a single analyzed file.
type FilePrediction struct {
	File   string           `json:"file"`
	Models ModelPredictions `json:"models"`
}

// ModelPredictions groups the outputs of each requested sub-model.
// Either model may be absent depending on the submitted configuration.
type ModelPredictions struct {
	Prosody  *ProsodyPrediction  `json:"prosody,omitempty"`
	Language *LanguagePrediction `json:"language,omitempty"`
}

// ProsodyPrediction carries the speech-expression segments.
type ProsodyPrediction struct {
	GroupedPredictions []GroupedPrediction `json:"grouped_predictions"`
}

// LanguagePrediction carries transcription-model output; only its metadata
// is consumed here.
type LanguagePrediction struct {
	Metadata *LanguageMetadata `json:"metadata,omitempty"`
}

// LanguageMetadata holds file-level transcription metadata.
type LanguageMetadata struct {
	DetectedLanguage string `json:"detected_language"`
}

// GroupedPrediction is one group of leaf predictions (the provider groups
// by detected speaker/track).
type GroupedPrediction struct {
	ID          string           `json:"id"`
	Predictions []LeafPrediction `json:"predictions"`
}

// LeafPrediction is one raw segment: its time span, emotion list and, when
// the provider produced them, transcribed text and confidence.
type LeafPrediction struct {
	Text       string         `json:"text,omitempty"`
	Time       TimeSpan       `json:"time"`
	Confidence *float64       `json:"confidence,omitempty"`
	Emotions   []EmotionScore `json:"emotions"`
}

// Empty reports whether the tree contains no leaf predictions at all.
func (r RawPredictions) Empty() bool {
	for _, src := range r.Sources {
		for _, fp := range src.Results.Predictions {
			if fp.Models.Prosody == nil {
				continue
			}
			for _, group := range fp.Models.Prosody.GroupedPredictions {
				if len(group.Predictions) > 0 {
					return false
				}
			}
		}
	}
	return true
}
