package hume

import "github.com/pitchcoach-labs/pitchcoach/backend/internal/core/domain"

// inferenceRequest is the "json" part of the job submission form.
type inferenceRequest struct {
	Models modelConfig `json:"models"`
}

type modelConfig struct {
	Prosody  *prosodyConfig  `json:"prosody,omitempty"`
	Language *languageConfig `json:"language,omitempty"`
}

type prosodyConfig struct{}

type languageConfig struct {
	Granularity string `json:"granularity,omitempty"`
}

type startJobResponse struct {
	JobID string `json:"job_id"`
}

type jobDetailsResponse struct {
	State jobState `json:"state"`
}

type jobState struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Wire types for the predictions payload, one per nesting level of the
// provider response.

type sourceResultWire struct {
	Results inferenceResultsWire `json:"results"`
}

type inferenceResultsWire struct {
	Predictions []filePredictionWire `json:"predictions"`
	Errors      []jobErrorWire       `json:"errors"`
}

type jobErrorWire struct {
	Message string `json:"message"`
}

type filePredictionWire struct {
	File   string               `json:"file"`
	Models modelPredictionsWire `json:"models"`
}

type modelPredictionsWire struct {
	Prosody  *prosodyPredictionWire  `json:"prosody"`
	Language *languagePredictionWire `json:"language"`
}

type prosodyPredictionWire struct {
	GroupedPredictions []groupedPredictionWire `json:"grouped_predictions"`
}

type languagePredictionWire struct {
	Metadata *languageMetadataWire `json:"metadata"`
}

type languageMetadataWire struct {
	DetectedLanguage string `json:"detected_language"`
}

type groupedPredictionWire struct {
	ID          string               `json:"id"`
	Predictions []leafPredictionWire `json:"predictions"`
}

type leafPredictionWire struct {
	Text       string             `json:"text"`
	Time       timeWire           `json:"time"`
	Confidence *float64           `json:"confidence"`
	Emotions   []emotionScoreWire `json:"emotions"`
}

type timeWire struct {
	Begin float64 `json:"begin"`
	End   float64 `json:"end"`
}

type emotionScoreWire struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// mapPredictionsToDomain converts the wire tree into the domain tree the
// aggregator walks.
func mapPredictionsToDomain(sources []sourceResultWire) domain.RawPredictions {
	out := domain.RawPredictions{Sources: make([]domain.SourceResult, 0, len(sources))}
	for _, src := range sources {
		mapped := domain.SourceResult{
			Results: domain.InferenceResults{
				Predictions: make([]domain.FilePrediction, 0, len(src.Results.Predictions)),
			},
		}
		for _, jobErr := range src.Results.Errors {
			mapped.Results.Errors = append(mapped.Results.Errors, jobErr.Message)
		}
		for _, fp := range src.Results.Predictions {
			mapped.Results.Predictions = append(mapped.Results.Predictions, domain.FilePrediction{
				File:   fp.File,
				Models: mapModels(fp.Models),
			})
		}
		out.Sources = append(out.Sources, mapped)
	}
	return out
}

func mapModels(models modelPredictionsWire) domain.ModelPredictions {
	var out domain.ModelPredictions

	if models.Prosody != nil {
		prosody := &domain.ProsodyPrediction{
			GroupedPredictions: make([]domain.GroupedPrediction, 0, len(models.Prosody.GroupedPredictions)),
		}
		for _, group := range models.Prosody.GroupedPredictions {
			mapped := domain.GroupedPrediction{
				ID:          group.ID,
				Predictions: make([]domain.LeafPrediction, 0, len(group.Predictions)),
			}
			for _, leaf := range group.Predictions {
				mapped.Predictions = append(mapped.Predictions, domain.LeafPrediction{
					Text:       leaf.Text,
					Time:       domain.TimeSpan{Begin: leaf.Time.Begin, End: leaf.Time.End},
					Confidence: leaf.Confidence,
					Emotions:   mapEmotions(leaf.Emotions),
				})
			}
			prosody.GroupedPredictions = append(prosody.GroupedPredictions, mapped)
		}
		out.Prosody = prosody
	}

	if models.Language != nil {
		language := &domain.LanguagePrediction{}
		if models.Language.Metadata != nil {
			language.Metadata = &domain.LanguageMetadata{
				DetectedLanguage: models.Language.Metadata.DetectedLanguage,
			}
		}
		out.Language = language
	}

	return out
}

func mapEmotions(emotions []emotionScoreWire) []domain.EmotionScore {
	out := make([]domain.EmotionScore, 0, len(emotions))
	for _, emo := range emotions {
		out = append(out, domain.EmotionScore{Name: emo.Name, Score: emo.Score})
	}
	return out
}
